// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition of pushing data.
//
// WARNING: This function always treats the passed script as valid, so a
// script that fails to parse is reported as not push only.
func IsPushOnlyScript(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// All opcodes up to OP_16 are data push instructions.
		// NOTE: This does consider OP_RESERVED to be a data push
		// instruction, but execution of OP_RESERVED will fail anyway
		// and matches the behavior required by consensus.
		if tokenizer.Opcode() > OP_16 {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// extractPubKey returns the serialized public key of a pay-to-pubkey script,
// which is of the form <pubkey> OP_CHECKSIG with a compressed or uncompressed
// key, or nil when the script is of another form.
func extractPubKey(script []byte) []byte {
	switch {
	case len(script) == 35 && script[0] == OP_DATA_33 &&
		script[34] == OP_CHECKSIG && (script[1] == 0x02 || script[1] == 0x03):
		return script[1:34]

	case len(script) == 67 && script[0] == OP_DATA_65 &&
		script[66] == OP_CHECKSIG && script[1] == 0x04:
		return script[1:66]
	}
	return nil
}

// IsPayToPubKeyScript returns whether the script is a pay-to-pubkey output
// script, which is spent by a signature alone.
func IsPayToPubKeyScript(script []byte) bool {
	return extractPubKey(script) != nil
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(script)
	if tokenizer.Next() {
		disasmOpcode(&disbuf, &opcodeArray[tokenizer.Opcode()],
			tokenizer.Data(), true)
	}
	for tokenizer.Next() {
		disbuf.WriteByte(' ')
		disasmOpcode(&disbuf, &opcodeArray[tokenizer.Opcode()],
			tokenizer.Data(), true)
	}
	if tokenizer.Err() != nil {
		if tokenizer.ByteIndex() != 0 {
			disbuf.WriteByte(' ')
		}
		disbuf.WriteString("[error]")
	}
	return disbuf.String(), tokenizer.Err()
}

// shortFormOps holds a map of opcode names to values for use in short form
// parsing.  It is declared here so it only needs to be created once.
var shortFormOps map[string]byte

func init() {
	// Only create the short form opcode map once.  Both the name with and
	// without the OP_ prefix are accepted.  The OP_UNKNOWN names are not
	// since they do not name anything.
	shortFormOps = make(map[string]byte, len(opcodeArray)*2)
	add := func(name string, value byte) {
		shortFormOps[name] = value
		shortFormOps[strings.TrimPrefix(name, "OP_")] = value
	}
	for _, op := range opcodeArray {
		if strings.Contains(op.name, "OP_UNKNOWN") {
			continue
		}
		add(op.name, op.value)
	}
	add("OP_FALSE", OP_FALSE)
	add("OP_TRUE", OP_TRUE)
	add("OP_NOP2", OP_NOP2)
	add("OP_NOP3", OP_NOP3)
}

// splitRepeat splits a trailing repeat count such as the "{20}" of
// "0x01{20}" off of a token.
func splitRepeat(tok string) (string, int, error) {
	if !strings.HasSuffix(tok, "}") {
		return tok, 1, nil
	}
	open := strings.LastIndexByte(tok, '{')
	if open < 1 {
		return "", 0, fmt.Errorf("malformed repeat count in %q", tok)
	}
	n, err := strconv.Atoi(tok[open+1 : len(tok)-1])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("malformed repeat count in %q", tok)
	}
	return tok[:open], n, nil
}

// ParseShortForm parses a script written in the short form used throughout
// the tests and the command line tool and returns its raw bytes.  Tokens are
// separated by whitespace and are one of:
//
//   - a decimal number, pushed minimally (0 is OP_0, -1 and 1 through 16 use
//     their small integer opcodes)
//   - 0x followed by hex, inserted into the script as raw bytes
//   - a string in single quotes, pushed as data
//   - an opcode name, with or without the OP_ prefix
//
// Any token may end in {n} to repeat its encoding n times.
func ParseShortForm(script string) ([]byte, error) {
	builder := NewScriptBuilder()
	for _, field := range strings.Fields(script) {
		tok, count, err := splitRepeat(field)
		if err != nil {
			return nil, err
		}

		start := len(builder.script)
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
		} else if strings.HasPrefix(tok, "0x") {
			bts, err := hex.DecodeString(tok[2:])
			if err != nil {
				return nil, fmt.Errorf("bad hex in %q: %w", tok, err)
			}
			builder.script = append(builder.script, bts...)
		} else if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
			builder.AddFullData([]byte(tok[1 : len(tok)-1]))
		} else if opcode, ok := shortFormOps[tok]; ok {
			builder.AddOp(opcode)
		} else {
			return nil, fmt.Errorf("bad token %q", tok)
		}

		// Repeat the encoding of the token as a whole.
		if count != 1 {
			enc := append([]byte(nil), builder.script[start:]...)
			builder.script = builder.script[:start]
			for i := 0; i < count; i++ {
				builder.script = append(builder.script, enc...)
			}
		}
	}
	return builder.Script()
}

// ParseSpendScript parses a short form input script that may only push data.
// Any token naming an opcode other than a small integer is rejected with
// ErrNotPushOnly.
func ParseSpendScript(script string) ([]byte, error) {
	raw, err := ParseShortForm(script)
	if err != nil {
		return nil, err
	}
	if !IsPushOnlyScript(raw) {
		return nil, scriptError(ErrNotPushOnly, fmt.Sprintf("input "+
			"script %q is not push only", script))
	}
	return raw, nil
}
