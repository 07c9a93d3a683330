// Copyright (c) 2019 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"
)

// ScriptTokenizer walks a raw script one opcode at a time without allocating.
// Next advances to the following opcode and returns false once the script is
// exhausted or malformed, at which point Err tells the two cases apart.
//
// After a successful Next, Opcode and Data describe the parsed opcode and
// ByteIndex is the offset just past it.  The script machine reports that
// offset as its position.
type ScriptTokenizer struct {
	script []byte
	offset int32
	op     *opcode
	data   []byte
	err    error
}

// Done returns true when either all opcodes have been exhausted or a parse
// failure was encountered and therefore the state has an associated error.
func (t *ScriptTokenizer) Done() bool {
	return t.err != nil || t.offset >= int32(len(t.script))
}

// malformed records a truncated push for op and stops the tokenizer.
func (t *ScriptTokenizer) malformed(op *opcode, need, have int) bool {
	str := fmt.Sprintf("opcode %s requires %d bytes, but script only has "+
		"%d remaining", op.name, need, have)
	t.err = scriptError(ErrMalformedPush, str)
	return false
}

// Next attempts to parse the next opcode and returns whether or not it was
// successful.  Calling it at the end of the script simply returns false and
// does not set an error.
//
// When it fails, Opcode and Data keep the last successfully parsed values and
// ByteIndex still points at the opcode that could not be parsed.
func (t *ScriptTokenizer) Next() bool {
	if t.Done() {
		return false
	}

	op := &opcodeArray[t.script[t.offset]]
	rest := t.script[t.offset+1:]

	var hdrLen, dataLen int
	switch op.length {
	case 1:
		// OP_0, OP_1NEGATE and OP_1..OP_16 carry their value in the
		// opcode itself.
	case -1, -2, -4:
		hdrLen = -op.length
		if len(rest) < hdrLen {
			return t.malformed(op, hdrLen, len(rest))
		}
		switch hdrLen {
		case 1:
			dataLen = int(rest[0])
		case 2:
			dataLen = int(binary.LittleEndian.Uint16(rest))
		case 4:
			n := binary.LittleEndian.Uint32(rest)
			if uint64(n) > uint64(len(rest)) {
				str := fmt.Sprintf("opcode %s pushes %d bytes, but "+
					"script only has %d remaining", op.name, n,
					len(rest)-hdrLen)
				t.err = scriptError(ErrMalformedPush, str)
				return false
			}
			dataLen = int(n)
		}
		if len(rest)-hdrLen < dataLen {
			str := fmt.Sprintf("opcode %s pushes %d bytes, but script "+
				"only has %d remaining", op.name, dataLen,
				len(rest)-hdrLen)
			t.err = scriptError(ErrMalformedPush, str)
			return false
		}
	default:
		// OP_DATA_N: the length includes the opcode byte.
		dataLen = op.length - 1
		if len(rest) < dataLen {
			return t.malformed(op, op.length, len(rest)+1)
		}
	}

	t.op = op
	if op.length == 1 {
		t.data = nil
	} else {
		t.data = rest[hdrLen : hdrLen+dataLen]
	}
	t.offset += int32(1 + hdrLen + dataLen)
	return true
}

// Script returns the full script associated with the tokenizer.
func (t *ScriptTokenizer) Script() []byte {
	return t.script
}

// ByteIndex returns the current offset into the full script that will be parsed
// next and therefore also implies everything before it has already been parsed.
func (t *ScriptTokenizer) ByteIndex() int32 {
	return t.offset
}

// Opcode returns the current opcode associated with the tokenizer.
func (t *ScriptTokenizer) Opcode() byte {
	return t.op.value
}

// Data returns the data associated with the most recently successfully parsed
// opcode.
func (t *ScriptTokenizer) Data() []byte {
	return t.data
}

// Err returns any errors currently associated with the tokenizer.  This will
// only be non-nil in the case a parsing error was encountered.
func (t *ScriptTokenizer) Err() error {
	return t.err
}

// MakeScriptTokenizer returns a new instance of a script tokenizer positioned
// at the start of the script.
func MakeScriptTokenizer(script []byte) ScriptTokenizer {
	return ScriptTokenizer{script: script}
}
