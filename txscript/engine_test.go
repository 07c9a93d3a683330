// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// evalShortForm runs each short form script on vm in order and fails the test
// when one does not run cleanly.
func evalShortForm(t *testing.T, vm *ScriptMachine, scripts ...string) {
	t.Helper()

	for _, script := range scripts {
		if !vm.Eval(mustParseShortForm(script)) {
			code, pos := vm.Err()
			t.Fatalf("eval of %q failed with %v at %d: %v", script, code,
				pos, vm.LastError())
		}
	}
}

// TestMachineStacks ensures pushes land on the main stack bottom to top and
// that items round trip through the alt stack.
func TestMachineStacks(t *testing.T) {
	t.Parallel()

	vm := NewScriptMachine(StandardVerifyFlags, nil)
	evalShortForm(t, vm, "1 0 5 6 TOALTSTACK TOALTSTACK")
	require.Equal(t, [][]byte{{1}, nil}, vm.Stack(), spew.Sdump(vm.Stack()))
	require.Equal(t, [][]byte{{6}, {5}}, vm.AltStack(),
		spew.Sdump(vm.AltStack()))

	evalShortForm(t, vm, "FROMALTSTACK FROMALTSTACK")
	require.Equal(t, [][]byte{{1}, nil, {5}, {6}}, vm.Stack(),
		spew.Sdump(vm.Stack()))
	require.Empty(t, vm.AltStack())

	code, pos := vm.Err()
	require.Equal(t, ErrOK, code)
	require.Zero(t, pos)

	vm.Reset()
	require.Empty(t, vm.Stack())
	require.Empty(t, vm.AltStack())
	require.Equal(t, StandardVerifyFlags, vm.Flags())

	// The returned stacks are copies.
	evalShortForm(t, vm, "0x020102")
	items := vm.Stack()
	items[0][0] = 0xff
	require.Equal(t, [][]byte{{1, 2}}, vm.Stack())
}

// TestMachineStep ensures stepping walks the script one opcode at a time,
// reports the position after each step, and refuses to go beyond the end.
func TestMachineStep(t *testing.T) {
	t.Parallel()

	vm := NewScriptMachine(StandardVerifyFlags, nil)
	evalShortForm(t, vm, "1 1")

	script := mustParseShortForm("IF IF 2 ELSE 3 ENDIF ENDIF")
	require.NoError(t, vm.Begin(script))
	require.Zero(t, vm.Pos())

	for count := 1; count <= len(script); count++ {
		require.NoError(t, vm.Step(), "step %d", count)
		require.Equal(t, count, vm.Pos())
	}
	require.ErrorIs(t, vm.Step(), ErrStepBeyondEnd)
	require.Equal(t, [][]byte{{2}}, vm.Stack())

	code, _ := vm.Err()
	require.Equal(t, ErrOK, code)

	// Stepping an idle machine has nothing to do.
	idle := NewScriptMachine(0, nil)
	require.ErrorIs(t, idle.Step(), ErrStepBeyondEnd)
}

// TestMachineClone ensures a clone shares no execution state with the machine
// it was taken from.
func TestMachineClone(t *testing.T) {
	t.Parallel()

	vm := NewScriptMachine(StandardVerifyFlags, nil)
	evalShortForm(t, vm, "1 1")
	require.NoError(t, vm.Begin(mustParseShortForm("IF IF 2 ELSE 3 ENDIF ENDIF")))
	require.NoError(t, vm.Step())

	clone := vm.Clone()
	require.Equal(t, vm.Pos(), clone.Pos())

	// Finish the original, then take the else branch in the clone.
	for vm.Step() == nil {
	}
	require.Equal(t, [][]byte{{2}}, vm.Stack())
	vm.Cleanup()

	require.NoError(t, clone.SetStackItem(0, nil))
	for clone.Step() == nil {
	}
	require.Equal(t, [][]byte{{3}}, clone.Stack())
	code, _ := clone.Err()
	require.Equal(t, ErrOK, code)

	// The released machine refuses further work.
	require.False(t, vm.Eval(mustParseShortForm("1")))
	code, pos := vm.Err()
	require.Equal(t, ErrInternal, code)
	require.Equal(t, 0, pos)
	require.True(t, IsErrorCode(vm.LastError(), ErrInternal))
	require.True(t, IsErrorCode(vm.Begin(nil), ErrInternal))
	require.True(t, IsErrorCode(vm.Step(), ErrInternal))
	require.Empty(t, vm.Stack())
}

// TestMachineSetStackItem ensures items can be replaced by bottom-relative
// index and pushed with a negative index.
func TestMachineSetStackItem(t *testing.T) {
	t.Parallel()

	vm := NewScriptMachine(StandardVerifyFlags, nil)
	evalShortForm(t, vm, "1 1")
	require.NoError(t, vm.SetStackItem(0, []byte{}))
	evalShortForm(t, vm, "IF IF 2 ELSE 3 ENDIF ENDIF")
	require.Equal(t, [][]byte{{3}}, vm.Stack())

	vm.Reset()
	evalShortForm(t, vm, "1")
	require.NoError(t, vm.SetStackItem(-1, []byte{1}))
	require.NoError(t, vm.SetStackItem(0, []byte{1}))
	evalShortForm(t, vm, "IF IF 2 ELSE 3 ENDIF ENDIF")
	require.Equal(t, [][]byte{{2}}, vm.Stack())

	// The stored item must not alias the caller's slice.
	item := []byte{7}
	require.NoError(t, vm.SetStackItem(0, item))
	item[0] = 8
	require.Equal(t, [][]byte{{7}}, vm.Stack())

	err := vm.SetStackItem(5, []byte{1})
	require.True(t, IsErrorCode(err, ErrInvalidIndex), spew.Sdump(err))
}

// TestMachineFaults ensures a failing script reports the error kind and the
// position just past the opcode that failed.
func TestMachineFaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   ScriptFlags
		initial string
		script  []byte
		code    ErrorCode
		pos     int
	}{{
		name:    "if with an empty stack",
		initial: "1",
		script:  mustParseShortForm("IF IF 2 ELSE 3 ENDIF ENDIF"),
		code:    ErrUnbalancedConditional,
		pos:     2,
	}, {
		name:   "else without if",
		script: mustParseShortForm("1 ELSE"),
		code:   ErrUnbalancedConditional,
		pos:    2,
	}, {
		name:   "endif without if",
		script: mustParseShortForm("ENDIF"),
		code:   ErrUnbalancedConditional,
		pos:    1,
	}, {
		name:   "unterminated if",
		script: mustParseShortForm("1 IF 2"),
		code:   ErrUnbalancedConditional,
		pos:    3,
	}, {
		name:   "disabled opcode in an unexecuted branch",
		script: mustParseShortForm("0 IF MUL ENDIF"),
		code:   ErrDisabledOpcode,
		pos:    3,
	}, {
		name:   "verif in an unexecuted branch",
		script: mustParseShortForm("0 IF VERIF ENDIF"),
		code:   ErrReservedOpcode,
		pos:    3,
	}, {
		name:   "return",
		script: mustParseShortForm("1 RETURN"),
		code:   ErrEarlyReturn,
		pos:    2,
	}, {
		name:   "verify of false",
		script: mustParseShortForm("0 VERIFY"),
		code:   ErrVerify,
		pos:    2,
	}, {
		name:   "too many operations",
		script: mustParseShortForm("NOP{202}"),
		code:   ErrTooManyOperations,
		pos:    202,
	}, {
		name:   "script too big",
		script: make([]byte, MaxScriptSize+1),
		code:   ErrScriptTooBig,
		pos:    0,
	}, {
		name:   "truncated push",
		script: mustParseShortForm("1 DATA_2 0x01"),
		code:   ErrMalformedPush,
		pos:    3,
	}, {
		name:   "non-minimal push",
		flags:  ScriptVerifyMinimalData,
		script: mustParseShortForm("0x4c01 0x05"),
		code:   ErrMinimalData,
		pos:    3,
	}, {
		name:   "discouraged nop",
		flags:  ScriptDiscourageUpgradableNops,
		script: mustParseShortForm("NOP4"),
		code:   ErrDiscourageUpgradableNOPs,
		pos:    1,
	}, {
		name:   "pop from empty alt stack",
		script: mustParseShortForm("FROMALTSTACK"),
		code:   ErrInvalidAltStackOperation,
		pos:    1,
	}, {
		name:   "stack overflow",
		script: mustParseShortForm("1{1001}"),
		code:   ErrStackOverflow,
		pos:    1001,
	}}

	for _, test := range tests {
		vm := NewScriptMachine(test.flags, nil)
		if test.initial != "" {
			evalShortForm(t, vm, test.initial)
		}
		if vm.Eval(test.script) {
			t.Errorf("%s: script unexpectedly succeeded", test.name)
			continue
		}
		code, pos := vm.Err()
		if code != test.code || pos != test.pos {
			t.Errorf("%s: got %v at %d, want %v at %d (%v)", test.name,
				code, pos, test.code, test.pos, vm.LastError())
			continue
		}
		if vm.Pos() != test.pos {
			t.Errorf("%s: Pos returned %d, want %d", test.name, vm.Pos(),
				test.pos)
		}
		if err := vm.Step(); !IsErrorCode(err, test.code) {
			t.Errorf("%s: step after fault returned %v", test.name, err)
		}
	}
}

// TestMachineOpcodes ensures the results of individual opcodes, including the
// re-enabled splice and arithmetic opcodes.
func TestMachineOpcodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   [][]byte
		code   ErrorCode
	}{
		{name: "cat", script: "0x020102 0x020304 CAT", want: [][]byte{{1, 2, 3, 4}}},
		{name: "cat too big", script: "0x4d0901 0x00{265} 0x4d0001 0x00{256} CAT", code: ErrElementTooBig},
		{name: "split", script: "0x03010203 1 SPLIT", want: [][]byte{{1}, {2, 3}}},
		{name: "split at end", script: "0x020102 2 SPLIT", want: [][]byte{{1, 2}, nil}},
		{name: "split out of range", script: "0x020102 3 SPLIT", code: ErrInvalidSplitRange},
		{name: "num2bin", script: "2 4 NUM2BIN", want: [][]byte{{2, 0, 0, 0}}},
		{name: "num2bin negative", script: "-1 4 NUM2BIN", want: [][]byte{{1, 0, 0, 0x80}}},
		{name: "num2bin too small", script: "0x020001 1 NUM2BIN", code: ErrImpossibleEncoding},
		{name: "bin2num", script: "0x0402000000 BIN2NUM", want: [][]byte{{2}}},
		{name: "bin2num negative", script: "0x0401000080 BIN2NUM", want: [][]byte{{0x81}}},
		{name: "bin2num zero", script: "0x0400000000 BIN2NUM", want: [][]byte{nil}},
		{name: "bin2num out of range", script: "0x050102030405 BIN2NUM", code: ErrInvalidNumberRange},
		{name: "and", script: "0x0103 0x0106 AND", want: [][]byte{{2}}},
		{name: "or", script: "0x0103 0x0106 OR", want: [][]byte{{7}}},
		{name: "xor", script: "0x0103 0x0106 XOR", want: [][]byte{{5}}},
		{name: "xor size mismatch", script: "0x0103 0x020106 XOR", code: ErrInvalidOperandSize},
		{name: "div", script: "-7 2 DIV", want: [][]byte{{0x83}}},
		{name: "div by zero", script: "1 0 DIV", code: ErrDivByZero},
		{name: "mod", script: "-7 2 MOD", want: [][]byte{{0x81}}},
		{name: "mod by zero", script: "1 0 MOD", code: ErrModByZero},
		{name: "add", script: "2 3 ADD 5 NUMEQUAL", want: [][]byte{{1}}},
		{name: "within", script: "3 2 5 WITHIN", want: [][]byte{{1}}},
		{name: "size", script: "0x020102 SIZE", want: [][]byte{{1, 2}, {2}}},
		{name: "pick", script: "1 2 3 2 PICK", want: [][]byte{{1}, {2}, {3}, {1}}},
		{name: "roll", script: "1 2 3 2 ROLL", want: [][]byte{{2}, {3}, {1}}},
		{name: "depth", script: "1 1 DEPTH", want: [][]byte{{1}, {1}, {2}}},
		{name: "hash160", script: "0 HASH160 0x14b472a266d0bd89c13706a4132ccfb16f7c3b9fcb EQUAL", want: [][]byte{{1}}},
		{name: "sha256", script: "0 SHA256 0x20e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855 EQUAL", want: [][]byte{{1}}},
		{name: "notif", script: "0 NOTIF 2 ELSE 3 ENDIF", want: [][]byte{{2}}},
		{name: "nested unexecuted if", script: "0 IF 0 IF 2 ENDIF ELSE 3 ENDIF", want: [][]byte{{3}}},
		{name: "checksig without context", script: "0x0130 0x0102 CHECKSIG", code: ErrMustUseForkID},
		{name: "checksig with empty signature", script: "0 0x0102 CHECKSIG", want: [][]byte{nil}},
	}

	for _, test := range tests {
		vm := NewScriptMachine(0, nil)
		ok := vm.Eval(mustParseShortForm(test.script))
		code, _ := vm.Err()
		if code != test.code {
			t.Errorf("%s: got error %v, want %v (%v)", test.name, code,
				test.code, vm.LastError())
			continue
		}
		if test.code != ErrOK {
			if ok {
				t.Errorf("%s: Eval returned true on failure", test.name)
			}
			continue
		}
		if got := vm.Stack(); !equalStacks(got, test.want) {
			t.Errorf("%s: wrong stack\ngot: %s\nwant: %s", test.name,
				spew.Sdump(got), spew.Sdump(test.want))
		}
	}
}

// equalStacks compares stacks treating nil and empty items as equal.
func equalStacks(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TestHashTypeErrorText ensures hash type errors name the numeric hash type.
func TestHashTypeErrorText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		flags  ScriptFlags
		script string
		code   ErrorCode
		text   string
	}{{
		name:   "missing fork id",
		script: "0x023001 0x0102 CHECKSIG",
		code:   ErrMustUseForkID,
		text:   "hash type 0x1 does not",
	}, {
		name:   "undefined base type",
		flags:  ScriptVerifyStrictEncoding,
		script: "0x023044 0x0102 CHECKSIG",
		code:   ErrInvalidSigHashType,
		text:   "invalid hash type 0x44",
	}}

	for _, test := range tests {
		vm := NewScriptMachine(test.flags, nil)
		if vm.Eval(mustParseShortForm(test.script)) {
			t.Errorf("%s: script unexpectedly succeeded", test.name)
			continue
		}
		err := vm.LastError()
		if !IsErrorCode(err, test.code) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.code)
			continue
		}
		if !bytes.Contains([]byte(err.Error()), []byte(test.text)) {
			t.Errorf("%s: error %q does not contain %q", test.name,
				err.Error(), test.text)
		}
	}
}

// TestDisasmPC ensures the next opcode is disassembled with its position.
func TestDisasmPC(t *testing.T) {
	t.Parallel()

	vm := NewScriptMachine(0, nil)
	require.NoError(t, vm.Begin(mustParseShortForm("1 DATA_2 0x0102 DUP")))
	require.NoError(t, vm.Step())

	got, err := vm.DisasmPC()
	require.NoError(t, err)
	require.Equal(t, "0001: OP_DATA_2 0x0102", got)

	require.NoError(t, vm.Step())
	require.NoError(t, vm.Step())
	_, err = vm.DisasmPC()
	require.ErrorIs(t, err, ErrStepBeyondEnd)
}
