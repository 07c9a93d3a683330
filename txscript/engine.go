// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ScriptFlags is a bitmask defining additional operations or tests that will be
// done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptVerifyMinimalData defines that data pushes must use the
	// smallest push operator and numeric operands must be minimally
	// encoded.
	ScriptVerifyMinimalData ScriptFlags = 1 << iota

	// ScriptVerifyNullFail defines that signatures must be empty if a
	// CHECKSIG, CHECKMULTISIG or CHECKDATASIG operation fails.
	ScriptVerifyNullFail

	// ScriptVerifyNullDummy defines that the dummy argument consumed by
	// CHECKMULTISIG must be empty.
	ScriptVerifyNullDummy

	// ScriptVerifyStrictEncoding defines that signature hash types and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyDERSignatures defines that signatures are required
	// to comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.
	ScriptVerifyCleanStack

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// NOP1 through NOP10 are reserved for future soft-fork upgrades.  This
	// flag must not be used for consensus critical code nor applied to
	// blocks as this flag is only for stricter standard transaction
	// checks.  This flag is only applied when the above opcodes are
	// executed.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that
	// a transaction output is spendable based on the locktime.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the output
	// being spent.
	ScriptVerifyCheckSequenceVerify
)

// StandardVerifyFlags are the script flags which are used when executing
// transaction scripts to enforce additional checks which are required for the
// script to be considered standard.  These checks help reduce issues related
// to transaction malleability.
const StandardVerifyFlags = ScriptVerifyMinimalData |
	ScriptVerifyNullFail |
	ScriptVerifyNullDummy |
	ScriptVerifyStrictEncoding |
	ScriptVerifyDERSignatures |
	ScriptVerifyLowS |
	ScriptVerifySigPushOnly |
	ScriptVerifyCleanStack |
	ScriptDiscourageUpgradableNops |
	ScriptVerifyCheckLockTimeVerify |
	ScriptVerifyCheckSequenceVerify

const (
	// MaxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	MaxStackSize = 1000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 10000

	// MaxScriptElementSize is the max number of bytes allowed in a single
	// stack item.
	MaxScriptElementSize = 520

	// MaxOpsPerScript is the maximum number of non-push operations.
	MaxOpsPerScript = 201

	// MaxPubKeysPerMultiSig is the maximum number of public keys
	// CHECKMULTISIG accepts.
	MaxPubKeysPerMultiSig = 20

	// LockTimeThreshold is the number below which a lock time is
	// interpreted to be a block number.  Since an average of one block
	// is generated per 10 minutes, this allows blocks for about 9,512
	// years.
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC
)

// halforder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// machineState is the lifecycle stage of a ScriptMachine.
type machineState uint8

const (
	stateIdle machineState = iota
	stateRunning
	stateCompleted
	stateFaulted
	stateReleased
)

var machineStateStrings = map[machineState]string{
	stateIdle:      "idle",
	stateRunning:   "running",
	stateCompleted: "completed",
	stateFaulted:   "faulted",
	stateReleased:  "released",
}

// String returns the machineState as a human-readable name.
func (s machineState) String() string {
	if str, ok := machineStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("unknown state (%d)", uint8(s))
}

// ScriptMachine is the virtual machine that executes scripts.  It owns its
// stacks outright, so scripts evaluated one after another run against the
// stack the previous script left behind.  Eval runs a script to its end in one
// call while Begin and Step walk it an opcode at a time.  Both share the same
// per-opcode transition.
//
// A ScriptMachine is not safe for concurrent use.  Use Clone to explore an
// alternative execution from the current state.
type ScriptMachine struct {
	flags ScriptFlags
	ctx   *TxContext

	script      []byte
	tokenizer   ScriptTokenizer
	lastCodeSep int
	dstack      stack
	astack      stack
	condStack   []int
	numOps      int

	state   machineState
	errCode ErrorCode
	errPos  int
	lastErr error
}

// NewScriptMachine returns an idle machine that enforces the given flags.  The
// context may be nil, in which case signature checks fail and lock time checks
// are unsatisfied.
func NewScriptMachine(flags ScriptFlags, ctx *TxContext) *ScriptMachine {
	vm := &ScriptMachine{flags: flags, ctx: ctx}
	vm.dstack.verifyMinimalData = vm.hasFlag(ScriptVerifyMinimalData)
	vm.astack.verifyMinimalData = vm.dstack.verifyMinimalData
	return vm
}

// hasFlag returns whether the script machine instance has the passed flag set.
func (vm *ScriptMachine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// Flags returns the flags the machine enforces.
func (vm *ScriptMachine) Flags() ScriptFlags {
	return vm.flags
}

// Context returns the verification context attached to the machine, if any.
func (vm *ScriptMachine) Context() *TxContext {
	return vm.ctx
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *ScriptMachine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode performs execution on the passed opcode.  It takes into account
// whether or not it is hidden by conditionals, but some rules still must be
// tested in this case.
func (vm *ScriptMachine) executeOpcode(op *opcode, data []byte) error {
	// Disabled opcodes are fail on program counter.
	if op.class == classDisabled {
		return opcodeDisabled(op, data, vm)
	}

	// Always-illegal opcodes are fail on program counter.
	if isOpcodeAlwaysIllegal(op.value) {
		return opcodeReserved(op, data, vm)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if op.value > OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrTooManyOperations, str)
		}

	} else if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(data), MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !isOpcodeConditional(op.value) {
		return nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.dstack.verifyMinimalData && vm.isBranchExecuting() &&
		op.value <= OP_PUSHDATA4 {

		if err := checkMinimalDataPush(op, data); err != nil {
			return err
		}
	}

	if err := dispatchOpcode(op, data, vm); err != nil {
		return err
	}

	if combined := vm.dstack.Depth() + vm.astack.Depth(); combined > MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combined, MaxStackSize)
		return scriptError(ErrStackOverflow, str)
	}
	return nil
}

// fault moves the machine into the faulted state, recording err at the given
// byte position.
func (vm *ScriptMachine) fault(err error, pos int) error {
	vm.state = stateFaulted
	vm.lastErr = err
	vm.errPos = pos
	vm.errCode = ErrInternal
	var serr Error
	if errors.As(err, &serr) {
		vm.errCode = serr.ErrorCode
	}

	log.Debugf("script fault at position %d: %v", pos, err)
	return err
}

// clearError forgets the outcome of a previous run.
func (vm *ScriptMachine) clearError() {
	vm.errCode = ErrOK
	vm.errPos = 0
	vm.lastErr = nil
}

// releasedError records and returns the error for running a machine after
// Cleanup.  The machine stays released.
func (vm *ScriptMachine) releasedError() error {
	err := scriptError(ErrInternal, "script machine used after cleanup")
	vm.errCode = ErrInternal
	vm.errPos = 0
	vm.lastErr = err
	return err
}

// Begin loads the script and positions the machine at its first opcode without
// executing anything.  The stacks are left as they are.  The script is copied,
// so the caller may reuse the slice.
func (vm *ScriptMachine) Begin(script []byte) error {
	if vm.state == stateReleased {
		return vm.releasedError()
	}

	vm.script = append([]byte(nil), script...)
	vm.tokenizer = MakeScriptTokenizer(vm.script)
	vm.condStack = nil
	vm.numOps = 0
	vm.lastCodeSep = 0
	vm.clearError()

	if len(vm.script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed "+
			"size %d", len(vm.script), MaxScriptSize)
		return vm.fault(scriptError(ErrScriptTooBig, str), 0)
	}

	vm.state = stateRunning
	if len(vm.script) == 0 {
		vm.state = stateCompleted
	}
	return nil
}

// Step executes the next opcode of the script loaded by Begin.  It returns
// ErrStepBeyondEnd once the position has reached the end of the script, and
// the error that faulted the machine when called after a fault.  Reaching the
// end of the script with an open conditional faults the machine.
func (vm *ScriptMachine) Step() error {
	switch vm.state {
	case stateIdle, stateCompleted:
		return ErrStepBeyondEnd
	case stateFaulted:
		return vm.lastErr
	case stateReleased:
		return vm.releasedError()
	}

	// The end of the script is detected after each successful step, so
	// Next can only fail here on a malformed push.
	if !vm.tokenizer.Next() {
		return vm.fault(vm.tokenizer.Err(), len(vm.script))
	}

	op := &opcodeArray[vm.tokenizer.Opcode()]
	log.Tracef("%v", newLogClosure(func() string {
		var buf strings.Builder
		disasmOpcode(&buf, op, vm.tokenizer.Data(), false)
		return fmt.Sprintf("stepping %04x: %s", vm.tokenizer.ByteIndex(),
			buf.String())
	}))

	err := vm.executeOpcode(op, vm.tokenizer.Data())
	if err != nil {
		return vm.fault(err, int(vm.tokenizer.ByteIndex()))
	}

	log.Tracef("%v", newLogClosure(func() string {
		var dstr, astr string
		if vm.dstack.Depth() != 0 {
			dstr = "Stack:\n" + vm.dstack.String()
		}
		if vm.astack.Depth() != 0 {
			astr = "AltStack:\n" + vm.astack.String()
		}
		return dstr + astr
	}))

	if vm.tokenizer.Done() {
		if len(vm.condStack) != 0 {
			str := "end of script reached in conditional execution"
			return vm.fault(scriptError(ErrUnbalancedConditional, str),
				len(vm.script))
		}
		vm.state = stateCompleted
	}
	return nil
}

// Eval loads the script and runs it to its end against the current stacks.
// It returns true when every opcode executed without error.  On failure the
// stacks are left as they were when the failing opcode ran and Err reports the
// kind and position of the failure.
//
// Eval does not test the final stack.  Use TxContext.VerifyInput for the
// full spend verdict.
func (vm *ScriptMachine) Eval(script []byte) bool {
	if err := vm.Begin(script); err != nil {
		return false
	}
	for vm.state == stateRunning {
		if err := vm.Step(); err != nil {
			return false
		}
	}
	return vm.state == stateCompleted
}

// Pos returns the byte offset of the next opcode Step will execute.  After a
// fault it is the position the fault was reported at.
func (vm *ScriptMachine) Pos() int {
	if vm.state == stateFaulted {
		return vm.errPos
	}
	return int(vm.tokenizer.ByteIndex())
}

// Err returns the kind and position of the error that ended the last run, or
// ErrOK when there was none.
func (vm *ScriptMachine) Err() (ErrorCode, int) {
	return vm.errCode, vm.errPos
}

// LastError returns the full error that faulted the machine, if any.
func (vm *ScriptMachine) LastError() error {
	return vm.lastErr
}

// Reset clears both stacks, the conditional stack, the position and any error
// and returns the machine to idle.  The flags and the verification context are
// kept.
func (vm *ScriptMachine) Reset() {
	if vm.state == stateReleased {
		return
	}
	vm.dstack.stk = nil
	vm.astack.stk = nil
	vm.condStack = nil
	vm.script = nil
	vm.tokenizer = ScriptTokenizer{}
	vm.numOps = 0
	vm.lastCodeSep = 0
	vm.clearError()
	vm.state = stateIdle
}

// Clone returns a machine with its own copy of all execution state.  The
// verification context is shared since it is never mutated.
func (vm *ScriptMachine) Clone() *ScriptMachine {
	clone := *vm
	clone.dstack = vm.dstack.clone()
	clone.astack = vm.astack.clone()
	clone.condStack = append([]int(nil), vm.condStack...)

	// The tokenizer and any data it hands out must refer to the clone's
	// own script.
	clone.script = append([]byte(nil), vm.script...)
	clone.tokenizer = vm.tokenizer
	clone.tokenizer.script = clone.script
	if vm.tokenizer.data != nil {
		start := int(vm.tokenizer.offset) - len(vm.tokenizer.data)
		clone.tokenizer.data = clone.script[start:vm.tokenizer.offset]
	}
	return &clone
}

// SetStackItem overwrites the main stack item at idx, counted from the bottom
// of the stack.  A negative index pushes the data as a new top item.  The data
// is copied.
func (vm *ScriptMachine) SetStackItem(idx int, data []byte) error {
	return vm.dstack.SetItem(idx, append([]byte(nil), data...))
}

// Stack returns a copy of the main stack ordered bottom to top.
func (vm *ScriptMachine) Stack() [][]byte {
	return vm.dstack.Items()
}

// AltStack returns a copy of the alternate stack ordered bottom to top.
func (vm *ScriptMachine) AltStack() [][]byte {
	return vm.astack.Items()
}

// Cleanup drops everything the machine holds.  The machine must not be used
// afterwards, and Begin, Eval and Step report an internal error if it is.
func (vm *ScriptMachine) Cleanup() {
	vm.Reset()
	vm.ctx = nil
	vm.state = stateReleased
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step is called.
func (vm *ScriptMachine) DisasmPC() (string, error) {
	if vm.state != stateRunning {
		return "", ErrStepBeyondEnd
	}

	peek := vm.tokenizer
	if !peek.Next() {
		return "", peek.Err()
	}

	var buf strings.Builder
	disasmOpcode(&buf, &opcodeArray[peek.Opcode()], peek.Data(), false)
	return fmt.Sprintf("%04x: %s", vm.tokenizer.ByteIndex(), buf.String()), nil
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *ScriptMachine) subScript() []byte {
	return vm.script[vm.lastCodeSep:]
}

// checkHashTypeEncoding returns whether or not the passed hashtype adheres to
// the strict encoding requirements.  The fork id bit is required regardless of
// the flags since a signature without it is replayable on other chains.
func (vm *ScriptMachine) checkHashTypeEncoding(hashType SigHashType) error {
	if hashType&SigHashForkID == 0 {
		str := fmt.Sprintf("hash type 0x%x does not commit to the fork id",
			uint32(hashType))
		return scriptError(ErrMustUseForkID, str)
	}

	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	sigHashType := hashType & ^(SigHashAnyOneCanPay | SigHashForkID)
	if sigHashType < SigHashAll || sigHashType > SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", uint32(hashType))
		return scriptError(ErrInvalidSigHashType, str)
	}
	return nil
}

// isCompressedPubKey returns true the passed serialized public key has
// been encoded in compressed format, and false otherwise.
func isCompressedPubKey(pubKey []byte) bool {
	// The public key is only compressed if it is the correct length and
	// the format (first byte) is one of the compressed pubkey values.
	return len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03)
}

// checkPubKeyEncoding returns whether or not the passed public key adheres to
// the strict encoding requirements if enabled.
func (vm *ScriptMachine) checkPubKeyEncoding(pubKey []byte) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if isCompressedPubKey(pubKey) {
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}

	return scriptError(ErrPubKeyType, "unsupported public key type")
}

// checkSignatureEncoding returns whether or not the passed signature adheres to
// the strict encoding requirements if enabled.  An empty signature is always
// accepted since it is how a failed check is requested on purpose.
func (vm *ScriptMachine) checkSignatureEncoding(sig []byte) error {
	if len(sig) == 0 {
		return nil
	}
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minSigLen is the minimum length of a DER encoded signature and is
		// when both R and S are 1 byte each.
		//
		// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
		minSigLen = 8

		// maxSigLen is the maximum length of a DER encoded signature and is
		// when both R and S are 33 bytes each.  It is 33 bytes because a
		// 256-bit integer requires 32 bytes and an additional leading null
		// byte might required if the high bit is set in the value.
		//
		// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
		maxSigLen = 72

		// sequenceOffset is the byte offset within the signature of the
		// expected ASN.1 sequence identifier.
		sequenceOffset = 0

		// dataLenOffset is the byte offset within the signature of the
		// expected total length of all remaining data in the signature.
		dataLenOffset = 1

		// rTypeOffset is the byte offset within the signature of the ASN.1
		// identifier for R and is expected to indicate an ASN.1 integer.
		rTypeOffset = 2

		// rLenOffset is the byte offset within the signature of the length
		// of R.
		rLenOffset = 3

		// rOffset is the byte offset within the signature of R.
		rOffset = 4
	)

	// The signature must adhere to the minimum and maximum allowed length.
	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minSigLen)
		return scriptError(ErrSigDER, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			maxSigLen)
		return scriptError(ErrSigDER, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return scriptError(ErrSigDER, str)
	}

	// The signature must indicate the correct amount of data for all elements
	// related to R and S.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return scriptError(ErrSigDER, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is inside
	// the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like its R
	// counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of the
	// length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return scriptError(ErrSigDER, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return scriptError(ErrSigDER, str)
	}

	// The lengths of R and S must match the overall length of the signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return scriptError(ErrSigDER, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return scriptError(ErrSigDER, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return scriptError(ErrSigDER, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise be
	// interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return scriptError(ErrSigDER, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return scriptError(ErrSigDER, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return scriptError(ErrSigDER, str)
	}

	// Null bytes at the start of S are not allowed, unless S would otherwise be
	// interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return scriptError(ErrSigDER, str)
	}

	// Verify the S value is <= half the order of the curve.  This check is done
	// because when it is higher, the complement modulo the order can be used
	// instead which is a shorter encoding by 1 byte.  Further, without
	// enforcing this, it is possible to replace a signature in a valid
	// transaction with the complement while still being a valid signature that
	// verifies.  This would result in changing the transaction hash and thus is
	// a source of malleability.
	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[sOffset : sOffset+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return scriptError(ErrSigHighS, "signature is not canonical "+
				"due to unnecessarily high S value")
		}
	}

	return nil
}

// verifySignature reports whether sig is a valid signature by pkBytes of the
// transaction the machine's context describes.  Without a context no
// signature hash exists, so nothing verifies.
func (vm *ScriptMachine) verifySignature(sig []byte, hashType SigHashType,
	pkBytes []byte) bool {

	if vm.ctx == nil || len(sig) == 0 {
		return false
	}
	return vm.ctx.checkSig(sig, hashType, pkBytes, vm.subScript(), vm.flags)
}
