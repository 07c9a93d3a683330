// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
)

// ErrStepBeyondEnd is returned by Step when the current script has already
// been fully executed.  It signals completion during single-step iteration
// and does not fault the machine.
var ErrStepBeyondEnd = errors.New("stepped beyond end of script")

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrOK indicates the last evaluation completed without error.  It is
	// the zero value so a freshly created machine reports no error.
	ErrOK ErrorCode = iota

	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the engine logic.
	ErrInternal

	// ErrInvalidIndex is returned when an out-of-bounds index is passed to
	// a function.
	ErrInvalidIndex

	// ErrNotPushOnly is returned when a script that is required to only
	// push data to the stack performs other operations.  A spend script
	// built from an opcode token reports this code.
	ErrNotPushOnly

	// ErrEarlyReturn is returned when OP_RETURN is executed in the script.
	ErrEarlyReturn

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false top stack element or an empty stack.
	ErrEvalFalse

	// ErrScriptTooBig is returned if a script is larger than MaxScriptSize.
	ErrScriptTooBig

	// ErrElementTooBig is returned if the size of an element to be pushed
	// to the stack is over MaxScriptElementSize.
	ErrElementTooBig

	// ErrTooManyOperations is returned if a script has more than
	// MaxOpsPerScript opcodes that do not push data.
	ErrTooManyOperations

	// ErrStackOverflow is returned when stack and altstack combined depth
	// is over the limit.
	ErrStackOverflow

	// ErrInvalidPubKeyCount is returned when the number of public keys
	// specified for a multsig is either negative or greater than
	// MaxPubKeysPerMultiSig.
	ErrInvalidPubKeyCount

	// ErrInvalidSignatureCount is returned when the number of signatures
	// specified for a multisig is either negative or greater than the
	// number of public keys.
	ErrInvalidSignatureCount

	// ErrNumberTooBig is returned when the argument for an opcode that
	// expects numeric input is larger than the expected maximum number of
	// bytes.
	ErrNumberTooBig

	// ErrVerify is returned when OP_VERIFY is encountered in a script and
	// the top item on the data stack does not evaluate to true.
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY is encountered in a
	// script and the top item on the data stack does not evaluate to true.
	ErrEqualVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrNumEqualVerify

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrCheckSigVerify

	// ErrCheckMultiSigVerify is returned when OP_CHECKMULTISIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckMultiSigVerify

	// ErrCheckDataSigVerify is returned when OP_CHECKDATASIGVERIFY is
	// encountered in a script and the signature does not verify.
	ErrCheckDataSigVerify

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script.
	ErrDisabledOpcode

	// ErrReservedOpcode is returned when an opcode marked as reserved
	// is encountered in a script.
	ErrReservedOpcode

	// ErrBadOpcode is returned when an undefined opcode is executed.
	ErrBadOpcode

	// ErrMalformedPush is returned when a data push opcode tries to push
	// more bytes than are left in the script.
	ErrMalformedPush

	// ErrInvalidStackOperation is returned when a stack operation is
	// attempted with a number that is invalid for the current stack size.
	ErrInvalidStackOperation

	// ErrInvalidAltStackOperation is returned when OP_FROMALTSTACK is
	// executed with an empty alternate stack.
	ErrInvalidAltStackOperation

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF is
	// encountered in a script without first having an OP_IF or OP_NOTIF,
	// when an OP_IF or OP_NOTIF has nothing to test, or the end of script
	// is reached without encountering an OP_ENDIF when an OP_IF or
	// OP_NOTIF was previously encountered.
	ErrUnbalancedConditional

	// ErrMinimalData is returned when the ScriptVerifyMinimalData flag
	// is set and the script contains push operations that do not use
	// the minimal opcode required, or a number that is not minimally
	// encoded.
	ErrMinimalData

	// ErrInvalidNumberRange is returned when an argument to OP_NUM2BIN or
	// OP_BIN2NUM is out of range.
	ErrInvalidNumberRange

	// ErrImpossibleEncoding is returned when OP_NUM2BIN is asked for a size
	// smaller than the minimal encoding of its value.
	ErrImpossibleEncoding

	// ErrInvalidSplitRange is returned when OP_SPLIT is given a position
	// outside of the item being split.
	ErrInvalidSplitRange

	// ErrInvalidOperandSize is returned when a bitwise operation is given
	// operands of different lengths.
	ErrInvalidOperandSize

	// ErrDivByZero is returned when OP_DIV is executed with a zero
	// divisor.
	ErrDivByZero

	// ErrModByZero is returned when OP_MOD is executed with a zero
	// divisor.
	ErrModByZero

	// ErrInvalidSigHashType is returned when a signature hash type is not
	// one of the supported types.
	ErrInvalidSigHashType

	// ErrMustUseForkID is returned when a signature hash type does not
	// carry the fork id bit.  Signing or verifying such a signature would
	// allow it to be replayed on another chain.
	ErrMustUseForkID

	// ErrInvalidPrivateKey is returned when a private key handed to the
	// signer is zero or not below the curve order.
	ErrInvalidPrivateKey

	// ErrSigDER is returned when a signature is not a canonically-encoded
	// DER signature.
	ErrSigDER

	// ErrSigHighS is returned when the ScriptVerifyLowS flag is set and the
	// script contains any signatures whose S values are higher than the
	// half order.
	ErrSigHighS

	// ErrSigNullDummy is returned when the ScriptVerifyNullDummy flag is
	// set and a multisig script has anything other than 0 for the extra
	// dummy argument.
	ErrSigNullDummy

	// ErrPubKeyType is returned when the script contains invalid public
	// keys.
	ErrPubKeyType

	// ErrNullFail is returned when the ScriptVerifyNullFail flag is set and
	// signatures are not empty on failed checksig or checkmultisig
	// operations.
	ErrNullFail

	// ErrCleanStack is returned when the ScriptVerifyCleanStack flag
	// is set, and after evaluation, the stack does not contain only a
	// single element.
	ErrCleanStack

	// ErrDiscourageUpgradableNOPs is returned when the
	// ScriptDiscourageUpgradableNops flag is set and a NOP opcode is
	// encountered in a script.
	ErrDiscourageUpgradableNOPs

	// ErrNegativeLockTime is returned when a script contains an opcode that
	// interprets a negative lock time.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a script contains an opcode
	// that involves a lock time and the required lock time has not been
	// reached.
	ErrUnsatisfiedLockTime

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrOK:                       "ErrOK",
	ErrInternal:                 "ErrInternal",
	ErrInvalidIndex:             "ErrInvalidIndex",
	ErrNotPushOnly:              "ErrNotPushOnly",
	ErrEarlyReturn:              "ErrEarlyReturn",
	ErrEvalFalse:                "ErrEvalFalse",
	ErrScriptTooBig:             "ErrScriptTooBig",
	ErrElementTooBig:            "ErrElementTooBig",
	ErrTooManyOperations:        "ErrTooManyOperations",
	ErrStackOverflow:            "ErrStackOverflow",
	ErrInvalidPubKeyCount:       "ErrInvalidPubKeyCount",
	ErrInvalidSignatureCount:    "ErrInvalidSignatureCount",
	ErrNumberTooBig:             "ErrNumberTooBig",
	ErrVerify:                   "ErrVerify",
	ErrEqualVerify:              "ErrEqualVerify",
	ErrNumEqualVerify:           "ErrNumEqualVerify",
	ErrCheckSigVerify:           "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:      "ErrCheckMultiSigVerify",
	ErrCheckDataSigVerify:       "ErrCheckDataSigVerify",
	ErrDisabledOpcode:           "ErrDisabledOpcode",
	ErrReservedOpcode:           "ErrReservedOpcode",
	ErrBadOpcode:                "ErrBadOpcode",
	ErrMalformedPush:            "ErrMalformedPush",
	ErrInvalidStackOperation:    "ErrInvalidStackOperation",
	ErrInvalidAltStackOperation: "ErrInvalidAltStackOperation",
	ErrUnbalancedConditional:    "ErrUnbalancedConditional",
	ErrMinimalData:              "ErrMinimalData",
	ErrInvalidNumberRange:       "ErrInvalidNumberRange",
	ErrImpossibleEncoding:       "ErrImpossibleEncoding",
	ErrInvalidSplitRange:        "ErrInvalidSplitRange",
	ErrInvalidOperandSize:       "ErrInvalidOperandSize",
	ErrDivByZero:                "ErrDivByZero",
	ErrModByZero:                "ErrModByZero",
	ErrInvalidSigHashType:       "ErrInvalidSigHashType",
	ErrMustUseForkID:            "ErrMustUseForkID",
	ErrInvalidPrivateKey:        "ErrInvalidPrivateKey",
	ErrSigDER:                   "ErrSigDER",
	ErrSigHighS:                 "ErrSigHighS",
	ErrSigNullDummy:             "ErrSigNullDummy",
	ErrPubKeyType:               "ErrPubKeyType",
	ErrNullFail:                 "ErrNullFail",
	ErrCleanStack:               "ErrCleanStack",
	ErrDiscourageUpgradableNOPs: "ErrDiscourageUpgradableNOPs",
	ErrNegativeLockTime:         "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:      "ErrUnsatisfiedLockTime",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error.  It is used to indicate three
// classes of errors:
//  1. Script execution failures due to violating one of the many requirements
//     imposed by the script engine or evaluating to false
//  2. Improper API usage by callers
//  3. Internal consistency check failures
//
// The caller can use type assertions on the returned errors to access the
// ErrorCode field to ascertain the specific reason for the error.  As an
// additional convenience, the caller may make use of the IsErrorCode function
// to check for a specific error code.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}
