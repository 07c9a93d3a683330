// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the transaction script language of a Bitcoin Cash
style chain.

This package provides data structures and functions to parse, execute and
build transaction scripts, and to sign and verify the inputs that run them.

# Script Overview

Transaction scripts are written in a stack-based, FORTH-like language.

The script language consists of a number of opcodes which fall into several
categories such pushing and popping data to and from the stack, performing
basic and bitwise arithmetic, splicing byte strings, conditional branching,
comparing hashes, and checking cryptographic signatures.  Scripts are processed
from left to right and intentionally do not provide loops.

An input is authorized to spend an output when its signature script, followed
by the output's script, runs to completion on a single stack and leaves a true
value on top.

# Script Machine

A ScriptMachine owns a main stack, an alternate stack and the conditional
stack that tracks nested IF/ELSE/ENDIF blocks.  Eval runs a whole script
against the current stacks, while Begin and Step run it one opcode at a time
and Pos reports the byte offset reached.  Clone copies all execution state so
two executions can diverge from a common point.

Signature opcodes need a TxContext that names the spending transaction, the
input index and the amount being spent.  Every signature hash commits to the
fork id of the chain parameters the context is created with.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing rich
error messages with contextual information.  A convenience function named
IsErrorCode is also provided to allow callers to easily check for a specific
error code.  See ErrorCode in the package documentation for a full list.

Stepping past the end of a script returns ErrStepBeyondEnd, which is not a
txscript.Error and does not fault the machine.
*/
package txscript
