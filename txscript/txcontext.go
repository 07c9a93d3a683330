// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ioncore/ionscript/chaincfg"
)

// TxContext is the transaction a script machine verifies signatures against:
// the spending transaction, the index of the input being verified, the amount
// of the output it spends and that output's script.  The chain parameters
// supply the fork id every signature hash commits to.
//
// A TxContext never modifies the transaction, so any number of machines may
// share one as long as nothing else mutates the transaction meanwhile.
type TxContext struct {
	tx            *wire.MsgTx
	idx           int
	amount        int64
	prevOutScript []byte
	params        *chaincfg.Params
	sigHashes     *TxSigHashes
	sigCache      *SigCache
}

// NewTxContext returns a context for verifying input idx of tx, which spends
// an output worth amount that is locked by prevOutScript.  The signature cache
// is optional.
func NewTxContext(tx *wire.MsgTx, idx int, amount int64, prevOutScript []byte,
	params *chaincfg.Params, sigCache *SigCache) (*TxContext, error) {

	if tx == nil || params == nil {
		return nil, scriptError(ErrInternal, "transaction context "+
			"requires a transaction and chain parameters")
	}
	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}

	return &TxContext{
		tx:            tx,
		idx:           idx,
		amount:        amount,
		prevOutScript: prevOutScript,
		params:        params,
		sigHashes:     NewTxSigHashes(tx),
		sigCache:      sigCache,
	}, nil
}

// Tx returns the spending transaction.
func (c *TxContext) Tx() *wire.MsgTx {
	return c.tx
}

// InputIndex returns the index of the input being verified.
func (c *TxContext) InputIndex() int {
	return c.idx
}

// Amount returns the value of the output being spent.
func (c *TxContext) Amount() int64 {
	return c.amount
}

// PrevOutScript returns the script of the output being spent.
func (c *TxContext) PrevOutScript() []byte {
	return c.prevOutScript
}

// Params returns the chain parameters of the context.
func (c *TxContext) Params() *chaincfg.Params {
	return c.params
}

// SignatureHash returns the hash a signature of the given type over
// subScript commits to.
func (c *TxContext) SignatureHash(subScript []byte, hashType SigHashType) ([]byte, error) {
	return CalcSignatureHash(subScript, c.sigHashes, hashType, c.tx, c.idx,
		c.amount, c.params.ForkID)
}

// parseSigAndPubKey parses a signature and public key as they appear on the
// stack.  Strict DER parsing is used whenever any of the signature encoding
// flags is set.
func parseSigAndPubKey(sigBytes, pkBytes []byte,
	flags ScriptFlags) (*ecdsa.Signature, *btcec.PublicKey, error) {

	pubKey, err := btcec.ParsePubKey(pkBytes)
	if err != nil {
		return nil, nil, err
	}

	var sig *ecdsa.Signature
	strict := ScriptVerifyStrictEncoding | ScriptVerifyDERSignatures |
		ScriptVerifyLowS
	if flags&strict != 0 {
		sig, err = ecdsa.ParseDERSignature(sigBytes)
	} else {
		sig, err = ecdsa.ParseSignature(sigBytes)
	}
	if err != nil {
		return nil, nil, err
	}
	return sig, pubKey, nil
}

// verifyECDSA reports whether sigBytes is a valid signature of hash by the
// public key pkBytes.  Unparsable input is simply invalid.
func verifyECDSA(sigBytes, pkBytes, hash []byte, flags ScriptFlags) bool {
	sig, pubKey, err := parseSigAndPubKey(sigBytes, pkBytes, flags)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// checkSig reports whether sigBytes, stripped of its hash type byte, is a valid
// signature by pkBytes of this context's input under subScript.
func (c *TxContext) checkSig(sigBytes []byte, hashType SigHashType,
	pkBytes, subScript []byte, flags ScriptFlags) bool {

	hash, err := c.SignatureHash(subScript, hashType)
	if err != nil {
		log.Debugf("unable to compute signature hash: %v", err)
		return false
	}

	var sigHash chainhash.Hash
	copy(sigHash[:], hash)
	if c.sigCache != nil && c.sigCache.Exists(sigHash, sigBytes, pkBytes) {
		return true
	}

	if !verifyECDSA(sigBytes, pkBytes, hash, flags) {
		return false
	}

	if c.sigCache != nil {
		c.sigCache.Add(sigHash, sigBytes, pkBytes)
	}
	return true
}

// VerifyInput decides whether the input of this context is authorized to spend
// the output.  The input's signature script is evaluated first and the output
// script is then evaluated against the stack it leaves behind.  The spend is
// authorized when both run without error and the top stack item is true.
func (c *TxContext) VerifyInput(flags ScriptFlags) error {
	sigScript := c.tx.TxIn[c.idx].SignatureScript
	if flags&ScriptVerifySigPushOnly != 0 && !IsPushOnlyScript(sigScript) {
		return scriptError(ErrNotPushOnly,
			"signature script is not push only")
	}

	vm := NewScriptMachine(flags, c)
	defer vm.Cleanup()

	if !vm.Eval(sigScript) {
		return vm.LastError()
	}
	if !vm.Eval(c.prevOutScript) {
		return vm.LastError()
	}

	return checkFinalStack(vm)
}

// checkFinalStack returns nil when the machine's final stack authorizes a
// spend.
func checkFinalStack(vm *ScriptMachine) error {
	if vm.dstack.Depth() < 1 {
		return scriptError(ErrEvalFalse,
			"stack empty at end of script execution")
	}

	if vm.hasFlag(ScriptVerifyCleanStack) && vm.dstack.Depth() != 1 {
		str := fmt.Sprintf("stack must contain exactly one item (contains %d)",
			vm.dstack.Depth())
		return scriptError(ErrCleanStack, str)
	}

	v, err := vm.dstack.PeekBool(0)
	if err != nil {
		return err
	}
	if !v {
		// Log interesting data.
		log.Tracef("%v", newLogClosure(func() string {
			return fmt.Sprintf("stack:\n%s", vm.dstack.String())
		}))
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}
