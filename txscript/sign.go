// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/wire"
	"github.com/ioncore/ionscript/chaincfg"
)

// RawTxInSignature returns the serialized ECDSA signature for the input idx of
// the given transaction, with hashType appended to it.  The input spends an
// output worth amt locked by subScript.  Signing is deterministic (RFC6979).
//
// A hash type without SigHashForkID is a caller error and is reported as
// ErrMustUseForkID without producing a signature.
func RawTxInSignature(tx *wire.MsgTx, sigHashes *TxSigHashes, idx int,
	amt int64, subScript []byte, hashType SigHashType,
	key *btcec.PrivateKey, params *chaincfg.Params) ([]byte, error) {

	if params == nil {
		return nil, scriptError(ErrInternal, "signing requires chain "+
			"parameters")
	}
	hash, err := CalcSignatureHash(subScript, sigHashes, hashType, tx, idx,
		amt, params.ForkID)
	if err != nil {
		return nil, err
	}

	signature := ecdsa.Sign(key, hash)
	return append(signature.Serialize(), byte(hashType&0xff)), nil
}

// SignTxInput signs input idx of tx, which spends an output worth amt locked
// by prevOutScript, with the raw 32-byte private key privKey.  The returned
// signature carries the hash type byte and is ready to be pushed by a spend
// script.
func SignTxInput(tx *wire.MsgTx, idx int, amt int64, prevOutScript []byte,
	privKey []byte, hashType SigHashType,
	params *chaincfg.Params) ([]byte, error) {

	// Refuse to sign before touching the key or the transaction so a
	// replayable signature is never produced.
	if hashType&SigHashForkID == 0 {
		str := fmt.Sprintf("refusing to sign with hash type %v that does "+
			"not commit to the fork id", hashType)
		return nil, scriptError(ErrMustUseForkID, str)
	}
	if tx == nil {
		return nil, scriptError(ErrInternal, "no transaction to sign")
	}
	if len(privKey) != btcec.PrivKeyBytesLen {
		str := fmt.Sprintf("private key must be %d bytes, got %d",
			btcec.PrivKeyBytesLen, len(privKey))
		return nil, scriptError(ErrInvalidPrivateKey, str)
	}

	// PrivKeyFromBytes reduces the scalar modulo the curve order, so a key
	// out of range would silently sign as a different key.
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(privKey); overflow || scalar.IsZero() {
		return nil, scriptError(ErrInvalidPrivateKey, "private key is "+
			"zero or not below the curve order")
	}

	key, _ := btcec.PrivKeyFromBytes(privKey)
	return RawTxInSignature(tx, nil, idx, amt, prevOutScript, hashType, key,
		params)
}

// SignatureScript creates an input signature script for tx to spend an output
// locked by prevOutScript.  A pay-to-pubkey output is spent by the signature
// alone.  Any other output, such as pay-to-pubkey-hash, gets the signature
// followed by the public key, serialized compressed when compress is true.
func SignatureScript(tx *wire.MsgTx, idx int, amt int64, prevOutScript []byte,
	hashType SigHashType, privKey *btcec.PrivateKey, compress bool,
	params *chaincfg.Params) ([]byte, error) {

	sig, err := RawTxInSignature(tx, nil, idx, amt, prevOutScript, hashType,
		privKey, params)
	if err != nil {
		return nil, err
	}

	if IsPayToPubKeyScript(prevOutScript) {
		return SpendScript(sig)
	}

	pk := privKey.PubKey()
	var pkData []byte
	if compress {
		pkData = pk.SerializeCompressed()
	} else {
		pkData = pk.SerializeUncompressed()
	}

	return SpendScript(sig, pkData)
}
