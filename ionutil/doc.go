// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ionutil provides the key, address and transaction helpers that sit
around the script engine.

Keys

Private keys are raw 32-byte scalars.  PubKey derives the compressed public
key for one, and AddrBin reduces a public key to the 20-byte hash that a
pay-to-pubkey-hash output script locks to.  RandomBytes and NewPrivateKey
draw from the operating system's secure random source.

Addresses

EncodeAddress and DecodeAddress convert between an address payload and its
base58check string using the version byte of the chain parameters.

Transactions

TxID hashes a serialized transaction.  The returned bytes are in the internal
order used by outpoints, which is the reverse of the order a transaction id is
usually displayed in.  Utxo is the unspent output record returned by a node's
listunspent call.
*/
package ionutil
