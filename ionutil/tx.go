// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ionutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// decodeRawTx returns the raw bytes of a hex encoded transaction along with
// the parsed transaction.
func decodeRawTx(txHex string) ([]byte, *wire.MsgTx, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return nil, nil, fmt.Errorf("transaction is not hex: %w", err)
	}

	var tx wire.MsgTx
	r := bytes.NewReader(raw)
	if err := tx.DeserializeNoWitness(r); err != nil {
		return nil, nil, fmt.Errorf("unable to deserialize transaction: %w",
			err)
	}
	if r.Len() != 0 {
		return nil, nil, fmt.Errorf("%d trailing bytes after transaction",
			r.Len())
	}
	return raw, &tx, nil
}

// DecodeTx parses a hex encoded serialized transaction.
func DecodeTx(txHex string) (*wire.MsgTx, error) {
	_, tx, err := decodeRawTx(txHex)
	return tx, err
}

// EncodeTx returns the hex encoding of the serialized transaction.
func EncodeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSizeStripped())
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// TxID returns the double SHA256 of the hex encoded transaction in internal
// byte order, ready to be used as the hash of an outpoint.  Reverse it, or
// use TxIDString, to get the form nodes display.
func TxID(txHex string) ([]byte, error) {
	raw, _, err := decodeRawTx(txHex)
	if err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(raw), nil
}

// TxIDString returns the transaction id of the hex encoded transaction as it
// is displayed by nodes.
func TxIDString(txHex string) (string, error) {
	id, err := TxID(txHex)
	if err != nil {
		return "", err
	}
	hash, err := chainhash.NewHash(id)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}
