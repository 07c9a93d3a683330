// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ionutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Utxo is an unspent transaction output as reported by a node's listunspent
// call.  Amount is in whole coins.
type Utxo struct {
	TxID         string  `json:"txid"`
	Vout         uint32  `json:"vout"`
	Amount       float64 `json:"amount"`
	Address      string  `json:"address,omitempty"`
	ScriptPubKey string  `json:"scriptPubKey"`
}

// OutPoint returns the outpoint that spends the output.
func (u *Utxo) OutPoint() (*wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(u.TxID)
	if err != nil {
		return nil, fmt.Errorf("bad txid %q: %w", u.TxID, err)
	}
	return wire.NewOutPoint(hash, u.Vout), nil
}

// PkScript returns the decoded script locking the output.
func (u *Utxo) PkScript() ([]byte, error) {
	script, err := hex.DecodeString(u.ScriptPubKey)
	if err != nil {
		return nil, fmt.Errorf("bad scriptPubKey for %s:%d: %w", u.TxID,
			u.Vout, err)
	}
	return script, nil
}

// Value returns the amount of the output in its base unit.
func (u *Utxo) Value() (btcutil.Amount, error) {
	amt, err := btcutil.NewAmount(u.Amount)
	if err != nil {
		return 0, fmt.Errorf("bad amount for %s:%d: %w", u.TxID, u.Vout,
			err)
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount %v for %s:%d", amt, u.TxID,
			u.Vout)
	}
	return amt, nil
}

// ReadUtxos decodes a JSON array of unspent outputs.
func ReadUtxos(r io.Reader) ([]Utxo, error) {
	var utxos []Utxo
	if err := json.NewDecoder(r).Decode(&utxos); err != nil {
		return nil, fmt.Errorf("unable to decode unspent outputs: %w", err)
	}
	return utxos, nil
}
