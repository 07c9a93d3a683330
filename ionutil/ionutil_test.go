// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ionutil_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ioncore/ionscript/chaincfg"
	"github.com/ioncore/ionscript/ionutil"
	"github.com/stretchr/testify/require"
)

func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in test source: " + s)
	}
	return b
}

// TestPubKeyAndAddress checks key derivation and address encoding against
// the well known key with scalar one.
func TestPubKeyAndAddress(t *testing.T) {
	t.Parallel()

	priv := make([]byte, 32)
	priv[31] = 1
	pubKey, err := ionutil.PubKey(priv)
	require.NoError(t, err)
	require.Equal(t, hexToBytes("0279be667ef9dcbbac55a06295ce870b07029bfcdb"+
		"2dce28d959f2815b16f81798"), pubKey)

	addrBin := ionutil.AddrBin(pubKey)
	require.Equal(t, hexToBytes("751e76e8199196d454941c45d1b3a323f1433bd6"),
		addrBin)

	addr, err := ionutil.EncodeAddress(addrBin, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", addr)

	decoded, err := ionutil.DecodeAddress(addr, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, addrBin, decoded)

	_, err = ionutil.DecodeAddress(addr, &chaincfg.RegressionNetParams)
	require.True(t, errors.Is(err, ionutil.ErrWrongNetwork), "%v", err)

	_, err = ionutil.EncodeAddress(addrBin[:19], &chaincfg.MainNetParams)
	require.True(t, errors.Is(err, ionutil.ErrMalformedAddress), "%v", err)
}

// TestPubKeyInvalid ensures private keys outside the valid scalar range are
// rejected.
func TestPubKeyInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		priv []byte
	}{
		{"short", make([]byte, 31)},
		{"zero", make([]byte, 32)},
		{"order", hexToBytes("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")},
	}
	for _, test := range tests {
		_, err := ionutil.PubKey(test.priv)
		if !errors.Is(err, ionutil.ErrMalformedPrivateKey) {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}
	}
}

// TestRandomBytes ensures the requested number of bytes is returned and that
// two draws differ.
func TestRandomBytes(t *testing.T) {
	t.Parallel()

	a, err := ionutil.RandomBytes(32)
	require.NoError(t, err)
	b, err := ionutil.RandomBytes(32)
	require.NoError(t, err)
	require.Len(t, a, 32)
	require.False(t, bytes.Equal(a, b))

	empty, err := ionutil.RandomBytes(0)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = ionutil.RandomBytes(-1)
	require.Error(t, err)

	priv, err := ionutil.NewPrivateKey()
	require.NoError(t, err)
	_, err = ionutil.PubKey(priv)
	require.NoError(t, err)
}

// TestWIF checks wallet import format strings in both directions.
func TestWIF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priv     []byte
		params   *chaincfg.Params
		compress bool
		encoded  string
	}{{
		priv: hexToBytes("0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471b" +
			"e89827e19d72aa1d"),
		params:   &chaincfg.MainNetParams,
		compress: false,
		encoded:  "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ",
	}, {
		priv: hexToBytes("dda35a1488fb97b6eb3fe6e9ef2a25814e396fb5dc295fe9" +
			"94b96789b21a0398"),
		params:   &chaincfg.TestNet3Params,
		compress: true,
		encoded:  "cV1Y7ARUr9Yx7BR55nTdnR7ZXNJphZtCCMBTEZBJe1hXt2kB684q",
	}}

	for _, test := range tests {
		encoded, err := ionutil.EncodeWIF(test.priv, test.params,
			test.compress)
		if err != nil {
			t.Errorf("EncodeWIF %s: %v", test.encoded, err)
			continue
		}
		if encoded != test.encoded {
			t.Errorf("EncodeWIF: got %s, want %s", encoded, test.encoded)
			continue
		}

		priv, compress, err := ionutil.DecodeWIF(test.encoded, test.params)
		if err != nil {
			t.Errorf("DecodeWIF %s: %v", test.encoded, err)
			continue
		}
		if !bytes.Equal(priv, test.priv) || compress != test.compress {
			t.Errorf("DecodeWIF %s: got %x (compress %v)", test.encoded,
				priv, compress)
		}
	}

	_, _, err := ionutil.DecodeWIF(tests[0].encoded, &chaincfg.TestNet3Params)
	require.True(t, errors.Is(err, ionutil.ErrWrongNetwork), "%v", err)
}

// TestTxID ensures the transaction id is the double hash of the serialized
// transaction in internal byte order.
func TestTxID(t *testing.T) {
	t.Parallel()

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{0xaa}, 3),
		[]byte{0x51}, nil))
	tx.AddTxOut(wire.NewTxOut(5000, []byte{0x76, 0xa9}))
	txHex, err := ionutil.EncodeTx(tx)
	require.NoError(t, err)

	id, err := ionutil.TxID(txHex)
	require.NoError(t, err)
	want := tx.TxHash()
	require.Equal(t, want[:], id)
	require.Equal(t, chainhash.DoubleHashB(hexToBytes(txHex)), id)

	str, err := ionutil.TxIDString(txHex)
	require.NoError(t, err)
	require.Equal(t, want.String(), str)

	decoded, err := ionutil.DecodeTx(txHex)
	require.NoError(t, err)
	require.Equal(t, tx.TxHash(), decoded.TxHash())

	for _, bad := range []string{"zz", txHex[:20], txHex + "00"} {
		if _, err := ionutil.TxID(bad); err == nil {
			t.Errorf("TxID(%q) did not fail", bad)
		}
	}
}

// TestUtxo ensures unspent outputs decode from listunspent JSON.
func TestUtxo(t *testing.T) {
	t.Parallel()

	input := `[{"txid": "` + strings.Repeat("ab", 32) + `", "vout": 1,
		"amount": 0.5, "address": "mxyz",
		"scriptPubKey": "76a914` + strings.Repeat("11", 20) + `88ac"}]`
	utxos, err := ionutil.ReadUtxos(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, utxos, 1)

	u := utxos[0]
	op, err := u.OutPoint()
	require.NoError(t, err)
	require.Equal(t, uint32(1), op.Index)
	require.Equal(t, strings.Repeat("ab", 32), op.Hash.String())

	script, err := u.PkScript()
	require.NoError(t, err)
	require.Len(t, script, 25)

	value, err := u.Value()
	require.NoError(t, err)
	require.Equal(t, btcutil.Amount(50000000), value)

	u.Amount = -1
	_, err = u.Value()
	require.Error(t, err)

	u.TxID = "xyz"
	_, err = u.OutPoint()
	require.Error(t, err)
}
