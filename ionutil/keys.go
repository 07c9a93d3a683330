// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ionutil

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ioncore/ionscript/chaincfg"
)

// ErrMalformedPrivateKey describes a private key that is not a 32-byte
// scalar in the range of the curve order.
var ErrMalformedPrivateKey = errors.New("malformed private key")

// ErrWrongNetwork describes an encoded key or address whose version byte
// belongs to another network.
var ErrWrongNetwork = errors.New("version byte does not match the network")

// PubKey returns the compressed public key of the raw private key priv.
func PubKey(priv []byte) ([]byte, error) {
	if len(priv) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			ErrMalformedPrivateKey, len(priv), btcec.PrivKeyBytesLen)
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(priv); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero or not below the "+
			"curve order", ErrMalformedPrivateKey)
	}

	_, pub := btcec.PrivKeyFromBytes(priv)
	return pub.SerializeCompressed(), nil
}

// AddrBin returns the 20-byte address payload of a serialized public key,
// ripemd160(sha256(pubKey)).
func AddrBin(pubKey []byte) []byte {
	return btcutil.Hash160(pubKey)
}

// RandomBytes returns n bytes from the operating system's cryptographically
// secure random source.
func RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid random byte count %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewPrivateKey returns a fresh raw private key.  Unlike RandomBytes(32) the
// result is always a valid scalar.
func NewPrivateKey() ([]byte, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return key.Serialize(), nil
}

// EncodeWIF encodes a raw private key in wallet import format for the
// network.  The compress flag records that the key's public key is used in
// its compressed form.
func EncodeWIF(priv []byte, params *chaincfg.Params, compress bool) (string, error) {
	if _, err := PubKey(priv); err != nil {
		return "", err
	}

	payload := append([]byte(nil), priv...)
	if compress {
		payload = append(payload, 0x01)
	}
	return base58.CheckEncode(payload, params.PrivateKeyID), nil
}

// DecodeWIF decodes a wallet import format string and returns the raw private
// key and whether the public key is compressed.  The key must belong to the
// passed network.
func DecodeWIF(wif string, params *chaincfg.Params) ([]byte, bool, error) {
	_, version, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, false, err
	}
	if version != params.PrivateKeyID {
		return nil, false, fmt.Errorf("%w: private key version 0x%02x "+
			"is not for %s", ErrWrongNetwork, version, params.Name)
	}

	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, false, err
	}
	return decoded.PrivKey.Serialize(), decoded.CompressPubKey, nil
}
