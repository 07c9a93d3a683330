// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ionutil

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ioncore/ionscript/chaincfg"
	"golang.org/x/crypto/ripemd160"
)

// ErrMalformedAddress describes an error where an address is improperly
// formatted, either due to an incorrect length of the hashed pubkey or
// a non-matching checksum.
var ErrMalformedAddress = errors.New("malformed address")

// EncodeAddress takes a 20-byte address payload (the hash160 of a public key)
// and encodes it as a pay-to-pubkey-hash address for the network.
func EncodeAddress(addrBin []byte, params *chaincfg.Params) (string, error) {
	if len(addrBin) != ripemd160.Size {
		return "", fmt.Errorf("%w: payload is %d bytes", ErrMalformedAddress,
			len(addrBin))
	}
	return base58.CheckEncode(addrBin, params.PubKeyHashAddrID), nil
}

// DecodeAddress decodes a pay-to-pubkey-hash address of the network and
// returns its 20-byte payload.
func DecodeAddress(addr string, params *chaincfg.Params) ([]byte, error) {
	addrBin, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if len(addrBin) != ripemd160.Size {
		return nil, fmt.Errorf("%w: payload is %d bytes",
			ErrMalformedAddress, len(addrBin))
	}
	if version != params.PubKeyHashAddrID {
		return nil, fmt.Errorf("%w: address version 0x%02x is not for %s",
			ErrWrongNetwork, version, params.Name)
	}
	return addrBin, nil
}
