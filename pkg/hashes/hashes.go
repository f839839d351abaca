// Package hashes collects the hash primitives the rest of the module
// needs: double-SHA256 (used for txids, wtxids and block hashes) and
// hash160 (used for P2PKH/P2SH address derivation).
package hashes

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// DoubleSHA256 returns sha256(sha256(data)).
func DoubleSHA256(data []byte) []byte {
	h := chainhash.DoubleHashB(data)
	return h[:]
}

// Hash160 returns ripemd160(sha256(data)), as used for P2PKH/P2SH.
func Hash160(data []byte) []byte {
	sum := chainhash.HashB(data)
	r := ripemd160.New()
	r.Write(sum)
	return r.Sum(nil)
}

// ReverseCopy returns a reversed copy of b, used to flip internal
// byte order into the big-endian display order Bitcoin hex strings use.
func ReverseCopy(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
