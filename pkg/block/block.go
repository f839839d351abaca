// Package block decodes Bitcoin Core blk*.dat files: XOR descrambling,
// magic-anchored block enumeration, 80-byte header parsing, BIP34
// coinbase height extraction, and merkle root recomputation.
package block

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"
)

// Magic is the mainnet block-file magic, anchoring each block record in
// a blk*.dat/rev*.dat file.
var Magic = [4]byte{0xf9, 0xbe, 0xb4, 0xd9}

// Header is a parsed 80-byte block header.
type Header struct {
	Version         int32
	PrevBlockHash   string // display (big-endian) hex
	MerkleRoot      string // display hex
	MerkleRootBytes []byte // internal byte order, for recomputation checks
	Timestamp       uint32
	Bits            string // formatted as 8 hex digits, e.g. "1d00ffff"
	Nonce           uint32
	BlockHash       string // display hex
}

// XORDecode reverses Bitcoin Core's xor.dat obfuscation of blk/rev
// files. An empty or all-zero key is a no-op passthrough.
func XORDecode(data, key []byte) []byte {
	if len(key) == 0 || isAllZero(key) {
		return data
	}
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

func isAllZero(key []byte) bool {
	for _, b := range key {
		if b != 0 {
			return false
		}
	}
	return true
}

// ParseHeader reads the fixed 80-byte block header at the cursor's
// current position.
func ParseHeader(c *reader.Cursor) (Header, error) {
	start := c.Tell()

	version, err := c.ReadI32LE()
	if err != nil {
		return Header{}, err
	}
	prevBlock, err := c.ReadHash()
	if err != nil {
		return Header{}, err
	}
	merkleRoot, err := c.ReadHash()
	if err != nil {
		return Header{}, err
	}
	timestamp, err := c.ReadU32LE()
	if err != nil {
		return Header{}, err
	}
	bits, err := c.ReadU32LE()
	if err != nil {
		return Header{}, err
	}
	nonce, err := c.ReadU32LE()
	if err != nil {
		return Header{}, err
	}

	headerBytes := c.SliceFrom(start)
	blockHash := hashes.DoubleSHA256(headerBytes)

	merkleRootCopy := append([]byte(nil), merkleRoot...)

	return Header{
		Version:         version,
		PrevBlockHash:   hex.EncodeToString(hashes.ReverseCopy(prevBlock)),
		MerkleRoot:      hex.EncodeToString(hashes.ReverseCopy(merkleRoot)),
		MerkleRootBytes: merkleRootCopy,
		Timestamp:       timestamp,
		Bits:            fmt.Sprintf("%08x", bits),
		Nonce:           nonce,
		BlockHash:       hex.EncodeToString(hashes.ReverseCopy(blockHash)),
	}, nil
}

// ComputeMerkleRoot recomputes the merkle root over a block's ordered
// txid hashes (internal byte order), duplicating the last hash at each
// level that has an odd count.
func ComputeMerkleRoot(txidHashes [][]byte) []byte {
	if len(txidHashes) == 0 {
		return make([]byte, 32)
	}
	level := make([][]byte, len(txidHashes))
	copy(level, txidHashes)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			pair := append(append([]byte(nil), level[i]...), level[i+1]...)
			next = append(next, hashes.DoubleSHA256(pair))
		}
		level = next
	}
	return level[0]
}

// DecodeBIP34Height extracts the coinbase-encoded block height from the
// coinbase transaction's scriptSig, per BIP34: the first byte is a
// minimal-push length, followed by a little-endian integer.
func DecodeBIP34Height(scriptSig []byte) int64 {
	if len(scriptSig) == 0 {
		return 0
	}
	heightLen := int(scriptSig[0])
	if heightLen == 0 || heightLen > 8 {
		return 0
	}
	if heightLen > len(scriptSig)-1 {
		heightLen = len(scriptSig) - 1
	}
	var height int64
	for i := heightLen - 1; i >= 0; i-- {
		height = (height << 8) | int64(scriptSig[1+i])
	}
	return height
}

// SkipTransaction advances the cursor past one transaction without
// materializing its fields, returning the transaction's start offset.
// This is a distinct concern from transaction.Decode (finding byte
// extents before any field is parsed, so block enumeration doesn't pay
// for a full decode of transactions it may not need) and intentionally
// shares the same CompactSize/Cursor primitives rather than re-deriving
// them.
func SkipTransaction(c *reader.Cursor) (int, error) {
	start := c.Tell()
	if _, err := c.ReadBytes(4); err != nil { // version
		return 0, err
	}

	saved := c.Tell()
	marker, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	flag, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	isSegwit := marker == 0x00 && flag == 0x01
	if !isSegwit {
		c.Seek(saved)
	}

	numInputs, err := varint.ReadCompactSize(c)
	if err != nil && !isNonCanonical(err) {
		return 0, err
	}
	for i := uint64(0); i < numInputs; i++ {
		if _, err := c.ReadBytes(36); err != nil { // txid + vout
			return 0, err
		}
		sigLen, err := varint.ReadCompactSize(c)
		if err != nil && !isNonCanonical(err) {
			return 0, err
		}
		if _, err := c.ReadBytes(int(sigLen) + 4); err != nil { // scriptSig + sequence
			return 0, err
		}
	}

	numOutputs, err := varint.ReadCompactSize(c)
	if err != nil && !isNonCanonical(err) {
		return 0, err
	}
	for i := uint64(0); i < numOutputs; i++ {
		if _, err := c.ReadBytes(8); err != nil { // value
			return 0, err
		}
		scriptLen, err := varint.ReadCompactSize(c)
		if err != nil && !isNonCanonical(err) {
			return 0, err
		}
		if _, err := c.ReadBytes(int(scriptLen)); err != nil {
			return 0, err
		}
	}

	if isSegwit {
		for i := uint64(0); i < numInputs; i++ {
			numItems, err := varint.ReadCompactSize(c)
			if err != nil && !isNonCanonical(err) {
				return 0, err
			}
			for j := uint64(0); j < numItems; j++ {
				itemLen, err := varint.ReadCompactSize(c)
				if err != nil && !isNonCanonical(err) {
					return 0, err
				}
				if _, err := c.ReadBytes(int(itemLen)); err != nil {
					return 0, err
				}
			}
		}
	}

	if _, err := c.ReadBytes(4); err != nil { // locktime
		return 0, err
	}

	return start, nil
}

func isNonCanonical(err error) bool {
	return errors.Is(err, ierrors.ErrNonCanonicalSize)
}
