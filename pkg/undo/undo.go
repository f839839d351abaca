// Package undo decodes Bitcoin Core rev*.dat undo data: per-block,
// per-non-coinbase-transaction, per-input prevout recovery, including
// compressed-script expansion and secp256k1 point decompression for
// uncompressed pubkey scripts.
package undo

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Prevout is one recovered previous output, reconstructed from undo
// data rather than read directly off the chain.
type Prevout struct {
	ValueSats       int64
	ScriptPubKeyHex string
	Height          int64
	Coinbase        bool
}

// DecodeBlockUndo parses the undo records for an entire block: one
// []Prevout slice per non-coinbase transaction, in block order.
func DecodeBlockUndo(c *reader.Cursor) ([][]Prevout, error) {
	numTxUndos, err := readCompactSizeLoose(c)
	if err != nil {
		return nil, err
	}

	allPrevouts := make([][]Prevout, 0, numTxUndos)
	for t := uint64(0); t < numTxUndos; t++ {
		numInputs, err := readCompactSizeLoose(c)
		if err != nil {
			return nil, err
		}

		prevouts := make([]Prevout, 0, numInputs)
		for i := uint64(0); i < numInputs; i++ {
			p, err := decodePrevout(c)
			if err != nil {
				return nil, fmt.Errorf("tx undo %d input %d: %w", t, i, err)
			}
			prevouts = append(prevouts, p)
		}
		allPrevouts = append(allPrevouts, prevouts)
	}

	return allPrevouts, nil
}

// readCompactSizeLoose reads a CompactSize but treats a non-canonical
// encoding as a diagnostic rather than a decode failure, matching how
// permissive the rest of the decoder is about wire-format quirks that
// don't affect correctness.
func readCompactSizeLoose(c *reader.Cursor) (uint64, error) {
	v, err := varint.ReadCompactSize(c)
	if err != nil && !errors.Is(err, ierrors.ErrNonCanonicalSize) {
		return 0, err
	}
	return v, nil
}

func decodePrevout(c *reader.Cursor) (Prevout, error) {
	code, err := varint.ReadCoreVarint(c)
	if err != nil {
		return Prevout{}, err
	}
	height := int64(code >> 1)
	isCoinbase := code&1 != 0

	// Bitcoin Core's legacy CTxInUndo serialization carries a dummy
	// version field immediately after the height/coinbase code, but
	// only when height > 0 (nVersion was omitted for mempool-spent
	// coins prior to the height-always-present format).
	if height > 0 {
		if _, err := varint.ReadCoreVarint(c); err != nil {
			return Prevout{}, err
		}
	}

	compressedAmount, err := varint.ReadCoreVarint(c)
	if err != nil {
		return Prevout{}, err
	}
	valueSats := varint.DecompressAmount(compressedAmount)

	nSize, err := varint.ReadCoreVarint(c)
	if err != nil {
		return Prevout{}, err
	}
	scriptHex, err := decompressScript(c, nSize)
	if err != nil {
		return Prevout{}, err
	}

	return Prevout{
		ValueSats:       int64(valueSats),
		ScriptPubKeyHex: scriptHex,
		Height:          height,
		Coinbase:        isCoinbase,
	}, nil
}

// decompressScript expands a compressed scriptPubKey out of undo data.
// nSize selects the template: 0=P2PKH, 1=P2SH, 2/3=compressed-pubkey
// P2PK, 4/5=uncompressed-pubkey P2PK (requiring curve point recovery),
// >=6=raw script of length nSize-6.
func decompressScript(c *reader.Cursor, nSize uint64) (string, error) {
	switch nSize {
	case 0:
		hash20, err := c.ReadBytes(20)
		if err != nil {
			return "", err
		}
		script := append([]byte{0x76, 0xa9, 0x14}, append(append([]byte{}, hash20...), 0x88, 0xac)...)
		return hex.EncodeToString(script), nil

	case 1:
		hash20, err := c.ReadBytes(20)
		if err != nil {
			return "", err
		}
		script := append([]byte{0xa9, 0x14}, append(append([]byte{}, hash20...), 0x87)...)
		return hex.EncodeToString(script), nil

	case 2, 3:
		keyData, err := c.ReadBytes(32)
		if err != nil {
			return "", err
		}
		pubkey := append([]byte{byte(nSize)}, keyData...)
		script := append([]byte{0x21}, append(pubkey, 0xac)...)
		return hex.EncodeToString(script), nil

	case 4, 5:
		keyData, err := c.ReadBytes(32)
		if err != nil {
			return "", err
		}
		prefix := byte(0x02)
		if nSize == 5 {
			prefix = 0x03
		}
		compressed := append([]byte{prefix}, keyData...)

		pub, err := btcec.ParsePubKey(compressed)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ierrors.ErrCurvePointInvalid, err)
		}
		uncompressed := pub.SerializeUncompressed()

		script := append([]byte{0x41}, append(uncompressed, 0xac)...)
		return hex.EncodeToString(script), nil

	default:
		scriptLen := int(nSize) - 6
		raw, err := c.ReadBytes(scriptLen)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(raw), nil
	}
}
