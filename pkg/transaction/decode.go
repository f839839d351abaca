package transaction

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/config"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"
)

// DecodeHex parses a raw transaction given as a hex string.
func DecodeHex(rawHex string) (*Tx, error) {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("decode tx hex: %w", err)
	}
	return Decode(raw)
}

// Decode parses raw transaction bytes in a single pass, bookmarking the
// input/output byte range so the non-witness serialization used for
// txid can be sliced directly out of raw instead of rebuilt field by
// field.
func Decode(raw []byte) (*Tx, error) {
	c := reader.New(raw)

	version, err := c.ReadI32LE()
	if err != nil {
		return nil, err
	}

	savedOffset := c.Tell()
	marker, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	flag, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	isSegwit := marker == 0x00 && flag == 0x01
	// A zero-input transaction is consensus-invalid, so marker 0x00 is
	// never legitimately the start of the input count; any flag other
	// than 0x01 following it is a malformed segwit encoding rather than
	// a non-segwit transaction to reinterpret.
	if marker == 0x00 && flag != 0x01 {
		return nil, fmt.Errorf("%w: marker 0x%02x flag 0x%02x", ierrors.ErrInvalidMarkerFlag, marker, flag)
	}
	if !isSegwit {
		c.Seek(savedOffset)
	}

	startInputs := c.Tell()

	numInputs, err := readCompactSizeLoose(c)
	if err != nil {
		return nil, err
	}
	if numInputs > config.MaxTxInputs {
		return nil, fmt.Errorf("%w: %d", ierrors.ErrExcessiveInputs, numInputs)
	}

	inputs := make([]Input, 0, numInputs)
	for i := uint64(0); i < numInputs; i++ {
		txidBytes, err := c.ReadHash()
		if err != nil {
			return nil, err
		}
		vout, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		sigLen, err := readCompactSizeLoose(c)
		if err != nil {
			return nil, err
		}
		sigBytes, err := c.ReadBytes(int(sigLen))
		if err != nil {
			return nil, err
		}
		sequence, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{
			PrevTxID:     hex.EncodeToString(hashes.ReverseCopy(txidBytes)),
			PrevVout:     vout,
			ScriptSigHex: hex.EncodeToString(sigBytes),
			Sequence:     sequence,
		})
	}

	numOutputs, err := readCompactSizeLoose(c)
	if err != nil {
		return nil, err
	}
	if numOutputs > config.MaxTxOutputs {
		return nil, fmt.Errorf("%w: %d", ierrors.ErrExcessiveOutputs, numOutputs)
	}
	outputs := make([]Output, 0, numOutputs)
	for i := uint64(0); i < numOutputs; i++ {
		value, err := c.ReadU64LE()
		if err != nil {
			return nil, err
		}
		scriptLen, err := readCompactSizeLoose(c)
		if err != nil {
			return nil, err
		}
		scriptBytes, err := c.ReadBytes(int(scriptLen))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{
			N:               int(i),
			ValueSats:       int64(value),
			ScriptPubKeyHex: hex.EncodeToString(scriptBytes),
		})
	}

	endOutputs := c.Tell()

	if isSegwit {
		for i := range inputs {
			numItems, err := readCompactSizeLoose(c)
			if err != nil {
				return nil, err
			}
			items := make([][]byte, 0, numItems)
			for j := uint64(0); j < numItems; j++ {
				itemLen, err := readCompactSizeLoose(c)
				if err != nil {
					return nil, err
				}
				item, err := c.ReadBytes(int(itemLen))
				if err != nil {
					return nil, err
				}
				items = append(items, append([]byte(nil), item...))
			}
			inputs[i].Witness = items
		}
	}

	locktime, err := c.ReadU32LE()
	if err != nil {
		return nil, err
	}

	tx := &Tx{
		Version:  version,
		Locktime: locktime,
		Inputs:   inputs,
		Outputs:  outputs,
		Segwit:   isSegwit,
	}

	totalSize := len(raw)
	if isSegwit {
		nonWitness := make([]byte, 0, 4+(endOutputs-startInputs)+4)
		nonWitness = append(nonWitness, raw[:4]...)
		nonWitness = append(nonWitness, raw[startInputs:endOutputs]...)
		nonWitness = append(nonWitness, raw[len(raw)-4:]...)

		txidHash := hashes.DoubleSHA256(nonWitness)
		tx.TXID = hex.EncodeToString(hashes.ReverseCopy(txidHash))

		wtxidHash := hashes.DoubleSHA256(raw)
		wtxid := hex.EncodeToString(hashes.ReverseCopy(wtxidHash))
		tx.WTXID = &wtxid

		tx.NonWitnessSize = len(nonWitness)
		tx.WitnessSize = totalSize - tx.NonWitnessSize
		tx.Weight = tx.NonWitnessSize*4 + tx.WitnessSize
	} else {
		txidHash := hashes.DoubleSHA256(raw)
		tx.TXID = hex.EncodeToString(hashes.ReverseCopy(txidHash))

		tx.NonWitnessSize = totalSize
		tx.WitnessSize = 0
		tx.Weight = totalSize * 4
	}

	tx.SizeBytes = totalSize
	tx.VBytes = (tx.Weight + 3) / 4

	return tx, nil
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
