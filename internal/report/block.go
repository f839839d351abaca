package report

import (
	"encoding/hex"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/block"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/script"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/transaction"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/undo"

	"github.com/sirupsen/logrus"
)

// AnalyzeBlockFile decodes every block in blkData (already read off
// disk), pairs each with its undo data out of revData, and returns one
// BlockOutput per block. xorKey descrambles both blkData and revData
// before anything else happens; a nil/empty key is a no-op.
func AnalyzeBlockFile(log *logrus.Logger, blkData, revData, xorKey []byte) ([]BlockOutput, error) {
	blkData = block.XORDecode(blkData, xorKey)
	revData = block.XORDecode(revData, xorKey)

	blockInfos, err := block.Enumerate(blkData)
	if err != nil {
		return nil, fmt.Errorf("enumerate blocks: %w", err)
	}

	revBlocks, err := preParseRevBlocks(revData)
	if err != nil {
		return nil, fmt.Errorf("enumerate undo blocks: %w", err)
	}

	txCounts := make([]int, len(blockInfos))
	for i, info := range blockInfos {
		txCounts[i] = info.NumTxs
	}
	matched, ambiguous, err := matchRevBlocks(txCounts, revBlocks)
	if err != nil {
		return nil, err
	}

	outputs := make([]BlockOutput, 0, len(blockInfos))
	mismatches := 0
	for blkIdx, info := range blockInfos {
		out, err := analyzeOneBlock(log, blkData, info, matched[blkIdx], ambiguous[blkIdx])
		if err != nil {
			return nil, fmt.Errorf("block %d at offset %d: %w", blkIdx, info.DataStart, err)
		}
		if !out.BlockHeader.MerkleRootValid {
			mismatches++
		}
		outputs = append(outputs, out)
	}

	if mismatches > 0 {
		return outputs, fmt.Errorf("%w: %d of %d blocks", ierrors.ErrMerkleMismatch, mismatches, len(outputs))
	}

	return outputs, nil
}

func analyzeOneBlock(log *logrus.Logger, blkData []byte, info block.Info, undoData []byte, ambiguousPairing bool) (BlockOutput, error) {
	c := reader.New(blkData)
	c.Seek(info.DataStart)
	header, err := block.ParseHeader(c)
	if err != nil {
		return BlockOutput{}, err
	}

	var undoPrevouts [][]undo.Prevout
	if undoData != nil && info.NumTxs > 1 {
		undoReader := reader.New(undoData)
		undoPrevouts, err = undo.DecodeBlockUndo(undoReader)
		if err != nil {
			return BlockOutput{}, fmt.Errorf("%w: %v", ierrors.ErrUndoMismatch, err)
		}
		if len(undoPrevouts) != info.NumTxs-1 {
			return BlockOutput{}, fmt.Errorf("%w: undo has %d tx entries, block has %d non-coinbase txs", ierrors.ErrUndoMismatch, len(undoPrevouts), info.NumTxs-1)
		}
	}

	transactions := make([]TransactionOutput, 0, info.NumTxs)
	txidHashes := make([][]byte, 0, info.NumTxs)
	scriptTypeCounts := make(map[string]int)

	var coinbase CoinbaseInfo
	var totalFees int64
	var totalWeight int
	var totalVBytesNonCoinbase int

	for txIdx, r := range info.TxRanges {
		raw := blkData[r.Start:r.End]
		tx, err := transaction.Decode(raw)
		if err != nil {
			log.WithError(err).WithField("tx_index", txIdx).Warn("failed to decode transaction in block")
			transactions = append(transactions, ErrorResponse("INVALID_TX", err.Error()))
			continue
		}

		txidBytes, _ := hex.DecodeString(tx.TXID)
		txidHashes = append(txidHashes, hashes.ReverseCopy(txidBytes))

		isCoinbase := txIdx == 0
		var totalOutputSats int64
		voutResult := make([]Output, 0, len(tx.Outputs))
		voutTypes := make([]string, 0, len(tx.Outputs))
		for _, out := range tx.Outputs {
			kind := script.ClassifyOutput(out.ScriptPubKeyHex)
			totalOutputSats += out.ValueSats
			voutTypes = append(voutTypes, string(kind))
			scriptTypeCounts[string(kind)]++
			voutResult = append(voutResult, Output{
				N:               out.N,
				ValueSats:       out.ValueSats,
				ScriptPubkeyHex: out.ScriptPubKeyHex,
				ScriptType:      string(kind),
			})
		}

		var feeSats int64
		if isCoinbase {
			scriptSig, _ := hex.DecodeString(tx.Inputs[0].ScriptSigHex)
			coinbase = CoinbaseInfo{
				Bip34Height:       block.DecodeBIP34Height(scriptSig),
				CoinbaseScriptHex: tx.Inputs[0].ScriptSigHex,
				TotalOutputSats:   totalOutputSats,
			}
		} else {
			undoIdx := txIdx - 1
			if undoIdx < len(undoPrevouts) {
				var totalInputSats int64
				for _, p := range undoPrevouts[undoIdx] {
					totalInputSats += p.ValueSats
				}
				feeSats = totalInputSats - totalOutputSats
				totalFees += feeSats
				totalVBytesNonCoinbase += tx.VBytes
			}
		}

		totalWeight += tx.Weight

		transactions = append(transactions, TransactionOutput{
			OK:              true,
			Segwit:          tx.Segwit,
			Txid:            tx.TXID,
			Wtxid:           tx.WTXID,
			Version:         tx.Version,
			Locktime:        tx.Locktime,
			SizeBytes:       tx.SizeBytes,
			Weight:          tx.Weight,
			Vbytes:          tx.VBytes,
			FeeSats:         feeSats,
			TotalOutputSats: totalOutputSats,
			VinCount:        len(tx.Inputs),
			VoutCount:       len(voutResult),
			VoutScriptTypes: voutTypes,
			Vout:            voutResult,
		})
	}

	computedMerkle := block.ComputeMerkleRoot(txidHashes)
	merkleValid := bytesEqual(computedMerkle, header.MerkleRootBytes)
	if !merkleValid {
		log.WithField("block_hash", header.BlockHash).Warn("merkle root mismatch")
	}

	var avgFeeRate float64
	if totalVBytesNonCoinbase > 0 {
		avgFeeRate = roundTo(float64(totalFees)/float64(totalVBytesNonCoinbase), 1)
	}

	if ambiguousPairing {
		log.WithField("block_hash", header.BlockHash).Warn("AMBIGUOUS_PAIRING: multiple undo blocks had the same non-coinbase tx count")
	}

	return BlockOutput{
		OK:   true,
		Mode: "block",
		BlockHeader: BlockHeader{
			Version:         header.Version,
			PrevBlockHash:   header.PrevBlockHash,
			MerkleRoot:      header.MerkleRoot,
			MerkleRootValid: merkleValid,
			Timestamp:       header.Timestamp,
			Bits:            header.Bits,
			Nonce:           header.Nonce,
			BlockHash:       header.BlockHash,
		},
		TxCount:      info.NumTxs,
		Coinbase:     coinbase,
		Transactions: transactions,
		BlockStats: BlockStats{
			TotalFeesSats:     totalFees,
			TotalWeight:       totalWeight,
			AvgFeeRateSatVb:   avgFeeRate,
			ScriptTypeSummary: scriptTypeCounts,
		},
	}, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roundTo(v float64, decimals int) float64 {
	mul := 1.0
	for i := 0; i < decimals; i++ {
		mul *= 10
	}
	return float64(int64(v*mul+0.5)) / mul
}
