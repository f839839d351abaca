package report

import (
	"errors"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/block"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"
)

type revBlockEntry struct {
	numTxUndo int
	data      []byte
}

// preParseRevBlocks walks a rev*.dat buffer and records each undo
// block's non-coinbase transaction count (its CTxUndo entry count)
// without decoding any of the coin entries yet.
func preParseRevBlocks(revData []byte) ([]revBlockEntry, error) {
	c := reader.New(revData)
	var entries []revBlockEntry

	for c.HasMore() && c.Remaining() >= 8 {
		magic := c.Peek(4)
		if len(magic) < 4 || magic[0] != block.Magic[0] || magic[1] != block.Magic[1] || magic[2] != block.Magic[2] || magic[3] != block.Magic[3] {
			break
		}
		if _, err := c.ReadBytes(4); err != nil {
			return nil, err
		}
		revSize, err := c.ReadU32LE()
		if err != nil {
			return nil, err
		}
		dataStart := c.Tell()

		numTxUndo, err := varint.ReadCompactSize(c)
		if err != nil && !errors.Is(err, ierrors.ErrNonCanonicalSize) {
			return nil, err
		}
		c.Seek(dataStart)

		raw, err := c.ReadBytes(int(revSize))
		if err != nil {
			return nil, err
		}
		if c.Remaining() >= 32 {
			if _, err := c.ReadBytes(32); err != nil { // checksum, unused
				return nil, err
			}
		}

		entries = append(entries, revBlockEntry{numTxUndo: int(numTxUndo), data: raw})
	}

	return entries, nil
}

// matchRevBlocks pairs each blk block (identified only by its total tx
// count) to an undo block with the matching non-coinbase tx count,
// taking the first unused candidate. When more than one unused candidate
// shares a count, the pairing is inherently ambiguous; the first is
// still used (so decoding can proceed) but the caller is told so it can
// surface a diagnostic instead of silently guessing.
func matchRevBlocks(blkTxCounts []int, revBlocks []revBlockEntry) (matched [][]byte, ambiguous []bool, err error) {
	byCount := make(map[int][]int)
	for idx, entry := range revBlocks {
		byCount[entry.numTxUndo] = append(byCount[entry.numTxUndo], idx)
	}

	matched = make([][]byte, len(blkTxCounts))
	ambiguous = make([]bool, len(blkTxCounts))
	used := make(map[int]bool)

	for blkIdx, numTxs := range blkTxCounts {
		nonCoinbase := numTxs - 1
		candidates := byCount[nonCoinbase]

		unusedCount := 0
		for _, idx := range candidates {
			if !used[idx] {
				unusedCount++
			}
		}
		if unusedCount > 1 {
			ambiguous[blkIdx] = true
		}

		for _, idx := range candidates {
			if !used[idx] {
				matched[blkIdx] = revBlocks[idx].data
				used[idx] = true
				break
			}
		}
		if matched[blkIdx] == nil && nonCoinbase > 0 {
			return nil, nil, fmt.Errorf("%w: no undo block for blk block %d with %d non-coinbase txs", ierrors.ErrUndoMismatch, blkIdx, nonCoinbase)
		}
	}

	return matched, ambiguous, nil
}
