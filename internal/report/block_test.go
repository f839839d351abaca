package report

import (
	"errors"
	"testing"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/block"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/stretchr/testify/require"
)

func coinbaseOnlyTxBytes() []byte {
	tx := []byte{}
	tx = append(tx, 0x01, 0x00, 0x00, 0x00) // version
	tx = append(tx, 0x01)                   // 1 input
	tx = append(tx, make([]byte, 32)...)    // coinbase prev txid
	tx = append(tx, 0xff, 0xff, 0xff, 0xff) // prev vout
	tx = append(tx, 0x02, 0x01, 0x01)       // scriptSig: push(1) height=1
	tx = append(tx, 0xff, 0xff, 0xff, 0xff) // sequence
	tx = append(tx, 0x01)                   // 1 output
	tx = append(tx, make([]byte, 8)...)     // value
	tx = append(tx, 0x00)                   // empty scriptPubKey
	tx = append(tx, 0x00, 0x00, 0x00, 0x00) // locktime
	return tx
}

// buildCoinbaseOnlyBlock returns a single-tx block whose header's merkle
// root is set correctly, so the happy path has no merkle mismatch to
// surface.
func buildCoinbaseOnlyBlock() []byte {
	return buildBlockWithMerkleRoot(true)
}

// buildBlockWithBadMerkleRoot returns the same block but with an
// all-zero merkle root field, which will never match the single
// coinbase tx's hash.
func buildBlockWithBadMerkleRoot() []byte {
	return buildBlockWithMerkleRoot(false)
}

func buildBlockWithMerkleRoot(correct bool) []byte {
	header := make([]byte, 80)
	tx := coinbaseOnlyTxBytes()

	if correct {
		merkleRoot := hashes.DoubleSHA256(tx)
		copy(header[36:68], merkleRoot)
	}

	body := append([]byte{}, header...)
	body = append(body, 0x01) // numTxs = 1
	body = append(body, tx...)

	blk := append([]byte{}, block.Magic[:]...)
	size := uint32(len(body))
	blk = append(blk, byte(size), byte(size>>8), byte(size>>16), byte(size>>24))
	blk = append(blk, body...)
	return blk
}

func TestAnalyzeBlockFileCoinbaseOnly(t *testing.T) {
	blkData := buildCoinbaseOnlyBlock()
	results, err := AnalyzeBlockFile(silentLogger(), blkData, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.True(t, r.OK)
	require.Equal(t, 1, r.TxCount)
	require.Equal(t, int64(1), r.Coinbase.Bip34Height)
	require.True(t, r.BlockHeader.MerkleRootValid)
}

func TestAnalyzeBlockFileMerkleMismatchSurfacesErrorWithResults(t *testing.T) {
	blkData := buildBlockWithBadMerkleRoot()
	results, err := AnalyzeBlockFile(silentLogger(), blkData, nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ierrors.ErrMerkleMismatch))
	require.Len(t, results, 1)
	require.False(t, results[0].BlockHeader.MerkleRootValid)
}
