package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeBlockFilesRunsEachTripleConcurrently(t *testing.T) {
	dir := t.TempDir()

	var triples []FileTriple
	for i := 0; i < 3; i++ {
		blkPath := filepath.Join(dir, fmt.Sprintf("blk%d.dat", i))
		revPath := filepath.Join(dir, fmt.Sprintf("rev%d.dat", i))
		require.NoError(t, os.WriteFile(blkPath, buildCoinbaseOnlyBlock(), 0o644))
		require.NoError(t, os.WriteFile(revPath, nil, 0o644))
		triples = append(triples, FileTriple{BlkPath: blkPath, RevPath: revPath})
	}

	results := AnalyzeBlockFiles(context.Background(), silentLogger(), triples)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.Len(t, r.Outputs, 1)
	}
}

func TestAnalyzeBlockFilesReportsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	missingBlk := filepath.Join(dir, "missing.dat")

	results := AnalyzeBlockFiles(context.Background(), silentLogger(), []FileTriple{
		{BlkPath: missingBlk, RevPath: missingBlk},
	})
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
}
