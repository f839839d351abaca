package report

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileTriple is one blk/rev/xor file set to analyze.
type FileTriple struct {
	BlkPath string
	RevPath string
	XorPath string
}

// FileResult pairs a FileTriple's outcome with the triple it came from,
// so callers can tell which file a failure belongs to.
type FileResult struct {
	Triple  FileTriple
	Outputs []BlockOutput
	Err     error
}

// AnalyzeBlockFiles fans a worker pool out across multiple blk/rev/xor
// triples, one worker per available CPU, the same shape as the
// teacher's file-processing pool generalized from "one worker per
// mempool JSON file" to "one worker per blk/rev/xor triple". ctx is
// checked between triples so a cancellation stops picking up new work
// without killing a triple already in flight.
func AnalyzeBlockFiles(ctx context.Context, log *logrus.Logger, triples []FileTriple) []FileResult {
	numWorkers := runtime.NumCPU()
	if numWorkers > len(triples) {
		numWorkers = len(triples)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	triplesChan := make(chan FileTriple)
	resultsChan := make(chan FileResult, len(triples))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for triple := range triplesChan {
				resultsChan <- analyzeOneFileTriple(ctx, log, triple)
			}
		}()
	}

	go func() {
		defer close(triplesChan)
		for _, triple := range triples {
			select {
			case <-ctx.Done():
				return
			case triplesChan <- triple:
			}
		}
	}()

	wg.Wait()
	close(resultsChan)

	results := make([]FileResult, 0, len(triples))
	for r := range resultsChan {
		results = append(results, r)
	}
	return results
}

func analyzeOneFileTriple(ctx context.Context, log *logrus.Logger, triple FileTriple) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{Triple: triple, Err: err}
	}

	blkData, err := os.ReadFile(triple.BlkPath)
	if err != nil {
		return FileResult{Triple: triple, Err: err}
	}
	revData, err := os.ReadFile(triple.RevPath)
	if err != nil {
		return FileResult{Triple: triple, Err: err}
	}
	var xorKey []byte
	if triple.XorPath != "" {
		xorKey, err = os.ReadFile(triple.XorPath)
		if err != nil {
			return FileResult{Triple: triple, Err: err}
		}
	}

	outputs, err := AnalyzeBlockFile(log, blkData, revData, xorKey)
	return FileResult{Triple: triple, Outputs: outputs, Err: err}
}
