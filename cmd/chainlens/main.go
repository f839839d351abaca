// Command chainlens is the thin CLI collaborator around internal/report:
// it reads fixtures/files, calls the orchestrator, and prints JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/report"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/address"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	exitOK             = 0
	exitInputMalformed = 2
	exitDecoderFailure = 3
	exitPairingFailure = 4
	exitMerkleMismatch = 5
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.Formatter = &logrus.TextFormatter{ForceColors: true}
	return logger
}

func main() {
	log := newLogger()

	var fixturePath string
	var rawHex string
	var network string

	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Analyze a single transaction from a fixture or raw hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTxMode(log, fixturePath, rawHex, network)
		},
	}
	txCmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a transaction fixture JSON file")
	txCmd.Flags().StringVar(&rawHex, "hex", "", "raw transaction hex (used with --fixture omitted; no prevouts are supplied, so analysis fails with a missing-prevout error)")
	txCmd.Flags().StringVar(&network, "network", "mainnet", "mainnet or testnet")

	var blkPaths, revPaths, xorPaths []string
	blockCmd := &cobra.Command{
		Use:   "block",
		Short: "Analyze every block in one or more blk*.dat files using their rev*.dat/xor.dat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlockMode(log, blkPaths, revPaths, xorPaths)
		},
	}
	blockCmd.Flags().StringSliceVar(&blkPaths, "blk", nil, "path to blk*.dat (repeatable for multiple files)")
	blockCmd.Flags().StringSliceVar(&revPaths, "rev", nil, "path to rev*.dat (repeatable, same order/count as --blk)")
	blockCmd.Flags().StringSliceVar(&xorPaths, "xor", nil, "path to xor.dat (repeatable; omit if unobfuscated)")
	blockCmd.MarkFlagRequired("blk")
	blockCmd.MarkFlagRequired("rev")

	root := &cobra.Command{Use: "chainlens"}
	root.AddCommand(txCmd, blockCmd)

	if err := root.Execute(); err != nil {
		os.Exit(exitFromError(err))
	}
}

func runTxMode(log *logrus.Logger, fixturePath, rawHex, networkFlag string) error {
	var fixture report.Fixture

	if fixturePath != "" {
		data, err := os.ReadFile(fixturePath)
		if err != nil {
			printAndExit(report.ErrorResponse("INVALID_FIXTURE", err.Error()), exitInputMalformed)
			return nil
		}
		if err := json.Unmarshal(data, &fixture); err != nil {
			printAndExit(report.ErrorResponse("INVALID_FIXTURE", err.Error()), exitInputMalformed)
			return nil
		}
	} else {
		fixture.RawTx = rawHex
		fixture.Network = networkFlag
	}

	if fixture.RawTx == "" {
		printAndExit(report.ErrorResponse("INVALID_FIXTURE", "missing raw_tx"), exitInputMalformed)
		return nil
	}

	net := address.Network(fixture.Network)
	if net == "" {
		net = address.Mainnet
	}

	result, err := report.AnalyzeTransaction(log, fixture.RawTx, fixture.Prevouts, net)
	if err != nil {
		printAndExit(report.ErrorResponse("INVALID_TX", err.Error()), exitDecoderFailure)
		return nil
	}

	return printJSON(*result)
}

func runBlockMode(log *logrus.Logger, blkPaths, revPaths, xorPaths []string) error {
	if len(blkPaths) != len(revPaths) {
		printAndExit(report.ErrorResponse("BLOCK_PARSE_ERROR", "--blk and --rev must be given the same number of times"), exitInputMalformed)
		return nil
	}

	triples := make([]report.FileTriple, len(blkPaths))
	for i := range blkPaths {
		var xorPath string
		if i < len(xorPaths) {
			xorPath = xorPaths[i]
		}
		triples[i] = report.FileTriple{BlkPath: blkPaths[i], RevPath: revPaths[i], XorPath: xorPath}
	}

	// A worker pool only pays for itself across multiple files; a single
	// triple runs inline and keeps its exact error mapped to an exit code.
	if len(triples) == 1 {
		return runSingleBlockFile(log, triples[0])
	}

	fileResults := report.AnalyzeBlockFiles(context.Background(), log, triples)

	exitCode := exitOK
	for _, fr := range fileResults {
		if fr.Err != nil && len(fr.Outputs) == 0 {
			log.WithError(fr.Err).WithField("blk", fr.Triple.BlkPath).Error("block file analysis failed")
			if exitCode == exitOK {
				exitCode = exitCodeForError(fr.Err)
			}
			continue
		}
		for _, r := range fr.Outputs {
			if err := printJSON(r); err != nil {
				return err
			}
		}
		if fr.Err != nil {
			log.WithError(fr.Err).WithField("blk", fr.Triple.BlkPath).Warn("block file analysis completed with errors")
			if exitCode == exitOK {
				exitCode = exitCodeForError(fr.Err)
			}
		}
	}
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
	return nil
}

func runSingleBlockFile(log *logrus.Logger, triple report.FileTriple) error {
	blkData, err := os.ReadFile(triple.BlkPath)
	if err != nil {
		printAndExit(report.ErrorResponse("BLOCK_PARSE_ERROR", err.Error()), exitInputMalformed)
		return nil
	}
	revData, err := os.ReadFile(triple.RevPath)
	if err != nil {
		printAndExit(report.ErrorResponse("BLOCK_PARSE_ERROR", err.Error()), exitInputMalformed)
		return nil
	}
	var xorKey []byte
	if triple.XorPath != "" {
		xorKey, err = os.ReadFile(triple.XorPath)
		if err != nil {
			printAndExit(report.ErrorResponse("BLOCK_PARSE_ERROR", err.Error()), exitInputMalformed)
			return nil
		}
	}

	results, err := report.AnalyzeBlockFile(log, blkData, revData, xorKey)
	if err != nil && len(results) == 0 {
		printAndExit(report.ErrorResponse("BLOCK_PARSE_ERROR", err.Error()), exitCodeForError(err))
		return nil
	}

	for _, r := range results {
		if err := printJSON(r); err != nil {
			return err
		}
	}
	if err != nil {
		os.Exit(exitCodeForError(err))
	}
	return nil
}

func exitCodeForError(err error) int {
	switch {
	case errors.Is(err, ierrors.ErrUndoMismatch):
		return exitPairingFailure
	case errors.Is(err, ierrors.ErrMerkleMismatch):
		return exitMerkleMismatch
	default:
		return exitDecoderFailure
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAndExit(v interface{}, code int) {
	_ = printJSON(v)
	os.Exit(code)
}

func exitFromError(err error) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err)
	return exitInputMalformed
}
