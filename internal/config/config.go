// Package config holds the tunable constants policy analysis needs,
// generalizing the bare package-level constants the teacher referenced
// from its (unretrieved) root config package (MaxMemPoolSize, Dust,
// MAX_BLOCK_SIZE) into the thresholds this domain actually analyzes.
package config

// DustThresholdSats is the output-value floor below which a non-OP_RETURN
// output is flagged as dust.
const DustThresholdSats = 546

// HighFeeRateSatVB is the fee-rate threshold above which a transaction's
// fee is flagged as unusually high.
const HighFeeRateSatVB = 1000.0

// HighFeeSats is the absolute-fee threshold above which a transaction's
// fee is flagged as unusually high, independent of its rate.
const HighFeeSats = 1_000_000

// MaxBlockWeight mirrors Bitcoin Core's consensus block weight limit.
// No decoder checks blocks against it.
const MaxBlockWeight = 4_000_000

// MaxTxInputs and MaxTxOutputs are soft caps on a single transaction's
// input/output counts. They exist to reject a CompactSize that claims
// an absurd count against a short buffer (corrupt or hostile input),
// not to enforce any consensus rule; real transactions never come
// close.
const (
	MaxTxInputs  = 1_000_000
	MaxTxOutputs = 1_000_000
)
