// Package policy computes mempool-relevant transaction policy facts:
// fees, BIP125 replaceability, locktime classification, BIP68 relative
// timelocks, witness-discount savings, and warning diagnostics.
package policy

import (
	"fmt"
	"math"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/config"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/script"
)

// Fees holds the absolute fee and fee rate for a transaction whose full
// set of prevouts is known.
type Fees struct {
	FeeSats      int64
	FeeRateSatVB float64
}

// ComputeFees always returns a Fees value computed from the totals it is
// given; it has no way to report an unknown input total, so callers
// check for a missing prevout themselves before calling this.
func ComputeFees(totalInputSats, totalOutputSats int64, vbytes int) Fees {
	feeSats := totalInputSats - totalOutputSats
	var rate float64
	if vbytes > 0 {
		rate = roundTo(float64(feeSats)/float64(vbytes), 2)
	}
	return Fees{FeeSats: feeSats, FeeRateSatVB: rate}
}

// DetectRBF reports BIP125 replace-by-fee signaling: any input sequence
// below 0xFFFFFFFE.
func DetectRBF(sequences []uint32) bool {
	for _, seq := range sequences {
		if seq < 0xFFFFFFFE {
			return true
		}
	}
	return false
}

// LocktimeKind is the classified meaning of a transaction's nLockTime.
type LocktimeKind string

const (
	LocktimeNone        LocktimeKind = "none"
	LocktimeBlockHeight LocktimeKind = "block_height"
	LocktimeUnixTime    LocktimeKind = "unix_timestamp"
)

// ClassifyLocktime follows Bitcoin Core's nLockTime interpretation: zero
// means disabled, values below 500,000,000 are block heights, everything
// above is a unix timestamp.
func ClassifyLocktime(locktime uint32) (LocktimeKind, uint32) {
	switch {
	case locktime == 0:
		return LocktimeNone, 0
	case locktime < 500_000_000:
		return LocktimeBlockHeight, locktime
	default:
		return LocktimeUnixTime, locktime
	}
}

// RelativeTimelock is the BIP68 interpretation of a single input's
// nSequence field.
type RelativeTimelock struct {
	Enabled bool
	Type    string // "time" or "blocks"
	Value   uint32
}

const (
	sequenceLocktimeDisableFlag = 0x80000000
	sequenceLocktimeTypeFlag    = 0x00400000
	sequenceLocktimeMask        = 0x0000ffff
)

// AnalyzeRelativeTimelock decodes BIP68 relative-locktime semantics out
// of a single input's sequence number.
func AnalyzeRelativeTimelock(sequence uint32) RelativeTimelock {
	if sequence&sequenceLocktimeDisableFlag != 0 {
		return RelativeTimelock{Enabled: false}
	}

	value := sequence & sequenceLocktimeMask
	if sequence&sequenceLocktimeTypeFlag != 0 {
		return RelativeTimelock{Enabled: true, Type: "time", Value: value * 512}
	}
	return RelativeTimelock{Enabled: true, Type: "blocks", Value: value}
}

// SegwitSavings is the witness-discount analysis for a segwit
// transaction; nil for legacy transactions.
type SegwitSavings struct {
	WitnessBytes    int
	NonWitnessBytes int
	TotalBytes      int
	WeightActual    int
	WeightIfLegacy  int
	SavingsPct      float64
}

// ComputeSegwitSavings reports how much weight discount a segwit
// transaction received versus an equivalent legacy encoding of the same
// byte size.
func ComputeSegwitSavings(isSegwit bool, sizeBytes, weight, nonWitnessBytes, witnessBytes int) *SegwitSavings {
	if !isSegwit {
		return nil
	}
	weightIfLegacy := sizeBytes * 4
	var savingsPct float64
	if weightIfLegacy > 0 {
		savingsPct = roundTo((1-float64(weight)/float64(weightIfLegacy))*100, 2)
	}
	return &SegwitSavings{
		WitnessBytes:    witnessBytes,
		NonWitnessBytes: nonWitnessBytes,
		TotalBytes:      sizeBytes,
		WeightActual:    weight,
		WeightIfLegacy:  weightIfLegacy,
		SavingsPct:      savingsPct,
	}
}

// Warning is a single diagnostic raised about a transaction.
type Warning struct {
	Code   string
	Detail string
}

// OutputForWarnings is the minimal shape GenerateWarnings needs from a
// classified output.
type OutputForWarnings struct {
	N          int
	ScriptType script.Kind
	ValueSats  int64
}

// GenerateWarnings emits the closed set of transaction-level diagnostics:
// unusually high fee, dust outputs, unrecognized output scripts, and RBF
// signaling. sequences is every input's nSequence, used to name which
// input signals replaceability.
func GenerateWarnings(feeSats int64, feeRateSatVB float64, outputs []OutputForWarnings, sequences []uint32) []Warning {
	var warnings []Warning

	if feeSats > config.HighFeeSats {
		warnings = append(warnings, Warning{
			Code:   "HIGH_FEE",
			Detail: fmt.Sprintf("fee %d sats exceeds %d sat threshold", feeSats, config.HighFeeSats),
		})
	} else if feeRateSatVB > config.HighFeeRateSatVB {
		warnings = append(warnings, Warning{
			Code:   "HIGH_FEE",
			Detail: fmt.Sprintf("fee rate %.2f sat/vB exceeds %.2f sat/vB threshold", feeRateSatVB, config.HighFeeRateSatVB),
		})
	}

	for _, out := range outputs {
		if out.ScriptType != script.KindOpReturn && out.ValueSats < config.DustThresholdSats {
			warnings = append(warnings, Warning{
				Code:   "DUST_OUTPUT",
				Detail: fmt.Sprintf("output %d value %d sats is below dust threshold %d sats", out.N, out.ValueSats, config.DustThresholdSats),
			})
			break
		}
	}

	for _, out := range outputs {
		if out.ScriptType == script.KindUnknown {
			warnings = append(warnings, Warning{
				Code:   "UNKNOWN_OUTPUT_SCRIPT",
				Detail: fmt.Sprintf("output %d script does not match any recognized template", out.N),
			})
			break
		}
	}

	for i, seq := range sequences {
		if seq < 0xFFFFFFFE {
			warnings = append(warnings, Warning{
				Code:   "RBF_SIGNALING",
				Detail: fmt.Sprintf("input %d sequence 0x%08x signals replacement", i, seq),
			})
			break
		}
	}

	return warnings
}

func roundTo(v float64, decimals int) float64 {
	mul := math.Pow(10, float64(decimals))
	return math.Round(v*mul) / mul
}
