package report

import (
	"encoding/hex"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/address"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/policy"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/script"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/transaction"

	"github.com/sirupsen/logrus"
)

type prevoutKey struct {
	Txid string
	Vout uint32
}

// AnalyzeTransaction decodes rawHex, matches it against the supplied
// prevouts, and assembles the full transaction report: classification,
// addresses, fees, RBF/locktime/relative-timelock analysis, and
// warnings.
func AnalyzeTransaction(log *logrus.Logger, rawHex string, prevoutsList []PrevoutInput, net address.Network) (*TransactionOutput, error) {
	tx, err := transaction.DecodeHex(rawHex)
	if err != nil {
		return nil, fmt.Errorf("parse transaction: %w", err)
	}

	prevoutMap := make(map[prevoutKey]PrevoutInput, len(prevoutsList))
	for _, p := range prevoutsList {
		key := prevoutKey{Txid: p.Txid, Vout: p.Vout}
		if _, exists := prevoutMap[key]; exists {
			return nil, fmt.Errorf("%w: txid=%s vout=%d", ierrors.ErrDuplicatePrevout, p.Txid, p.Vout)
		}
		prevoutMap[key] = p
	}

	var totalInputSats int64
	inputPrevouts := make([]PrevoutInput, len(tx.Inputs))
	usedKeys := make(map[prevoutKey]bool, len(tx.Inputs))
	for i, in := range tx.Inputs {
		key := prevoutKey{Txid: in.PrevTxID, Vout: in.PrevVout}
		p, ok := prevoutMap[key]
		if !ok {
			return nil, fmt.Errorf("%w: txid=%s vout=%d", ierrors.ErrMissingPrevout, in.PrevTxID, in.PrevVout)
		}
		inputPrevouts[i] = p
		usedKeys[key] = true
		totalInputSats += p.ValueSats
	}
	for key := range prevoutMap {
		if !usedKeys[key] {
			return nil, fmt.Errorf("%w: txid=%s vout=%d", ierrors.ErrUnusedPrevout, key.Txid, key.Vout)
		}
	}

	var totalOutputSats int64
	voutResult := make([]Output, 0, len(tx.Outputs))
	voutScriptTypes := make([]string, 0, len(tx.Outputs))
	warningOutputs := make([]policy.OutputForWarnings, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		kind := script.ClassifyOutput(out.ScriptPubKeyHex)
		scriptBytes, _ := hex.DecodeString(out.ScriptPubKeyHex)
		addr, err := address.Derive(net, kind, scriptBytes)
		if err != nil {
			log.WithError(err).WithField("n", out.N).Warn("address derivation failed")
		}
		asm, err := script.Disassemble(out.ScriptPubKeyHex)
		if err != nil {
			return nil, err
		}

		totalOutputSats += out.ValueSats
		voutScriptTypes = append(voutScriptTypes, string(kind))
		warningOutputs = append(warningOutputs, policy.OutputForWarnings{N: out.N, ScriptType: kind, ValueSats: out.ValueSats})

		entry := Output{
			N:               out.N,
			ValueSats:       out.ValueSats,
			ScriptPubkeyHex: out.ScriptPubKeyHex,
			ScriptAsm:       asm,
			ScriptType:      string(kind),
			Address:         addr,
		}
		if kind == script.KindOpReturn {
			payload := script.DecodeOpReturn(out.ScriptPubKeyHex)
			entry.OpReturnDataHex = payload.DataHex
			entry.OpReturnDataUtf8 = payload.DataUTF8
			entry.OpReturnProtocol = payload.Protocol
		}
		voutResult = append(voutResult, entry)
	}

	vinResult := make([]Input, 0, len(tx.Inputs))
	sequences := make([]uint32, 0, len(tx.Inputs))
	for i, in := range tx.Inputs {
		sequences = append(sequences, in.Sequence)
		prevout := inputPrevouts[i]
		prevoutKindVal := script.ClassifyOutput(prevout.ScriptPubkeyHex)
		prevoutScriptBytes, _ := hex.DecodeString(prevout.ScriptPubkeyHex)
		prevAddr, err := address.Derive(net, prevoutKindVal, prevoutScriptBytes)
		if err != nil {
			log.WithError(err).WithField("vin", i).Warn("prevout address derivation failed")
		}

		inputKind := script.ClassifyInput(prevout.ScriptPubkeyHex, in.ScriptSigHex, in.Witness)
		sigAsm, err := script.Disassemble(in.ScriptSigHex)
		if err != nil {
			return nil, err
		}

		witnessHex := make([]string, len(in.Witness))
		for w, item := range in.Witness {
			witnessHex[w] = hex.EncodeToString(item)
		}

		entry := Input{
			Txid:         in.PrevTxID,
			Vout:         in.PrevVout,
			Sequence:     in.Sequence,
			ScriptSigHex: in.ScriptSigHex,
			ScriptAsm:    sigAsm,
			Witness:      witnessHex,
			ScriptType:   string(inputKind),
			Address:      prevAddr,
			Prevout: Prevout{
				ValueSats:       prevout.ValueSats,
				ScriptPubkeyHex: prevout.ScriptPubkeyHex,
			},
			RelativeTimelock: toRelativeTimelock(policy.AnalyzeRelativeTimelock(in.Sequence)),
		}

		// for segwit multisig-family spends, surface the witness
		// script's own ASM (the last witness stack item).
		if (inputKind == script.KindP2WSH || inputKind == script.KindP2SHP2WSH) && len(in.Witness) > 0 {
			witnessScriptHex := hex.EncodeToString(in.Witness[len(in.Witness)-1])
			asm, err := script.Disassemble(witnessScriptHex)
			if err != nil {
				return nil, err
			}
			entry.WitnessScriptAsm = &asm
		}

		vinResult = append(vinResult, entry)
	}

	fees := policy.ComputeFees(totalInputSats, totalOutputSats, tx.VBytes)
	rbf := policy.DetectRBF(sequences)
	locktimeKind, locktimeValue := policy.ClassifyLocktime(tx.Locktime)
	warnings := toWarnings(policy.GenerateWarnings(fees.FeeSats, fees.FeeRateSatVB, warningOutputs, sequences))
	segwitSavings := toSegwitSavings(policy.ComputeSegwitSavings(tx.Segwit, tx.SizeBytes, tx.Weight, tx.NonWitnessSize, tx.WitnessSize))

	return &TransactionOutput{
		OK:              true,
		Network:         string(net),
		Segwit:          tx.Segwit,
		Txid:            tx.TXID,
		Wtxid:           tx.WTXID,
		Version:         tx.Version,
		Locktime:        tx.Locktime,
		SizeBytes:       tx.SizeBytes,
		Weight:          tx.Weight,
		Vbytes:          tx.VBytes,
		TotalInputSats:  totalInputSats,
		TotalOutputSats: totalOutputSats,
		FeeSats:         fees.FeeSats,
		FeeRateSatVb:    fees.FeeRateSatVB,
		RbfSignaling:    rbf,
		LocktimeType:    string(locktimeKind),
		LocktimeValue:   locktimeValue,
		VinCount:        len(vinResult),
		VoutCount:       len(voutResult),
		VoutScriptTypes: voutScriptTypes,
		SegwitSavings:   segwitSavings,
		Vin:             vinResult,
		Vout:            voutResult,
		Warnings:        warnings,
	}, nil
}

func toRelativeTimelock(r policy.RelativeTimelock) RelativeTimelock {
	return RelativeTimelock{Enabled: r.Enabled, Type: r.Type, Value: r.Value}
}

func toWarnings(ws []policy.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Code: w.Code, Detail: w.Detail}
	}
	return out
}

func toSegwitSavings(s *policy.SegwitSavings) *SegwitSavings {
	if s == nil {
		return nil
	}
	return &SegwitSavings{
		WitnessBytes:    s.WitnessBytes,
		NonWitnessBytes: s.NonWitnessBytes,
		TotalBytes:      s.TotalBytes,
		WeightActual:    s.WeightActual,
		WeightIfLegacy:  s.WeightIfLegacy,
		SavingsPct:      s.SavingsPct,
	}
}

// ErrorResponse builds the closed error-report shape for a failed
// analysis.
func ErrorResponse(code, message string) TransactionOutput {
	return TransactionOutput{OK: false, Error: &ErrorInfo{Code: code, Message: message}}
}
