package report

import (
	"strings"
	"testing"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/address"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}

func buildLegacyTxHex() string {
	version := "01000000"
	numInputs := "01"
	prevTxid := repeat("00", 32)
	prevVout := "ffffffff"
	scriptSigLen := "00"
	sequence := "ffffffff"
	numOutputs := "01"
	value := "00e1f50500000000" // 100,000,000 sats little-endian
	scriptLen := "19"
	scriptPubKey := "76a914" + repeat("00", 20) + "88ac"
	locktime := "00000000"

	return version + numInputs + prevTxid + prevVout + scriptSigLen + sequence +
		numOutputs + value + scriptLen + scriptPubKey + locktime
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestAnalyzeTransactionMissingPrevoutErrors(t *testing.T) {
	_, err := AnalyzeTransaction(silentLogger(), buildLegacyTxHex(), nil, address.Mainnet)
	require.Error(t, err)
}

func TestAnalyzeTransactionHappyPath(t *testing.T) {
	rawHex := buildLegacyTxHex()
	prevoutTxid := repeat("00", 32)

	prevouts := []PrevoutInput{
		{
			Txid:            prevoutTxid,
			Vout:            0xffffffff,
			ValueSats:       100100000,
			ScriptPubkeyHex: "76a914" + repeat("11", 20) + "88ac",
		},
	}

	result, err := AnalyzeTransaction(silentLogger(), rawHex, prevouts, address.Mainnet)
	require.NoError(t, err)
	require.True(t, result.OK)
	require.False(t, result.Segwit)
	require.Equal(t, int64(100100000-100000000), result.FeeSats)
	require.Len(t, result.Vout, 1)
	require.Equal(t, "p2pkh", result.Vout[0].ScriptType)
	require.NotNil(t, result.Vout[0].Address)
	require.Len(t, result.Vin, 1)
	require.Equal(t, "p2pkh", result.Vin[0].ScriptType)
}

func TestAnalyzeTransactionUnusedPrevoutErrors(t *testing.T) {
	rawHex := buildLegacyTxHex()
	prevouts := []PrevoutInput{
		{Txid: repeat("00", 32), Vout: 0xffffffff, ValueSats: 1000, ScriptPubkeyHex: "76a914" + repeat("11", 20) + "88ac"},
		{Txid: repeat("22", 32), Vout: 0, ValueSats: 1000, ScriptPubkeyHex: "76a914" + repeat("11", 20) + "88ac"},
	}
	_, err := AnalyzeTransaction(silentLogger(), rawHex, prevouts, address.Mainnet)
	require.Error(t, err)
}
