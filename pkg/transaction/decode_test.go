package transaction

import (
	"errors"
	"testing"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/stretchr/testify/require"
)

func buildLegacyTxHex() string {
	version := "01000000"
	numInputs := "01"
	prevTxid := repeat("00", 32)
	prevVout := "ffffffff"
	scriptSigLen := "00"
	sequence := "ffffffff"
	numOutputs := "01"
	value := "00e1f50500000000" // little-endian uint64
	scriptLen := "00"
	locktime := "00000000"

	return version + numInputs + prevTxid + prevVout + scriptSigLen + sequence +
		numOutputs + value + scriptLen + locktime
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestDecodeLegacyTransaction(t *testing.T) {
	raw := buildLegacyTxHex()
	tx, err := DecodeHex(raw)
	require.NoError(t, err)
	require.False(t, tx.Segwit)
	require.Nil(t, tx.WTXID)
	require.Equal(t, int32(1), tx.Version)
	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 1)
	require.Equal(t, int64(100000000), tx.Outputs[0].ValueSats)
	require.Equal(t, tx.SizeBytes*4, tx.Weight)
	require.Equal(t, (tx.Weight+3)/4, tx.VBytes)
}

func TestDecodeRejectsInvalidMarkerFlag(t *testing.T) {
	version := "01000000"
	markerFlag := "0000" // marker 0x00 followed by a non-0x01 flag
	rest := repeat("00", 10)

	_, err := DecodeHex(version + markerFlag + rest)
	require.Error(t, err)
	require.True(t, errors.Is(err, ierrors.ErrInvalidMarkerFlag))
}

func TestDecodeRejectsExcessiveInputCount(t *testing.T) {
	version := "01000000"
	numInputs := "fe41420f00" // CompactSize for 1,000,001
	rest := repeat("00", 10)

	_, err := DecodeHex(version + numInputs + rest)
	require.Error(t, err)
	require.True(t, errors.Is(err, ierrors.ErrExcessiveInputs))
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := buildLegacyTxHex()
	tx, err := DecodeHex(raw)
	require.NoError(t, err)

	reencoded, err := tx.Serialize()
	require.NoError(t, err)

	tx2, err := Decode(reencoded)
	require.NoError(t, err)
	require.Equal(t, tx.TXID, tx2.TXID)
	require.Equal(t, tx.Weight, tx2.Weight)
}
