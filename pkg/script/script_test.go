package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyOutput(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want Kind
	}{
		{"p2pkh", "76a914000000000000000000000000000000000000000088ac", KindP2PKH},
		{"p2sh", "a914000000000000000000000000000000000000000087", KindP2SH},
		{"p2wpkh", "00140000000000000000000000000000000000000000", KindP2WPKH},
		{"p2wsh", "00200000000000000000000000000000000000000000000000000000000000000000", KindP2WSH},
		{"p2tr", "51200000000000000000000000000000000000000000000000000000000000000000", KindP2TR},
		{"op_return", "6a0548656c6c6f", KindOpReturn},
		{"unknown", "00", KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyOutput(tc.hex))
		})
	}
}

func TestClassifyOutputP2PKCompressed(t *testing.T) {
	pubkey := "02" + repeatHex("00", 32)
	scriptHex := "21" + pubkey + "ac"
	require.Equal(t, KindP2PK, ClassifyOutput(scriptHex))
}

func TestClassifyInputTaprootKeypath(t *testing.T) {
	sig := make([]byte, 64)
	kind := ClassifyInput(
		"51200000000000000000000000000000000000000000000000000000000000000000",
		"",
		[][]byte{sig},
	)
	require.Equal(t, KindP2TRKeypath, kind)
}

func TestClassifyInputP2SHNestedSegwit(t *testing.T) {
	redeem := append([]byte{0x00, 0x14}, make([]byte, 20)...)
	scriptSig := append([]byte{byte(len(redeem))}, redeem...)
	kind := ClassifyInput(
		"a914000000000000000000000000000000000000000087",
		hexEncode(scriptSig),
		[][]byte{{0x30}, {0x02}},
	)
	require.Equal(t, KindP2SHP2WPKH, kind)
}

func TestClassifyInputP2SHLegacyNoWitness(t *testing.T) {
	kind := ClassifyInput(
		"a914000000000000000000000000000000000000000087",
		"1976a914000000000000000000000000000000000000000088ac",
		nil,
	)
	require.Equal(t, KindP2SH, kind)
}

func TestClassifyInputP2SHWitnessNonMatchingRedeem(t *testing.T) {
	redeem := append([]byte{0x51}, make([]byte, 20)...)
	scriptSig := append([]byte{byte(len(redeem))}, redeem...)
	kind := ClassifyInput(
		"a914000000000000000000000000000000000000000087",
		hexEncode(scriptSig),
		[][]byte{{0x30}, {0x02}},
	)
	require.Equal(t, KindP2SH, kind)
}

func TestDisassembleDirectPush(t *testing.T) {
	asm, err := Disassemble("0548656c6c6f")
	require.NoError(t, err)
	require.Equal(t, "OP_PUSHBYTES_5 48656c6c6f", asm)
}

func TestDisassembleTruncatedPushIsInvalid(t *testing.T) {
	// declares a 5-byte push but only provides 2 bytes of data
	asm, err := Disassemble("054865")
	require.NoError(t, err)
	require.Equal(t, "OP_INVALID", asm)
}

func TestDisassembleNamedOpcode(t *testing.T) {
	asm, err := Disassemble("76a9")
	require.NoError(t, err)
	require.Equal(t, "OP_DUP OP_HASH160", asm)
}

func TestDecodeOpReturnProtocolSniff(t *testing.T) {
	// "omni" magic prefix
	payload := DecodeOpReturn("6a086f6d6e6900000000")
	require.Equal(t, "omni", payload.Protocol)
}

func TestDecodeOpReturnUTF8(t *testing.T) {
	payload := DecodeOpReturn("6a0548656c6c6f")
	require.NotNil(t, payload.DataUTF8)
	require.Equal(t, "Hello", *payload.DataUTF8)
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func hexEncode(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0xf]
	}
	return string(out)
}
