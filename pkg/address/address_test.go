package address

import (
	"encoding/hex"
	"testing"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/script"
	"github.com/stretchr/testify/require"
)

func TestDeriveP2PKHRoundTrip(t *testing.T) {
	scriptBytes, _ := hex.DecodeString("76a914751e76e8199196d454941c45d1b3a323f1433bd688ac")
	addr, err := Derive(Mainnet, script.KindP2PKH, scriptBytes)
	require.NoError(t, err)
	require.NotNil(t, addr)

	payload, version, err := DecodeBase58Check(*addr)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), version)
	require.Equal(t, scriptBytes[3:23], payload)
}

func TestDeriveP2WPKHRoundTrip(t *testing.T) {
	scriptBytes, _ := hex.DecodeString("0014751e76e8199196d454941c45d1b3a323f1433bd6")
	addr, err := Derive(Mainnet, script.KindP2WPKH, scriptBytes)
	require.NoError(t, err)
	require.NotNil(t, addr)

	version, program, err := DecodeSegWit(*addr)
	require.NoError(t, err)
	require.Equal(t, byte(0), version)
	require.Equal(t, scriptBytes[2:22], program)
}

func TestDeriveP2TRTestnet(t *testing.T) {
	scriptBytes, _ := hex.DecodeString("5120" + repeatHex("ab", 32))
	addr, err := Derive(Testnet, script.KindP2TR, scriptBytes)
	require.NoError(t, err)
	require.NotNil(t, addr)
	require.Equal(t, "tb1", (*addr)[:3])
}

func TestDeriveNonAddressableKinds(t *testing.T) {
	addr, err := Derive(Mainnet, script.KindOpReturn, []byte{0x6a})
	require.NoError(t, err)
	require.Nil(t, addr)
}

func repeatHex(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
