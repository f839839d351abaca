package block

import (
	"bytes"
	"testing"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/reader"
	"github.com/stretchr/testify/require"
)

func TestXORDecodeRoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	key := []byte{0xAA, 0xBB}

	encoded := XORDecode(data, key)
	decoded := XORDecode(encoded, key)
	require.Equal(t, data, decoded)
}

func TestXORDecodeEmptyKeyIsPassthrough(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	require.Equal(t, data, XORDecode(data, nil))
	require.Equal(t, data, XORDecode(data, []byte{0x00, 0x00}))
}

func TestDecodeBIP34Height(t *testing.T) {
	// push 0x03 followed by the 3-byte little-endian height 0x0006ddd1
	scriptSig := []byte{0x03, 0xd1, 0xdd, 0x06}
	require.Equal(t, int64(0x0006ddd1), DecodeBIP34Height(scriptSig))
}

func TestDecodeBIP34HeightZeroLength(t *testing.T) {
	require.Equal(t, int64(0), DecodeBIP34Height([]byte{0x00}))
	require.Equal(t, int64(0), DecodeBIP34Height(nil))
}

func TestComputeMerkleRootSingleTx(t *testing.T) {
	h := make([]byte, 32)
	for i := range h {
		h[i] = byte(i)
	}
	require.Equal(t, h, ComputeMerkleRoot([][]byte{h}))
}

func TestComputeMerkleRootOddCountDuplicatesLast(t *testing.T) {
	h1 := bytes.Repeat([]byte{0x01}, 32)
	h2 := bytes.Repeat([]byte{0x02}, 32)
	h3 := bytes.Repeat([]byte{0x03}, 32)

	got := ComputeMerkleRoot([][]byte{h1, h2, h3})

	level2 := hashes.DoubleSHA256(append(append([]byte(nil), h1...), h2...))
	level3 := hashes.DoubleSHA256(append(append([]byte(nil), h3...), h3...))
	want := hashes.DoubleSHA256(append(append([]byte(nil), level2...), level3...))

	require.Equal(t, want, got)
}

func buildMinimalBlock() []byte {
	header := make([]byte, 80) // all-zero header is fine for extent discovery

	tx := []byte{}
	tx = append(tx, 0x01, 0x00, 0x00, 0x00) // version
	tx = append(tx, 0x01)                   // 1 input
	tx = append(tx, make([]byte, 32)...)    // prev txid
	tx = append(tx, 0xff, 0xff, 0xff, 0xff) // prev vout
	tx = append(tx, 0x00)                   // empty scriptSig
	tx = append(tx, 0xff, 0xff, 0xff, 0xff) // sequence
	tx = append(tx, 0x01)                   // 1 output
	tx = append(tx, make([]byte, 8)...)     // value
	tx = append(tx, 0x00)                   // empty scriptPubKey
	tx = append(tx, 0x00, 0x00, 0x00, 0x00) // locktime

	body := append([]byte{}, header...)
	body = append(body, 0x01) // numTxs = 1
	body = append(body, tx...)

	block := append([]byte{}, Magic[:]...)
	size := uint32(len(body))
	block = append(block, byte(size), byte(size>>8), byte(size>>16), byte(size>>24))
	block = append(block, body...)
	return block
}

func TestEnumerateSingleBlock(t *testing.T) {
	data := buildMinimalBlock()
	infos, err := Enumerate(data)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, 1, infos[0].NumTxs)
	require.Len(t, infos[0].TxRanges, 1)

	r := infos[0].TxRanges[0]
	require.Equal(t, 60, r.End-r.Start)
}

func TestEnumerateNoMagicFails(t *testing.T) {
	_, err := Enumerate([]byte{0x00, 0x01, 0x02, 0x03})
	require.Error(t, err)
}

func TestParseHeaderComputesBlockHash(t *testing.T) {
	data := make([]byte, 80)
	c := reader.New(data)
	hdr, err := ParseHeader(c)
	require.NoError(t, err)
	require.Equal(t, "00000000", hdr.Bits)
	require.NotEmpty(t, hdr.BlockHash)
}
