package transaction

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/hashes"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/varint"
)

// Serialize re-encodes the transaction back into wire bytes. Used by the
// decode-then-encode-then-decode round trip tests; re-encoding a
// witness-free transaction and decoding it again must reproduce the
// original txid.
func (t *Tx) Serialize() ([]byte, error) {
	var buf bytes.Buffer

	writeU32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	writeI32 := func(v int32) { binary.Write(&buf, binary.LittleEndian, v) }
	writeU64 := func(v uint64) { binary.Write(&buf, binary.LittleEndian, v) }

	writeI32(t.Version)

	if t.Segwit {
		buf.Write([]byte{0x00, 0x01})
	}

	buf.Write(varint.PutCompactSize(uint64(len(t.Inputs))))
	for _, in := range t.Inputs {
		idBytes, err := hex.DecodeString(in.PrevTxID)
		if err != nil {
			return nil, err
		}
		buf.Write(hashes.ReverseCopy(idBytes))
		writeU32(in.PrevVout)

		sigBytes, err := hex.DecodeString(in.ScriptSigHex)
		if err != nil {
			return nil, err
		}
		buf.Write(varint.PutCompactSize(uint64(len(sigBytes))))
		buf.Write(sigBytes)
		writeU32(in.Sequence)
	}

	buf.Write(varint.PutCompactSize(uint64(len(t.Outputs))))
	for _, out := range t.Outputs {
		writeU64(uint64(out.ValueSats))
		scriptBytes, err := hex.DecodeString(out.ScriptPubKeyHex)
		if err != nil {
			return nil, err
		}
		buf.Write(varint.PutCompactSize(uint64(len(scriptBytes))))
		buf.Write(scriptBytes)
	}

	if t.Segwit {
		for _, in := range t.Inputs {
			buf.Write(varint.PutCompactSize(uint64(len(in.Witness))))
			for _, item := range in.Witness {
				buf.Write(varint.PutCompactSize(uint64(len(item))))
				buf.Write(item)
			}
		}
	}

	writeU32(t.Locktime)

	return buf.Bytes(), nil
}
