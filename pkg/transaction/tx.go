// Package transaction decodes raw Bitcoin transactions from wire bytes,
// tracking input/output byte ranges as it goes so txid/wtxid can be
// computed from slices of the original buffer instead of by
// re-serializing the parsed fields.
package transaction

// Input is one transaction input as decoded from the wire.
type Input struct {
	PrevTxID     string // big-endian display hex
	PrevVout     uint32
	ScriptSigHex string
	Sequence     uint32
	Witness      [][]byte
}

// Output is one transaction output as decoded from the wire.
type Output struct {
	N               int
	ValueSats       int64
	ScriptPubKeyHex string
}

// Tx is a fully decoded transaction plus the size/weight bookkeeping the
// data model requires.
type Tx struct {
	Version  int32
	Locktime uint32
	Inputs   []Input
	Outputs  []Output

	Segwit bool
	TXID   string
	WTXID  *string // nil for non-segwit transactions

	SizeBytes      int
	Weight         int
	VBytes         int
	NonWitnessSize int
	WitnessSize    int
}
