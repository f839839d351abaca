// Package ierrors is the closed set of sentinel errors every decoder in
// this module returns. Callers compare with errors.Is; wrapping with
// fmt.Errorf("%w: ...") at the failure site is expected.
package ierrors

import "errors"

type Err error

var (
	ErrTruncated              Err = errors.New("truncated: read past end of buffer")
	ErrInvalidTemplate        Err = errors.New("invalid template")
	ErrInvalidEncoding        Err = errors.New("invalid encoding")
	ErrInvalidWitness         Err = errors.New("invalid witness")
	ErrUndoMismatch           Err = errors.New("undo data does not match block")
	ErrMerkleMismatch         Err = errors.New("computed merkle root does not match header")
	ErrCurvePointInvalid      Err = errors.New("secp256k1 point is not on the curve")
	ErrUnsupportedWitnessVers Err = errors.New("unsupported witness version")

	// ErrNonCanonicalSize is a diagnostic, not a hard failure; callers
	// may downgrade it to a warning instead of aborting the decode.
	ErrNonCanonicalSize Err = errors.New("non-canonical size encoding")

	ErrInvalidAddress   Err = errors.New("invalid address")
	ErrInvalidScript    Err = errors.New("invalid script")
	ErrInvalidFixture   Err = errors.New("invalid fixture")
	ErrMissingPrevout   Err = errors.New("missing prevout for input")
	ErrDuplicatePrevout Err = errors.New("duplicate prevout")
	ErrUnusedPrevout    Err = errors.New("prevout does not correspond to any input")
	ErrNoMagic          Err = errors.New("block magic not found")
	ErrPairingAmbiguous Err = errors.New("ambiguous undo/block pairing")

	ErrInvalidMarkerFlag Err = errors.New("invalid segwit marker/flag")
	ErrExcessiveInputs   Err = errors.New("input count exceeds soft cap")
	ErrExcessiveOutputs  Err = errors.New("output count exceeds soft cap")
)
