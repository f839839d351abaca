// Package script classifies scriptPubKey/scriptSig templates, renders
// script bytes as ASM, and decodes OP_RETURN payloads.
package script

import "encoding/hex"

// Kind is the closed set of script templates this module recognizes.
type Kind string

const (
	KindP2PKH          Kind = "p2pkh"
	KindP2SH           Kind = "p2sh"
	KindP2WPKH         Kind = "p2wpkh"
	KindP2WSH          Kind = "p2wsh"
	KindP2TR           Kind = "p2tr"
	KindP2PK           Kind = "p2pk"
	KindMultisig       Kind = "multisig"
	KindOpReturn       Kind = "op_return"
	KindUnknown        Kind = "unknown"
	KindP2SHP2WPKH     Kind = "p2sh_p2wpkh"
	KindP2SHP2WSH      Kind = "p2sh_p2wsh"
	KindP2TRKeypath    Kind = "p2tr_keypath"
	KindP2TRScriptpath Kind = "p2tr_scriptpath"
)

// ClassifyOutput identifies a scriptPubKey's template. Unlike the
// original reference decoder, P2PK and bare multisig are recognized
// rather than falling through to "unknown".
func ClassifyOutput(scriptHex string) Kind {
	raw, err := hex.DecodeString(scriptHex)
	if err != nil {
		return KindUnknown
	}
	n := len(raw)

	switch {
	case n == 25 && raw[0] == 0x76 && raw[1] == 0xa9 && raw[2] == 0x14 && raw[23] == 0x88 && raw[24] == 0xac:
		return KindP2PKH
	case n == 23 && raw[0] == 0xa9 && raw[1] == 0x14 && raw[22] == 0x87:
		return KindP2SH
	case n == 22 && raw[0] == 0x00 && raw[1] == 0x14:
		return KindP2WPKH
	case n == 34 && raw[0] == 0x00 && raw[1] == 0x20:
		return KindP2WSH
	case n == 34 && raw[0] == 0x51 && raw[1] == 0x20:
		return KindP2TR
	case n == 35 && raw[0] == 0x21 && raw[34] == 0xac:
		return KindP2PK // compressed pubkey
	case n == 67 && raw[0] == 0x41 && raw[66] == 0xac:
		return KindP2PK // uncompressed pubkey
	case n >= 1 && raw[0] == 0x6a:
		return KindOpReturn
	case isMultisig(raw):
		return KindMultisig
	default:
		return KindUnknown
	}
}

// isMultisig recognizes the bare OP_M <pubkey>... OP_N OP_CHECKMULTISIG
// template (M and N encoded as OP_1..OP_16).
func isMultisig(raw []byte) bool {
	n := len(raw)
	if n < 3 || raw[n-1] != 0xae {
		return false
	}
	m := raw[0]
	if m < 0x51 || m > 0x60 {
		return false
	}
	nsig := raw[n-2]
	if nsig < 0x51 || nsig > 0x60 {
		return false
	}
	i := 1
	count := 0
	for i < n-2 {
		pushLen := raw[i]
		if pushLen < 0x21 || pushLen > 0x41 {
			return false
		}
		i++
		if i+int(pushLen) > n-2 {
			return false
		}
		i += int(pushLen)
		count++
	}
	return i == n-2 && count > 0
}

// ClassifyInput determines how an input actually spends its prevout,
// given the prevout's own scriptPubKey, the input's scriptSig, and its
// witness stack (nil/empty for non-segwit inputs).
func ClassifyInput(prevoutScriptHex, scriptSigHex string, witness [][]byte) Kind {
	if prevoutScriptHex == "" {
		return KindUnknown
	}
	prevoutKind := ClassifyOutput(prevoutScriptHex)

	switch prevoutKind {
	case KindP2PKH, KindP2WPKH, KindP2WSH, KindP2PK:
		return prevoutKind
	case KindP2TR:
		return classifyTaproot(witness)
	case KindP2SH:
		return classifyP2SH(scriptSigHex, witness)
	default:
		return KindUnknown
	}
}

func classifyTaproot(witness [][]byte) Kind {
	// BIP341 annex: with two or more items, a last item starting with 0x50
	// is an annex and not part of the spend itself.
	if len(witness) >= 2 {
		if last := witness[len(witness)-1]; len(last) >= 1 && last[0] == 0x50 {
			witness = witness[:len(witness)-1]
		}
	}
	if len(witness) == 1 {
		return KindP2TRKeypath
	}
	return KindP2TRScriptpath
}

// classifyP2SH refines a known-P2SH prevout. Absent a witness it is an
// ordinary legacy spend. With a witness present, it's nested segwit only
// if the scriptSig's sole push decodes to a v0 witness program; any other
// shape (including a malformed scriptSig) is still plain p2sh.
func classifyP2SH(scriptSigHex string, witness [][]byte) Kind {
	if scriptSigHex == "" || len(witness) == 0 {
		return KindP2SH
	}
	sig, err := hex.DecodeString(scriptSigHex)
	if err != nil || len(sig) == 0 {
		return KindP2SH
	}
	pushLen := sig[0]
	if pushLen < 0x01 || pushLen > 0x4b || int(pushLen)+1 != len(sig) {
		return KindP2SH
	}
	redeem := sig[1:]
	switch {
	case len(redeem) == 22 && redeem[0] == 0x00 && redeem[1] == 0x14:
		return KindP2SHP2WPKH
	case len(redeem) == 34 && redeem[0] == 0x00 && redeem[1] == 0x20:
		return KindP2SHP2WSH
	default:
		return KindP2SH
	}
}
