// Package address derives and decodes Bitcoin addresses: Base58Check for
// legacy P2PKH/P2SH and Bech32/Bech32m (BIP173/BIP350) for segwit v0 and
// v1+ witness programs, on both mainnet and testnet.
package address

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/internal/ierrors"
	"github.com/SatyamKumarCS/Summer-of-Bitcoin-2026-Week1-ChainLens/pkg/script"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcutil/base58"
)

// Network selects the version bytes / HRP used for address derivation.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

func (n Network) hrp() string {
	if n == Testnet {
		return "tb"
	}
	return "bc"
}

func (n Network) p2pkhVersion() byte {
	if n == Testnet {
		return 0x6f
	}
	return 0x00
}

func (n Network) p2shVersion() byte {
	if n == Testnet {
		return 0xc4
	}
	return 0x05
}

// Derive returns the address for a classified scriptPubKey, or nil if the
// template has no canonical single-address representation (op_return,
// multisig, unknown).
func Derive(network Network, kind script.Kind, scriptBytes []byte) (*string, error) {
	switch kind {
	case script.KindP2PKH:
		if len(scriptBytes) != 25 {
			return nil, ierrors.ErrInvalidScript
		}
		return ptr(payToPubKeyHash(network, scriptBytes[3:23]))
	case script.KindP2SH:
		if len(scriptBytes) != 23 {
			return nil, ierrors.ErrInvalidScript
		}
		return ptr(payToScriptHash(network, scriptBytes[2:22]))
	case script.KindP2WPKH:
		if len(scriptBytes) != 22 {
			return nil, ierrors.ErrInvalidScript
		}
		s, err := encodeSegWitAddress(network.hrp(), 0x00, scriptBytes[2:22])
		return ptrErr(s, err)
	case script.KindP2WSH:
		if len(scriptBytes) != 34 {
			return nil, ierrors.ErrInvalidScript
		}
		s, err := encodeSegWitAddress(network.hrp(), 0x00, scriptBytes[2:34])
		return ptrErr(s, err)
	case script.KindP2TR:
		if len(scriptBytes) != 34 {
			return nil, ierrors.ErrInvalidScript
		}
		s, err := encodeSegWitAddress(network.hrp(), 0x01, scriptBytes[2:34])
		return ptrErr(s, err)
	default:
		return nil, nil
	}
}

func ptr(s string) (*string, error) { return &s, nil }

func ptrErr(s string, err error) (*string, error) {
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func payToPubKeyHash(network Network, pubKeyHash []byte) string {
	return base58.CheckEncode(pubKeyHash, network.p2pkhVersion())
}

func payToScriptHash(network Network, scriptHash []byte) string {
	return base58.CheckEncode(scriptHash, network.p2shVersion())
}

// DecodeBase58Check reverses Base58Check encoding, returning the payload
// and version byte.
func DecodeBase58Check(addr string) (payload []byte, version byte, err error) {
	decoded := base58.Decode(addr)
	if len(decoded) < 5 {
		return nil, 0, ierrors.ErrInvalidAddress
	}
	version = decoded[0]
	var cksum [4]byte
	copy(cksum[:], decoded[len(decoded)-4:])
	if checksum(decoded[:len(decoded)-4]) != cksum {
		return nil, 0, fmt.Errorf("%w: checksum mismatch", ierrors.ErrInvalidAddress)
	}
	payload = decoded[1 : len(decoded)-4]
	return payload, version, nil
}

func checksum(input []byte) (cksum [4]byte) {
	h := sha256.Sum256(input)
	h2 := sha256.Sum256(h[:])
	copy(cksum[:], h2[:4])
	return
}

// DecodeSegWit reverses Bech32/Bech32m segwit address encoding, returning
// the witness version and program.
func DecodeSegWit(addr string) (witnessVersion byte, witnessProgram []byte, err error) {
	return decodeSegWitAddress(addr)
}

func decodeSegWitAddress(addr string) (byte, []byte, error) {
	_, data, bechVersion, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return 0, nil, err
	}
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("%w: no witness version", ierrors.ErrInvalidAddress)
	}

	version := data[0]
	if version > 16 {
		return 0, nil, fmt.Errorf("%w: invalid witness version %d", ierrors.ErrUnsupportedWitnessVers, version)
	}

	regrouped, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return 0, nil, err
	}

	if len(regrouped) < 2 || len(regrouped) > 40 {
		return 0, nil, fmt.Errorf("%w: invalid program length %d", ierrors.ErrInvalidAddress, len(regrouped))
	}
	if version == 0 && len(regrouped) != 20 && len(regrouped) != 32 {
		return 0, nil, fmt.Errorf("%w: invalid program length %d for witness v0", ierrors.ErrInvalidAddress, len(regrouped))
	}
	if version == 0 && bechVersion != bech32.Version0 {
		return 0, nil, fmt.Errorf("%w: expected bech32 for witness v0", ierrors.ErrInvalidEncoding)
	}
	if version == 1 && bechVersion != bech32.VersionM {
		return 0, nil, fmt.Errorf("%w: expected bech32m for witness v1", ierrors.ErrInvalidEncoding)
	}

	return version, regrouped, nil
}

func encodeSegWitAddress(hrp string, witnessVersion byte, witnessProgram []byte) (string, error) {
	converted, err := bech32.ConvertBits(witnessProgram, 8, 5, true)
	if err != nil {
		return "", err
	}

	combined := make([]byte, len(converted)+1)
	combined[0] = witnessVersion
	copy(combined[1:], converted)

	var bech string
	switch witnessVersion {
	case 0:
		bech, err = bech32.Encode(hrp, combined)
	case 1:
		bech, err = bech32.EncodeM(hrp, combined)
	default:
		return "", fmt.Errorf("%w: unsupported witness version %d", ierrors.ErrUnsupportedWitnessVers, witnessVersion)
	}
	if err != nil {
		return "", err
	}

	version, program, err := decodeSegWitAddress(bech)
	if err != nil {
		return "", fmt.Errorf("invalid segwit address: %w", err)
	}
	if version != witnessVersion || !bytes.Equal(program, witnessProgram) {
		return "", fmt.Errorf("%w: round trip mismatch", ierrors.ErrInvalidEncoding)
	}

	return bech, nil
}
