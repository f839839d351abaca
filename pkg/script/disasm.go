package script

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Disassemble renders scriptHex as a space-separated ASM token string.
// Direct pushes render as "OP_PUSHBYTES_<n> <hex>"; OP_PUSHDATA1/2/4
// render with their length-prefixed payload; a push whose declared
// length runs past the end of the script renders as OP_INVALID rather
// than silently truncating the token stream.
func Disassemble(scriptHex string) (string, error) {
	if scriptHex == "" {
		return "", nil
	}
	raw, err := hex.DecodeString(scriptHex)
	if err != nil {
		return "", fmt.Errorf("disassemble: %w", err)
	}

	var tokens []string
	i := 0
	for i < len(raw) {
		opcode := raw[i]
		i++

		switch {
		case opcode >= 0x01 && opcode <= 0x4b:
			n := int(opcode)
			if i+n > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			data := raw[i : i+n]
			tokens = append(tokens, fmt.Sprintf("OP_PUSHBYTES_%d %s", opcode, hex.EncodeToString(data)))
			i += n

		case opcode == 0x4c:
			if i >= len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			n := int(raw[i])
			i++
			if i+n > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			tokens = append(tokens, fmt.Sprintf("OP_PUSHDATA1 %s", hex.EncodeToString(raw[i:i+n])))
			i += n

		case opcode == 0x4d:
			if i+2 > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			n := int(binary.LittleEndian.Uint16(raw[i : i+2]))
			i += 2
			if i+n > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			tokens = append(tokens, fmt.Sprintf("OP_PUSHDATA2 %s", hex.EncodeToString(raw[i:i+n])))
			i += n

		case opcode == 0x4e:
			if i+4 > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			n := int(binary.LittleEndian.Uint32(raw[i : i+4]))
			i += 4
			if n < 0 || i+n > len(raw) {
				tokens = append(tokens, "OP_INVALID")
				i = len(raw)
				break
			}
			tokens = append(tokens, fmt.Sprintf("OP_PUSHDATA4 %s", hex.EncodeToString(raw[i:i+n])))
			i += n

		default:
			if name, ok := OpcodeName(opcode); ok {
				tokens = append(tokens, name)
			} else {
				tokens = append(tokens, fmt.Sprintf("OP_UNKNOWN_0x%02x", opcode))
			}
		}
	}

	return strings.Join(tokens, " "), nil
}
