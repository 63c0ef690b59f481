package instr

import (
	"encoding/binary"
	"fmt"
)

// Bit layout of a packed Word, mirroring the teacher's CompTable/DestTable/JumpTable
// shift-and-or assembly (pkg/hack/codegen.go), generalized from three named fields to
// the opcode/modifier/operand triple: opcode occupies the top 4 bits, modifier the
// next 3, operand the low 9.
const (
	opcodeBits   = 4
	modifierBits = 3
	operandBits  = 9

	modifierShift = operandBits
	opcodeShift   = operandBits + modifierBits

	opcodeMask   = (1 << opcodeBits) - 1
	modifierMask = (1 << modifierBits) - 1
	operandMask  = (1 << operandBits) - 1
)

// Encode packs a Word into its 16-bit machine representation.
func Encode(w Word) (uint16, error) {
	if uint8(w.Op) > opcodeMask {
		return 0, fmt.Errorf("instr: opcode %d out of range", w.Op)
	}
	if uint8(w.Modifier) > modifierMask {
		return 0, fmt.Errorf("instr: modifier %d out of range", w.Modifier)
	}
	if w.Operand < 0 || w.Operand > operandMask {
		return 0, fmt.Errorf("instr: operand %d out of range (max %d)", w.Operand, operandMask)
	}

	command := uint16(w.Op) << opcodeShift
	command |= uint16(w.Modifier) << modifierShift
	command |= uint16(w.Operand)
	return command, nil
}

// Decode unpacks a 16-bit machine word into its Word fields.
func Decode(command uint16) Word {
	return Word{
		Op:       Opcode((command >> opcodeShift) & opcodeMask),
		Modifier: Modifier((command >> modifierShift) & modifierMask),
		Operand:  int(command & operandMask),
	}
}

// Pack encodes every Word in order and emits them as big-endian byte pairs, the
// bytecode image format consumed by the runtime processor (out of scope here).
func Pack(words []Word) ([]byte, error) {
	out := make([]byte, 0, len(words)*2)
	for i, w := range words {
		command, err := Encode(w)
		if err != nil {
			return nil, fmt.Errorf("instr: packing word %d: %w", i, err)
		}
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], command)
		out = append(out, buf[:]...)
	}
	return out, nil
}
