// Package bridge implements the command dispatcher: the protocol state
// machine that turns the received byte stream into memory transactions and
// produces read replies.
package bridge

// Command opcodes. Both cases are accepted.
const (
	OpWrite      = 0x57 // 'W'
	OpWriteLower = 0x77 // 'w'
	OpRead       = 0x52 // 'R'
	OpReadLower  = 0x72 // 'r'
)

// Frame lengths of the two commands, opcode included. A write carries
// three address bytes and two data bytes; a read carries three address
// bytes and is answered with two data bytes, high byte first.
const (
	WriteFrameLen = 6
	ReadFrameLen  = 4
	ReadReplyLen  = 2
)

// WriteFrame encodes a write command. Only the low 2 bits of the first
// address byte are meaningful: the address is 18 bits spread over 3 bytes.
func WriteFrame(addr uint32, data uint16) []byte {
	return []byte{
		OpWrite,
		byte(addr >> 16 & 0x03),
		byte(addr >> 8),
		byte(addr),
		byte(data >> 8),
		byte(data),
	}
}

// ReadFrame encodes a read command.
func ReadFrame(addr uint32) []byte {
	return []byte{
		OpRead,
		byte(addr >> 16 & 0x03),
		byte(addr >> 8),
		byte(addr),
	}
}
