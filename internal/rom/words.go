// Package rom reconstructs the sound-CPU RAM image from the ROM's
// length-prefixed, destination-addressed data blocks, and walks the
// master music pointer table that locates each song set's block chain.
package rom

// ReadWord reads a little-endian uint16 at offset. Grounded on the
// teacher's forge/parse/addresses.go ReadWord helper.
func ReadWord(data []byte, offset int) uint16 {
	return uint16(data[offset]) | uint16(data[offset+1])<<8
}
