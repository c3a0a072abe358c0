package hal

import (
	"encoding/binary"
	"math"
)

// float32ToBytes encodes f as little-endian IEEE-754, matching the row
// layout's trailing 4-byte scale field.
func float32ToBytes(f float32) [4]byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], math.Float32bits(f))
	return out
}

// BytesToFloat32 decodes a little-endian IEEE-754 scale field.
func BytesToFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// RowScale returns the scale stored in block blk of a packed row of n
// weights.
func RowScale(row []byte, blk int) float32 {
	off := blk*blockBytes + blockPackedBytes
	return BytesToFloat32(row[off: off+blockScaleBytes])
}

// RowBlockBytes returns the 32-byte packed slice for block blk of a packed
// row of n weights.
func RowBlockBytes(row []byte, blk int) []byte {
	off := blk * blockBytes
	return row[off: off+blockPackedBytes]
}
