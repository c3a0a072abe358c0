// Package gguf reads just enough of the GGUF container format for
// NeuronOS's model registry: the magic/version header and the metadata
// key-value block, from which it extracts general.architecture,
// general.name, and the file's quantization-type tag. It does not load
// tensor data — the transformer engine that would consume it is an
// out-of-scope collaborator.
package gguf

// Magic is the GGUF file magic number, "GGUF" read little-endian.
const Magic uint32 = 0x46554747

// MagicBigEndian is Magic as it appears when the rest of the file's
// fixed-width fields are big-endian-encoded ("GGUF" read big-endian,
// i.e. the byte-reversed little-endian constant). A handful of
// early GGUF writers emitted big-endian files; Read detects this from
// the first four bytes and switches binary.ByteOrder accordingly
// before decoding anything else.
const MagicBigEndian uint32 = 0x47475546

// MinVersion is the minimum GGUF version this reader accepts.
const MinVersion uint32 = 3

// valueType enumerates the GGUF metadata value tags.
type valueType uint32

const (
	typeUint8 valueType = iota
	typeInt8
	typeUint16
	typeInt16
	typeUint32
	typeInt32
	typeFloat32
	typeBool
	typeString
	typeArray
	typeUint64
	typeInt64
	typeFloat64
)

// GGMLType is a tensor element/quantization type tag, used here only to
// resolve the model's headline quantization scheme.
type GGMLType uint32

const (
	GGMLTypeF32 GGMLType = 0
	GGMLTypeF16 GGMLType = 1
	GGMLTypeQ4_0 GGMLType = 2
	GGMLTypeQ4_1 GGMLType = 3
	GGMLTypeQ5_0 GGMLType = 6
	GGMLTypeQ5_1 GGMLType = 7
	GGMLTypeQ8_0 GGMLType = 8
	GGMLTypeQ8_1 GGMLType = 9
	GGMLTypeQ2K GGMLType = 10
	GGMLTypeQ3K GGMLType = 11
	GGMLTypeQ4K GGMLType = 12
	GGMLTypeQ5K GGMLType = 13
	GGMLTypeQ6K GGMLType = 14
	GGMLTypeQ8K GGMLType = 15
	GGMLTypeI2S GGMLType = 31 // NeuronOS ternary extension tag
)

func (t GGMLType) String() string {
	switch t {
	case GGMLTypeF32:
		return "F32"
	case GGMLTypeF16:
		return "F16"
	case GGMLTypeQ4_0:
		return "Q4_0"
	case GGMLTypeQ4_1:
		return "Q4_1"
	case GGMLTypeQ5_0:
		return "Q5_0"
	case GGMLTypeQ5_1:
		return "Q5_1"
	case GGMLTypeQ8_0:
		return "Q8_0"
	case GGMLTypeQ8_1:
		return "Q8_1"
	case GGMLTypeQ2K:
		return "Q2_K"
	case GGMLTypeQ3K:
		return "Q3_K"
	case GGMLTypeQ4K:
		return "Q4_K"
	case GGMLTypeQ5K:
		return "Q5_K"
	case GGMLTypeQ6K:
		return "Q6_K"
	case GGMLTypeQ8K:
		return "Q8_K"
	case GGMLTypeI2S:
		return "I2_S"
	default:
		return "UNKNOWN"
	}
}

// BytesPerParam gives a rough per-parameter storage cost for each
// quantization type. The registry's parameter-count estimate does not
// call it; it always assumes the ternary 0.35 bytes/param.
func (t GGMLType) BytesPerParam() float64 {
	switch t {
	case GGMLTypeI2S:
		return 0.35
	case GGMLTypeQ4_0, GGMLTypeQ4_1, GGMLTypeQ4K:
		return 0.6
	case GGMLTypeQ8_0, GGMLTypeQ8_1, GGMLTypeQ8K:
		return 1.05
	case GGMLTypeF16:
		return 2.0
	case GGMLTypeF32:
		return 4.0
	default:
		return 0.6
	}
}
