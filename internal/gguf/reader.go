package gguf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Info is the subset of a GGUF file's metadata the registry needs: the
// declared architecture and display name, the dominant quantization
// type across tensors, and the file's on-disk footprint.
type Info struct {
	Architecture string
	Name string
	QuantType GGMLType
	FileSizeMB float64
}

// Read opens path and extracts Info: version must be >= 3;
// general.architecture, general.name, and the tensor quantization type
// are read; everything else in the metadata block is skipped opaquely.
// The first four bytes decide the byte order for everything that
// follows: a handful of early GGUF writers emitted big-endian files, so
// a mismatch against the little-endian Magic is retried against
// MagicBigEndian before the file is rejected.
func Read(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("gguf: open: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("gguf: stat: %w", err)
	}

	r := bufio.NewReader(f)

	var rawMagic uint32
	if err := binary.Read(r, binary.LittleEndian, &rawMagic); err != nil {
		return Info{}, fmt.Errorf("gguf: read magic: %w", err)
	}
	order, err := detectByteOrder(rawMagic)
	if err != nil {
		return Info{}, err
	}

	var version uint32
	if err := binary.Read(r, order, &version); err != nil {
		return Info{}, fmt.Errorf("gguf: read version: %w", err)
	}
	if version < MinVersion {
		return Info{}, fmt.Errorf("gguf: unsupported version %d (need >= %d)", version, MinVersion)
	}

	var tensorCount, kvCount uint64
	if err := binary.Read(r, order, &tensorCount); err != nil {
		return Info{}, fmt.Errorf("gguf: read tensor count: %w", err)
	}
	if err := binary.Read(r, order, &kvCount); err != nil {
		return Info{}, fmt.Errorf("gguf: read kv count: %w", err)
	}

	info := Info{FileSizeMB: float64(st.Size()) / (1024 * 1024)}

	for i := uint64(0); i < kvCount; i++ {
		key, err := readString(r, order)
		if err != nil {
			return Info{}, fmt.Errorf("gguf: kv %d key: %w", i, err)
		}
		vt, err := readValueType(r, order)
		if err != nil {
			return Info{}, fmt.Errorf("gguf: kv %d type: %w", i, err)
		}
		switch key {
		case "general.architecture":
			s, err := readTypedString(r, order, vt)
			if err != nil {
				return Info{}, fmt.Errorf("gguf: general.architecture: %w", err)
			}
			info.Architecture = s
		case "general.name":
			s, err := readTypedString(r, order, vt)
			if err != nil {
				return Info{}, fmt.Errorf("gguf: general.name: %w", err)
			}
			info.Name = s
		default:
			if err := skipValue(r, order, vt); err != nil {
				return Info{}, fmt.Errorf("gguf: skip kv %q: %w", key, err)
			}
		}
	}

	typeCounts := map[GGMLType]int{}
	for i := uint64(0); i < tensorCount; i++ {
		if _, err := readString(r, order); err != nil { // name
			return Info{}, fmt.Errorf("gguf: tensor %d name: %w", i, err)
		}
		var nDims uint32
		if err := binary.Read(r, order, &nDims); err != nil {
			return Info{}, fmt.Errorf("gguf: tensor %d ndims: %w", i, err)
		}
		for d := uint32(0); d < nDims; d++ {
			var dim uint64
			if err := binary.Read(r, order, &dim); err != nil {
				return Info{}, fmt.Errorf("gguf: tensor %d dim %d: %w", i, d, err)
			}
		}
		var ggmlType uint32
		if err := binary.Read(r, order, &ggmlType); err != nil {
			return Info{}, fmt.Errorf("gguf: tensor %d type: %w", i, err)
		}
		var offset uint64
		if err := binary.Read(r, order, &offset); err != nil {
			return Info{}, fmt.Errorf("gguf: tensor %d offset: %w", i, err)
		}
		typeCounts[GGMLType(ggmlType)]++
	}

	info.QuantType = modeType(typeCounts)
	return info, nil
}

// detectByteOrder maps the raw magic word, as read little-endian, onto
// the byte order the rest of the file was encoded with.
func detectByteOrder(rawMagic uint32) (binary.ByteOrder, error) {
	switch rawMagic {
	case Magic:
		return binary.LittleEndian, nil
	case MagicBigEndian:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("gguf: bad magic %#x", rawMagic)
	}
}

func modeType(counts map[GGMLType]int) GGMLType {
	var best GGMLType
	bestN := -1
	for t, n := range counts {
		if n > bestN {
			best, bestN = t, n
		}
	}
	return best
}

func readValueType(r io.Reader, order binary.ByteOrder) (valueType, error) {
	var v uint32
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return valueType(v), nil
}

// maxStringLen caps a single GGUF string field's declared length. No
// architecture name, model name, or metadata key this reader cares
// about comes anywhere near this size; it exists only to reject a
// corrupt or truncated file's length prefix before it drives an
// oversized allocation.
const maxStringLen = 1 << 24

func readString(r io.Reader, order binary.ByteOrder) (string, error) {
	var n uint64
	if err := binary.Read(r, order, &n); err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("gguf: string length %d exceeds %d byte cap", n, maxStringLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readTypedString(r io.Reader, order binary.ByteOrder, vt valueType) (string, error) {
	if vt != typeString {
		if err := skipValue(r, order, vt); err != nil {
			return "", err
		}
		return "", fmt.Errorf("expected string value, got type %d", vt)
	}
	return readString(r, order)
}

// fixedSize returns the encoded size in bytes of scalar GGUF value
// types; 0 for variable-length types (string, array).
func fixedSize(vt valueType) int {
	switch vt {
	case typeUint8, typeInt8, typeBool:
		return 1
	case typeUint16, typeInt16:
		return 2
	case typeUint32, typeInt32, typeFloat32:
		return 4
	case typeUint64, typeInt64, typeFloat64:
		return 8
	default:
		return 0
	}
}

// skipValue advances r past one metadata value of the given type without
// interpreting it — everything but architecture/name is opaque to the
// core.
func skipValue(r io.Reader, order binary.ByteOrder, vt valueType) error {
	if n := fixedSize(vt); n > 0 {
		_, err := io.CopyN(io.Discard, r, int64(n))
		return err
	}
	switch vt {
	case typeString:
		_, err := readString(r, order)
		return err
	case typeArray:
		elemType, err := readValueType(r, order)
		if err != nil {
			return err
		}
		var count uint64
		if err := binary.Read(r, order, &count); err != nil {
			return err
		}
		for i := uint64(0); i < count; i++ {
			if err := skipValue(r, order, elemType); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown metadata value type %d", vt)
	}
}
