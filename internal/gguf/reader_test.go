package gguf

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeString appends a GGUF string (uint64 length + bytes) to buf in
// the given byte order.
func writeString(buf *bytes.Buffer, order binary.ByteOrder, s string) {
	binary.Write(buf, order, uint64(len(s)))
	buf.WriteString(s)
}

// buildFixtureOrder writes a minimal, valid GGUF file with two string kv
// pairs and a single I2_S tensor, encoded in the given byte order, and
// returns its path.
func buildFixtureOrder(t *testing.T, magic uint32, order binary.ByteOrder) string {
	t.Helper()
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, magic) // magic is always read little-endian first
	binary.Write(&buf, order, uint32(3)) // version
	binary.Write(&buf, order, uint64(1)) // tensor_count
	binary.Write(&buf, order, uint64(2)) // kv_count

	writeString(&buf, order, "general.architecture")
	binary.Write(&buf, order, uint32(typeString))
	writeString(&buf, order, "llama")

	writeString(&buf, order, "general.name")
	binary.Write(&buf, order, uint32(typeString))
	writeString(&buf, order, "falcon3-7b-instruct")

	// one tensor: name, ndims=1, dim[0]=10, type=I2_S, offset=0
	writeString(&buf, order, "blk.0.weight")
	binary.Write(&buf, order, uint32(1))
	binary.Write(&buf, order, uint64(10))
	binary.Write(&buf, order, uint32(GGMLTypeI2S))
	binary.Write(&buf, order, uint64(0))

	dir := t.TempDir()
	path := filepath.Join(dir, "model.gguf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// buildFixture writes a minimal, valid little-endian GGUF file.
func buildFixture(t *testing.T) string {
	return buildFixtureOrder(t, Magic, binary.LittleEndian)
}

func TestReadExtractsArchitectureNameAndQuantType(t *testing.T) {
	path := buildFixture(t)
	info, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Architecture != "llama" {
		t.Fatalf("architecture = %q, want llama", info.Architecture)
	}
	if info.Name != "falcon3-7b-instruct" {
		t.Fatalf("name = %q, want falcon3-7b-instruct", info.Name)
	}
	if info.QuantType != GGMLTypeI2S {
		t.Fatalf("quant type = %v, want I2_S", info.QuantType)
	}
	if info.FileSizeMB <= 0 {
		t.Fatalf("expected positive file size, got %v", info.FileSizeMB)
	}
}

func TestReadDetectsBigEndianFile(t *testing.T) {
	path := buildFixtureOrder(t, MagicBigEndian, binary.BigEndian)
	info, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Architecture != "llama" {
		t.Fatalf("architecture = %q, want llama", info.Architecture)
	}
	if info.Name != "falcon3-7b-instruct" {
		t.Fatalf("name = %q, want falcon3-7b-instruct", info.Name)
	}
	if info.QuantType != GGMLTypeI2S {
		t.Fatalf("quant type = %v, want I2_S", info.QuantType)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.gguf")
	if err := os.WriteFile(path, []byte("not a gguf file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestReadRejectsOldVersion(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, Magic)
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint64(0))
	binary.Write(&buf, binary.LittleEndian, uint64(0))

	dir := t.TempDir()
	path := filepath.Join(dir, "old.gguf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected error for version < 3")
	}
}
