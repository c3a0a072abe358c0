package registry

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"neuronos/internal/gguf"
	"neuronos/pkg/types"
)

func writeMinimalGGUF(t *testing.T, path string, architecture string) {
	t.Helper()
	var buf bytes.Buffer
	writeStr := func(s string) {
		binary.Write(&buf, binary.LittleEndian, uint64(len(s)))
		buf.WriteString(s)
	}
	binary.Write(&buf, binary.LittleEndian, gguf.Magic)
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	binary.Write(&buf, binary.LittleEndian, uint64(0)) // tensor_count
	binary.Write(&buf, binary.LittleEndian, uint64(1)) // kv_count

	writeStr("general.architecture")
	binary.Write(&buf, binary.LittleEndian, uint32(8)) // typeString
	writeStr(architecture)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func TestScanFindsGGUFFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeMinimalGGUF(t, filepath.Join(dir, "a.gguf"), "llama")
	writeMinimalGGUF(t, filepath.Join(sub, "b.gguf"), "llama")
	os.WriteFile(filepath.Join(dir, "not-a-model.txt"), []byte("ignore me"), 0o644)

	hw := types.HardwareInfo{RAMAvailMB: 8192}
	entries, err := Scan(dir, hw)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("expected basenames a and b, got %v", names)
	}
}

func TestScanSortsDescendingByScore(t *testing.T) {
	dir := t.TempDir()
	writeMinimalGGUF(t, filepath.Join(dir, "plain.gguf"), "llama")
	writeMinimalGGUF(t, filepath.Join(dir, "bitnet-instruct.gguf"), "llama")

	hw := types.HardwareInfo{RAMAvailMB: 8192}
	entries, err := Scan(dir, hw)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Score < entries[1].Score {
		t.Fatalf("expected descending score order, got %+v", entries)
	}
	if entries[0].Name != "bitnet-instruct" {
		t.Fatalf("expected the name-bonus-eligible model first, got %s", entries[0].Name)
	}
}

func TestScanCapsAtMaxEntries(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < MaxScanEntries+5; i++ {
		writeMinimalGGUF(t, filepath.Join(dir, "m"+itoaForTest(i)+".gguf"), "llama")
	}
	hw := types.HardwareInfo{RAMAvailMB: 8192}
	entries, err := Scan(dir, hw)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) > MaxScanEntries {
		t.Fatalf("expected at most %d entries, got %d", MaxScanEntries, len(entries))
	}
}

func itoaForTest(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
