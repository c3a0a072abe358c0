package hal

import (
	"math"
	"testing"

	"neuronos/pkg/types"
)

func TestSelectBackendAlwaysTerminatesOnScalar(t *testing.T) {
	b, err := SelectBackend(0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if b.Name != "scalar" {
		t.Fatalf("expected scalar fallback for empty feature mask, got %s", b.Name)
	}
}

func TestActivateShutsDownPrevious(t *testing.T) {
	defer Shutdown()
	orig := append([]*Backend(nil), table...)
	t.Cleanup(func() { table = orig })
	shutdownCalls := 0
	register(&Backend{
		Name:             "test-a",
		Priority:         100,
		RequiredFeatures: 0,
		Shutdown:         func() { shutdownCalls++ },
	})
	b1, err := Activate(0)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if b1.Name != "test-a" {
		t.Fatalf("expected test-a to win by priority, got %s", b1.Name)
	}
	if _, err := Activate(0); err != nil {
		t.Fatalf("activate again: %v", err)
	}
	if shutdownCalls != 1 {
		t.Fatalf("expected exactly one shutdown of the previous backend, got %d", shutdownCalls)
	}
}

func packRowFromTernary(t *testing.T, ws []int8) []byte {
	t.Helper()
	n := len(ws)
	f32 := make([]float32, n)
	for i, w := range ws {
		f32[i] = float32(w)
	}
	return scalarQuantizeI2(f32)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	var raw [QKI2S]uint8
	for j := 0; j < QKI2S; j++ {
		raw[j] = uint8(j % 3)
	}
	packed := PackBlock(raw)
	got := UnpackBlock(packed[:])
	if got != raw {
		t.Fatalf("unpack(pack(ws)) != ws")
	}
}

func TestQuantizeRoundTripFixedPoint(t *testing.T) {
	ws := make([]int8, QKI2S)
	for j := range ws {
		switch j % 3 {
		case 0:
			ws[j] = -1
		case 1:
			ws[j] = 0
		case 2:
			ws[j] = 1
		}
	}
	packed := packRowFromTernary(t, ws)
	scale := RowScale(packed, 0)
	block := RowBlockBytes(packed, 0)
	for j, want := range ws {
		raw := unpack2bit(block, j)
		got := Dequant(raw)
		if got != want {
			t.Fatalf("weight %d: dequant(quantize(%d))=%d, want %d (scale=%v)", j, want, got, want, scale)
		}
	}
}

func TestVecDotScalarKnownValue(t *testing.T) {
	// A single block, all raw=2 (ternary +1), activations all 1: the kernel
	// accumulates raw values, so sum = 2*128 = 256.
	var raw [QKI2S]uint8
	for j := range raw {
		raw[j] = 2
	}
	packed := PackBlock(raw)
	row := make([]byte, blockBytes)
	copy(row[:blockPackedBytes], packed[:])
	y := make([]int8, QKI2S)
	for i := range y {
		y[i] = 1
	}
	out := scalarVecDotI2I8(QKI2S, row, y, 1)
	if out[0] != float32(2*QKI2S) {
		t.Fatalf("expected sum=%d, got %v", 2*QKI2S, out[0])
	}
}

func TestAmd64BackendMatchesScalarBitForBit(t *testing.T) {
	b, err := SelectBackend(types.FeatureAVX2)
	if err != nil {
		t.Skip("no AVX2-tagged backend built for this GOARCH")
	}
	if b.Name == "scalar" {
		t.Skip("no non-scalar backend registered for this GOARCH")
	}

	n := QKI2S * 3
	weights := make([]float32, n)
	for i := range weights {
		weights[i] = float32(math.Sin(float64(i))) - 0.5
	}
	packed := scalarQuantizeI2(weights)
	y := make([]int8, n)
	for i := range y {
		y[i] = int8((i % 5) - 2)
	}

	scalarOut := scalarVecDotI2I8(n, packed, y, 1)
	backendOut := b.VecDotI2I8(n, packed, y, 1)
	if len(scalarOut) != len(backendOut) || scalarOut[0] != backendOut[0] {
		t.Fatalf("backend %s diverged from scalar: %v vs %v", b.Name, backendOut, scalarOut)
	}
}
