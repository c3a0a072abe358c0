package hal

import "math"

// scalarQuantizeEpsilon is the near-zero threshold for snapping a
// weight to the zero ternary state.
const scalarQuantizeEpsilon = 1e-6

func scalarVecDotI2I8(n int, x []byte, y []int8, nrc int) []float32 {
	rowBytes := RowBytes(n)
	nb := NumBlocks(n)
	out := make([]float32, nrc)
	for row := 0; row < nrc; row++ {
		xRow := x[row*rowBytes: (row+1)*rowBytes]
		var sum int32
		for blk := 0; blk < nb; blk++ {
			packed := xRow[blk*blockBytes: blk*blockBytes+blockPackedBytes]
			yBlk := y[blk*QKI2S: min(blk*QKI2S+QKI2S, len(y))]
			for j := 0; j < len(yBlk); j++ {
				raw := unpack2bit(packed, j)
				sum += int32(raw) * int32(yBlk[j])
			}
		}
		out[row] = float32(sum)
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// scalarQuantizeI2 quantizes one row of n weights to its packed I2_S
// representation: per-block scale = max|w| within the block;
// near-zero weights snap to raw 1 (ternary 0); positive weights to raw 2
// (+1); negative weights to raw 0 (-1).
func scalarQuantizeI2(src []float32) []byte {
	n := len(src)
	nb := NumBlocks(n)
	out := make([]byte, nb*blockBytes)

	for blk := 0; blk < nb; blk++ {
		start := blk * QKI2S
		end := start + QKI2S
		if end > n {
			end = n
		}
		blockSrc := src[start:end]

		maxAbs := 0.0
		for _, w := range blockSrc {
			a := math.Abs(float64(w))
			if a > maxAbs {
				maxAbs = a
			}
		}

		var raw [QKI2S]uint8
		for j := range blockSrc {
			w := blockSrc[j]
			switch {
			case math.Abs(float64(w)) < scalarQuantizeEpsilon:
				raw[j] = 1
			case w > 0:
				raw[j] = 2
			default:
				raw[j] = 0
			}
		}
		// Padding weights past the row's true length are zero-valued,
		// encoded as raw 1 (ternary 0), matching the zero-snap branch above.
		for j := len(blockSrc); j < QKI2S; j++ {
			raw[j] = 1
		}

		packed := PackBlock(raw)
		off := blk * blockBytes
		copy(out[off:off+blockPackedBytes], packed[:])
		scaleBytes := float32ToBytes(float32(maxAbs))
		copy(out[off+blockPackedBytes:off+blockBytes], scaleBytes[:])
	}
	return out
}

func scalarGemvI2I8(n int, x []byte, y []int8, nr int) []float32 {
	return scalarVecDotI2I8(n, x, y, nr)
}

func scalarGemmI2I8(n int, x []byte, y []int8, nr, nc int) []float32 {
	out := make([]float32, nr*nc)
	for col := 0; col < nc; col++ {
		yCol := y[col*n: (col+1)*n]
		rowResults := scalarGemvI2I8(n, x, yCol, nr)
		for row := 0; row < nr; row++ {
			out[row*nc+col] = rowResults[row]
		}
	}
	return out
}

func init() {
	register(&Backend{
		Name: "scalar",
		Priority: 0,
		RequiredFeatures: 0,
		Config: BlockConfig{
			RowBlock: 1,
			ColBlock: QKI2S,
			Parallel: 1,
			QKI2S: QKI2S,
		},
		VecDotI2I8: scalarVecDotI2I8,
		QuantizeI2: scalarQuantizeI2,
		GemvI2I8: scalarGemvI2I8,
		GemmI2I8: scalarGemmI2I8,
	})
}
