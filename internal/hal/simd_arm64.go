//go:build arm64

package hal

import "neuronos/pkg/types"

// neonVecDotI2I8 mirrors avx2VecDotI2I8's four-lane sweep; on arm64 the
// gating feature is NEON, which the hardware probe reports as always-on,
// so this backend is effectively the default on Apple Silicon and other
// 64-bit ARM targets.
func neonVecDotI2I8(n int, x []byte, y []int8, nrc int) []float32 {
	rowBytes := RowBytes(n)
	nb := NumBlocks(n)
	out := make([]float32, nrc)
	for row := 0; row < nrc; row++ {
		xRow := x[row*rowBytes: (row+1)*rowBytes]
		var sum int32
		for blk := 0; blk < nb; blk++ {
			packed := xRow[blk*blockBytes: blk*blockBytes+blockPackedBytes]
			base := blk * QKI2S
			limit := len(y) - base
			if limit > QKI2S {
				limit = QKI2S
			}
			for group := 0; group < 4; group++ {
				shift := uint(6 - 2*group)
				groupBase := group * 32
				for pos := 0; pos < 32; pos++ {
					j := groupBase + pos
					if j >= limit {
						break
					}
					raw := (packed[pos] >> shift) & 0x03
					sum += int32(raw) * int32(y[base+j])
				}
			}
		}
		out[row] = float32(sum)
	}
	return out
}

func neonGemvI2I8(n int, x []byte, y []int8, nr int) []float32 {
	return neonVecDotI2I8(n, x, y, nr)
}

func neonGemmI2I8(n int, x []byte, y []int8, nr, nc int) []float32 {
	out := make([]float32, nr*nc)
	for col := 0; col < nc; col++ {
		yCol := y[col*n: (col+1)*n]
		rowResults := neonGemvI2I8(n, x, yCol, nr)
		for row := 0; row < nr; row++ {
			out[row*nc+col] = rowResults[row]
		}
	}
	return out
}

func init() {
	register(&Backend{
		Name: "neon",
		Priority: 10,
		RequiredFeatures: types.FeatureNEON,
		Config: BlockConfig{
			RowBlock: 4,
			ColBlock: QKI2S,
			Parallel: 4,
			QKI2S: QKI2S,
		},
		VecDotI2I8: neonVecDotI2I8,
		QuantizeI2: scalarQuantizeI2,
		GemvI2I8: neonGemvI2I8,
		GemmI2I8: neonGemmI2I8,
	})
}
