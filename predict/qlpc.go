package predict

// LPCQSIZE is the mantissa width used to Rice-code both the LPC order and
// its quantized coefficients.
const LPCQSIZE = 2

// LPCQUANT is the fixed-point scale, in bits, of the quantized LPC
// coefficients.
const LPCQUANT = 5

// DecodeQLPC reconstructs a block of blocksize = len(residual) samples
// using the quantized linear predictor with the given coefficients (stored
// first-to-last, i.e. coeffs[0] multiplies the most recent sample) and the
// DC-offset estimate offsetEst. An order-0 predictor (no coefficients)
// degenerates to pure residual-plus-offset.
func DecodeQLPC(residual []int32, coeffs []int32, ch *ChannelState, offsetEst int32) []int32 {
	order := len(coeffs)
	blocksize := len(residual)

	// working holds order history samples (offset-subtracted) followed by
	// the blocksize samples being reconstructed, so that working[order+i-j]
	// uniformly addresses "j samples before position i" whether j reaches
	// back into history or into already-reconstructed output.
	working := make([]int32, order+blocksize)
	for i := 0; i < order; i++ {
		working[i] = ch.Prev(order-i) - offsetEst
	}

	const bias = 1 << (LPCQUANT - 1)
	for i := 0; i < blocksize; i++ {
		sum := int64(bias)
		for j := 1; j <= order; j++ {
			sum += int64(coeffs[j-1]) * int64(working[order+i-j])
		}
		working[order+i] = residual[i] + int32(sum>>LPCQUANT)
	}

	result := make([]int32, blocksize)
	for i := 0; i < blocksize; i++ {
		result[i] = working[order+i] + offsetEst
	}
	return result
}
