package predict

// Fixed predictor commands, matching the FN_DIFF0..FN_DIFF3 command ids.
const (
	Diff0 = 0
	Diff1 = 1
	Diff2 = 2
	Diff3 = 3
)

// DecodeFixed reconstructs a block of blocksize = len(residual) samples
// using one of the fixed-coefficient predictors DIFF0-DIFF3. coffset is
// only added by DIFF0 (the DC-offset estimate); it is ignored by DIFF1-3,
// whose repeated differencing cancels any constant term algebraically.
func DecodeFixed(cmd int, residual []int32, ch *ChannelState, coffset int32) []int32 {
	result := make([]int32, len(residual))
	// s returns the reconstructed sample k positions before result[i],
	// drawing on the block built so far or, once i-k runs negative, on the
	// channel's carried-over history.
	s := func(i, k int) int32 {
		idx := i - k
		if idx >= 0 {
			return result[idx]
		}
		return ch.Prev(-idx)
	}
	for i := range residual {
		switch cmd {
		case Diff0:
			result[i] = residual[i] + coffset
		case Diff1:
			result[i] = residual[i] + s(i, 1)
		case Diff2:
			result[i] = residual[i] + 2*s(i, 1) - s(i, 2)
		case Diff3:
			result[i] = residual[i] + 3*s(i, 1) - 3*s(i, 2) + s(i, 3)
		}
	}
	return result
}

// DecodeZero reconstructs an FN_ZERO block: blocksize zero samples. History
// and the rolling mean are still updated by the caller via ChannelState.Update.
func DecodeZero(blocksize int) []int32 {
	return make([]int32, blocksize)
}
