// Package predict implements the Shorten fixed and quantized-LPC predictors
// together with the per-channel state (history window and rolling block
// means) that feeds them, generalized from the teacher's fixed/LPC subframe
// reconstruction in frame/subframe.go to Shorten's DIFF/QLPC commands.
package predict

// NWRAP is the fixed history depth available to every predictor: the three
// most recently reconstructed, pre-shift samples of a channel.
const NWRAP = 3

// ChannelState holds the per-channel decode state that survives across
// blocks for the lifetime of a stream: the reconstructed-sample history
// window and a circular buffer of the last nmean block means.
type ChannelState struct {
	history []int32 // chronological order, oldest first; length >= NWRAP
	offset  []int32 // circular buffer of block means, length max(1, nmean)
	next    int     // next slot to overwrite in offset
}

// NewChannelState returns a freshly zeroed ChannelState. histLen is the
// number of pre-shift samples retained as predictor history; it must be at
// least NWRAP and, for streams using QLPC, at least the largest LPC order
// the stream declares (maxnlpc), since the LPC predictor reads back that
// many history samples. nmean is the rolling-mean window length from the
// stream header; a value of 0 still reserves one slot so DIFF0 callers have
// somewhere to aggregate against (its sum is simply never consulted).
func NewChannelState(histLen, nmean int) *ChannelState {
	if histLen < NWRAP {
		histLen = NWRAP
	}
	n := nmean
	if n < 1 {
		n = 1
	}
	return &ChannelState{
		history: make([]int32, histLen),
		offset:  make([]int32, n),
	}
}

// Prev returns the reconstructed, pre-shift sample k positions before the
// start of the block currently being decoded; k=1 is the most recent
// sample, k=NWRAP the oldest one still retained.
func (c *ChannelState) Prev(k int) int32 {
	return c.history[len(c.history)-k]
}

// Coffset returns the DC-offset prediction used by DIFF0, derived from the
// rolling window of the last nmean block means: (sum + nmean/2) / nmean,
// truncated signed integer division. It is 0 when nmean is 0.
func (c *ChannelState) Coffset(nmean int) int32 {
	if nmean == 0 {
		return 0
	}
	var sum int64
	for _, m := range c.offset {
		sum += int64(m)
	}
	return int32((sum + int64(nmean>>1)) / int64(nmean))
}

// Update folds a freshly reconstructed, pre-shift block into the channel's
// history and rolling mean. It must be called after every block, including
// FN_ZERO blocks, regardless of which command produced it.
func (c *ChannelState) Update(block []int32) {
	c.updateMean(block)
	c.updateHistory(block)
}

func (c *ChannelState) updateMean(block []int32) {
	var sum int64
	for _, s := range block {
		sum += int64(s)
	}
	blocksize := int64(len(block))
	mean := int32((sum + blocksize/2) / blocksize)
	c.offset[c.next] = mean
	c.next = (c.next + 1) % len(c.offset)
}

// updateHistory slides the history window so it holds the last len(history)
// pre-shift samples of (old history, block), oldest first.
func (c *ChannelState) updateHistory(block []int32) {
	n := len(block)
	hlen := len(c.history)
	newHist := make([]int32, hlen)
	for i := 0; i < hlen; i++ {
		// j counts how many samples back from the newest sample in
		// (history..., block...) position i corresponds to.
		j := hlen - i
		if j <= n {
			newHist[i] = block[n-j]
		} else {
			newHist[i] = c.history[hlen-(j-n)]
		}
	}
	c.history = newHist
}
