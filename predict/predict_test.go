package predict_test

import (
	"reflect"
	"testing"

	"github.com/go-shn/shn/predict"
)

func TestDecodeFixedDiff0(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 4)
	got := predict.DecodeFixed(predict.Diff0, []int32{10, -10}, ch, 0)
	want := []int32{10, -10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	ch.Update(got)
	if got := ch.Coffset(4); got != 0 {
		t.Errorf("stored mean: got %d, want 0", got)
	}
}

func TestDecodeFixedDiff1(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 0)
	got := predict.DecodeFixed(predict.Diff1, []int32{5, 5}, ch, 0)
	want := []int32{5, 10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeFixedDiff2CarriesHistory(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 0)
	first := predict.DecodeFixed(predict.Diff1, []int32{1, 2, 3}, ch, 0)
	ch.Update(first)
	// DIFF1 over residuals [1,2,3] reconstructs [1,3,6]; s[-1]=6, s[-2]=3.
	second := predict.DecodeFixed(predict.Diff2, []int32{0}, ch, 0)
	// s[0] = residual + 2*s[-1] - s[-2] = 0 + 2*6 - 3 = 9.
	want := []int32{9}
	if !reflect.DeepEqual(second, want) {
		t.Fatalf("got %v, want %v", second, want)
	}
}

func TestDecodeZeroBlock(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 0)
	got := predict.DecodeZero(4)
	want := []int32{0, 0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	ch.Update(got)
	if got := ch.Coffset(0); got != 0 {
		t.Errorf("coffset after zero block with nmean=0: got %d, want 0", got)
	}
}

func TestChannelStateBlockShorterThanNWRAP(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 0)
	ch.Update([]int32{7, 8, 9})
	if got := ch.Prev(1); got != 9 {
		t.Errorf("Prev(1): got %d, want 9", got)
	}
	if got := ch.Prev(2); got != 8 {
		t.Errorf("Prev(2): got %d, want 8", got)
	}
	if got := ch.Prev(3); got != 7 {
		t.Errorf("Prev(3): got %d, want 7", got)
	}

	// Next block is shorter than NWRAP; history must slide, mixing old and
	// new samples rather than losing continuity.
	ch.Update([]int32{42})
	if got := ch.Prev(1); got != 42 {
		t.Errorf("Prev(1): got %d, want 42", got)
	}
	if got := ch.Prev(2); got != 9 {
		t.Errorf("Prev(2): got %d, want 9", got)
	}
	if got := ch.Prev(3); got != 8 {
		t.Errorf("Prev(3): got %d, want 8", got)
	}
}

func TestCoffsetRollingMean(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 4)
	// Four blocks of constant value v produce a stored mean of v each; the
	// rolling window holds exactly the last 4 means.
	for _, v := range []int32{4, 8, 12, 16} {
		block := []int32{v, v, v, v}
		ch.Update(block)
	}
	// sum = 4+8+12+16 = 40; (40 + 4/2) / 4 = 42/4 = 10 (truncated).
	if got := ch.Coffset(4); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestDecodeQLPCOrderZero(t *testing.T) {
	ch := predict.NewChannelState(predict.NWRAP, 0)
	got := predict.DecodeQLPC([]int32{3, -3, 7}, nil, ch, 5)
	// order==0: working[i] = residual[i] + (16>>5) = residual[i]; result
	// adds offsetEst back.
	want := []int32{8, 2, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDecodeQLPCUsesHistory(t *testing.T) {
	ch := predict.NewChannelState(2, 0)
	ch.Update([]int32{100, 200})
	// order=1: the lone coefficient is exactly 1<<LPCQUANT, so the >>LPCQUANT
	// in the predictor exactly cancels the quantization scale and the
	// prediction reproduces Prev(1) unchanged.
	got := predict.DecodeQLPC([]int32{0}, []int32{1 << predict.LPCQUANT}, ch, 0)
	// sum = bias + coeff*working[-1] where working[-1] = Prev(1) - offsetEst = 200.
	// sum = 16 + 32*200 = 6416; working[0] = residual(0) + (6416>>5) = 200.
	want := []int32{200}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
