package predict

import "github.com/go-shn/shn/internal/rice"

// ENERGYSIZE is the mantissa width used to Rice-code the per-block energy
// parameter that, in turn, parameterizes every residual in the block.
const ENERGYSIZE = 3

// DecodeResiduals reads the per-block energy parameter followed by
// blocksize Rice-coded residuals, shared by every predictor (fixed and
// QLPC alike).
func DecodeResiduals(d *rice.Decoder, blocksize int) ([]int32, error) {
	energy, err := d.Uvar(ENERGYSIZE)
	if err != nil {
		return nil, err
	}
	residual := make([]int32, blocksize)
	for i := range residual {
		v, err := d.Var(uint(energy))
		if err != nil {
			return nil, err
		}
		residual[i] = v
	}
	return residual, nil
}
