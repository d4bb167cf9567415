package max2870

import (
	"errors"
	"fmt"
)

var (
	ErrStepExceedsPFD        = errors.New("step frequency exceeds PFD frequency")
	ErrRFFrequencyRange      = errors.New("RF frequency out of range")
	ErrPowerLevel            = errors.New("power level out of range")
	ErrAuxPowerLevel         = errors.New("auxiliary power level out of range")
	ErrAuxFrequencyDivider   = errors.New("invalid auxiliary output divider mode")
	ErrZeroPFDFrequency      = errors.New("PFD frequency is zero")
	ErrModRange              = errors.New("MOD out of range")
	ErrFracRange             = errors.New("FRAC not less than MOD")
	ErrNRange                = errors.New("N out of range for integer-N mode")
	ErrNRangeFrac            = errors.New("N out of range for fractional-N mode")
	ErrRFAndStepRemainder    = errors.New("RF frequency is not a multiple of the step frequency")
	ErrPFDExceededFractional = errors.New("PFD frequency too high for fractional-N mode")
	ErrCalculationTimeout    = errors.New("precision frequency calculation timed out")
	ErrDoublerExceeded       = errors.New("reference frequency too high for doubler")
	ErrRRange                = errors.New("R divider out of range")
	ErrRefFrequencyRange     = errors.New("reference frequency out of range")
	ErrRefMultiplierType     = errors.New("invalid reference multiplier type")
	ErrPFDAndStepRemainder   = errors.New("PFD frequency is not a multiple of the step frequency")
	ErrPFDLimits             = errors.New("PFD frequency out of range")
	ErrPolarityInvalid       = errors.New("invalid phase detector polarity")
)

// FrequencyWarning reports that the registers were programmed but the
// achieved frequency deviates from the requested one. It is a soft failure:
// unlike the hard errors above, the device state has already been committed
// when it is returned. Test for it with errors.As.
type FrequencyWarning struct {
	// ErrorHz is the signed deviation (actual - requested) in Hz.
	ErrorHz int64
}

func (w FrequencyWarning) Error() string {
	return fmt.Sprintf("programmed with a frequency error of %d Hz", w.ErrorHz)
}
