package max2870

import "math/big"

// SetReference sets the reference frequency in Hz, the R divider (1-1023)
// and the reference conditioning mode. The derived PFD frequency is checked
// as an exact rational against the datasheet limits before anything is
// committed; a failed call leaves the device state untouched.
func (d *Device) SetReference(freqHz uint32, r uint16, mode RefMode) error {
	if mode == RefDouble && freqHz > DoublerInMax {
		return ErrDoublerExceeded
	}
	if r < 1 || r > RMax {
		return ErrRRange
	}
	if freqHz < RefInMin || freqHz > RefInMax {
		return ErrRefFrequencyRange
	}
	switch mode {
	case RefUndivided, RefHalf, RefDouble:
	default:
		return ErrRefMultiplierType
	}

	pfd := big.NewRat(int64(freqHz), int64(r))
	switch mode {
	case RefHalf:
		pfd.Mul(pfd, big.NewRat(1, 2))
	case RefDouble:
		pfd.Mul(pfd, big.NewRat(2, 1))
	}
	if pfd.Cmp(big.NewRat(int64(PFDMin), 1)) < 0 || pfd.Cmp(big.NewRat(int64(PFDMax), 1)) > 0 {
		return ErrPFDLimits
	}

	d.refFreq = freqHz
	d.regs[2] = setBitField(14, 10, d.regs[2], uint32(r))
	switch mode {
	case RefDouble:
		d.regs[2] = setBitField(24, 2, d.regs[2], 0b10)
	case RefHalf:
		d.regs[2] = setBitField(24, 2, d.regs[2], 0b01)
	default:
		d.regs[2] = setBitField(24, 2, d.regs[2], 0b00)
	}
	return nil
}

// ReadPFDFrequency derives the phase detector frequency from the stored
// reference frequency and the R, divide-by-2 and doubler register fields.
// It returns 0 when R reads as 0; callers are expected to check before
// dividing by the result.
func (d *Device) ReadPFDFrequency() float64 {
	r := d.ReadR()
	if r == 0 {
		return 0
	}
	f := float64(d.refFreq) / float64(r)
	if d.ReadRDiv2() != 0 {
		f /= 2
	}
	if d.ReadRefDoubler() != 0 {
		f *= 2
	}
	return f
}

// pfdRat is the exact rational PFD frequency used by the planner and the
// frequency reader. Returns 0 when R reads as 0.
func (d *Device) pfdRat() *big.Rat {
	r := d.ReadR()
	if r == 0 {
		return new(big.Rat)
	}
	pfd := big.NewRat(int64(d.refFreq), int64(r))
	if d.ReadRDiv2() != 0 {
		pfd.Mul(pfd, big.NewRat(1, 2))
	}
	if d.ReadRefDoubler() != 0 {
		pfd.Mul(pfd, big.NewRat(2, 1))
	}
	return pfd
}
