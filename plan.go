package max2870

import (
	"math/big"
	"time"
)

var (
	half     = big.NewRat(1, 2)
	rfMinRat = big.NewRat(int64(RFOutMin), 1)
	rfMaxRat = big.NewRat(int64(RFOutMax), 1)

	// N values whose fractional remainder lies above 4094/4095 cannot be
	// represented reliably by any FRAC/MOD pair; adding this guard and
	// re-truncating detects them so the planner can step up to the next
	// integer N instead.
	fracOverflowGuard = big.NewRat(24421, 100000000)
)

// ratFloor returns the largest integer not greater than x.
func ratFloor(x *big.Rat) *big.Int {
	return new(big.Int).Div(x.Num(), x.Denom())
}

// gcd is the subtraction form used to reduce FRAC/MOD. When either value is
// zero it returns the other, and 1 when both are zero.
func gcd(a, b uint32) uint32 {
	for {
		switch {
		case a == 0 && b == 0:
			return 1
		case a == 0:
			return b
		case b == 0:
			return a
		case a == b:
			return a
		case a > b:
			a -= b
		default:
			b -= a
		}
	}
}

// SetFrequency plans and programs an output frequency.
//
// The frequency is a decimal string in Hz; digits below 1 Hz are discarded.
// power and auxPower select the output levels (0 disables an output, 1-4 set
// its level). With precision false the frequency is quantised to the channel
// step and must divide into it exactly. With precision true the planner
// searches MOD values in ascending order for the smallest frequency error,
// stopping as soon as a candidate is within maxErrorHz; a timeout > 0 bounds
// the wall-clock time of that search.
//
// A FrequencyWarning return means the registers were written but the
// programmed frequency deviates from the request: nonzero error in step
// mode, or error above maxErrorHz in precision mode. Any other non-nil
// return leaves the device untouched.
func (d *Device) SetFrequency(freq string, power, auxPower uint8, auxMode AuxMode, precision bool, maxErrorHz uint32, timeout time.Duration) error {
	if power > 4 {
		return ErrPowerLevel
	}
	if auxPower > 4 {
		return ErrAuxPowerLevel
	}
	if auxMode != AuxDivided && auxMode != AuxFundamental {
		return ErrAuxFrequencyDivider
	}
	if d.ReadPFDFrequency() == 0 {
		return ErrZeroPFDFrequency
	}

	if !precision && d.stepFreq > 1 {
		if (d.refFreq/uint32(d.ReadR()))%d.stepFreq != 0 {
			return ErrPFDAndStepRemainder
		}
	}

	target, ok := new(big.Rat).SetString(freq)
	if !ok {
		// unparseable input is treated as out of range
		return ErrRFFrequencyRange
	}
	if target.Cmp(rfMinRat) < 0 || target.Cmp(rfMaxRat) > 0 {
		return ErrRFFrequencyRange
	}

	// Discard decimal places below 1 Hz so the FRAC/MOD intermediate
	// products stay within the precision budget.
	ft := new(big.Rat).SetInt(ratFloor(target))

	if !precision && d.stepFreq > 1 {
		if !new(big.Rat).Quo(ft, big.NewRat(int64(d.stepFreq), 1)).IsInt() {
			return ErrRFAndStepRemainder
		}
	}

	pfd := d.pfdRat()
	pfdHz := ratFloor(pfd).Uint64()

	// The output divider doubles while it does not exceed the ratio of the
	// 3 GHz VCO floor to the target, so a target dividing the floor exactly
	// takes one more doubling. The range floor itself gets the full
	// divide-by-128.
	ftHz := ratFloor(ft).Uint64()
	outdiv := uint32(1)
	divSel := uint32(0)
	for outdiv <= 64 && uint64(outdiv)*ftHz <= vcoFloorHz {
		outdiv *= 2
		divSel++
	}
	outdivRat := big.NewRat(int64(outdiv), 1)

	// Exact feedback ratio (freq / PFD) * divider and its integer part.
	nRat := new(big.Rat).Quo(ft, pfd)
	nRat.Mul(nRat, outdivRat)
	n := uint32(ratFloor(nRat).Uint64())

	mod := uint32(2)
	frac := uint32(0)

	if precision {
		start := time.Now()

		// Residual of using n as pure integer-N.
		rem := new(big.Rat).Mul(pfd, big.NewRat(int64(n), 1))
		rem.Quo(rem, outdivRat)
		rem.Sub(rem, ft)
		rem.Abs(rem)

		guarded := new(big.Rat).Add(nRat, fracOverflowGuard)
		if uint32(ratFloor(guarded).Uint64()) != n {
			// remainder is in the unreliable top of the FRAC range
			n++
		} else if baseline := ratFloor(rem).Int64(); baseline > int64(maxErrorHz) {
			best := baseline
			for m := ModMin; m <= ModMax; m++ {
				if timeout > 0 && time.Since(start) > timeout {
					return ErrCalculationTimeout
				}
				step := new(big.Rat).Quo(pfd, big.NewRat(int64(m), 1))
				step.Quo(step, outdivRat)
				cr := new(big.Rat).Quo(rem, step)
				cr.Add(cr, half)
				cand := uint32(ratFloor(cr).Uint64())
				if cand > m {
					continue
				}
				if cand == m { // FRAC must be < MOD
					cand--
				}
				e := new(big.Rat).Mul(big.NewRat(int64(cand), 1), step)
				e.Sub(rem, e)
				e.Abs(e)
				eHz := ratFloor(e).Int64()
				if eHz < best {
					best = eHz
					mod = m
					frac = cand
				}
				if eHz <= int64(maxErrorHz) {
					// good enough; lower MOD values settle faster, so
					// the scan does not continue hunting for a global
					// optimum
					break
				}
			}
		}
	} else {
		// Step-quantised calculation: MOD follows from the step size at
		// the PFD, FRAC reproduces the fractional remainder of N.
		modRat := new(big.Rat).Mul(pfd, outdivRat)
		modRat.Quo(modRat, big.NewRat(int64(d.stepFreq), 1))
		fracRat := new(big.Rat).Sub(nRat, big.NewRat(int64(n), 1))
		fracRat.Mul(fracRat, modRat)
		fracRat.Add(fracRat, half)
		fracRat.Quo(fracRat, outdivRat)
		modRat.Quo(modRat, outdivRat)

		m0 := uint32(ratFloor(modRat).Uint64())
		f0 := uint32(ratFloor(fracRat).Uint64())
		g := gcd(m0, f0)
		m0 /= g
		f0 /= g
		for m0 > ModMax {
			m0 /= 2
			f0 /= 2
			if m0 <= ModMax && f0 == m0 { // FRAC must be < MOD
				f0--
			}
		}
		mod = m0
		frac = f0
	}

	if frac == 0 {
		mod = 2 // canonical integer-N representation
	}
	if mod < ModMin || mod > ModMax {
		return ErrModRange
	}
	if frac > mod-1 {
		return ErrFracRange
	}
	if frac == 0 && (n < IntNMin || n > IntNMax) {
		return ErrNRange
	}
	if frac != 0 && (n < FracNMin || n > FracNMax) {
		return ErrNRangeFrac
	}
	if frac != 0 && pfdHz > uint64(PFDMaxFrac) {
		return ErrPFDExceededFractional
	}

	// Frequency actually produced by the committed values, rounded to the
	// nearest Hz against the requested one.
	actual := new(big.Rat).Mul(pfd, big.NewRat(int64(n), 1))
	fracPart := new(big.Rat).Quo(pfd, big.NewRat(int64(mod), 1))
	fracPart.Mul(fracPart, big.NewRat(int64(frac), 1))
	actual.Add(actual, fracPart)
	actual.Quo(actual, outdivRat)
	diff := actual.Sub(actual, ft)
	diff.Add(diff, half)
	freqErr := ratFloor(diff).Int64()
	d.freqErr = freqErr

	d.regs[0] = setBitField(3, 12, d.regs[0], frac)
	d.regs[0] = setBitField(15, 16, d.regs[0], n)
	d.setModeFlags(frac != 0)
	d.regs[1] = setBitField(3, 12, d.regs[1], mod)
	if pfdHz > uint64(lockDetectSpeedHz) {
		d.regs[2] = setBitField(31, 1, d.regs[2], 1) // fast lock detect window
	} else {
		d.regs[2] = setBitField(31, 1, d.regs[2], 0)
	}
	d.setPowerFields(power, 5, 3)
	if auxPower == 0 {
		d.regs[4] = setBitField(8, 1, d.regs[4], 0)
	} else {
		d.regs[4] = setBitField(6, 2, d.regs[4], uint32(auxPower-1))
		d.regs[4] = setBitField(8, 1, d.regs[4], 1)
		d.regs[4] = setBitField(9, 1, d.regs[4], uint32(auxMode))
	}
	d.regs[4] = setBitField(20, 3, d.regs[4], divSel)

	if err := d.writeRegisters(); err != nil {
		return err
	}

	abs := freqErr
	if abs < 0 {
		abs = -abs
	}
	if (precision && abs > int64(maxErrorHz)) || (!precision && freqErr != 0) {
		return FrequencyWarning{ErrorHz: freqErr}
	}
	return nil
}
