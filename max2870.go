package max2870

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Device controls one MAX2870 wideband frequency synthesizer over a
// register bus. It keeps a shadow copy of the six device registers together
// with the last reference, channel step and frequency error state.
//
// A Device is not safe for concurrent use; one programming call is assumed
// to be in flight at a time.
type Device struct {
	bus  RegisterBus
	ce   gpio.PinIO // chip enable, optional
	lock gpio.PinIO // lock detect, optional

	// Minimum idle gap between consecutive register writes.
	WriteGap time.Duration

	regs     [NumRegisters]uint32
	refFreq  uint32
	stepFreq uint32
	freqErr  int64
}

// New creates a Device on an already opened register bus. The shadow
// registers are set to the chip power-on defaults.
func New(bus RegisterBus) *Device {
	return &Device{
		bus:      bus,
		WriteGap: time.Microsecond,
		regs:     powerOnDefaults,
		refFreq:  RefDefault,
		stepFreq: StepDefault,
	}
}

// NewSPI opens the named SPI port and creates a Device on it. The ce and
// lockDetect pin names are optional; pass "" to skip them.
func NewSPI(spiDev, ce, lockDetect string) (*Device, error) {
	bus, err := openSPIBus(spiDev)
	if err != nil {
		return nil, err
	}

	d := New(bus)

	if ce != "" {
		p := gpioreg.ByName(ce)
		if p == nil {
			bus.Close()
			return nil, errors.New("failed to find CE pin")
		}
		if err := p.Out(gpio.High); err != nil {
			bus.Close()
			return nil, err
		}
		d.ce = p
	}

	if lockDetect != "" {
		p := gpioreg.ByName(lockDetect)
		if p == nil {
			bus.Close()
			return nil, errors.New("failed to find lock detect pin")
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			bus.Close()
			return nil, err
		}
		d.lock = p
	}

	return d, nil
}

// writeRegisters pushes all six shadow registers to the device in
// descending index order, the latch sequence the datasheet requires.
func (d *Device) writeRegisters() error {
	for i := NumRegisters - 1; i >= 0; i-- {
		if err := d.bus.WriteWord(d.regs[i]); err != nil {
			return err
		}
		time.Sleep(d.WriteGap)
	}
	return nil
}

// Enable drives the chip enable pin high.
func (d *Device) Enable() error {
	if d.ce == nil {
		return errors.New("no CE pin configured")
	}
	return d.ce.Out(gpio.High)
}

// Disable drives the chip enable pin low, powering the chip down.
func (d *Device) Disable() error {
	if d.ce == nil {
		return errors.New("no CE pin configured")
	}
	return d.ce.Out(gpio.Low)
}

// Locked reports the state of the lock detect pin.
func (d *Device) Locked() (bool, error) {
	if d.lock == nil {
		return false, errors.New("no lock detect pin configured")
	}
	return d.lock.Read() == gpio.High, nil
}

// SetStepFrequency sets the channel step used by non-precision frequency
// programming. The step must not exceed the PFD frequency and must divide
// the reference frequency without remainder.
func (d *Device) SetStepFrequency(hz uint32) error {
	if float64(hz) > d.ReadPFDFrequency() {
		return ErrStepExceedsPFD
	}
	if d.ReadR() == 0 || hz == 0 || d.refFreq%hz != 0 {
		return ErrPFDAndStepRemainder
	}
	d.stepFreq = hz
	return nil
}

// setModeFlags switches the register network that follows the integer-N /
// fractional-N mode choice: charge pump linearity, charge pump output
// clamp, lock detect function and the register 5 mode bit.
func (d *Device) setModeFlags(fractional bool) {
	if fractional {
		d.regs[0] = setBitField(31, 1, d.regs[0], 0)
		d.regs[1] = setBitField(29, 2, d.regs[1], 1)
		d.regs[1] = setBitField(31, 1, d.regs[1], 0)
		d.regs[2] = setBitField(8, 1, d.regs[2], 0)
		d.regs[5] = setBitField(24, 1, d.regs[5], 0)
	} else {
		d.regs[0] = setBitField(31, 1, d.regs[0], 1)
		d.regs[1] = setBitField(29, 2, d.regs[1], 0)
		d.regs[1] = setBitField(31, 1, d.regs[1], 1)
		d.regs[2] = setBitField(8, 1, d.regs[2], 1)
		d.regs[5] = setBitField(24, 1, d.regs[5], 1)
	}
}

// SetFrequencyDirect programs raw divider values without any planning or
// range checking beyond folding the divider ratio into its select field.
func (d *Device) SetFrequencyDirect(r, n, mod, frac uint16, outDivider uint8, fractional bool) error {
	var divSel uint32
	for outDivider > 1 {
		outDivider >>= 1
		divSel++
	}
	d.regs[2] = setBitField(14, 10, d.regs[2], uint32(r))
	d.regs[0] = setBitField(15, 16, d.regs[0], uint32(n))
	d.regs[1] = setBitField(3, 12, d.regs[1], uint32(mod))
	d.regs[0] = setBitField(3, 12, d.regs[0], uint32(frac))
	d.regs[4] = setBitField(20, 3, d.regs[4], divSel)
	d.setModeFlags(fractional)
	return d.writeRegisters()
}

// setPowerFields encodes an output level (0-4) into the enable bit and
// two-bit level field. Level 0 only clears the enable bit; the level field
// keeps its previous value.
func (d *Device) setPowerFields(level uint8, enableBit, levelStart uint) {
	if level == 0 {
		d.regs[4] = setBitField(enableBit, 1, d.regs[4], 0)
	} else {
		d.regs[4] = setBitField(enableBit, 1, d.regs[4], 1)
		d.regs[4] = setBitField(levelStart, 2, d.regs[4], uint32(level-1))
	}
}

// SetPowerLevel sets the primary RF output level, 0 (off) to 4.
func (d *Device) SetPowerLevel(level uint8) error {
	if level > 4 {
		return ErrPowerLevel
	}
	d.setPowerFields(level, 5, 3)
	return d.writeRegisters()
}

// SetAuxPowerLevel sets the auxiliary RF output level, 0 (off) to 4.
func (d *Device) SetAuxPowerLevel(level uint8) error {
	if level > 4 {
		return ErrAuxPowerLevel
	}
	d.setPowerFields(level, 8, 6)
	return d.writeRegisters()
}

// SetChargePumpCurrent sets the charge pump current in mA, clamped to the
// 0.32-5.12 mA range in 0.32 mA steps.
func (d *Device) SetChargePumpCurrent(mA float64) error {
	if mA < 0.32 {
		mA = 0.32
	}
	if mA > 5.12 {
		mA = 5.12
	}
	step := uint32(mA/0.32 - 0.5) // 0 = 0.32 mA
	d.regs[2] = setBitField(9, 4, d.regs[2], step)
	return d.writeRegisters()
}

// SetPhaseDetectorPolarity sets the phase detector polarity for inverting
// or non-inverting loop filters.
func (d *Device) SetPhaseDetectorPolarity(p Polarity) error {
	if p != LoopInverting && p != LoopNonInverting {
		return ErrPolarityInvalid
	}
	d.regs[2] = setBitField(6, 1, d.regs[2], uint32(p))
	return d.writeRegisters()
}
