package max2870

// The six shadow registers are a flat copy of the device register file.
// Every setter works read-modify-write on these words so that bits outside
// the named fields survive a reprogram, and the planner only commits to them
// after a plan has fully validated.

// ReadR returns the reference divider R from the shadow registers.
func (d *Device) ReadR() uint16 {
	return uint16(bitField(14, 10, d.regs[2]))
}

// ReadInt returns the feedback integer division value N.
func (d *Device) ReadInt() uint16 {
	return uint16(bitField(15, 16, d.regs[0]))
}

// ReadFraction returns the fractional division numerator FRAC.
func (d *Device) ReadFraction() uint16 {
	return uint16(bitField(3, 12, d.regs[0]))
}

// ReadMod returns the fractional division denominator MOD.
func (d *Device) ReadMod() uint16 {
	return uint16(bitField(3, 12, d.regs[1]))
}

// ReadOutDivider returns the RF output divider ratio (1-128).
func (d *Device) ReadOutDivider() uint8 {
	return 1 << bitField(20, 3, d.regs[4])
}

// ReadOutDividerPowerOf2 returns the RF output divider select field (log2 of
// the ratio).
func (d *Device) ReadOutDividerPowerOf2() uint8 {
	return uint8(bitField(20, 3, d.regs[4]))
}

// ReadRDiv2 returns 1 if the reference divide-by-2 path is selected.
func (d *Device) ReadRDiv2() uint8 {
	return uint8(bitField(24, 1, d.regs[2]))
}

// ReadRefDoubler returns 1 if the reference doubler is selected.
func (d *Device) ReadRefDoubler() uint8 {
	return uint8(bitField(25, 1, d.regs[2]))
}

// ReadFrequencyError returns the signed deviation in Hz recorded by the last
// frequency program, 0 if it was exact.
func (d *Device) ReadFrequencyError() int64 {
	return d.freqErr
}

// ReadSweepValues copies the current shadow registers, for capturing a
// register snapshot to replay in an externally scheduled sweep.
func (d *Device) ReadSweepValues() [NumRegisters]uint32 {
	return d.regs
}

// WriteSweepValues replaces the shadow registers with a previously captured
// snapshot and pushes all six words to the device.
func (d *Device) WriteSweepValues(regs [NumRegisters]uint32) error {
	d.regs = regs
	return d.writeRegisters()
}
