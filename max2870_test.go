package max2870

import (
	"errors"
	"testing"
)

// recordBus captures register words instead of clocking them out.
type recordBus struct {
	words []uint32
}

func (b *recordBus) WriteWord(w uint32) error {
	b.words = append(b.words, w)
	return nil
}

type failBus struct{}

func (failBus) WriteWord(uint32) error { return errors.New("bus gone") }

func newTestDevice() (*Device, *recordBus) {
	b := &recordBus{}
	d := New(b)
	d.WriteGap = 0
	return d, b
}

func TestWriteOrder(t *testing.T) {
	d, b := newTestDevice()
	if err := d.SetPowerLevel(2); err != nil {
		t.Fatalf("SetPowerLevel: %v", err)
	}
	if len(b.words) != NumRegisters {
		t.Fatalf("wrote %d words, want %d", len(b.words), NumRegisters)
	}
	// the register address rides in bits 0-2 of each word; the latch
	// sequence is strictly descending
	for i, w := range b.words {
		if got, want := w&0x7, uint32(NumRegisters-1-i); got != want {
			t.Errorf("write %d went to register %d, want %d", i, got, want)
		}
	}
}

func TestBusErrorPropagates(t *testing.T) {
	d := New(failBus{})
	d.WriteGap = 0
	if err := d.SetPowerLevel(1); err == nil {
		t.Error("expected bus error")
	}
}

func TestPowerLevelMemory(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.SetPowerLevel(3); err != nil {
		t.Fatalf("SetPowerLevel(3): %v", err)
	}
	if got := bitField(3, 2, d.regs[4]); got != 2 {
		t.Fatalf("level field = %d, want 2", got)
	}
	if got := bitField(5, 1, d.regs[4]); got != 1 {
		t.Fatalf("enable bit = %d, want 1", got)
	}

	// disabling clears only the enable bit; the level field keeps its
	// last nonzero value
	if err := d.SetPowerLevel(0); err != nil {
		t.Fatalf("SetPowerLevel(0): %v", err)
	}
	if got := bitField(5, 1, d.regs[4]); got != 0 {
		t.Errorf("enable bit = %d after disable, want 0", got)
	}
	if got := bitField(3, 2, d.regs[4]); got != 2 {
		t.Errorf("level field = %d after disable, want 2", got)
	}

	if err := d.SetPowerLevel(5); !errors.Is(err, ErrPowerLevel) {
		t.Errorf("SetPowerLevel(5) = %v, want ErrPowerLevel", err)
	}
	if err := d.SetAuxPowerLevel(5); !errors.Is(err, ErrAuxPowerLevel) {
		t.Errorf("SetAuxPowerLevel(5) = %v, want ErrAuxPowerLevel", err)
	}
}

func TestChargePumpCurrent(t *testing.T) {
	tests := []struct {
		mA    float64
		field uint32
	}{
		{0.32, 0},
		{2.56, 7},
		{5.12, 15},
		{0.01, 0},  // clamped low
		{10.0, 15}, // clamped high
	}
	for _, tt := range tests {
		d, _ := newTestDevice()
		if err := d.SetChargePumpCurrent(tt.mA); err != nil {
			t.Fatalf("SetChargePumpCurrent(%v): %v", tt.mA, err)
		}
		if got := bitField(9, 4, d.regs[2]); got != tt.field {
			t.Errorf("SetChargePumpCurrent(%v) field = %d, want %d", tt.mA, got, tt.field)
		}
	}
}

func TestPhaseDetectorPolarity(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.SetPhaseDetectorPolarity(LoopNonInverting); err != nil {
		t.Fatalf("SetPhaseDetectorPolarity: %v", err)
	}
	if got := bitField(6, 1, d.regs[2]); got != 1 {
		t.Errorf("polarity bit = %d, want 1", got)
	}
	if err := d.SetPhaseDetectorPolarity(Polarity(3)); !errors.Is(err, ErrPolarityInvalid) {
		t.Errorf("invalid polarity = %v, want ErrPolarityInvalid", err)
	}
}

func TestStepFrequencyValidation(t *testing.T) {
	d, _ := newTestDevice() // PFD is 10 MHz at power on

	if err := d.SetStepFrequency(20000000); !errors.Is(err, ErrStepExceedsPFD) {
		t.Errorf("step above PFD = %v, want ErrStepExceedsPFD", err)
	}
	if err := d.SetStepFrequency(300000); !errors.Is(err, ErrPFDAndStepRemainder) {
		t.Errorf("non-dividing step = %v, want ErrPFDAndStepRemainder", err)
	}
	if err := d.SetStepFrequency(0); !errors.Is(err, ErrPFDAndStepRemainder) {
		t.Errorf("zero step = %v, want ErrPFDAndStepRemainder", err)
	}
	if err := d.SetStepFrequency(500000); err != nil {
		t.Errorf("valid step = %v, want nil", err)
	}
	if d.stepFreq != 500000 {
		t.Errorf("stepFreq = %d, want 500000", d.stepFreq)
	}
}

func TestSweepValues(t *testing.T) {
	d, b := newTestDevice()
	snap := d.ReadSweepValues()
	if snap != powerOnDefaults {
		t.Fatalf("snapshot = %#v, want power-on defaults", snap)
	}
	snap[0] = 0x12345678
	if err := d.WriteSweepValues(snap); err != nil {
		t.Fatalf("WriteSweepValues: %v", err)
	}
	if d.regs != snap {
		t.Errorf("registers not replaced by snapshot")
	}
	if len(b.words) != NumRegisters {
		t.Errorf("wrote %d words, want %d", len(b.words), NumRegisters)
	}
}

func TestSetFrequencyDirect(t *testing.T) {
	d, _ := newTestDevice()
	if err := d.SetFrequencyDirect(1, 400, 4, 3, 2, true); err != nil {
		t.Fatalf("SetFrequencyDirect: %v", err)
	}
	if got := d.ReadInt(); got != 400 {
		t.Errorf("N = %d, want 400", got)
	}
	if got := d.ReadMod(); got != 4 {
		t.Errorf("MOD = %d, want 4", got)
	}
	if got := d.ReadFraction(); got != 3 {
		t.Errorf("FRAC = %d, want 3", got)
	}
	if got := d.ReadOutDivider(); got != 2 {
		t.Errorf("out divider = %d, want 2", got)
	}
	if got := bitField(31, 1, d.regs[0]); got != 0 {
		t.Errorf("int-N mode bit = %d, want 0 in fractional mode", got)
	}
	if got := bitField(24, 1, d.regs[5]); got != 0 {
		t.Errorf("register 5 mode bit = %d, want 0 in fractional mode", got)
	}
}
