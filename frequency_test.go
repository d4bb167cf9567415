package max2870

import "testing"

func TestReadCurrentFrequencyDefaults(t *testing.T) {
	d, _ := newTestDevice()
	// power-on register contents: N=250, FRAC=0, MOD=4095, divider 1 at a
	// 10 MHz PFD
	if got := d.ReadCurrentFrequency(); got != "2500000000.000000" {
		t.Errorf("ReadCurrentFrequency() = %q, want 2500000000.000000", got)
	}
}

func TestReadCurrentFrequencyZeroR(t *testing.T) {
	d, _ := newTestDevice()
	d.regs[2] = setBitField(14, 10, d.regs[2], 0)
	if got := d.ReadCurrentFrequency(); got != "0.000000" {
		t.Errorf("ReadCurrentFrequency() = %q, want 0.000000", got)
	}
}

func TestReadCurrentFrequencyConditionedReference(t *testing.T) {
	tests := []struct {
		name string
		freq uint32
		r    uint16
		mode RefMode
		want string
	}{
		{"half", 20000000, 2, RefHalf, "1250000000.000000"},
		{"double", 25000000, 5, RefDouble, "2500000000.000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice()
			if err := d.SetReference(tt.freq, tt.r, tt.mode); err != nil {
				t.Fatalf("SetReference: %v", err)
			}
			if got := d.ReadCurrentFrequency(); got != tt.want {
				t.Errorf("ReadCurrentFrequency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadCurrentFrequencyFractionalDigits(t *testing.T) {
	d, _ := newTestDevice()
	// 10 MHz * (400 + 1/3) does not terminate; the render truncates after
	// six places
	if err := d.SetFrequencyDirect(1, 400, 3, 1, 1, true); err != nil {
		t.Fatalf("SetFrequencyDirect: %v", err)
	}
	if got := d.ReadCurrentFrequency(); got != "4003333333.333333" {
		t.Errorf("ReadCurrentFrequency() = %q, want 4003333333.333333", got)
	}
}
