package max2870

import "testing"

func TestBitField(t *testing.T) {
	tests := []struct {
		start, width uint
		w            uint32
		want         uint32
	}{
		{0, 3, 0xFFFFFFFD, 5},
		{3, 12, 0x2000FFF9, 0xFFF},
		{14, 10, 0x18006E42, 1},
		{31, 1, 0x80000000, 1},
		{31, 1, 0x7FFFFFFF, 0},
	}
	for _, tt := range tests {
		if got := bitField(tt.start, tt.width, tt.w); got != tt.want {
			t.Errorf("bitField(%d, %d, %#x) = %#x, want %#x", tt.start, tt.width, tt.w, got, tt.want)
		}
	}
}

func TestSetBitField(t *testing.T) {
	tests := []struct {
		start, width uint
		w, v         uint32
		want         uint32
	}{
		{0, 3, 0xFFFFFFFF, 0, 0xFFFFFFF8},
		{3, 12, 0, 0xFFF, 0x7FF8},
		{14, 10, 0xFFFFFFFF, 0, 0xFF003FFF},
		{31, 1, 0, 1, 0x80000000},
	}
	for _, tt := range tests {
		if got := setBitField(tt.start, tt.width, tt.w, tt.v); got != tt.want {
			t.Errorf("setBitField(%d, %d, %#x, %#x) = %#x, want %#x",
				tt.start, tt.width, tt.w, tt.v, got, tt.want)
		}
	}

	// the value is masked to the field width
	if got := setBitField(3, 2, 0, 0xFF); got != 0x18 {
		t.Errorf("oversized value leaked outside the field: %#x", got)
	}
}
