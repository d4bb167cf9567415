package max2870

// bitField extracts a width-bit field starting at bit start (0 = LSB) from a
// 32-bit register word.
func bitField(start, width uint, w uint32) uint32 {
	return (w >> start) & (1<<width - 1)
}

// setBitField returns w with the width-bit field at start replaced by v,
// leaving every other bit untouched.
func setBitField(start, width uint, w, v uint32) uint32 {
	mask := uint32(1<<width-1) << start
	return (w &^ mask) | (v << start & mask)
}
