package max2870

// RefMode selects how the reference frequency is conditioned before the R
// divider.
type RefMode uint8

// AuxMode selects the source of the auxiliary RF output.
type AuxMode uint8

// Polarity selects the phase detector polarity for the loop filter type.
type Polarity uint8

const (
	RefUndivided RefMode = 0
	RefHalf      RefMode = 1
	RefDouble    RefMode = 2
)

const (
	AuxDivided     AuxMode = 0
	AuxFundamental AuxMode = 1
)

const (
	LoopInverting    Polarity = 0
	LoopNonInverting Polarity = 1
)

// Phase detector frequency limits as per the datasheet.
const (
	PFDMax     uint32 = 105000000 // integer-N mode
	PFDMaxFrac uint32 = 50000000  // fractional-N mode
	PFDMin     uint32 = 125000
)

// Reference input limits.
const (
	RefInMin   uint32 = 10000000
	RefInMax   uint32 = 200000000
	RefDefault uint32 = 10000000

	// The reference doubler must not be used above this input frequency.
	DoublerInMax uint32 = 30000000
)

// RF output range.
const (
	RFOutMin uint64 = 23437500
	RFOutMax uint64 = 6000000000
)

// Divider value limits.
const (
	RMax uint16 = 1023

	ModMin uint32 = 2
	ModMax uint32 = 4095

	IntNMin uint32 = 16
	IntNMax uint32 = 65535

	FracNMin uint32 = 19
	FracNMax uint32 = 4091
)

// The VCO core runs between 3 and 6 GHz; the output divider is doubled until
// the core frequency clears this floor.
const vcoFloorHz uint64 = 3000000000

// PFD frequency above which the fast lock detect window must be selected.
const lockDetectSpeedHz uint32 = 32000000

// NumRegisters is the number of 32-bit device registers.
const NumRegisters = 6

// ReadCurrentFrequency renders exactly this many decimal places, truncating
// rather than rounding at the last place.
const freqDecimalPlaces = 6

// StepDefault is the power-on channel step frequency in Hz.
const StepDefault uint32 = 100000

// powerOnDefaults mirror the register state the chip assumes at power up.
// Index order matches the register addresses held in bits 0-2 of each word.
var powerOnDefaults = [NumRegisters]uint32{
	0x007D0000, 0x2000FFF9, 0x18006E42, 0x0000000B, 0x6180B23C, 0x00400005,
}
