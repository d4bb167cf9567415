package max2870

import (
	"fmt"
	"math/big"
)

// ReadCurrentFrequency reconstructs the programmed output frequency from
// the shadow registers and renders it as a decimal string in Hz with six
// decimal places. The computation is the exact inverse of the planner:
// PFD * (N + FRAC/MOD) / outputDivider, with a half-unit rounding bias
// added in the last decimal place before the render truncates.
func (d *Device) ReadCurrentFrequency() string {
	r := d.ReadR()
	if r == 0 {
		return fmt.Sprintf("0.%0*d", freqDecimalPlaces, 0)
	}

	ref := big.NewRat(int64(d.refFreq), 1)
	rdiv2 := d.ReadRDiv2()
	doubler := d.ReadRefDoubler()
	if rdiv2 != 0 && doubler == 0 {
		ref.Mul(ref, big.NewRat(1, 2))
	} else if rdiv2 == 0 && doubler != 0 {
		ref.Mul(ref, big.NewRat(2, 1))
	}
	ref.Quo(ref, big.NewRat(int64(r), 1))

	f := new(big.Rat).Mul(ref, big.NewRat(int64(d.ReadInt()), 1))
	fracPart := new(big.Rat).Mul(ref, big.NewRat(int64(d.ReadFraction()), 1))
	fracPart.Quo(fracPart, big.NewRat(int64(d.ReadMod()), 1))
	f.Add(f, fracPart)
	f.Quo(f, big.NewRat(int64(d.ReadOutDivider()), 1))

	// half unit in the last rendered decimal place
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(freqDecimalPlaces), nil)
	f.Add(f, new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(scale, 1)))

	// truncate to the rendered precision
	scaled := new(big.Rat).Mul(f, new(big.Rat).SetInt(scale))
	v := ratFloor(scaled)
	ip, fp := new(big.Int).QuoRem(v, scale, new(big.Int))
	return fmt.Sprintf("%d.%0*d", ip, freqDecimalPlaces, fp)
}
