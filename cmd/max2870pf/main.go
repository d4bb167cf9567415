// Command max2870pf searches the full R divider range for the MAX2870
// divider set that best matches an RF frequency. Integer-N solutions are
// tried first; failing an exact one, a fractional-N scan keeps the best
// FRAC/MOD pair found across all usable R values.
//
// Usage: max2870pf -ref <reference-Hz> -rf <rf-Hz>
//
// The reference frequency given here already includes any doubler or
// divide-by-2 conditioning, but not the R divider.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
)

// Datasheet limits.
const (
	maxR   = 1023
	maxMod = 4095

	minIntN  = 16
	maxIntN  = 65535
	minFracN = 19
	maxFracN = 4091

	maxPFD     = 105e6 // integer-N mode
	maxPFDFrac = 50e6  // fractional-N mode
	minPFD     = 125e3

	minRF  = 23475e3
	maxRF  = 6e9
	minRef = 10e6
	maxRef = 200e6
)

type plan struct {
	R          uint16
	N          uint32
	Mod        uint32
	Frac       uint32
	Divider    uint32
	DividerPow uint8
	Fractional bool
	ErrorHz    float64 // signed, in RF terms
}

// search finds divider values for the desired RF frequency. ref is the
// conditioned reference frequency; both are in Hz.
func search(ref, rf float64) (plan, error) {
	if ref < minRef || ref > maxRef {
		return plan{}, errors.New("reference frequency is out of range")
	}
	if rf < minRF || rf > maxRF {
		return plan{}, errors.New("RF frequency is out of range")
	}

	// Convert the RF frequency to a VCO frequency and fix the output
	// divider.
	p := plan{Divider: 1}
	vco := rf
	for vco < maxRF/2 {
		p.DividerPow++
		p.Divider *= 2
		vco *= 2
	}

	// An exact integer-N solution needs no FRAC/MOD at all.
	for r := 1; r <= maxR; r++ {
		pfd := ref / float64(r)
		if pfd < minPFD || pfd > maxPFD {
			break // PFD only falls as R grows
		}
		n := vco / pfd
		if n < minIntN || n > maxIntN {
			break
		}
		if n == math.Floor(n) {
			p.R = uint16(r)
			p.N = uint32(n)
			p.Mod = 2
			return p, nil
		}
	}

	// Fractional-N: for every usable R, scan MOD for the FRAC that lands
	// closest to the remainder, keeping the best pair seen overall.
	p.Fractional = true
	found := false
	best := math.Inf(1)
	for r := 1; r <= maxR; r++ {
		pfd := ref / float64(r)
		if pfd < minPFD || pfd > maxPFDFrac {
			break
		}
		n := math.Floor(vco / pfd)
		if n > maxFracN {
			break
		}
		if n < minFracN {
			continue
		}
		found = true
		remainder := vco - n*pfd
		for m := 2; m <= maxMod; m++ {
			step := pfd / float64(m)
			frac := math.Round(remainder / step)
			if frac >= float64(m) {
				frac = float64(m - 1)
			}
			e := remainder - step*frac
			if math.Abs(e) < math.Abs(best) {
				best = e
				p.R = uint16(r)
				p.N = uint32(n)
				p.Mod = uint32(m)
				p.Frac = uint32(frac)
			}
			if best == 0 {
				break
			}
		}
		if best == 0 {
			break
		}
	}
	if !found {
		return plan{}, errors.New("no divider set within datasheet limits for these frequencies")
	}
	p.ErrorHz = best / float64(p.Divider)
	return p, nil
}

func main() {
	ref := flag.Float64("ref", 0, "reference frequency in Hz, including doubler/divide-by-2")
	rf := flag.Float64("rf", 0, "RF frequency in Hz")
	flag.Parse()
	if *ref == 0 || *rf == 0 {
		flag.Usage()
		os.Exit(2)
	}

	p, err := search(*ref, *rf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if p.Fractional {
		fmt.Println("Fractional mode")
		fmt.Printf("Frequency error (Hz): %g\n", p.ErrorHz)
		fmt.Printf("Actual frequency (Hz): %f\n", *rf+p.ErrorHz)
	} else {
		fmt.Println("Integer mode - exact frequency")
	}
	fmt.Printf("R: %d\n", p.R)
	fmt.Printf("Int: %d\n", p.N)
	fmt.Printf("Mod: %d\n", p.Mod)
	fmt.Printf("Frac: %d\n", p.Frac)
	fmt.Printf("RF divider ratio: %d\n", p.Divider)
	fmt.Printf("RF divider (power of 2): %d\n", p.DividerPow)
}
