package sim

import (
	"fmt"
	"log"
	"math"
)

// Freq is a clock frequency in Hz.
type Freq float64

// Frequency units.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two rising edges.
func (f Freq) Period() VTimeInSec {
	if f <= 0 {
		log.Panicf("invalid frequency %g", float64(f))
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of periods since time 0.
func (f Freq) Cycle(t VTimeInSec) uint64 {
	return uint64(math.Round(float64(t) * float64(f)))
}

// periods counts the periods until t, rounded to a tenth of a period so that
// floating point noise does not move an edge into the next cycle.
func (f Freq) periods(t VTimeInSec) float64 {
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}

	return math.Round(float64(t)*10*float64(f)) / 10
}

// RisingAt returns the first rising edge at or after t.
func (f Freq) RisingAt(t VTimeInSec) VTimeInSec {
	return VTimeInSec(math.Ceil(f.periods(t)) / float64(f))
}

// RisingAfter returns the first rising edge strictly after t.
func (f Freq) RisingAfter(t VTimeInSec) VTimeInSec {
	return VTimeInSec((math.Floor(f.periods(t)) + 1) / float64(f))
}

// FallingOf returns the falling edge of the cycle that rises at RisingAt(t).
func (f Freq) FallingOf(t VTimeInSec) VTimeInSec {
	return f.RisingAt(t) + f.Period()/2
}

func (f Freq) String() string {
	switch {
	case f >= GHz:
		return fmt.Sprintf("%g GHz", float64(f/GHz))
	case f >= MHz:
		return fmt.Sprintf("%g MHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%g KHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%g Hz", float64(f))
	}
}
