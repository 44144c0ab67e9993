// 14 March 2024

// Package ramp turns per-column numbers like entropy into colours for a
// structure viewer. Colours are packed 24 bit integers, 0xRRGGBB.
// Every array here is indexed from zero by alignment column. Anything
// that addresses residues in a structure file has to add one.
package ramp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Colours is one packed colour per column
type Colours []uint32

// Colours used by the importance view. Everything is green except the
// flagged columns.
const (
	Background uint32 = 0x00FF00
	Flagged    uint32 = 0xFF0000
)

// Defaults for the entropy ramp, white for conserved through to red.
const (
	DefaultLow  uint32 = 0xFFFFFF
	DefaultHigh uint32 = 0xFF0000
)

// Pack puts three channels into one integer
func Pack(r, g, b uint8) uint32 { return uint32(r)<<16 | uint32(g)<<8 | uint32(b) }

// Unpack is the opposite of Pack. Bits above 24 are ignored.
func Unpack(c uint32) (r, g, b uint8) { return uint8(c >> 16), uint8(c >> 8), uint8(c) }

// ParseRGB reads colours written as "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseRGB(s string) (uint32, error) {
	t := strings.TrimPrefix(s, "#")
	if t == s {
		t = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	if len(t) != 6 {
		return 0, fmt.Errorf("colour %q should have six hex digits", s)
	}
	c, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	return uint32(c), nil
}

// Norm says what an entropy value is divided by before it becomes a
// colour. There is no default. Callers have to pick one.
type Norm byte

const (
	// NormGlobal divides everything by the same maximum, usually the
	// entropy of the full alphabet. Higher entropy never gives a lower
	// colour.
	NormGlobal Norm = iota + 1
	// NormObserved divides each column by the biggest entropy it could
	// have with the symbols and gaps seen in it.
	NormObserved
)

var normNames = map[string]Norm{"global": NormGlobal, "observed": NormObserved}

func (n Norm) String() string {
	for k, v := range normNames {
		if v == n {
			return k
		}
	}
	return fmt.Sprintf("Norm(%d)", n)
}

// ParseNorm takes "global" or "observed"
func ParseNorm(s string) (Norm, error) {
	if n, ok := normNames[s]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown normalisation \"%s\", want global or observed", s)
}

// Scale carries the normalisation and whatever it needs.
type Scale struct {
	Norm Norm
	Max  float64   // NormGlobal: the value that maps to the high colour
	Ceil []float64 // NormObserved: biggest possible entropy of each column
}

// Global is a scale with a fixed maximum, usually the biggest entropy
// the alphabet allows.
func Global(max float64) Scale { return Scale{Norm: NormGlobal, Max: max} }

// Observed is a scale with its own maximum for each column.
func Observed(ceil []float64) Scale { return Scale{Norm: NormObserved, Ceil: ceil} }

// clamp keeps f in [0, 1] and turns NaN into 0.
func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Fractions converts values to positions along the ramp, from 0 to 1.
// A column with nothing to divide by gets 0. A Scale without a Norm is
// a programming error and panics.
func Fractions(profile []float64, scale Scale) []float64 {
	if scale.Norm != NormGlobal && scale.Norm != NormObserved {
		panic(fmt.Sprintf("ramp: scale has no normalisation (%v), use Global or Observed", scale.Norm))
	}
	fr := make([]float64, len(profile))
	for i, h := range profile {
		var max float64
		switch scale.Norm {
		case NormGlobal:
			max = scale.Max
		case NormObserved:
			if i < len(scale.Ceil) {
				max = scale.Ceil[i]
			}
		}
		if max > 0 {
			fr[i] = clamp(h / max)
		}
	}
	return fr
}

// Lerp interpolates each channel between low and high and rounds to
// the nearest integer.
func Lerp(low, high uint32, f float64) uint32 {
	f = clamp(f)
	r0, g0, b0 := Unpack(low)
	r1, g1, b1 := Unpack(high)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + f*(float64(b)-float64(a))))
	}
	return Pack(mix(r0, r1), mix(g0, g1), mix(b0, b1))
}

// Map gives one colour per column, going from low at zero entropy to
// high at the maximum.
func Map(profile []float64, low, high uint32, scale Scale) Colours {
	fr := Fractions(profile, scale)
	c := make(Colours, len(fr))
	for i, f := range fr {
		c[i] = Lerp(low, high, f)
	}
	return c
}

// Importance colours the flagged columns. Columns outside [0, width)
// are ignored.
func Importance(width int, flagged []int) Colours {
	c := make(Colours, width)
	for i := range c {
		c[i] = Background
	}
	for _, i := range flagged {
		if i >= 0 && i < width {
			c[i] = Flagged
		}
	}
	return c
}

// Hex writes a colour the way ParseRGB reads it
func Hex(c uint32) string { return fmt.Sprintf("#%06x", c&0xFFFFFF) }
