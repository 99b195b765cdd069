// Package frac implements the exact fractions used for onset and duration
// columns. Values keep their stored text so that re-serializing a parsed
// cell reproduces it byte for byte; arithmetic works on reduced values.
package frac

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Frac struct {
	Num int64
	Den int64
	raw string
}

var (
	ErrEmpty   = errors.New("empty fraction")
	ErrZeroDen = errors.New("zero denominator")
)

// New builds a fraction from numerator and denominator. The denominator's
// sign moves to the numerator.
func New(num, den int64) Frac {
	if den < 0 {
		num, den = -num, -den
	}
	return Frac{Num: num, Den: den}
}

// Zero is the canonical 0 value.
func Zero() Frac {
	return Frac{Num: 0, Den: 1}
}

// Parse accepts "3/4", "-1/2" and bare integers like "2". The parsed value
// remembers s, so String returns it unchanged.
func Parse(s string) (Frac, error) {
	if s == "" {
		return Frac{}, ErrEmpty
	}
	numText, denText, hasSlash := strings.Cut(s, "/")
	num, err := strconv.ParseInt(numText, 10, 64)
	if err != nil {
		return Frac{}, fmt.Errorf("bad numerator in %q", s)
	}
	den := int64(1)
	if hasSlash {
		den, err = strconv.ParseInt(denText, 10, 64)
		if err != nil {
			return Frac{}, fmt.Errorf("bad denominator in %q", s)
		}
		if den == 0 {
			return Frac{}, ErrZeroDen
		}
		if den < 0 {
			return Frac{}, fmt.Errorf("negative denominator in %q", s)
		}
	}
	return Frac{Num: num, Den: den, raw: s}, nil
}

// String returns the text the value was parsed from, or num/den form for
// computed values (bare integer when the denominator is 1).
func (f Frac) String() string {
	if f.raw != "" {
		return f.raw
	}
	if f.Den == 1 || f.Den == 0 {
		return strconv.FormatInt(f.Num, 10)
	}
	return strconv.FormatInt(f.Num, 10) + "/" + strconv.FormatInt(f.Den, 10)
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Reduce returns the value in lowest terms, dropping the remembered text.
func (f Frac) Reduce() Frac {
	den := f.Den
	if den == 0 {
		den = 1
	}
	g := gcd(f.Num, den)
	return Frac{Num: f.Num / g, Den: den / g}
}

func (f Frac) Add(g Frac) Frac {
	a, b := f.Reduce(), g.Reduce()
	return New(a.Num*b.Den+b.Num*a.Den, a.Den*b.Den).Reduce()
}

func (f Frac) Sub(g Frac) Frac {
	a, b := f.Reduce(), g.Reduce()
	return New(a.Num*b.Den-b.Num*a.Den, a.Den*b.Den).Reduce()
}

func (f Frac) Mul(g Frac) Frac {
	a, b := f.Reduce(), g.Reduce()
	return New(a.Num*b.Num, a.Den*b.Den).Reduce()
}

// Cmp compares by value: -1 if f < g, 0 if equal, 1 if f > g.
func (f Frac) Cmp(g Frac) int {
	a, b := f.Reduce(), g.Reduce()
	left := a.Num * b.Den
	right := b.Num * a.Den
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

func (f Frac) IsZero() bool {
	return f.Num == 0
}

// Float is for tick conversion only; table values stay exact.
func (f Frac) Float() float64 {
	den := f.Den
	if den == 0 {
		den = 1
	}
	return float64(f.Num) / float64(den)
}

// ScaleInt returns f*n rounded down to an integer, without going through
// floating point. Used for tick conversion.
func (f Frac) ScaleInt(n int64) int64 {
	r := f.Reduce()
	return r.Num * n / r.Den
}
