package frac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"0", "2", "-3", "1/2", "3/4", "-1/2", "2/4", "12/16", "7/8"}

	assert := assert.New(t)
	for _, c := range cases {
		f, err := Parse(c)
		assert.NoError(err, c)
		assert.Equal(c, f.String(), "round trip for %q", c)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []string{"", "1/0", "a", "1/2/3", "1/", "/2", "1.5", " 1/2", "1/-2"}

	assert := assert.New(t)
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(err, "expected parse failure for %q", c)
	}
}

func TestUnreducedFormIsKept(t *testing.T) {
	f, err := Parse("2/4")
	assert.NoError(t, err)
	assert.Equal(t, "2/4", f.String())
	assert.Equal(t, Frac{Num: 1, Den: 2}, f.Reduce())
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	half, _ := Parse("1/2")
	quarter, _ := Parse("1/4")

	assert.Equal("3/4", half.Add(quarter).String())
	assert.Equal("1/4", half.Sub(quarter).String())
	assert.Equal("1/8", half.Mul(quarter).String())
	assert.Equal(0, half.Cmp(New(2, 4)))
	assert.Equal(1, half.Cmp(quarter))
	assert.Equal(-1, quarter.Cmp(half))
}

func TestComputedString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("3", New(3, 1).String())
	assert.Equal("3/4", New(3, 4).String())
	assert.Equal("-1/2", New(1, -2).String())
}

func TestScaleInt(t *testing.T) {
	threeQuarters, _ := Parse("3/4")
	assert.Equal(t, int64(1440), threeQuarters.ScaleInt(1920))
	assert.Equal(t, int64(0), Zero().ScaleInt(480))
}
