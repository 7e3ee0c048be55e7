package cpf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "dotted and hyphenated", raw: "931.067.890-93", want: "93106789093"},
		{name: "whitespace", raw: " 931 067 890 93 ", want: "93106789093"},
		{name: "already normalized", raw: "93106789093", want: "93106789093"},
		{name: "empty", raw: "", want: ""},
		{name: "other characters kept", raw: "931a067b890c93", want: "931a067b890c93"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "valid plain", raw: "26121932007", want: true},
		{name: "valid formatted", raw: "931.067.890-93", want: true},
		{name: "wrong first check digit", raw: "26121932017", want: false},
		{name: "wrong second check digit", raw: "26121932006", want: false},
		{name: "too short", raw: "2612193200", want: false},
		{name: "too long", raw: "261219320070", want: false},
		{name: "empty", raw: "", want: false},
		{name: "letters", raw: "abcdefghijk", want: false},
		{name: "formatted garbage", raw: "931.067.890-9x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.raw))
		})
	}
}

func TestIsValidRejectsRepeatedDigits(t *testing.T) {
	for d := 0; d <= 9; d++ {
		raw := strings.Repeat(fmt.Sprintf("%d", d), 11)
		assert.False(t, IsValid(raw), "expected %s to be invalid", raw)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	// Formatting that only adds mask characters must normalize back to the
	// original identifier.
	id := "26121932007"
	formatted := []string{
		id[:3] + "." + id[3:6] + "." + id[6:9] + "-" + id[9:],
		id[:3] + " " + id[3:6] + " " + id[6:9] + " " + id[9:],
		"  " + id + "  ",
	}
	for _, f := range formatted {
		assert.Equal(t, id, Normalize(f))
	}
}
