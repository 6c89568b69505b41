package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name    string
		target  float64
		current float64
		want    float64
	}{
		{"halfway", 1000, 500, 50},
		{"overfunded clamps to 100", 100, 150, 100},
		{"exactly complete", 200, 200, 100},
		{"zero target", 0, 500, 0},
		{"negative target", -10, 500, 0},
		{"rounded to two decimals", 300, 100, 33.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Goal{TargetAmount: tc.target, CurrentAmount: tc.current}
			g.ComputeProgress()
			assert.Equal(t, tc.want, g.Progress)
		})
	}
}
