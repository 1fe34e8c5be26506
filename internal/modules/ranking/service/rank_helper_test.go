package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDenseRank(t *testing.T) {
	tests := []struct {
		name string
		in   []time.Duration
		want []int
	}{
		{"empty", nil, []int{}},
		{"tie first", []time.Duration{10 * time.Second, 10 * time.Second, 12 * time.Second}, []int{1, 1, 2}},
		{"distinct", []time.Duration{1, 2, 3}, []int{1, 2, 3}},
		{"tie last", []time.Duration{1, 2, 2, 2, 5}, []int{1, 2, 2, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DenseRank(tt.in))
		})
	}
}
