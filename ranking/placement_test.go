package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompetitionPlaces(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{name: "empty", scores: []float64{}, want: []int{}},
		{name: "single", scores: []float64{42}, want: []int{1}},
		{name: "strictly decreasing", scores: []float64{50, 40, 30}, want: []int{1, 2, 3}},
		{name: "triple tie skips places", scores: []float64{100, 100, 100, 80}, want: []int{1, 1, 1, 4}},
		{name: "tie in the middle", scores: []float64{100, 90, 90, 80}, want: []int{1, 2, 2, 4}},
		{name: "two separate ties", scores: []float64{50, 50, 40, 40, 30}, want: []int{1, 1, 3, 3, 5}},
		{name: "all equal", scores: []float64{10, 10, 10}, want: []int{1, 1, 1}},
		{name: "fractional scores", scores: []float64{37.5, 37.5, 30}, want: []int{1, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CompetitionPlaces(tt.scores))
		})
	}
}

func TestCompetitionPlacesDoesNotMutateInput(t *testing.T) {
	scores := []float64{80, 100, 90}
	CompetitionPlaces(scores)
	require.Equal(t, []float64{80, 100, 90}, scores)
}

func TestDensePlaces(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{name: "empty", scores: []float64{}, want: []int{}},
		{name: "strictly decreasing", scores: []float64{50, 40, 30}, want: []int{1, 2, 3}},
		{name: "triple tie without skips", scores: []float64{100, 100, 100, 80}, want: []int{1, 1, 1, 2}},
		{name: "tie in the middle", scores: []float64{100, 90, 90, 80}, want: []int{1, 2, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DensePlaces(tt.scores))
		})
	}
}
