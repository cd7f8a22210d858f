package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBeltInfo(t *testing.T) {
	tests := []struct {
		name        string
		score       float64
		wantBelt    string
		wantLevel   string
		wantStripes int
	}{
		{name: "zero score", score: 0, wantBelt: "Белый", wantLevel: "Белый 0", wantStripes: 0},
		{name: "negative clamps to zero", score: -5, wantBelt: "Белый", wantLevel: "Белый 0", wantStripes: 0},
		{name: "white top stripe", score: 45, wantBelt: "Белый", wantLevel: "Белый 4", wantStripes: 4},
		{name: "boundary moves to next belt", score: 50, wantBelt: "Синий", wantLevel: "Синий 0", wantStripes: 0},
		{name: "purple mid", score: 125, wantBelt: "Пурпурный", wantLevel: "Пурпурный 2", wantStripes: 2},
		{name: "black has wider levels", score: 250, wantBelt: "Чёрный", wantLevel: "Чёрный 2", wantStripes: 2},
		{name: "red entry", score: 300, wantBelt: "Красный", wantLevel: "Красный 0", wantStripes: 0},
		{name: "red top is unbounded", score: 5000, wantBelt: "Красный", wantLevel: "Красный 4", wantStripes: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetBeltInfo(tt.score)
			require.Equal(t, tt.wantBelt, info.BeltName)
			require.Equal(t, tt.wantLevel, info.LevelName)
			require.Equal(t, tt.wantStripes, info.Stripes)
			require.Equal(t, tt.wantStripes+1, info.LevelNumber)
		})
	}
}

func TestGetBeltInfoProgress(t *testing.T) {
	// Середина уровня: 55 очков это половина уровня "Синий 0" (50-60)
	// и десятая часть синего пояса (50-100).
	info := GetBeltInfo(55)
	require.InDelta(t, 50.0, info.Progress, 0.001)
	require.InDelta(t, 10.0, info.BeltProgress, 0.001)
	require.NotNil(t, info.NextLevel)
	require.Equal(t, 60.0, *info.NextLevel)
}

func TestGetBeltInfoTopLevelHasNoNext(t *testing.T) {
	info := GetBeltInfo(10000)
	require.Nil(t, info.NextLevel)
	require.Equal(t, 100.0, info.Progress)
	require.Equal(t, 100.0, info.BeltProgress)
}
