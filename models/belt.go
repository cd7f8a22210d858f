package models

import "math"

// Система поясов: ранг команды по сумме набранных очков, как в
// единоборствах. Внутри пояса пять уровней ("полосок").

type beltLevel struct {
	Min  float64
	Max  float64
	Name string
}

type belt struct {
	Name     string
	Color    string
	MinScore float64
	MaxScore float64
	Levels   [5]beltLevel
}

var beltSystem = []belt{
	{
		Name: "Белый", Color: "#F0F0F0", MinScore: 0, MaxScore: 50,
		Levels: [5]beltLevel{
			{0, 10, "Белый 0"}, {10, 20, "Белый 1"}, {20, 30, "Белый 2"}, {30, 40, "Белый 3"}, {40, 50, "Белый 4"},
		},
	},
	{
		Name: "Синий", Color: "#1E90FF", MinScore: 50, MaxScore: 100,
		Levels: [5]beltLevel{
			{50, 60, "Синий 0"}, {60, 70, "Синий 1"}, {70, 80, "Синий 2"}, {80, 90, "Синий 3"}, {90, 100, "Синий 4"},
		},
	},
	{
		Name: "Пурпурный", Color: "#800080", MinScore: 100, MaxScore: 150,
		Levels: [5]beltLevel{
			{100, 110, "Пурпурный 0"}, {110, 120, "Пурпурный 1"}, {120, 130, "Пурпурный 2"}, {130, 140, "Пурпурный 3"}, {140, 150, "Пурпурный 4"},
		},
	},
	{
		Name: "Коричневый", Color: "#8B4513", MinScore: 150, MaxScore: 200,
		Levels: [5]beltLevel{
			{150, 160, "Коричневый 0"}, {160, 170, "Коричневый 1"}, {170, 180, "Коричневый 2"}, {180, 190, "Коричневый 3"}, {190, 200, "Коричневый 4"},
		},
	},
	{
		Name: "Чёрный", Color: "#000000", MinScore: 200, MaxScore: 300,
		Levels: [5]beltLevel{
			{200, 220, "Чёрный 0"}, {220, 240, "Чёрный 1"}, {240, 260, "Чёрный 2"}, {260, 280, "Чёрный 3"}, {280, 300, "Чёрный 4"},
		},
	},
	{
		Name: "Красный", Color: "#FF0000", MinScore: 300, MaxScore: math.Inf(1),
		Levels: [5]beltLevel{
			{300, 500, "Красный 0"}, {500, 1000, "Красный 1"}, {1000, 2000, "Красный 2"}, {2000, 3000, "Красный 3"}, {3000, math.Inf(1), "Красный 4"},
		},
	},
}

// BeltInfo — рассчитанный пояс команды.
type BeltInfo struct {
	BeltName     string   `json:"belt_name"`
	BeltColor    string   `json:"belt_color"`
	LevelName    string   `json:"level_name"`
	CurrentScore float64  `json:"current_score"`
	Progress     float64  `json:"progress"`       // процент внутри уровня
	BeltProgress float64  `json:"belt_progress"`  // процент внутри пояса
	NextLevel    *float64 `json:"next_level"`     // nil на максимальном уровне
	Stripes      int      `json:"stripes_count"`  // число полосок, 0..4
	LevelNumber  int      `json:"level_number"`   // 1..5
}

// GetBeltInfo определяет пояс и уровень по сумме очков команды.
// Отрицательные значения трактуются как ноль.
func GetBeltInfo(score float64) BeltInfo {
	if score < 0 {
		score = 0
	}
	for _, b := range beltSystem {
		if score < b.MinScore || score >= b.MaxScore {
			continue
		}
		for i, lvl := range b.Levels {
			if score < lvl.Min || score >= lvl.Max {
				continue
			}
			info := BeltInfo{
				BeltName:     b.Name,
				BeltColor:    b.Color,
				LevelName:    lvl.Name,
				CurrentScore: score,
				Progress:     percentOf(score-lvl.Min, lvl.Max-lvl.Min),
				BeltProgress: percentOf(score-b.MinScore, b.MaxScore-b.MinScore),
				Stripes:      i,
				LevelNumber:  i + 1,
			}
			if !math.IsInf(lvl.Max, 1) {
				next := lvl.Max
				info.NextLevel = &next
			}
			return info
		}
	}

	// Максимальный уровень
	last := beltSystem[len(beltSystem)-1]
	top := last.Levels[len(last.Levels)-1]
	return BeltInfo{
		BeltName:     last.Name,
		BeltColor:    last.Color,
		LevelName:    top.Name,
		CurrentScore: score,
		Progress:     100,
		BeltProgress: 100,
		Stripes:      4,
		LevelNumber:  5,
	}
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 || math.IsInf(whole, 1) {
		return 100
	}
	p := part / whole * 100
	if p > 100 {
		p = 100
	}
	return p
}
