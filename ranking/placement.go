// Package ranking содержит чистые алгоритмы распределения мест и
// websocket-hub для трансляции обновлений турнирной таблицы.
package ranking

// CompetitionPlaces распределяет места по уже отсортированному по
// убыванию списку очков по правилам "competition ranking": равные
// очки делят старшее место группы, следующее отличное значение
// пропускает столько мест, сколько команд в группе равных.
// [100,100,100,80] -> [1,1,1,4]. Пустой вход даёт пустой результат.
// Функция не сортирует вход.
func CompetitionPlaces(scores []float64) []int {
	if len(scores) == 0 {
		return []int{}
	}

	places := make([]int, len(scores))
	current := 1
	prev := scores[0]
	skip := 0

	for i, score := range scores {
		switch {
		case i == 0:
			places[i] = current
		case score == prev:
			places[i] = current
			skip++
		default:
			current += 1 + skip
			places[i] = current
			prev = score
			skip = 0
		}
	}
	return places
}

// DensePlaces — последовательная нумерация без пропусков:
// [100,100,100,80] -> [1,1,1,2]. Так места считала старая версия
// таблицы лидеров; нумерация занижает число реально опередивших
// команд после ничьей, поэтому в хранимое поле place и в достижения
// пишется только CompetitionPlaces. Функция оставлена для сверки со
// старыми выгрузками.
func DensePlaces(scores []float64) []int {
	if len(scores) == 0 {
		return []int{}
	}

	places := make([]int, len(scores))
	current := 1
	prev := scores[0]

	for i, score := range scores {
		if i > 0 && score != prev {
			current++
			prev = score
		}
		places[i] = current
	}
	return places
}
