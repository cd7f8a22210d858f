package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/ranking"
	"github.com/brainring/rating-system/repositories"
)

// Число призовых мест, по которым создаются достижения.
const podiumPlaces = 3

// RecalcService — цепочка пересчёта производных полей.
//
// Порядок при изменении результата по теме:
//  1. total_points игры = сумма очков по темам (decimal) + чёрный ящик;
//  2. места всех игр турнира по убыванию total_points;
//  3. полная перезапись достижений турнира (места 1–3).
//
// Производные поля пишутся только точечными UPDATE, поэтому пересчёт
// не проходит через общий путь сохранения и не может запустить сам
// себя повторно. Любая ошибка возвращается вызывающему и откатывает
// транзакцию вместе с исходным изменением.
type RecalcService struct {
	gameResultRepo  repositories.GameResultRepository
	topicResultRepo repositories.TopicResultRepository
	achievementRepo repositories.AchievementRepository
	logger          *slog.Logger
}

func NewRecalcService(
	gameResultRepo repositories.GameResultRepository,
	topicResultRepo repositories.TopicResultRepository,
	achievementRepo repositories.AchievementRepository,
	logger *slog.Logger,
) *RecalcService {
	return &RecalcService{
		gameResultRepo:  gameResultRepo,
		topicResultRepo: topicResultRepo,
		achievementRepo: achievementRepo,
		logger:          logger,
	}
}

var _ ResultObserver = (*RecalcService)(nil)

func (s *RecalcService) TopicResultChanged(ctx context.Context, exec repositories.SQLExecutor, gameResultID int) error {
	gr, err := s.gameResultRepo.GetByID(ctx, exec, gameResultID)
	if err != nil {
		return fmt.Errorf("recalc: failed to load game result %d: %w", gameResultID, err)
	}
	if err := s.recalcTotal(ctx, exec, gr); err != nil {
		return err
	}
	return s.recalcStandings(ctx, exec, gr.TournamentID)
}

func (s *RecalcService) GameResultChanged(ctx context.Context, exec repositories.SQLExecutor, gameResultID int) error {
	// Чёрный ящик мог измениться, поэтому итог пересчитывается тоже.
	return s.TopicResultChanged(ctx, exec, gameResultID)
}

func (s *RecalcService) GameResultDeleted(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	return s.recalcStandings(ctx, exec, tournamentID)
}

// recalcTotal пересчитывает итог игры. Сумма держится в decimal до
// самого конца, во float64 конвертируется только готовое значение.
// Запись происходит лишь при фактическом изменении итога.
func (s *RecalcService) recalcTotal(ctx context.Context, exec repositories.SQLExecutor, gr *models.GameResult) error {
	sum, err := s.topicResultRepo.SumPointsByGameResult(ctx, exec, gr.ID)
	if err != nil {
		return fmt.Errorf("recalc: failed to sum topic points for game result %d: %w", gr.ID, err)
	}

	total, _ := sum.Add(gr.BlackBoxPoints).Float64()
	if total == gr.TotalPoints {
		return nil
	}

	if err := s.gameResultRepo.UpdateTotalPoints(ctx, exec, gr.ID, total); err != nil {
		return fmt.Errorf("recalc: failed to update total points for game result %d: %w", gr.ID, err)
	}
	s.logger.Debug("game result total recalculated",
		slog.Int("game_result_id", gr.ID),
		slog.Float64("old_total", gr.TotalPoints),
		slog.Float64("new_total", total),
	)
	gr.TotalPoints = total
	return nil
}

// recalcStandings пересчитывает места турнира и перезаписывает набор
// достижений целиком. Идемпотентно по содержимому: повторный запуск
// без изменения данных даёт тот же набор мест и достижений.
func (s *RecalcService) recalcStandings(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	results, err := s.gameResultRepo.ListByTournament(ctx, exec, tournamentID, true)
	if err != nil {
		return fmt.Errorf("recalc: failed to list results for tournament %d: %w", tournamentID, err)
	}

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.TotalPoints
	}
	places := ranking.CompetitionPlaces(scores)

	for i, r := range results {
		if r.Place == places[i] {
			continue
		}
		if err := s.gameResultRepo.UpdatePlace(ctx, exec, r.ID, places[i]); err != nil {
			return fmt.Errorf("recalc: failed to update place for game result %d: %w", r.ID, err)
		}
		r.Place = places[i]
	}

	// Достижения не патчатся по одному: старый набор удаляется и
	// создаётся заново, чтобы после пересчёта не выжила ни одна
	// устаревшая строка.
	if err := s.achievementRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return err
	}

	podium := make([]*models.Achievement, 0, podiumPlaces)
	for i, r := range results {
		if places[i] > podiumPlaces {
			continue
		}
		podium = append(podium, &models.Achievement{
			TeamID:       r.TeamID,
			TournamentID: tournamentID,
			Place:        places[i],
		})
	}
	if err := s.achievementRepo.BatchCreate(ctx, exec, podium); err != nil {
		return err
	}

	s.logger.Debug("tournament standings recalculated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("results", len(results)),
		slog.Int("podium", len(podium)),
	)
	return nil
}
