package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentGamesLimit = 5

// StatsService собирает витринные представления: таблицу команд,
// карточку команды и таблицу результатов турнира. Только чтение.
type StatsService interface {
	TeamList(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.TeamWithStats, error)
	TeamDetail(ctx context.Context, teamID int) (*models.TeamDetail, error)
	TournamentDetail(ctx context.Context, tournamentID int) (*models.TournamentDetail, error)
}

type statsService struct {
	statsRepo       repositories.StatsRepository
	tournamentRepo  repositories.TournamentRepository
	gameResultRepo  repositories.GameResultRepository
	topicResultRepo repositories.TopicResultRepository
}

func NewStatsService(
	statsRepo repositories.StatsRepository,
	tournamentRepo repositories.TournamentRepository,
	gameResultRepo repositories.GameResultRepository,
	topicResultRepo repositories.TopicResultRepository,
) StatsService {
	return &statsService{
		statsRepo:       statsRepo,
		tournamentRepo:  tournamentRepo,
		gameResultRepo:  gameResultRepo,
		topicResultRepo: topicResultRepo,
	}
}

func (s *statsService) TeamList(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.TeamWithStats, error) {
	return s.statsRepo.TeamRollups(ctx, filter)
}

func (s *statsService) TeamDetail(ctx context.Context, teamID int) (*models.TeamDetail, error) {
	rollup, err := s.statsRepo.TeamRollup(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	detail := &models.TeamDetail{
		Team: *rollup,
		Belt: models.GetBeltInfo(rollup.TotalPoints),
	}

	// Остальные блоки карточки независимы, грузим параллельно.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.statsRepo.TopicStatsByTeam(gCtx, teamID)
		if err != nil {
			return fmt.Errorf("failed to load topic stats: %w", err)
		}
		detail.TopicStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.statsRepo.SeriesStatsByTeam(gCtx, teamID)
		if err != nil {
			return fmt.Errorf("failed to load series stats: %w", err)
		}
		detail.SeriesStats = stats
		return nil
	})
	g.Go(func() error {
		games, err := s.statsRepo.RecentGamesByTeam(gCtx, teamID, recentGamesLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent games: %w", err)
		}
		detail.RecentGames = games
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail.BestTopic = bestTopic(detail.TopicStats)
	return detail, nil
}

// bestTopic выбирает тему с наибольшим средним баллом. При равенстве
// побеждает тема с большим числом игр, затем порядок listing'а.
func bestTopic(stats []models.TeamTopicStats) *models.TeamTopicStats {
	var best *models.TeamTopicStats
	for i := range stats {
		cur := &stats[i]
		if best == nil ||
			cur.AvgPoints > best.AvgPoints ||
			(cur.AvgPoints == best.AvgPoints && cur.GamesCount > best.GamesCount) {
			best = cur
		}
	}
	return best
}

func (s *statsService) TournamentDetail(ctx context.Context, tournamentID int) (*models.TournamentDetail, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	topics, err := s.tournamentRepo.ListTopics(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament topics: %w", err)
	}

	results, err := s.gameResultRepo.ListByTournament(ctx, nil, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load game results: %w", err)
	}

	topicResults, err := s.topicResultRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic results: %w", err)
	}

	// Индекс колонки по id темы, чтобы разложить очки по порядку тем.
	topicCol := make(map[int]int, len(topics))
	for i, tp := range topics {
		topicCol[tp.ID] = i
	}
	byGame := make(map[int][]models.TopicResult)
	for _, tr := range topicResults {
		byGame[tr.GameResultID] = append(byGame[tr.GameResultID], tr)
	}

	rows := make([]models.TournamentResultRow, 0, len(results))
	for _, gr := range results {
		row := models.TournamentResultRow{
			GameResultID:   gr.ID,
			Place:          gr.Place,
			TotalPoints:    gr.TotalPoints,
			BlackBoxAnswer: gr.BlackBoxAnswer,
			BlackBoxPoints: gr.BlackBoxPoints,
			TopicPoints:    make([]*decimal.Decimal, len(topics)),
		}
		if gr.Team != nil {
			row.Team = *gr.Team
		}

		sum := decimal.Zero
		for _, tr := range byGame[gr.ID] {
			col, ok := topicCol[tr.TopicID]
			if !ok {
				continue
			}
			points := tr.Points
			row.TopicPoints[col] = &points
			sum = sum.Add(tr.Points)
		}
		row.PointsBeforeBlackBox = sum

		// Промежуточный итог после первых трёх тем турнира.
		firstThree := decimal.Zero
		for col, points := range row.TopicPoints {
			if col >= 3 {
				break
			}
			if points != nil {
				firstThree = firstThree.Add(*points)
			}
		}
		row.FirstThreeTopicsPoints = firstThree
		rows = append(rows, row)
	}

	return &models.TournamentDetail{
		Tournament: *tournament,
		Topics:     topics,
		Rows:       rows,
	}, nil
}
