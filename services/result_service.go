package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/ranking"
	"github.com/brainring/rating-system/repositories"
	"github.com/shopspring/decimal"
)

// ResultService — единственная точка записи результатов. Каждая
// мутация выполняется в транзакции вместе с полной цепочкой
// пересчёта (observer), так что снаружи транзакции производные поля
// никогда не видны устаревшими.
type ResultService interface {
	CreateGameResult(ctx context.Context, input CreateGameResultInput) (*models.GameResult, error)
	GetGameResult(ctx context.Context, id int) (*models.GameResult, error)
	UpdateGameResult(ctx context.Context, id int, input UpdateGameResultInput) (*models.GameResult, error)
	DeleteGameResult(ctx context.Context, id int) error

	CreateTopicResult(ctx context.Context, input CreateTopicResultInput) (*models.TopicResult, error)
	UpdateTopicResult(ctx context.Context, id int, input UpdateTopicResultInput) (*models.TopicResult, error)
	DeleteTopicResult(ctx context.Context, id int) error
}

type CreateGameResultInput struct {
	TournamentID   int             `json:"tournament_id"`
	TeamID         int             `json:"team_id"`
	BlackBoxAnswer *string         `json:"black_box_answer"`
	BlackBoxPoints decimal.Decimal `json:"black_box_points"`
}

type UpdateGameResultInput struct {
	BlackBoxAnswer *string         `json:"black_box_answer"`
	BlackBoxPoints decimal.Decimal `json:"black_box_points"`
}

type CreateTopicResultInput struct {
	GameResultID int             `json:"game_result_id"`
	TopicID      int             `json:"topic_id"`
	Points       decimal.Decimal `json:"points"`
}

type UpdateTopicResultInput struct {
	Points decimal.Decimal `json:"points"`
}

type resultService struct {
	db              *sql.DB
	gameResultRepo  repositories.GameResultRepository
	topicResultRepo repositories.TopicResultRepository
	tournamentRepo  repositories.TournamentRepository
	observer        ResultObserver
	hub             *ranking.Hub
}

func NewResultService(
	db *sql.DB,
	gameResultRepo repositories.GameResultRepository,
	topicResultRepo repositories.TopicResultRepository,
	tournamentRepo repositories.TournamentRepository,
	observer ResultObserver,
	hub *ranking.Hub,
) ResultService {
	return &resultService{
		db:              db,
		gameResultRepo:  gameResultRepo,
		topicResultRepo: topicResultRepo,
		tournamentRepo:  tournamentRepo,
		observer:        observer,
		hub:             hub,
	}
}

func (s *resultService) CreateGameResult(ctx context.Context, input CreateGameResultInput) (*models.GameResult, error) {
	gr := &models.GameResult{
		TournamentID:   input.TournamentID,
		TeamID:         input.TeamID,
		BlackBoxAnswer: input.BlackBoxAnswer,
		BlackBoxPoints: input.BlackBoxPoints,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.gameResultRepo.Create(ctx, tx, gr); err != nil {
			return mapGameResultError(err)
		}
		return s.observer.GameResultChanged(ctx, tx, gr.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(gr.TournamentID)
	return gr, nil
}

func (s *resultService) GetGameResult(ctx context.Context, id int) (*models.GameResult, error) {
	gr, err := s.gameResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameResultError(err)
	}
	topicResults, err := s.topicResultRepo.ListByGameResult(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic results for game result %d: %w", id, err)
	}
	gr.TopicResults = topicResults
	return gr, nil
}

func (s *resultService) UpdateGameResult(ctx context.Context, id int, input UpdateGameResultInput) (*models.GameResult, error) {
	gr, err := s.gameResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameResultError(err)
	}
	gr.BlackBoxAnswer = input.BlackBoxAnswer
	gr.BlackBoxPoints = input.BlackBoxPoints

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.gameResultRepo.Update(ctx, tx, gr); err != nil {
			return mapGameResultError(err)
		}
		return s.observer.GameResultChanged(ctx, tx, gr.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(gr.TournamentID)
	// Перечитываем: пересчёт мог поменять total_points и place.
	updated, err := s.gameResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapGameResultError(err)
	}
	return updated, nil
}

func (s *resultService) DeleteGameResult(ctx context.Context, id int) error {
	gr, err := s.gameResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapGameResultError(err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.gameResultRepo.Delete(ctx, tx, id); err != nil {
			return mapGameResultError(err)
		}
		return s.observer.GameResultDeleted(ctx, tx, gr.TournamentID)
	})
	if err != nil {
		return err
	}

	s.notifyStandings(gr.TournamentID)
	return nil
}

func (s *resultService) CreateTopicResult(ctx context.Context, input CreateTopicResultInput) (*models.TopicResult, error) {
	gr, err := s.gameResultRepo.GetByID(ctx, nil, input.GameResultID)
	if err != nil {
		return nil, mapGameResultError(err)
	}

	tr := &models.TopicResult{
		GameResultID: input.GameResultID,
		TopicID:      input.TopicID,
		Points:       input.Points,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Тема обязана входить в список тем турнира — это проверка
		// бизнес-правила, а не ограничение БД.
		ok, err := s.tournamentRepo.HasTopic(ctx, tx, gr.TournamentID, input.TopicID)
		if err != nil {
			return fmt.Errorf("failed to check tournament topic: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: topic %d, tournament %d", ErrTopicNotInTournament, input.TopicID, gr.TournamentID)
		}

		if err := s.topicResultRepo.Create(ctx, tx, tr); err != nil {
			return mapTopicResultError(err)
		}
		return s.observer.TopicResultChanged(ctx, tx, tr.GameResultID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(gr.TournamentID)
	return tr, nil
}

func (s *resultService) UpdateTopicResult(ctx context.Context, id int, input UpdateTopicResultInput) (*models.TopicResult, error) {
	tr, err := s.topicResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapTopicResultError(err)
	}
	gr, err := s.gameResultRepo.GetByID(ctx, nil, tr.GameResultID)
	if err != nil {
		return nil, mapGameResultError(err)
	}

	tr.Points = input.Points
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.topicResultRepo.Update(ctx, tx, tr); err != nil {
			return mapTopicResultError(err)
		}
		return s.observer.TopicResultChanged(ctx, tx, tr.GameResultID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(gr.TournamentID)
	return tr, nil
}

func (s *resultService) DeleteTopicResult(ctx context.Context, id int) error {
	tr, err := s.topicResultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return mapTopicResultError(err)
	}
	gr, err := s.gameResultRepo.GetByID(ctx, nil, tr.GameResultID)
	if err != nil {
		return mapGameResultError(err)
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.topicResultRepo.Delete(ctx, tx, id); err != nil {
			return mapTopicResultError(err)
		}
		return s.observer.TopicResultChanged(ctx, tx, tr.GameResultID)
	})
	if err != nil {
		return err
	}

	s.notifyStandings(gr.TournamentID)
	return nil
}

// notifyStandings шлёт событие в комнату турнира после коммита.
// Подписчиков может не быть, это не ошибка.
func (s *resultService) notifyStandings(tournamentID int) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(ranking.TournamentRoom(tournamentID), ranking.Message{
		Type:    ranking.MessageStandingsUpdated,
		Payload: map[string]int{"tournament_id": tournamentID},
	})
}

func mapGameResultError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameResultNotFound):
		return ErrGameResultNotFound
	case errors.Is(err, repositories.ErrGameResultConflict):
		return ErrGameResultConflict
	case errors.Is(err, repositories.ErrGameResultInvalidTournament):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrGameResultInvalidTeam):
		return ErrTeamNotFound
	default:
		return err
	}
}

func mapTopicResultError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTopicResultNotFound):
		return ErrTopicResultNotFound
	case errors.Is(err, repositories.ErrTopicResultConflict):
		return ErrTopicResultConflict
	case errors.Is(err, repositories.ErrTopicResultInvalidGame):
		return ErrGameResultNotFound
	case errors.Is(err, repositories.ErrTopicResultInvalidTopic):
		return ErrTopicNotFound
	default:
		return err
	}
}
