package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	SetTopics(ctx context.Context, tournamentID int, topicIDs []int) ([]models.Topic, error)
	AppendTopic(ctx context.Context, tournamentID, topicID int) ([]models.Topic, error)
}

type CreateTournamentInput struct {
	SeriesID int       `json:"series_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	CityID   int       `json:"city_id"`
	TopicIDs []int     `json:"topic_ids"`
}

type UpdateTournamentInput struct {
	SeriesID int       `json:"series_id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	CityID   int       `json:"city_id"`
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	gameResultRepo  repositories.GameResultRepository
	achievementRepo repositories.AchievementRepository
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	gameResultRepo repositories.GameResultRepository,
	achievementRepo repositories.AchievementRepository,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		gameResultRepo:  gameResultRepo,
		achievementRepo: achievementRepo,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Date.IsZero() {
		return nil, ErrTournamentDateRequired
	}

	t := &models.Tournament{
		SeriesID: input.SeriesID,
		Name:     input.Name,
		Date:     input.Date,
		CityID:   input.CityID,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, t); err != nil {
			return mapTournamentError(err)
		}
		if len(input.TopicIDs) > 0 {
			if err := s.tournamentRepo.ReplaceTopics(ctx, tx, t.ID, input.TopicIDs); err != nil {
				return mapTournamentError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, t.ID)
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentError(err)
	}
	topics, err := s.tournamentRepo.ListTopics(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament topics: %w", err)
	}
	t.Topics = topics
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(tournaments) == 0 {
		return tournaments, nil
	}

	ids := make([]int, 0, len(tournaments))
	for _, t := range tournaments {
		ids = append(ids, t.ID)
	}
	winners, err := s.achievementRepo.WinnersByTournaments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament winners: %w", err)
	}
	for i := range tournaments {
		tournaments[i].Winners = winners[tournaments[i].ID]
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Date.IsZero() {
		return nil, ErrTournamentDateRequired
	}

	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTournamentError(err)
	}
	t.SeriesID = input.SeriesID
	t.Name = input.Name
	t.Date = input.Date
	t.CityID = input.CityID

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, mapTournamentError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return mapTournamentError(err)
	}
	return nil
}

// SetTopics переписывает список тем турнира целиком. После появления
// первого результата состав тем заморожен: колонки таблицы результатов
// не должны менять смысл задним числом.
func (s *tournamentService) SetTopics(ctx context.Context, tournamentID int, topicIDs []int) ([]models.Topic, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentError(err)
	}

	var topics []models.Topic
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		count, err := s.gameResultRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count game results: %w", err)
		}
		if count > 0 {
			return ErrTournamentTopicsLocked
		}
		if err := s.tournamentRepo.ReplaceTopics(ctx, tx, tournamentID, topicIDs); err != nil {
			return mapTournamentError(err)
		}
		topics, err = s.tournamentRepo.ListTopics(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return topics, nil
}

// AppendTopic дописывает тему в конец списка: порядок назначается
// автоматически как max+1. Действует та же заморозка, что и у
// SetTopics: после первого результата состав тем не меняется.
func (s *tournamentService) AppendTopic(ctx context.Context, tournamentID, topicID int) ([]models.Topic, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapTournamentError(err)
	}

	var topics []models.Topic
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		count, err := s.gameResultRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count game results: %w", err)
		}
		if count > 0 {
			return ErrTournamentTopicsLocked
		}
		if err := s.tournamentRepo.AppendTopic(ctx, tx, tournamentID, topicID); err != nil {
			return mapTournamentError(err)
		}
		topics, err = s.tournamentRepo.ListTopics(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func mapTournamentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidSeries):
		return ErrSeriesNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidCity):
		return ErrCityNotFound
	case errors.Is(err, repositories.ErrTournamentInUse):
		return ErrTournamentInUse
	case errors.Is(err, repositories.ErrTournamentTopicConflict):
		return ErrValidationFailed
	case errors.Is(err, repositories.ErrTopicNotFound):
		return ErrTopicNotFound
	default:
		return err
	}
}
