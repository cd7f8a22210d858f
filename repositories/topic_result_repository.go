package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrTopicResultNotFound     = errors.New("topic result not found")
	ErrTopicResultConflict     = errors.New("topic already has a result in this game")
	ErrTopicResultInvalidGame  = errors.New("invalid game result reference")
	ErrTopicResultInvalidTopic = errors.New("invalid topic reference")
)

type TopicResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.TopicResult) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TopicResult, error)
	ListByGameResult(ctx context.Context, exec SQLExecutor, gameResultID int) ([]models.TopicResult, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TopicResult, error)
	Update(ctx context.Context, exec SQLExecutor, result *models.TopicResult) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	// SumPointsByGameResult суммирует очки по темам в NUMERIC на
	// стороне БД, без потери точности. Ноль, если результатов нет.
	SumPointsByGameResult(ctx context.Context, exec SQLExecutor, gameResultID int) (decimal.Decimal, error)
}

type postgresTopicResultRepository struct {
	db *sql.DB
}

func NewPostgresTopicResultRepository(db *sql.DB) TopicResultRepository {
	return &postgresTopicResultRepository{db: db}
}

func (r *postgresTopicResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTopicResultRepository) Create(ctx context.Context, exec SQLExecutor, tr *models.TopicResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO topic_results (game_result_id, topic_id, points)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query, tr.GameResultID, tr.TopicID, tr.Points).Scan(&tr.ID)
	return r.handleTopicResultError(err)
}

func (r *postgresTopicResultRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.TopicResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, game_result_id, topic_id, points FROM topic_results WHERE id = $1`
	tr := &models.TopicResult{}
	err := executor.QueryRowContext(ctx, query, id).Scan(&tr.ID, &tr.GameResultID, &tr.TopicID, &tr.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicResultNotFound
		}
		return nil, err
	}
	return tr, nil
}

func (r *postgresTopicResultRepository) ListByGameResult(ctx context.Context, exec SQLExecutor, gameResultID int) ([]models.TopicResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT tr.id, tr.game_result_id, tr.topic_id, tr.points,
		       tp.id, tp.full_name, tp.short_name
		FROM topic_results tr
		JOIN topics tp ON tp.id = tr.topic_id
		WHERE tr.game_result_id = $1
		ORDER BY tr.id`
	return r.queryTopicResults(ctx, executor, query, gameResultID)
}

func (r *postgresTopicResultRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.TopicResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT tr.id, tr.game_result_id, tr.topic_id, tr.points,
		       tp.id, tp.full_name, tp.short_name
		FROM topic_results tr
		JOIN topics tp ON tp.id = tr.topic_id
		JOIN game_results gr ON gr.id = tr.game_result_id
		WHERE gr.tournament_id = $1
		ORDER BY tr.game_result_id, tr.id`
	return r.queryTopicResults(ctx, executor, query, tournamentID)
}

func (r *postgresTopicResultRepository) queryTopicResults(ctx context.Context, executor SQLExecutor, query string, arg interface{}) ([]models.TopicResult, error) {
	rows, err := executor.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.TopicResult, 0)
	for rows.Next() {
		tr := models.TopicResult{Topic: &models.Topic{}}
		err := rows.Scan(
			&tr.ID, &tr.GameResultID, &tr.TopicID, &tr.Points,
			&tr.Topic.ID, &tr.Topic.FullName, &tr.Topic.ShortName,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, tr)
	}
	return results, rows.Err()
}

func (r *postgresTopicResultRepository) Update(ctx context.Context, exec SQLExecutor, tr *models.TopicResult) error {
	executor := r.getExecutor(exec)
	query := `UPDATE topic_results SET points = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, tr.Points, tr.ID)
	if err != nil {
		return r.handleTopicResultError(err)
	}
	return checkAffectedRows(result, ErrTopicResultNotFound)
}

func (r *postgresTopicResultRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM topic_results WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTopicResultNotFound)
}

func (r *postgresTopicResultRepository) SumPointsByGameResult(ctx context.Context, exec SQLExecutor, gameResultID int) (decimal.Decimal, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COALESCE(SUM(points), 0) FROM topic_results WHERE game_result_id = $1`
	var sum decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, gameResultID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *postgresTopicResultRepository) handleTopicResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTopicResultConflict
		case "23503":
			switch pqErr.Constraint {
			case "topic_results_game_result_id_fkey":
				return ErrTopicResultInvalidGame
			case "topic_results_topic_id_fkey":
				return ErrTopicResultInvalidTopic
			}
		}
	}
	return err
}
