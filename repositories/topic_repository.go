package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrTopicInUse    = errors.New("topic is referenced by tournaments or results")
)

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id int) (*models.Topic, error)
	List(ctx context.Context) ([]models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, id int) error
}

type postgresTopicRepository struct {
	db *sql.DB
}

func NewPostgresTopicRepository(db *sql.DB) TopicRepository {
	return &postgresTopicRepository{db: db}
}

func (r *postgresTopicRepository) Create(ctx context.Context, t *models.Topic) error {
	query := `INSERT INTO topics (full_name, short_name) VALUES ($1, $2) RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.FullName, t.ShortName).Scan(&t.ID)
}

func (r *postgresTopicRepository) GetByID(ctx context.Context, id int) (*models.Topic, error) {
	query := `SELECT id, full_name, short_name FROM topics WHERE id = $1`
	t := &models.Topic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.FullName, &t.ShortName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	query := `SELECT id, full_name, short_name FROM topics ORDER BY short_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.FullName, &t.ShortName); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *postgresTopicRepository) Update(ctx context.Context, t *models.Topic) error {
	query := `UPDATE topics SET full_name = $1, short_name = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, t.FullName, t.ShortName, t.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTopicNotFound)
}

func (r *postgresTopicRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM topics WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTopicInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTopicNotFound)
}
