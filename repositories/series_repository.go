package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var (
	ErrSeriesNotFound     = errors.New("tournament series not found")
	ErrSeriesNameConflict = errors.New("tournament series name conflict")
	ErrSeriesInUse        = errors.New("tournament series is referenced by tournaments")
)

type SeriesRepository interface {
	Create(ctx context.Context, series *models.TournamentSeries) error
	GetByID(ctx context.Context, id int) (*models.TournamentSeries, error)
	GetByName(ctx context.Context, name string) (*models.TournamentSeries, error)
	List(ctx context.Context) ([]models.TournamentSeries, error)
	Update(ctx context.Context, series *models.TournamentSeries) error
	Delete(ctx context.Context, id int) error
}

type postgresSeriesRepository struct {
	db *sql.DB
}

func NewPostgresSeriesRepository(db *sql.DB) SeriesRepository {
	return &postgresSeriesRepository{db: db}
}

func (r *postgresSeriesRepository) Create(ctx context.Context, s *models.TournamentSeries) error {
	query := `
		INSERT INTO tournament_series (name, display_order, tournament_type)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.Name, s.DisplayOrder, s.TournamentType).Scan(&s.ID)
	return r.handleSeriesError(err)
}

func (r *postgresSeriesRepository) scanSeries(rowScanner interface{ Scan(...interface{}) error }) (*models.TournamentSeries, error) {
	var s models.TournamentSeries
	err := rowScanner.Scan(&s.ID, &s.Name, &s.DisplayOrder, &s.TournamentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSeriesRepository) GetByID(ctx context.Context, id int) (*models.TournamentSeries, error) {
	query := `SELECT id, name, display_order, tournament_type FROM tournament_series WHERE id = $1`
	return r.scanSeries(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresSeriesRepository) GetByName(ctx context.Context, name string) (*models.TournamentSeries, error) {
	query := `SELECT id, name, display_order, tournament_type FROM tournament_series WHERE name = $1`
	return r.scanSeries(r.db.QueryRowContext(ctx, query, name))
}

func (r *postgresSeriesRepository) List(ctx context.Context) ([]models.TournamentSeries, error) {
	query := `SELECT id, name, display_order, tournament_type FROM tournament_series ORDER BY display_order, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make([]models.TournamentSeries, 0)
	for rows.Next() {
		s, errScan := r.scanSeries(rows)
		if errScan != nil {
			return nil, errScan
		}
		series = append(series, *s)
	}
	return series, rows.Err()
}

func (r *postgresSeriesRepository) Update(ctx context.Context, s *models.TournamentSeries) error {
	query := `
		UPDATE tournament_series
		SET name = $1, display_order = $2, tournament_type = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, s.Name, s.DisplayOrder, s.TournamentType, s.ID)
	if err != nil {
		return r.handleSeriesError(err)
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}

func (r *postgresSeriesRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournament_series WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleSeriesError(err)
	}
	return checkAffectedRows(result, ErrSeriesNotFound)
}

func (r *postgresSeriesRepository) handleSeriesError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrSeriesNameConflict
		case "23503":
			return ErrSeriesInUse
		}
	}
	return err
}
