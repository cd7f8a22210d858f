package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var (
	ErrCityNotFound     = errors.New("city not found")
	ErrCityNameConflict = errors.New("city name conflict")
	ErrCityInUse        = errors.New("city is referenced by teams or tournaments")
)

type CityRepository interface {
	Create(ctx context.Context, city *models.City) error
	GetByID(ctx context.Context, id int) (*models.City, error)
	List(ctx context.Context) ([]models.City, error)
	Update(ctx context.Context, city *models.City) error
	Delete(ctx context.Context, id int) error
}

type postgresCityRepository struct {
	db *sql.DB
}

func NewPostgresCityRepository(db *sql.DB) CityRepository {
	return &postgresCityRepository{db: db}
}

func (r *postgresCityRepository) Create(ctx context.Context, city *models.City) error {
	query := `INSERT INTO cities (name) VALUES ($1) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, city.Name).Scan(&city.ID)
	return r.handleCityError(err)
}

func (r *postgresCityRepository) GetByID(ctx context.Context, id int) (*models.City, error) {
	query := `SELECT id, name FROM cities WHERE id = $1`
	c := &models.City{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCityRepository) List(ctx context.Context) ([]models.City, error) {
	query := `SELECT id, name FROM cities ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]models.City, 0)
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

func (r *postgresCityRepository) Update(ctx context.Context, city *models.City) error {
	query := `UPDATE cities SET name = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, city.Name, city.ID)
	if err != nil {
		return r.handleCityError(err)
	}
	return checkAffectedRows(result, ErrCityNotFound)
}

func (r *postgresCityRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM cities WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleCityError(err)
	}
	return checkAffectedRows(result, ErrCityNotFound)
}

func (r *postgresCityRepository) handleCityError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrCityNameConflict
		case "23503":
			return ErrCityInUse
		}
	}
	return err
}
