package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentInvalidSeries = errors.New("invalid series reference")
	ErrTournamentInvalidCity   = errors.New("invalid city reference")
	ErrTournamentInUse         = errors.New("tournament is in use (results exist)")
	ErrTournamentTopicConflict = errors.New("topic is already assigned to the tournament")
)

// ListTournamentsFilter — фильтры листинга. Nil-поле означает
// отсутствие фильтра.
type ListTournamentsFilter struct {
	CityName   *string
	SeriesName *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     *string
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error

	// Темы турнира. Порядок определяет колонки таблицы результатов.
	ReplaceTopics(ctx context.Context, exec SQLExecutor, tournamentID int, topicIDs []int) error
	AppendTopic(ctx context.Context, exec SQLExecutor, tournamentID, topicID int) error
	ListTopics(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Topic, error)
	HasTopic(ctx context.Context, exec SQLExecutor, tournamentID, topicID int) (bool, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (series_id, name, date, city_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := executor.QueryRowContext(ctx, query, t.SeriesID, t.Name, t.Date, t.CityID).Scan(&t.ID)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT
			t.id, t.series_id, t.name, t.date, t.city_id,
			s.id, s.name, s.display_order, s.tournament_type,
			c.id, c.name
		FROM tournaments t
		JOIN tournament_series s ON s.id = t.series_id
		JOIN cities c ON c.id = t.city_id
		WHERE t.id = $1`

	t := &models.Tournament{Series: &models.TournamentSeries{}, City: &models.City{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.SeriesID, &t.Name, &t.Date, &t.CityID,
		&t.Series.ID, &t.Series.Name, &t.Series.DisplayOrder, &t.Series.TournamentType,
		&t.City.ID, &t.City.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `
		SELECT
			t.id, t.series_id, t.name, t.date, t.city_id,
			s.id, s.name, s.display_order, s.tournament_type,
			c.id, c.name,
			(SELECT COUNT(*) FROM game_results gr WHERE gr.tournament_id = t.id) AS results_count
		FROM tournaments t
		JOIN tournament_series s ON s.id = t.series_id
		JOIN cities c ON c.id = t.city_id
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.CityName != nil {
		query += fmt.Sprintf(" AND c.name = $%d", argID)
		args = append(args, *filter.CityName)
		argID++
	}
	if filter.SeriesName != nil {
		query += fmt.Sprintf(" AND s.name = $%d", argID)
		args = append(args, *filter.SeriesName)
		argID++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argID)
		args = append(args, *filter.DateFrom)
		argID++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argID)
		args = append(args, *filter.DateTo)
		argID++
	}
	if filter.Search != nil {
		// Поиск и по названию турнира, и по названиям команд-участниц.
		query += fmt.Sprintf(` AND (t.name ILIKE $%d OR EXISTS (
			SELECT 1 FROM game_results gr
			JOIN teams tm ON tm.id = gr.team_id
			WHERE gr.tournament_id = t.id AND tm.name ILIKE $%d))`, argID, argID)
		args = append(args, "%"+*filter.Search+"%")
		argID++
	}

	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t := models.Tournament{Series: &models.TournamentSeries{}, City: &models.City{}}
		err := rows.Scan(
			&t.ID, &t.SeriesID, &t.Name, &t.Date, &t.CityID,
			&t.Series.ID, &t.Series.Name, &t.Series.DisplayOrder, &t.Series.TournamentType,
			&t.City.ID, &t.City.Name,
			&t.ResultsCount,
		)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET series_id = $1, name = $2, date = $3, city_id = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, t.SeriesID, t.Name, t.Date, t.CityID, t.ID)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ReplaceTopics заменяет список тем целиком, порядок — по позиции в topicIDs.
func (r *postgresTournamentRepository) ReplaceTopics(ctx context.Context, exec SQLExecutor, tournamentID int, topicIDs []int) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM tournament_topics WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to clear tournament topics: %w", err)
	}

	query := `INSERT INTO tournament_topics (tournament_id, topic_id, topic_order) VALUES ($1, $2, $3)`
	for i, topicID := range topicIDs {
		if _, err := executor.ExecContext(ctx, query, tournamentID, topicID, i+1); err != nil {
			return r.handleTournamentError(err)
		}
	}
	return nil
}

// AppendTopic добавляет тему в конец списка: порядок = максимум + 1.
func (r *postgresTournamentRepository) AppendTopic(ctx context.Context, exec SQLExecutor, tournamentID, topicID int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_topics (tournament_id, topic_id, topic_order)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(topic_order), 0) + 1
			FROM tournament_topics WHERE tournament_id = $1
		))`
	_, err := executor.ExecContext(ctx, query, tournamentID, topicID)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) ListTopics(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Topic, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT tp.id, tp.full_name, tp.short_name
		FROM tournament_topics tt
		JOIN topics tp ON tp.id = tt.topic_id
		WHERE tt.tournament_id = $1
		ORDER BY tt.topic_order`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
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

func (r *postgresTournamentRepository) HasTopic(ctx context.Context, exec SQLExecutor, tournamentID, topicID int) (bool, error) {
	executor := r.getExecutor(exec)
	query := `SELECT EXISTS (SELECT 1 FROM tournament_topics WHERE tournament_id = $1 AND topic_id = $2)`
	var exists bool
	if err := executor.QueryRowContext(ctx, query, tournamentID, topicID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTournamentTopicConflict
		case "23503":
			switch pqErr.Constraint {
			case "tournaments_series_id_fkey":
				return ErrTournamentInvalidSeries
			case "tournaments_city_id_fkey":
				return ErrTournamentInvalidCity
			case "tournament_topics_topic_id_fkey":
				return ErrTopicNotFound
			default:
				return ErrTournamentInUse
			}
		}
	}
	return err
}
