package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var (
	ErrGameResultNotFound          = errors.New("game result not found")
	ErrGameResultConflict          = errors.New("team already has a result in this tournament")
	ErrGameResultInvalidTournament = errors.New("invalid tournament reference")
	ErrGameResultInvalidTeam       = errors.New("invalid team reference")
)

// GameResultRepository. Производные поля total_points и place
// меняются только точечными UPDATE (UpdateTotalPoints, UpdatePlace):
// Create и Update их не трогают, поэтому пересчёт не может зациклить
// сам себя через общий путь сохранения.
type GameResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.GameResult) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GameResult, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, byTotalDesc bool) ([]*models.GameResult, error)
	Update(ctx context.Context, exec SQLExecutor, result *models.GameResult) error
	UpdateTotalPoints(ctx context.Context, exec SQLExecutor, id int, totalPoints float64) error
	UpdatePlace(ctx context.Context, exec SQLExecutor, id int, place int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
}

type postgresGameResultRepository struct {
	db *sql.DB
}

func NewPostgresGameResultRepository(db *sql.DB) GameResultRepository {
	return &postgresGameResultRepository{db: db}
}

func (r *postgresGameResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameResultRepository) Create(ctx context.Context, exec SQLExecutor, gr *models.GameResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO game_results (tournament_id, team_id, black_box_answer, black_box_points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, total_points, place`
	err := executor.QueryRowContext(ctx, query,
		gr.TournamentID, gr.TeamID, gr.BlackBoxAnswer, gr.BlackBoxPoints,
	).Scan(&gr.ID, &gr.TotalPoints, &gr.Place)
	return r.handleGameResultError(err)
}

func (r *postgresGameResultRepository) scanGameResult(rowScanner interface{ Scan(...interface{}) error }) (*models.GameResult, error) {
	gr := &models.GameResult{Team: &models.Team{}}
	err := rowScanner.Scan(
		&gr.ID, &gr.TournamentID, &gr.TeamID,
		&gr.BlackBoxAnswer, &gr.BlackBoxPoints, &gr.TotalPoints, &gr.Place,
		&gr.Team.ID, &gr.Team.Name, &gr.Team.CityID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameResultNotFound
		}
		return nil, err
	}
	return gr, nil
}

func (r *postgresGameResultRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GameResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gr.id, gr.tournament_id, gr.team_id,
		       gr.black_box_answer, gr.black_box_points, gr.total_points, gr.place,
		       t.id, t.name, t.city_id
		FROM game_results gr
		JOIN teams t ON t.id = gr.team_id
		WHERE gr.id = $1`
	return r.scanGameResult(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameResultRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, byTotalDesc bool) ([]*models.GameResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT gr.id, gr.tournament_id, gr.team_id,
		       gr.black_box_answer, gr.black_box_points, gr.total_points, gr.place,
		       t.id, t.name, t.city_id
		FROM game_results gr
		JOIN teams t ON t.id = gr.team_id
		WHERE gr.tournament_id = $1`
	if byTotalDesc {
		// team_id в конце для стабильного порядка при равных очках
		query += " ORDER BY gr.total_points DESC, gr.team_id ASC"
	} else {
		query += " ORDER BY gr.team_id ASC"
	}

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.GameResult, 0)
	for rows.Next() {
		gr, errScan := r.scanGameResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, gr)
	}
	return results, rows.Err()
}

// Update меняет только редактируемые администратором поля.
func (r *postgresGameResultRepository) Update(ctx context.Context, exec SQLExecutor, gr *models.GameResult) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE game_results
		SET black_box_answer = $1, black_box_points = $2
		WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, gr.BlackBoxAnswer, gr.BlackBoxPoints, gr.ID)
	if err != nil {
		return r.handleGameResultError(err)
	}
	return checkAffectedRows(result, ErrGameResultNotFound)
}

func (r *postgresGameResultRepository) UpdateTotalPoints(ctx context.Context, exec SQLExecutor, id int, totalPoints float64) error {
	executor := r.getExecutor(exec)
	query := `UPDATE game_results SET total_points = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, totalPoints, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameResultNotFound)
}

func (r *postgresGameResultRepository) UpdatePlace(ctx context.Context, exec SQLExecutor, id int, place int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE game_results SET place = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, place, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameResultNotFound)
}

func (r *postgresGameResultRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM game_results WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameResultNotFound)
}

func (r *postgresGameResultRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM game_results WHERE tournament_id = $1`
	var count int
	if err := executor.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresGameResultRepository) handleGameResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrGameResultConflict
		case "23503":
			switch pqErr.Constraint {
			case "game_results_tournament_id_fkey":
				return ErrGameResultInvalidTournament
			case "game_results_team_id_fkey":
				return ErrGameResultInvalidTeam
			}
		}
	}
	return err
}
