package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brainring/rating-system/models"
	"github.com/lib/pq"
)

var ErrAchievementInvalidRef = errors.New("achievement team or tournament conflict or invalid")

// AchievementRepository хранит производные записи о призовых местах.
// Набор по турниру всегда перезаписывается целиком: DeleteByTournament
// + BatchCreate в одной транзакции пересчёта.
type AchievementRepository interface {
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	BatchCreate(ctx context.Context, exec SQLExecutor, achievements []*models.Achievement) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Achievement, error)
	WinnersByTournaments(ctx context.Context, tournamentIDs []int) (map[int][]models.Team, error)
}

type postgresAchievementRepository struct {
	db *sql.DB
}

func NewPostgresAchievementRepository(db *sql.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

func (r *postgresAchievementRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAchievementRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM achievements WHERE tournament_id = $1`
	if _, err := executor.ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete achievements for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresAchievementRepository) BatchCreate(ctx context.Context, exec SQLExecutor, achievements []*models.Achievement) error {
	executor := r.getExecutor(exec)
	if len(achievements) == 0 {
		return nil
	}

	query := `
		INSERT INTO achievements (team_id, tournament_id, place)
		VALUES ($1, $2, $3)
		RETURNING id`
	for _, a := range achievements {
		err := executor.QueryRowContext(ctx, query, a.TeamID, a.TournamentID, a.Place).Scan(&a.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && (pqErr.Code == "23503" || pqErr.Code == "23505") {
				return fmt.Errorf("%w: team %d tournament %d", ErrAchievementInvalidRef, a.TeamID, a.TournamentID)
			}
			return fmt.Errorf("failed to create achievement for team %d: %w", a.TeamID, err)
		}
	}
	return nil
}

func (r *postgresAchievementRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Achievement, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT a.id, a.team_id, a.tournament_id, a.place, t.id, t.name, t.city_id
		FROM achievements a
		JOIN teams t ON t.id = a.team_id
		WHERE a.tournament_id = $1
		ORDER BY a.place, t.name`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := make([]models.Achievement, 0)
	for rows.Next() {
		a := models.Achievement{Team: &models.Team{}}
		err := rows.Scan(&a.ID, &a.TeamID, &a.TournamentID, &a.Place, &a.Team.ID, &a.Team.Name, &a.Team.CityID)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// WinnersByTournaments возвращает команды с первым местом для набора
// турниров. Используется листингом турниров.
func (r *postgresAchievementRepository) WinnersByTournaments(ctx context.Context, tournamentIDs []int) (map[int][]models.Team, error) {
	winners := make(map[int][]models.Team)
	if len(tournamentIDs) == 0 {
		return winners, nil
	}

	query := `
		SELECT a.tournament_id, t.id, t.name, t.city_id
		FROM achievements a
		JOIN teams t ON t.id = a.team_id
		WHERE a.place = 1 AND a.tournament_id = ANY($1)
		ORDER BY a.tournament_id, t.name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(tournamentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tournamentID int
		var t models.Team
		if err := rows.Scan(&tournamentID, &t.ID, &t.Name, &t.CityID); err != nil {
			return nil, err
		}
		winners[tournamentID] = append(winners[tournamentID], t)
	}
	return winners, rows.Err()
}
