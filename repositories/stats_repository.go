package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brainring/rating-system/models"
)

type TeamSort string

const (
	TeamSortTotal TeamSort = "total"
	TeamSortWins  TeamSort = "wins"
	TeamSortAvg   TeamSort = "avg"
)

// ListTeamsFilter — фильтры таблицы команд. При заданном диапазоне
// дат агрегаты считаются только по играм внутри диапазона, а команды
// без игр в диапазоне не показываются.
type ListTeamsFilter struct {
	CityName *string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   *string
	Sort     TeamSort
}

// StatsRepository — агрегатные запросы витрины статистики.
// Ничего не пишет, все значения вычисляются на каждое обращение.
type StatsRepository interface {
	TeamRollups(ctx context.Context, filter ListTeamsFilter) ([]models.TeamWithStats, error)
	TeamRollup(ctx context.Context, teamID int) (*models.TeamWithStats, error)
	TopicStatsByTeam(ctx context.Context, teamID int) ([]models.TeamTopicStats, error)
	SeriesStatsByTeam(ctx context.Context, teamID int) ([]models.TeamSeriesStats, error)
	RecentGamesByTeam(ctx context.Context, teamID, limit int) ([]models.RecentGame, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

const teamRollupColumns = `
	t.id, t.name, t.city_id, t.logo_key, c.name,
	COUNT(gr.id) AS games_played,
	COUNT(gr.id) FILTER (WHERE gr.place = 1) AS wins,
	COALESCE(SUM(gr.total_points), 0) AS total_points,
	MAX(trn.date) AS last_game_date`

func (r *postgresStatsRepository) TeamRollups(ctx context.Context, filter ListTeamsFilter) ([]models.TeamWithStats, error) {
	args := []interface{}{}
	argID := 1

	// Диапазон дат сужает сам join с играми, а не просто строки ответа:
	// агрегаты должны считаться только по играм внутри диапазона.
	joinCond := "trn.id = gr.tournament_id"
	if filter.DateFrom != nil {
		joinCond += fmt.Sprintf(" AND trn.date >= $%d", argID)
		args = append(args, *filter.DateFrom)
		argID++
	}
	if filter.DateTo != nil {
		joinCond += fmt.Sprintf(" AND trn.date <= $%d", argID)
		args = append(args, *filter.DateTo)
		argID++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM teams t
		JOIN cities c ON c.id = t.city_id
		LEFT JOIN (game_results gr JOIN tournaments trn ON %s) ON gr.team_id = t.id
		WHERE 1=1`, teamRollupColumns, joinCond)

	if filter.CityName != nil {
		query += fmt.Sprintf(" AND c.name = $%d", argID)
		args = append(args, *filter.CityName)
		argID++
	}
	if filter.Search != nil {
		query += fmt.Sprintf(" AND t.name ILIKE $%d", argID)
		args = append(args, "%"+*filter.Search+"%")
		argID++
	}

	query += " GROUP BY t.id, t.name, t.city_id, t.logo_key, c.name"
	if filter.DateFrom != nil || filter.DateTo != nil {
		query += " HAVING COUNT(gr.id) > 0"
	}

	switch filter.Sort {
	case TeamSortWins:
		query += " ORDER BY wins DESC, total_points DESC, t.name"
	case TeamSortAvg:
		query += ` ORDER BY CASE WHEN COUNT(gr.id) = 0 THEN 0
			ELSE SUM(gr.total_points) / COUNT(gr.id) END DESC, t.name`
	default:
		query += " ORDER BY total_points DESC, t.name"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.TeamWithStats, 0)
	for rows.Next() {
		ts, errScan := scanTeamRollup(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, *ts)
	}
	return teams, rows.Err()
}

func (r *postgresStatsRepository) TeamRollup(ctx context.Context, teamID int) (*models.TeamWithStats, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM teams t
		JOIN cities c ON c.id = t.city_id
		LEFT JOIN (game_results gr JOIN tournaments trn ON trn.id = gr.tournament_id) ON gr.team_id = t.id
		WHERE t.id = $1
		GROUP BY t.id, t.name, t.city_id, t.logo_key, c.name`, teamRollupColumns)

	row := r.db.QueryRowContext(ctx, query, teamID)
	ts, err := scanTeamRollup(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return ts, nil
}

func scanTeamRollup(rowScanner interface{ Scan(...interface{}) error }) (*models.TeamWithStats, error) {
	ts := &models.TeamWithStats{}
	ts.City = &models.City{}
	var lastGame sql.NullTime
	err := rowScanner.Scan(
		&ts.ID, &ts.Name, &ts.CityID, &ts.LogoKey, &ts.City.Name,
		&ts.GamesPlayed, &ts.Wins, &ts.TotalPoints, &lastGame,
	)
	if err != nil {
		return nil, err
	}
	ts.City.ID = ts.CityID
	if lastGame.Valid {
		ts.LastGameDate = &lastGame.Time
	}
	// Средний балл считается здесь, чтобы деление на ноль было
	// невозможно для команды без игр.
	if ts.GamesPlayed > 0 {
		ts.AvgPoints = ts.TotalPoints / float64(ts.GamesPlayed)
	}
	return ts, nil
}

func (r *postgresStatsRepository) TopicStatsByTeam(ctx context.Context, teamID int) ([]models.TeamTopicStats, error) {
	query := `
		SELECT tp.id, tp.short_name, tp.full_name,
		       AVG(tr.points)::float8, COUNT(tr.id)
		FROM topic_results tr
		JOIN game_results gr ON gr.id = tr.game_result_id
		JOIN topics tp ON tp.id = tr.topic_id
		WHERE gr.team_id = $1
		GROUP BY tp.id, tp.short_name, tp.full_name
		ORDER BY tp.short_name`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.TeamTopicStats, 0)
	for rows.Next() {
		var s models.TeamTopicStats
		if err := rows.Scan(&s.TopicID, &s.ShortName, &s.FullName, &s.AvgPoints, &s.GamesCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresStatsRepository) SeriesStatsByTeam(ctx context.Context, teamID int) ([]models.TeamSeriesStats, error) {
	query := `
		SELECT s.id, s.name, s.tournament_type, s.display_order,
		       COUNT(gr.id),
		       COUNT(gr.id) FILTER (WHERE gr.place = 1),
		       COUNT(gr.id) FILTER (WHERE gr.place = 2),
		       COUNT(gr.id) FILTER (WHERE gr.place = 3)
		FROM game_results gr
		JOIN tournaments trn ON trn.id = gr.tournament_id
		JOIN tournament_series s ON s.id = trn.series_id
		WHERE gr.team_id = $1
		GROUP BY s.id, s.name, s.tournament_type, s.display_order
		ORDER BY s.display_order, s.name`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]models.TeamSeriesStats, 0)
	for rows.Next() {
		var s models.TeamSeriesStats
		err := rows.Scan(
			&s.SeriesID, &s.SeriesName, &s.TournamentType, &s.DisplayOrder,
			&s.Participations, &s.Gold, &s.Silver, &s.Bronze,
		)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *postgresStatsRepository) RecentGamesByTeam(ctx context.Context, teamID, limit int) ([]models.RecentGame, error) {
	query := `
		SELECT gr.id, trn.id, trn.name, trn.date, s.name, c.name,
		       gr.total_points, gr.place
		FROM game_results gr
		JOIN tournaments trn ON trn.id = gr.tournament_id
		JOIN tournament_series s ON s.id = trn.series_id
		JOIN cities c ON c.id = trn.city_id
		WHERE gr.team_id = $1
		ORDER BY trn.date DESC, gr.id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.RecentGame, 0)
	for rows.Next() {
		var g models.RecentGame
		err := rows.Scan(
			&g.GameResultID, &g.TournamentID, &g.TournamentName, &g.Date,
			&g.SeriesName, &g.CityName, &g.TotalPoints, &g.Place,
		)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
