package services

import (
	"context"
	"testing"
	"time"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	rollups     map[int]*models.TeamWithStats
	topicStats  map[int][]models.TeamTopicStats
	seriesStats map[int][]models.TeamSeriesStats
	recentGames map[int][]models.RecentGame
}

func (r *fakeStatsRepo) TeamRollups(_ context.Context, _ repositories.ListTeamsFilter) ([]models.TeamWithStats, error) {
	teams := make([]models.TeamWithStats, 0, len(r.rollups))
	for _, ts := range r.rollups {
		teams = append(teams, *ts)
	}
	return teams, nil
}

func (r *fakeStatsRepo) TeamRollup(_ context.Context, teamID int) (*models.TeamWithStats, error) {
	ts, ok := r.rollups[teamID]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return ts, nil
}

func (r *fakeStatsRepo) TopicStatsByTeam(_ context.Context, teamID int) ([]models.TeamTopicStats, error) {
	return r.topicStats[teamID], nil
}

func (r *fakeStatsRepo) SeriesStatsByTeam(_ context.Context, teamID int) ([]models.TeamSeriesStats, error) {
	return r.seriesStats[teamID], nil
}

func (r *fakeStatsRepo) RecentGamesByTeam(_ context.Context, teamID, limit int) ([]models.RecentGame, error) {
	games := r.recentGames[teamID]
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	topics      map[int][]models.Topic
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return nil, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, _ *models.Tournament) error { return nil }
func (r *fakeTournamentRepo) Delete(_ context.Context, _ int) error                { return nil }

func (r *fakeTournamentRepo) ReplaceTopics(_ context.Context, _ repositories.SQLExecutor, tournamentID int, topicIDs []int) error {
	topics := make([]models.Topic, 0, len(topicIDs))
	for _, id := range topicIDs {
		topics = append(topics, models.Topic{ID: id})
	}
	r.topics[tournamentID] = topics
	return nil
}

func (r *fakeTournamentRepo) AppendTopic(_ context.Context, _ repositories.SQLExecutor, tournamentID, topicID int) error {
	r.topics[tournamentID] = append(r.topics[tournamentID], models.Topic{ID: topicID})
	return nil
}

func (r *fakeTournamentRepo) ListTopics(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Topic, error) {
	return r.topics[tournamentID], nil
}

func (r *fakeTournamentRepo) HasTopic(_ context.Context, _ repositories.SQLExecutor, tournamentID, topicID int) (bool, error) {
	for _, tp := range r.topics[tournamentID] {
		if tp.ID == topicID {
			return true, nil
		}
	}
	return false, nil
}

func TestTeamDetailAssemblesBundle(t *testing.T) {
	statsRepo := &fakeStatsRepo{
		rollups: map[int]*models.TeamWithStats{
			10: {
				Team:        models.Team{ID: 10, Name: "Знатоки", CityID: 1},
				GamesPlayed: 4,
				Wins:        2,
				TotalPoints: 125,
				AvgPoints:   31.25,
			},
		},
		topicStats: map[int][]models.TeamTopicStats{
			10: {
				{TopicID: 101, ShortName: "ИСТ", AvgPoints: 6.5, GamesCount: 4},
				{TopicID: 102, ShortName: "КИН", AvgPoints: 8.2, GamesCount: 3},
				{TopicID: 103, ShortName: "МУЗ", AvgPoints: 8.2, GamesCount: 4},
			},
		},
		seriesStats: map[int][]models.TeamSeriesStats{
			10: {{SeriesID: 1, SeriesName: "Кубок города", Participations: 4, Gold: 2}},
		},
		recentGames: map[int][]models.RecentGame{
			10: {{GameResultID: 1, TournamentID: 5, Date: time.Now(), TotalPoints: 37, Place: 1}},
		},
	}
	svc := NewStatsService(statsRepo, nil, nil, nil)

	detail, err := svc.TeamDetail(context.Background(), 10)
	require.NoError(t, err)

	require.Equal(t, 125.0, detail.Team.TotalPoints)
	// 125 очков это пурпурный пояс, уровень 2.
	require.Equal(t, "Пурпурный", detail.Belt.BeltName)
	require.Equal(t, 2, detail.Belt.Stripes)

	// При равном среднем побеждает тема с большим числом игр.
	require.NotNil(t, detail.BestTopic)
	require.Equal(t, 103, detail.BestTopic.TopicID)

	require.Len(t, detail.SeriesStats, 1)
	require.Len(t, detail.RecentGames, 1)
}

func TestTeamDetailNotFound(t *testing.T) {
	svc := NewStatsService(&fakeStatsRepo{rollups: map[int]*models.TeamWithStats{}}, nil, nil, nil)

	_, err := svc.TeamDetail(context.Background(), 404)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamDetailZeroGamesHasNoBestTopic(t *testing.T) {
	statsRepo := &fakeStatsRepo{
		rollups: map[int]*models.TeamWithStats{
			10: {Team: models.Team{ID: 10, Name: "Новички", CityID: 1}},
		},
	}
	svc := NewStatsService(statsRepo, nil, nil, nil)

	detail, err := svc.TeamDetail(context.Background(), 10)
	require.NoError(t, err)

	require.Nil(t, detail.BestTopic)
	require.Equal(t, 0.0, detail.Team.AvgPoints)
	require.Equal(t, "Белый", detail.Belt.BeltName)
	require.Empty(t, detail.RecentGames)
}

func TestTeamDetailCapsRecentGames(t *testing.T) {
	recent := make([]models.RecentGame, 0, 8)
	for i := 1; i <= 8; i++ {
		recent = append(recent, models.RecentGame{
			GameResultID: i,
			TournamentID: i,
			Date:         time.Now().AddDate(0, 0, -i),
			TotalPoints:  float64(30 - i),
			Place:        1,
		})
	}
	statsRepo := &fakeStatsRepo{
		rollups: map[int]*models.TeamWithStats{
			10: {Team: models.Team{ID: 10, Name: "Знатоки", CityID: 1}, GamesPlayed: 8},
		},
		recentGames: map[int][]models.RecentGame{10: recent},
	}
	svc := NewStatsService(statsRepo, nil, nil, nil)

	detail, err := svc.TeamDetail(context.Background(), 10)
	require.NoError(t, err)

	// Показываем только пять последних игр, свежие первыми.
	require.Len(t, detail.RecentGames, 5)
	require.Equal(t, 1, detail.RecentGames[0].GameResultID)
}

func TestTournamentDetailAlignsTopicColumns(t *testing.T) {
	store := newFakeStore()
	tournamentRepo := &fakeTournamentRepo{
		tournaments: map[int]*models.Tournament{
			1: {ID: 1, Name: "Осенний кубок", Date: time.Now()},
		},
		topics: map[int][]models.Topic{
			1: {{ID: 101, ShortName: "ИСТ"}, {ID: 102, ShortName: "КИН"}, {ID: 103, ShortName: "МУЗ"}, {ID: 104, ShortName: "СПО"}},
		},
	}

	// Команда 10 сыграла все темы, команда 20 пропустила вторую и
	// четвёртую.
	grX := store.addGame(1, 10, dec("5"))
	grX.TotalPoints = 38
	grX.Place = 1
	store.addTopicResult(grX.ID, 101, dec("10"))
	store.addTopicResult(grX.ID, 102, dec("8"))
	store.addTopicResult(grX.ID, 103, dec("12"))
	store.addTopicResult(grX.ID, 104, dec("3"))

	grY := store.addGame(1, 20, dec("0"))
	grY.TotalPoints = 18
	grY.Place = 2
	store.addTopicResult(grY.ID, 101, dec("7"))
	store.addTopicResult(grY.ID, 103, dec("11"))

	svc := NewStatsService(
		&fakeStatsRepo{},
		tournamentRepo,
		&fakeGameResultRepo{store: store},
		&fakeTopicResultRepo{store: store},
	)

	detail, err := svc.TournamentDetail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, detail.Topics, 4)
	require.Len(t, detail.Rows, 2)

	first := detail.Rows[0]
	require.Equal(t, grX.ID, first.GameResultID)
	require.Equal(t, 1, first.Place)
	require.True(t, decimal.NewFromInt(33).Equal(first.PointsBeforeBlackBox))
	// Промежуточный итог берёт только первые три темы турнира.
	require.True(t, decimal.NewFromInt(30).Equal(first.FirstThreeTopicsPoints))

	second := detail.Rows[1]
	require.Equal(t, grY.ID, second.GameResultID)
	require.Len(t, second.TopicPoints, 4)
	require.NotNil(t, second.TopicPoints[0])
	// Пропущенная тема это nil, а не ноль очков.
	require.Nil(t, second.TopicPoints[1])
	require.NotNil(t, second.TopicPoints[2])
	require.Nil(t, second.TopicPoints[3])
	require.True(t, decimal.NewFromInt(18).Equal(second.PointsBeforeBlackBox))
	require.True(t, decimal.NewFromInt(18).Equal(second.FirstThreeTopicsPoints))
}

func TestTournamentDetailNotFound(t *testing.T) {
	svc := NewStatsService(
		&fakeStatsRepo{},
		&fakeTournamentRepo{tournaments: map[int]*models.Tournament{}},
		nil,
		nil,
	)

	_, err := svc.TournamentDetail(context.Background(), 404)
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
