package services

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Фейковое хранилище в памяти. Повторяет контракт Postgres-репозиториев
// настолько, насколько это нужно цепочке пересчёта.
type fakeStore struct {
	games        map[int]*models.GameResult
	topicResults map[int]*models.TopicResult
	achievements []*models.Achievement
	nextID       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		games:        make(map[int]*models.GameResult),
		topicResults: make(map[int]*models.TopicResult),
		nextID:       1,
	}
}

func (s *fakeStore) addGame(tournamentID, teamID int, blackBox decimal.Decimal) *models.GameResult {
	gr := &models.GameResult{
		ID:             s.nextID,
		TournamentID:   tournamentID,
		TeamID:         teamID,
		BlackBoxPoints: blackBox,
	}
	s.nextID++
	s.games[gr.ID] = gr
	return gr
}

func (s *fakeStore) addTopicResult(gameResultID, topicID int, points decimal.Decimal) *models.TopicResult {
	tr := &models.TopicResult{
		ID:           s.nextID,
		GameResultID: gameResultID,
		TopicID:      topicID,
		Points:       points,
	}
	s.nextID++
	s.topicResults[tr.ID] = tr
	return tr
}

type fakeGameResultRepo struct {
	store *fakeStore
}

func (r *fakeGameResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, gr *models.GameResult) error {
	gr.ID = r.store.nextID
	r.store.nextID++
	r.store.games[gr.ID] = gr
	return nil
}

func (r *fakeGameResultRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.GameResult, error) {
	gr, ok := r.store.games[id]
	if !ok {
		return nil, repositories.ErrGameResultNotFound
	}
	return gr, nil
}

func (r *fakeGameResultRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, byTotalDesc bool) ([]*models.GameResult, error) {
	results := make([]*models.GameResult, 0)
	for _, gr := range r.store.games {
		if gr.TournamentID == tournamentID {
			results = append(results, gr)
		}
	}
	if byTotalDesc {
		sort.Slice(results, func(i, j int) bool {
			if results[i].TotalPoints != results[j].TotalPoints {
				return results[i].TotalPoints > results[j].TotalPoints
			}
			return results[i].TeamID < results[j].TeamID
		})
	}
	return results, nil
}

func (r *fakeGameResultRepo) Update(_ context.Context, _ repositories.SQLExecutor, gr *models.GameResult) error {
	stored, ok := r.store.games[gr.ID]
	if !ok {
		return repositories.ErrGameResultNotFound
	}
	stored.BlackBoxAnswer = gr.BlackBoxAnswer
	stored.BlackBoxPoints = gr.BlackBoxPoints
	return nil
}

func (r *fakeGameResultRepo) UpdateTotalPoints(_ context.Context, _ repositories.SQLExecutor, id int, totalPoints float64) error {
	gr, ok := r.store.games[id]
	if !ok {
		return repositories.ErrGameResultNotFound
	}
	gr.TotalPoints = totalPoints
	return nil
}

func (r *fakeGameResultRepo) UpdatePlace(_ context.Context, _ repositories.SQLExecutor, id int, place int) error {
	gr, ok := r.store.games[id]
	if !ok {
		return repositories.ErrGameResultNotFound
	}
	gr.Place = place
	return nil
}

func (r *fakeGameResultRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.games[id]; !ok {
		return repositories.ErrGameResultNotFound
	}
	delete(r.store.games, id)
	for trID, tr := range r.store.topicResults {
		if tr.GameResultID == id {
			delete(r.store.topicResults, trID)
		}
	}
	return nil
}

func (r *fakeGameResultRepo) CountByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, gr := range r.store.games {
		if gr.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

type fakeTopicResultRepo struct {
	store *fakeStore
}

func (r *fakeTopicResultRepo) Create(_ context.Context, _ repositories.SQLExecutor, tr *models.TopicResult) error {
	tr.ID = r.store.nextID
	r.store.nextID++
	r.store.topicResults[tr.ID] = tr
	return nil
}

func (r *fakeTopicResultRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.TopicResult, error) {
	tr, ok := r.store.topicResults[id]
	if !ok {
		return nil, repositories.ErrTopicResultNotFound
	}
	return tr, nil
}

func (r *fakeTopicResultRepo) ListByGameResult(_ context.Context, _ repositories.SQLExecutor, gameResultID int) ([]models.TopicResult, error) {
	results := make([]models.TopicResult, 0)
	for _, tr := range r.store.topicResults {
		if tr.GameResultID == gameResultID {
			results = append(results, *tr)
		}
	}
	return results, nil
}

func (r *fakeTopicResultRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.TopicResult, error) {
	results := make([]models.TopicResult, 0)
	for _, tr := range r.store.topicResults {
		gr, ok := r.store.games[tr.GameResultID]
		if ok && gr.TournamentID == tournamentID {
			results = append(results, *tr)
		}
	}
	return results, nil
}

func (r *fakeTopicResultRepo) Update(_ context.Context, _ repositories.SQLExecutor, tr *models.TopicResult) error {
	stored, ok := r.store.topicResults[tr.ID]
	if !ok {
		return repositories.ErrTopicResultNotFound
	}
	stored.Points = tr.Points
	return nil
}

func (r *fakeTopicResultRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.topicResults[id]; !ok {
		return repositories.ErrTopicResultNotFound
	}
	delete(r.store.topicResults, id)
	return nil
}

func (r *fakeTopicResultRepo) SumPointsByGameResult(_ context.Context, _ repositories.SQLExecutor, gameResultID int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tr := range r.store.topicResults {
		if tr.GameResultID == gameResultID {
			sum = sum.Add(tr.Points)
		}
	}
	return sum, nil
}

type fakeAchievementRepo struct {
	store *fakeStore
}

func (r *fakeAchievementRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := r.store.achievements[:0]
	for _, a := range r.store.achievements {
		if a.TournamentID != tournamentID {
			kept = append(kept, a)
		}
	}
	r.store.achievements = kept
	return nil
}

func (r *fakeAchievementRepo) BatchCreate(_ context.Context, _ repositories.SQLExecutor, achievements []*models.Achievement) error {
	for _, a := range achievements {
		a.ID = r.store.nextID
		r.store.nextID++
		r.store.achievements = append(r.store.achievements, a)
	}
	return nil
}

func (r *fakeAchievementRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Achievement, error) {
	results := make([]models.Achievement, 0)
	for _, a := range r.store.achievements {
		if a.TournamentID == tournamentID {
			results = append(results, *a)
		}
	}
	return results, nil
}

func (r *fakeAchievementRepo) WinnersByTournaments(_ context.Context, tournamentIDs []int) (map[int][]models.Team, error) {
	winners := make(map[int][]models.Team)
	for _, a := range r.store.achievements {
		if a.Place != 1 {
			continue
		}
		for _, id := range tournamentIDs {
			if a.TournamentID == id {
				winners[id] = append(winners[id], models.Team{ID: a.TeamID})
			}
		}
	}
	return winners, nil
}

func newRecalcFixture() (*fakeStore, *RecalcService) {
	store := newFakeStore()
	svc := NewRecalcService(
		&fakeGameResultRepo{store: store},
		&fakeTopicResultRepo{store: store},
		&fakeAchievementRepo{store: store},
		slog.Default(),
	)
	return store, svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func podiumByTeam(store *fakeStore, tournamentID int) map[int]int {
	podium := make(map[int]int)
	for _, a := range store.achievements {
		if a.TournamentID == tournamentID {
			podium[a.TeamID] = a.Place
		}
	}
	return podium
}

func TestTopicResultChangedRecalculatesTotal(t *testing.T) {
	store, svc := newRecalcFixture()

	gr := store.addGame(1, 10, dec("7"))
	store.addTopicResult(gr.ID, 101, dec("12.5"))
	store.addTopicResult(gr.ID, 102, dec("17.5"))

	require.NoError(t, svc.TopicResultChanged(context.Background(), nil, gr.ID))

	// 12.5 + 17.5 + 7 чёрный ящик
	require.Equal(t, 37.0, store.games[gr.ID].TotalPoints)
	require.Equal(t, 1, store.games[gr.ID].Place)
}

func TestStandingsFlipAfterTopicResultRemoval(t *testing.T) {
	store, svc := newRecalcFixture()

	// Команда X: 30 по темам + 7 за чёрный ящик = 37, команда Y: 30.
	grX := store.addGame(1, 10, dec("7"))
	trA := store.addTopicResult(grX.ID, 101, dec("10"))
	store.addTopicResult(grX.ID, 102, dec("20"))

	grY := store.addGame(1, 20, dec("0"))
	store.addTopicResult(grY.ID, 101, dec("30"))

	ctx := context.Background()
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grX.ID))
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grY.ID))

	require.Equal(t, 37.0, store.games[grX.ID].TotalPoints)
	require.Equal(t, 1, store.games[grX.ID].Place)
	require.Equal(t, 2, store.games[grY.ID].Place)

	// Результат X по теме A удалён: X опускается до 27, Y выходит вперёд.
	delete(store.topicResults, trA.ID)
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grX.ID))

	require.Equal(t, 27.0, store.games[grX.ID].TotalPoints)
	require.Equal(t, 2, store.games[grX.ID].Place)
	require.Equal(t, 1, store.games[grY.ID].Place)

	podium := podiumByTeam(store, 1)
	require.Equal(t, map[int]int{20: 1, 10: 2}, podium)
}

func TestTiedTeamsShareSkipCountedPlaces(t *testing.T) {
	store, svc := newRecalcFixture()

	grA := store.addGame(1, 10, dec("0"))
	store.addTopicResult(grA.ID, 101, dec("50"))
	grB := store.addGame(1, 20, dec("0"))
	store.addTopicResult(grB.ID, 101, dec("50"))
	grC := store.addGame(1, 30, dec("0"))
	store.addTopicResult(grC.ID, 101, dec("40"))

	ctx := context.Background()
	for _, id := range []int{grA.ID, grB.ID, grC.ID} {
		require.NoError(t, svc.TopicResultChanged(ctx, nil, id))
	}

	require.Equal(t, 1, store.games[grA.ID].Place)
	require.Equal(t, 1, store.games[grB.ID].Place)
	require.Equal(t, 3, store.games[grC.ID].Place)

	podium := podiumByTeam(store, 1)
	require.Equal(t, map[int]int{10: 1, 20: 1, 30: 3}, podium)
}

func TestAchievementsLimitedToPodium(t *testing.T) {
	store, svc := newRecalcFixture()

	totals := []string{"50", "40", "30", "20", "10"}
	var lastID int
	for i, total := range totals {
		gr := store.addGame(1, 10+i, dec("0"))
		store.addTopicResult(gr.ID, 101, dec(total))
		lastID = gr.ID
	}

	require.NoError(t, svc.TopicResultChanged(context.Background(), nil, lastID))

	require.Len(t, store.achievements, 3)
	for _, a := range store.achievements {
		require.LessOrEqual(t, a.Place, 3)
	}
}

func TestRecalcIsIdempotent(t *testing.T) {
	store, svc := newRecalcFixture()

	grA := store.addGame(1, 10, dec("1.5"))
	store.addTopicResult(grA.ID, 101, dec("20"))
	grB := store.addGame(1, 20, dec("0"))
	store.addTopicResult(grB.ID, 101, dec("15"))

	ctx := context.Background()
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grA.ID))
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grB.ID))

	first := podiumByTeam(store, 1)
	totalsA := store.games[grA.ID].TotalPoints

	// Повторный пересчёт без изменения данных.
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grA.ID))

	require.Equal(t, totalsA, store.games[grA.ID].TotalPoints)
	require.Equal(t, first, podiumByTeam(store, 1))
	require.Len(t, store.achievements, 2)
}

func TestGameResultDeletedRecalculatesRemaining(t *testing.T) {
	store, svc := newRecalcFixture()

	grA := store.addGame(1, 10, dec("0"))
	store.addTopicResult(grA.ID, 101, dec("50"))
	grB := store.addGame(1, 20, dec("0"))
	store.addTopicResult(grB.ID, 101, dec("40"))

	ctx := context.Background()
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grA.ID))
	require.NoError(t, svc.TopicResultChanged(ctx, nil, grB.ID))
	require.Equal(t, 2, store.games[grB.ID].Place)

	// Победитель снимается с турнира целиком.
	repo := &fakeGameResultRepo{store: store}
	require.NoError(t, repo.Delete(ctx, nil, grA.ID))
	require.NoError(t, svc.GameResultDeleted(ctx, nil, 1))

	require.Equal(t, 1, store.games[grB.ID].Place)
	require.Equal(t, map[int]int{20: 1}, podiumByTeam(store, 1))
}

func TestBlackBoxOnlyTotalUsesDecimalSum(t *testing.T) {
	store, svc := newRecalcFixture()

	// 0.1 + 0.2 в decimal дают ровно 0.3 до конвертации во float.
	gr := store.addGame(1, 10, dec("0"))
	store.addTopicResult(gr.ID, 101, dec("0.1"))
	store.addTopicResult(gr.ID, 102, dec("0.2"))

	require.NoError(t, svc.TopicResultChanged(context.Background(), nil, gr.ID))
	require.Equal(t, 0.3, store.games[gr.ID].TotalPoints)
}
