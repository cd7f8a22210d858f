package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brainring/rating-system/models"
	"github.com/brainring/rating-system/repositories"
	"github.com/brainring/rating-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// stubTournamentService отдаёт заранее заданные темы либо ошибку,
// запоминая последний вызов AppendTopic.
type stubTournamentService struct {
	topics []models.Topic
	err    error

	appendedTournamentID int
	appendedTopicID      int
}

func (s *stubTournamentService) Create(_ context.Context, _ services.CreateTournamentInput) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) GetByID(_ context.Context, _ int) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) List(_ context.Context, _ repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Update(_ context.Context, _ int, _ services.UpdateTournamentInput) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Delete(_ context.Context, _ int) error { return nil }

func (s *stubTournamentService) SetTopics(_ context.Context, _ int, _ []int) ([]models.Topic, error) {
	return s.topics, s.err
}

func (s *stubTournamentService) AppendTopic(_ context.Context, tournamentID, topicID int) ([]models.Topic, error) {
	s.appendedTournamentID = tournamentID
	s.appendedTopicID = topicID
	if s.err != nil {
		return nil, s.err
	}
	return s.topics, nil
}

func newTournamentRouter(svc services.TournamentService) http.Handler {
	h := NewTournamentHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/tournaments/{tournamentID}/topics", h.AppendTopic)
	return r
}

func TestAppendTopicReturnsUpdatedList(t *testing.T) {
	svc := &stubTournamentService{
		topics: []models.Topic{
			{ID: 101, ShortName: "ИСТ"},
			{ID: 102, ShortName: "КИН"},
			{ID: 105, ShortName: "СПО"},
		},
	}
	router := newTournamentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tournaments/7/topics", strings.NewReader(`{"topic_id": 105}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 7, svc.appendedTournamentID)
	require.Equal(t, 105, svc.appendedTopicID)

	var body struct {
		Topics []models.Topic `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Topics, 3)
	require.Equal(t, 105, body.Topics[2].ID)
}

func TestAppendTopicLockedTournament(t *testing.T) {
	svc := &stubTournamentService{err: services.ErrTournamentTopicsLocked}
	router := newTournamentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tournaments/7/topics", strings.NewReader(`{"topic_id": 105}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppendTopicRejectsBadID(t *testing.T) {
	router := newTournamentRouter(&stubTournamentService{})

	req := httptest.NewRequest(http.MethodPost, "/tournaments/abc/topics", strings.NewReader(`{"topic_id": 105}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
