package handlers

import (
	"net/http"

	"github.com/brainring/rating-system/services"
)

// ResultHandler — административный ввод результатов. Любая мутация
// здесь запускает пересчёт сумм, мест и достижений турнира.
type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

func (h *ResultHandler) CreateGameResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateGameResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	gr, err := h.resultService.CreateGameResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game_result": gr}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) GetGameResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gr, err := h.resultService.GetGameResult(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_result": gr}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) UpdateGameResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.UpdateGameResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	gr, err := h.resultService.UpdateGameResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"game_result": gr}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) DeleteGameResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.resultService.DeleteGameResult(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResultHandler) CreateTopicResult(w http.ResponseWriter, r *http.Request) {
	gameResultID, err := readIDParam(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateTopicResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.GameResultID = gameResultID

	tr, err := h.resultService.CreateTopicResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"topic_result": tr}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) UpdateTopicResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "topicResultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.UpdateTopicResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tr, err := h.resultService.UpdateTopicResult(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topic_result": tr}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) DeleteTopicResult(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "topicResultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.resultService.DeleteTopicResult(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
