package handlers

import (
	"net/http"

	"github.com/brainring/rating-system/services"
)

// Хендлеры справочников. Чтение публичное, мутации за авторизацией.

type CityHandler struct {
	cityService services.CityService
}

func NewCityHandler(cityService services.CityService) *CityHandler {
	return &CityHandler{cityService: cityService}
}

func (h *CityHandler) List(w http.ResponseWriter, r *http.Request) {
	cities, err := h.cityService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"cities": cities}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	city, err := h.cityService.Create(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"city": city}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "cityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	city, err := h.cityService.Update(r.Context(), id, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"city": city}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "cityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.cityService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SeriesHandler struct {
	seriesService services.SeriesService
}

func NewSeriesHandler(seriesService services.SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesService: seriesService}
}

func (h *SeriesHandler) List(w http.ResponseWriter, r *http.Request) {
	series, err := h.seriesService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.SeriesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	series, err := h.seriesService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"series": series}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "seriesID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.seriesService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type TopicHandler struct {
	topicService services.TopicService
}

func NewTopicHandler(topicService services.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topicService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topics": topics}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.TopicInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	topic, err := h.topicService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"topic": topic}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TopicHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "topicID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.TopicInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	topic, err := h.topicService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topic": topic}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "topicID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.topicService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
