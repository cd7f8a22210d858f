package routes

import (
	"net/http"

	"github.com/brainring/rating-system/handlers"
	"github.com/brainring/rating-system/middleware"
	"github.com/brainring/rating-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes собирает маршрутизатор. Просмотр рейтингов публичный,
// все мутации закрыты авторизацией admin/editor.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	cityHandler *handlers.CityHandler,
	seriesHandler *handlers.SeriesHandler,
	topicHandler *handlers.TopicHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	resultHandler *handlers.ResultHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticated := middleware.Authenticate(jwtSecret)
	editors := middleware.Authorize(models.RoleAdmin, models.RoleEditor)
	admins := middleware.Authorize(models.RoleAdmin)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/cities", func(r chi.Router) {
		r.Get("/", cityHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Post("/", cityHandler.Create)
			r.Put("/{cityID}", cityHandler.Update)
			r.Delete("/{cityID}", cityHandler.Delete)
		})
	})

	router.Route("/series", func(r chi.Router) {
		r.Get("/", seriesHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Post("/", seriesHandler.Create)
			r.Put("/{seriesID}", seriesHandler.Update)
			r.Delete("/{seriesID}", seriesHandler.Delete)
		})
	})

	router.Route("/topics", func(r chi.Router) {
		r.Get("/", topicHandler.List)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Post("/", topicHandler.Create)
			r.Put("/{topicID}", topicHandler.Update)
			r.Delete("/{topicID}", topicHandler.Delete)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Post("/", teamHandler.Create)
			r.Put("/{teamID}", teamHandler.Update)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
		})
		r.With(authenticated, admins).Delete("/{teamID}", teamHandler.Delete)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Put("/{tournamentID}/topics", tournamentHandler.SetTopics)
			r.Post("/{tournamentID}/topics", tournamentHandler.AppendTopic)
			r.Post("/{tournamentID}/results", resultHandler.CreateGameResult)
		})
		r.With(authenticated, admins).Delete("/{tournamentID}", tournamentHandler.Delete)
	})

	router.Route("/results", func(r chi.Router) {
		r.Get("/{resultID}", resultHandler.GetGameResult)
		r.Group(func(r chi.Router) {
			r.Use(authenticated, editors)
			r.Put("/{resultID}", resultHandler.UpdateGameResult)
			r.Delete("/{resultID}", resultHandler.DeleteGameResult)
			r.Post("/{resultID}/topics", resultHandler.CreateTopicResult)
		})
	})

	router.Route("/topic-results", func(r chi.Router) {
		r.Use(authenticated, editors)
		r.Put("/{topicResultID}", resultHandler.UpdateTopicResult)
		r.Delete("/{topicResultID}", resultHandler.DeleteTopicResult)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
