package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/tournament-brackets/docs" // регистрирует swagger-спецификацию
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Config carries everything the router needs besides the handlers.
type Config struct {
	JWTSecret      []byte
	Logger         *slog.Logger
	MetricsHandler http.Handler
	AllowedOrigins []string
}

func SetupRoutes(
	r *chi.Mux,
	cfg Config,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket connections live longer than any request timeout.
	r.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	r.Route("/tournaments", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/standings", tournamentHandler.GetStandingsHandler)
		r.Get("/{tournamentID}/bracket", tournamentHandler.GetBracketHandler)
		r.Get("/{tournamentID}/board", tournamentHandler.GetBoardHandler)

		// Изменения доступны только организаторам
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWTSecret, cfg.Logger))
			r.Use(middleware.RequireRole(middleware.RoleOrganizer, middleware.RoleAdmin))

			r.Post("/", tournamentHandler.CreateHandler)
			r.Post("/{tournamentID}/schedule", tournamentHandler.ScheduleHandler)
			r.Post("/{tournamentID}/matches/{matchID}/result", tournamentHandler.RecordResultHandler)
			r.Post("/{tournamentID}/standings/recompute", tournamentHandler.RecomputeStandingsHandler)
			r.Post("/{tournamentID}/bracket", tournamentHandler.BuildBracketHandler)
		})
	})
}
