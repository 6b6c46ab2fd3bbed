package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/clinicbase/patients-be/internal/api/handlers"
	"github.com/clinicbase/patients-be/internal/auth"
	"github.com/clinicbase/patients-be/internal/services"
	"github.com/clinicbase/patients-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, codec *auth.TokenCodec, userService services.UserServiceProvider, patientService services.PatientServiceProvider, eventService services.EventServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The public surface uses trailing slashes (/api/patients/).
	r.Use(middleware.StripSlashes)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, codec)
	patientHandler := handlers.NewPatientHandler(patientService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, codec)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/login/refresh", authHandler.Refresh)

		// Live audit feed; authenticates via query parameter.
		r.Get("/events/ws", wsHandler.Serve)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(codec))

			r.Route("/patients", func(r chi.Router) {
				r.With(auth.RequireRecordManager()).Get("/", patientHandler.List)
				r.With(auth.RequireRecordManager()).Post("/", patientHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", patientHandler.Get)
					r.With(auth.RequireRecordManager()).Put("/", patientHandler.Update)
					r.With(auth.RequireRecordManager()).Delete("/", patientHandler.Delete)
				})
			})

			r.With(auth.RequireRecordManager()).Get("/events", eventHandler.GetRecent)
		})
	})

	return r
}
