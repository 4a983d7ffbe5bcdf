package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/sriramramnath/EducationOS/internal/auth"
	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/instrumentation"
	"github.com/sriramramnath/EducationOS/internal/ratelimit"
	"github.com/sriramramnath/EducationOS/internal/store"
)

// Server holds the dependencies of the API handlers.
type Server struct {
	store    *store.Store
	resolver *google.Resolver
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
	health   *HealthChecker

	trustedProxies []string
	now            func() time.Time
}

// New creates a Server. metrics may be a disabled recorder; it must not
// be nil-dereferenced by handlers, which the instrumentation package
// guarantees.
func New(st *store.Store, resolver *google.Resolver, metrics *instrumentation.Metrics, logger *slog.Logger, trustedProxies []string) *Server {
	return &Server{
		store:          st,
		resolver:       resolver,
		metrics:        metrics,
		logger:         logger,
		health:         NewHealthChecker(st),
		trustedProxies: trustedProxies,
		now:            time.Now,
	}
}

// Health exposes the readiness switch so the serve command can flip it
// during shutdown.
func (s *Server) Health() *HealthChecker {
	return s.health
}

// Router builds the API route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	limiter := ratelimit.New(rate.Limit(10), 20, 5*time.Minute, s.trustedProxies)

	// Forwarded-for headers are interpreted by the rate limiter alone,
	// which checks them against the trusted proxy list. A blanket
	// RealIP rewrite would let direct clients pick their own limit
	// bucket.
	r.Use(middleware.RequestID)
	r.Use(s.recoverer)
	r.Use(s.observe)

	r.Method(http.MethodGet, "/healthz", s.health.LivenessHandler())
	r.Method(http.MethodGet, "/readyz", s.health.ReadinessHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware())
		r.Use(auth.Middleware(s.store.Sessions, s.logger))

		r.Get("/emails", s.getEmails)
		r.Get("/emails/labels", s.getEmailLabels)

		r.Get("/calendar", s.getCalendarEvents)
		r.Get("/calendar/date", s.getCalendarEventsForDate)
		r.Get("/calendar/calendars", s.getCalendars)

		r.Get("/tasks", s.getTasks)
		r.Get("/tasks/lists", s.getTaskLists)
		r.Post("/tasks", s.createTask)
		r.Put("/tasks/{id}", s.updateTask)
		r.Delete("/tasks/{id}", s.deleteTask)

		r.Get("/goals", s.getGoals)
		r.Post("/goals", s.createGoal)
		r.Put("/goals/{id}", s.updateGoal)
		r.Delete("/goals/{id}", s.deleteGoal)

		r.Get("/achievements", s.getAchievements)

		r.Get("/time-tracking", s.getTimeEntries)
		r.Post("/time-tracking", s.createTimeEntry)
		r.Put("/time-tracking/{id}", s.updateTimeEntry)
		r.Delete("/time-tracking/{id}", s.deleteTimeEntry)

		r.Get("/habits", s.getHabits)
		r.Post("/habits", s.createHabit)
		r.Put("/habits/{id}", s.updateHabit)
		r.Delete("/habits/{id}", s.deleteHabit)
		r.Get("/habits/{id}/completions", s.getHabitCompletions)
		r.Post("/habits/{id}/toggle", s.toggleHabitCompletion)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
