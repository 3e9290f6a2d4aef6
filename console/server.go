// Package console is the local HTTP server operators point their browser or
// scripts at. Every route is a screen of the administration console, guarded
// by the navigation guard and rendered as a JSON page.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/user/labconsole/auth"
	"github.com/user/labconsole/config"
	"github.com/user/labconsole/courses"
	"github.com/user/labconsole/equipments"
	"github.com/user/labconsole/events"
	"github.com/user/labconsole/export"
	"github.com/user/labconsole/labs"
	"github.com/user/labconsole/reservations"
	"github.com/user/labconsole/router"
	"github.com/user/labconsole/semesters"
	"github.com/user/labconsole/session"
	"github.com/user/labconsole/users"
)

// Services are the API wrappers the screens call.
type Services struct {
	Auth         *auth.AuthService
	Users        *users.UserService
	Reservations *reservations.ReservationService
	Courses      *courses.CourseService
	Labs         *labs.LabService
	Equipments   *equipments.EquipmentService
	Semesters    *semesters.SemesterService
	Export       *export.ExportService
}

// Server is the console.
type Server struct {
	cfg     *config.ConsoleConfig
	store   *session.Store
	guard   *router.Guard
	events  *events.Broadcaster
	log     *logrus.Logger
	handler http.Handler
}

// NewServer wires every screen behind the guard.
func NewServer(cfg *config.ConsoleConfig, store *session.Store, svc Services, log *logrus.Logger) *Server {
	guard := router.NewGuard(store, router.Options{
		AppName:          cfg.AppName,
		RedirectRegister: cfg.RedirectRegister,
	}, log)
	s := &Server{
		cfg:    cfg,
		store:  store,
		guard:  guard,
		events: events.NewBroadcaster(log),
		log:    log,
	}
	store.OnChange(s.publishChange)
	s.handler = s.routes(svc)
	return s
}

// EventsPath streams session changes to the console's clients.
const EventsPath = "/session/events"

func (s *Server) publishChange(c session.Change) {
	data, err := json.Marshal(c)
	if err != nil {
		s.log.WithError(err).Error("encoding session change")
		return
	}
	n := s.events.Publish(events.NewEvent(string(c.Kind), string(data)))
	s.log.WithFields(logrus.Fields{"change": c.Kind, "clients": n}).Debug("session change published")
}

// Handler returns the console's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(recoverer(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Page-Title", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	g := s.guard
	sessionHandlers := session.NewHandlers(s.store)
	authHandlers := auth.NewHandlers(svc.Auth)

	// The event stream stays open, so it is mounted outside the timeout.
	r.With(g.Middleware(router.Session)).Get(EventsPath, s.events.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.screens(r, svc, sessionHandlers, authHandlers)
	})

	notFound := router.Route{Name: "not-found", Title: "Not found"}
	r.NotFound(g.Middleware(notFound)(http.HandlerFunc(handleNotFound)).ServeHTTP)

	return r
}

func (s *Server) screens(r chi.Router, svc Services, sessionHandlers *session.Handlers, authHandlers *auth.Handlers) {
	g := s.guard

	r.With(g.Middleware(router.Dashboard)).Get("/", s.handleDashboard(svc.Semesters))

	r.Group(func(r chi.Router) {
		r.Use(g.Middleware(router.Login))
		r.Get(router.Login.Path, sessionHandlers.HandleLoginPage())
		r.Post(router.Login.Path, sessionHandlers.HandleLogin())
	})
	r.With(g.Middleware(router.Logout)).Post(router.Logout.Path, sessionHandlers.HandleLogout())
	r.With(g.Middleware(router.Session)).Get(router.Session.Path, sessionHandlers.HandleSession())

	r.Group(func(r chi.Router) {
		r.Use(g.Middleware(router.Register))
		r.Get(router.Register.Path, authHandlers.HandleRegisterPage())
		r.Post(router.Register.Path, authHandlers.HandleRegister())
	})
	r.Group(func(r chi.Router) {
		r.Use(g.Middleware(router.ResetPassword))
		r.Get(router.ResetPassword.Path, authHandlers.HandleFormPage("account", "phone", "new_password"))
		r.Post(router.ResetPassword.Path, authHandlers.HandleResetPassword())
	})
	r.Group(func(r chi.Router) {
		r.Use(g.Middleware(router.ChangePassword))
		r.Get(router.ChangePassword.Path, authHandlers.HandleFormPage("old_password", "new_password"))
		r.Post(router.ChangePassword.Path, authHandlers.HandleChangePassword())
	})

	r.With(g.Middleware(router.Users)).Route(router.Users.Path, users.NewUserHandlers(svc.Users).RegisterRoutes)
	r.With(g.Middleware(router.Reservations)).Route(router.Reservations.Path, reservations.NewHandlers(svc.Reservations).RegisterRoutes)
	r.With(g.Middleware(router.Courses)).Route(router.Courses.Path, courses.NewHandlers(svc.Courses).RegisterRoutes)
	r.With(g.Middleware(router.Labs)).Route(router.Labs.Path, labs.NewHandlers(svc.Labs).RegisterRoutes)
	r.With(g.Middleware(router.Equipments)).Route(router.Equipments.Path, equipments.NewHandlers(svc.Equipments).RegisterRoutes)
	r.With(g.Middleware(router.Semesters)).Route(router.Semesters.Path, semesters.NewHandlers(svc.Semesters).RegisterRoutes)
	r.With(g.Middleware(router.Export)).Route(router.Export.Path, export.NewHandlers(svc.Export).RegisterRoutes)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("console shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("console shutdown: %w", err)
	}
	s.log.Info("console stopped")
	return nil
}
