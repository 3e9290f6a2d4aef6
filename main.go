// This is the main entry point of labconsole, the operator console for the
// lab reservation system. It loads configuration, opens the session storage,
// builds the API client and the services on top of it, restores the saved
// session and then hands over to the command line.
//
// `labconsole serve` starts the console server; the other commands work
// against the same saved session from a terminal.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/user/labconsole/auth"
	"github.com/user/labconsole/config"
	"github.com/user/labconsole/console"
	"github.com/user/labconsole/courses"
	"github.com/user/labconsole/equipments"
	"github.com/user/labconsole/export"
	"github.com/user/labconsole/httpclient"
	"github.com/user/labconsole/labs"
	"github.com/user/labconsole/logger"
	"github.com/user/labconsole/reservations"
	"github.com/user/labconsole/semesters"
	"github.com/user/labconsole/session"
	"github.com/user/labconsole/storage"
	"github.com/user/labconsole/users"
)

// app holds everything the commands need.
type app struct {
	cfg      *config.AppConfig
	log      *logrus.Logger
	storage  storage.Storage
	store    *session.Store
	services console.Services
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	lg := logger.New(cfg.Log)

	kv, err := storage.New(ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}
	persisted := session.NewPersisted(kv, lg)

	client, err := httpclient.New(cfg.API, persisted, lg)
	if err != nil {
		kv.Close()
		return nil, err
	}
	svc := console.Services{
		Auth:         auth.NewAuthService(client),
		Users:        users.NewUserService(client, cfg.API.ProfilePath, users.Scope(cfg.API.UserScope)),
		Reservations: reservations.NewReservationService(client),
		Courses:      courses.NewCourseService(client),
		Labs:         labs.NewLabService(client),
		Equipments:   equipments.NewEquipmentService(client),
		Semesters:    semesters.NewSemesterService(client),
		Export:       export.NewExportService(client),
	}

	store := session.NewStore(persisted, svc.Auth, svc.Users, lg)
	if err := store.Restore(ctx); err != nil {
		kv.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &app{cfg: cfg, log: lg, storage: kv, store: store, services: svc}, nil
}

func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		a.log.WithError(err).Warn("closing session storage")
	}
}

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "labconsole:", err)
		os.Exit(1)
	}
}

// withApp builds the app for a command and closes it afterwards.
func withApp(fn func(c *cli.Context, a *app) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApp(c.Context)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}
