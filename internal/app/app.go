package app

import (
	"context"

	"homerent/config"
	"homerent/internal/controllers"
	"homerent/internal/database"
	"homerent/internal/events"
	"homerent/internal/handlers/middleware"
	"homerent/internal/jobs"
	"homerent/internal/logger"
	"homerent/internal/repositories"
	"homerent/internal/services"
	"homerent/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	svc, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	ctrls := controllers.New(svc, repos, eventBus, config, db)
	mw := middleware.New(db, eventBus, config, repos)

	websocket, err := websockets.New(db, eventBus, svc.Token, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if config.SchedulerEnabled {
		// Sweeps unpaid holds so an abandoned booking never blocks a
		// house for longer than one sweep interval past its deadline.
		holdExpiryJob := jobs.NewHoldExpiryJob(
			repos,
			svc.Transaction,
			eventBus,
			config,
			services.EveryMinute,
		)
		if err := svc.Scheduler.AddJob(holdExpiryJob); err != nil {
			return &App{}, log.Err("failed to register hold expiry job", err)
		}
		log.Info("Registered booking hold expiry job with scheduler")

		if err := svc.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Middleware:  mw,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    svc,
		Repos:       repos,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Token,
		a.Services.Mailer,
		a.Services.HouseLock,
		a.Repos.User,
		a.Repos.House,
		a.Repos.Booking,
		a.Repos.RentPayment,
		a.Repos.Visit,
		a.Repos.Support,
		a.Controllers.Auth,
		a.Controllers.House,
		a.Controllers.Booking,
		a.Controllers.AdminSettlement,
		a.Controllers.AdminUser,
		a.Controllers.RentPayment,
		a.Controllers.Visit,
		a.Controllers.Support,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
