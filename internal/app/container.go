package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteer-hub/internal/config"
	"volunteer-hub/internal/database"
	dbpostgres "volunteer-hub/internal/database/postgres"
	"volunteer-hub/internal/infrastructure/cache"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/jwt"
	"volunteer-hub/internal/repository"
	"volunteer-hub/internal/scheduler"
	"volunteer-hub/internal/session"
	ucadmin "volunteer-hub/internal/usecase/admin"
	ucauth "volunteer-hub/internal/usecase/auth"
	uccontact "volunteer-hub/internal/usecase/contact"
	ucopp "volunteer-hub/internal/usecase/opportunity"
	ucuser "volunteer-hub/internal/usecase/user"
	"volunteer-hub/internal/ws"

	"go.uber.org/zap"
)

const contactWindow = time.Minute

type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Redis *cache.Redis

	JWT      *jwt.HMACService
	Sessions *session.Store
	Listing  *listing.Cache
	Hub      *ws.Hub

	Auth          *ucauth.Service
	Users         *ucuser.Service
	Opportunities *ucopp.Service
	Admin         *ucadmin.Service
	Contact       *uccontact.Service

	Scheduler *scheduler.Scheduler
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	rdb, err := cache.NewRedis(connCtx, cfg.Redis.URL, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db, Redis: rdb}

	userRepo := repository.NewPostgresUserRepository(db)
	oppRepo := repository.NewPostgresOpportunityRepository(db)
	contactRepo := repository.NewPostgresContactRepository(db)

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)
	c.Sessions = session.NewStore(rdb, cfg.Redis.SessionTTL)
	resets := session.NewResetTokens(rdb, cfg.Redis.ResetTTL)

	c.Listing = listing.NewCache(oppRepo.ListAll, cfg.Listing.Freshness)
	c.Hub = ws.NewHub(logger.Named("ws"))

	c.Auth = ucauth.NewService(userRepo, c.JWT, c.Sessions, resets, ucauth.NewLogMailer(logger.Named("mail"), cfg.App.PublicURL), logger)
	c.Users = ucuser.NewService(userRepo, c.Sessions, logger)
	c.Opportunities = ucopp.NewService(oppRepo, c.Listing, ws.NewNotifier(c.Hub), cfg.Listing.PageSize, logger)
	c.Admin = ucadmin.NewService(userRepo, contactRepo, logger)
	c.Contact = uccontact.NewService(contactRepo, rdb, contactWindow, logger)

	c.Scheduler = scheduler.New(scheduler.RefreshFunc(func(ctx context.Context) (int, error) {
		opps, err := c.Listing.Reload(ctx)
		return len(opps), err
	}), cfg.Scheduler.WarmSpec, logger.Named("scheduler"))

	return c, nil
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.Hub.Run(ctx)
	if err := c.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
