package microservices

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Temutjin2k/fair-fares/config"
	"github.com/Temutjin2k/fair-fares/internal/adapter/http/handler"
	httpserver "github.com/Temutjin2k/fair-fares/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/fair-fares/internal/adapter/http/ws"
	"github.com/Temutjin2k/fair-fares/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/fair-fares/internal/adapter/rabbit"
	"github.com/Temutjin2k/fair-fares/internal/service/auth"
	"github.com/Temutjin2k/fair-fares/internal/service/fare"
	"github.com/Temutjin2k/fair-fares/internal/service/record"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	postgresclient "github.com/Temutjin2k/fair-fares/pkg/postgres"
	"github.com/Temutjin2k/fair-fares/pkg/rabbit"
	"github.com/Temutjin2k/fair-fares/pkg/trm"
	ws "github.com/Temutjin2k/fair-fares/pkg/wsHub"
)

var errRabbitClosed = errors.New("rabbitmq connection is closed")

// FareService serves the fare API and relays fare events to dashboards.
type FareService struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	broker     *rabbitadapter.FareBroker
	dashboards *wshandler.DashboardHub
	hub        *ws.ConnectionHub
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewFare(ctx context.Context, cfg config.Config, log logger.Logger) (*FareService, error) {
	guide, err := fare.LoadGuide(cfg.FareGuide.Path)
	if err != nil {
		return nil, err
	}

	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	mq, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}

	broker := rabbitadapter.NewFareBroker(mq, log)
	if err := broker.DeclareTopology(ctx); err != nil {
		_ = mq.Close(ctx)
		db.Close()
		return nil, err
	}

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)
	recordRepo := postgres.NewFareRecordRepo(db.Pool)

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, tokenSvc, log)
	calculator := fare.NewCalculator(guide)
	records := record.NewService(recordRepo, trm.New(db.Pool), broker, log)

	hub := ws.NewConnHub(log)

	server, err := httpserver.New(cfg, httpserver.Deps{
		Auth:       authSvc,
		Calculator: calculator,
		Records:    records,
		Hub:        hub,
		Checks: map[string]handler.Checker{
			"postgres": db.Pool.Ping,
			"rabbitmq": func(context.Context) error {
				if mq.IsConnectionClosed() {
					return errRabbitClosed
				}
				return nil
			},
		},
	}, log)
	if err != nil {
		_ = mq.Close(ctx)
		db.Close()
		return nil, err
	}

	return &FareService{
		postgresDB: db,
		rabbitMQ:   mq,
		broker:     broker,
		dashboards: wshandler.NewDashboardHub(hub, log),
		hub:        hub,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *FareService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	defer func() {
		cancel()
		s.close(context.WithoutCancel(ctx))
		wg.Wait()
		s.log.Info(ctx, "fare service closed")
	}()

	errCh := make(chan error, 1)
	s.httpServer.Run(ctx, errCh)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.broker.ConsumeFareEvents(ctx, s.dashboards.Notify); err != nil {
			s.log.Error(ctx, "fare event consumer stopped", err)
		}
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	s.log.Info(ctx, "service started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shuting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *FareService) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	s.hub.Close()

	if err := s.httpServer.Stop(ctx); err != nil {
		s.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if err := s.rabbitMQ.Close(ctx); err != nil {
		s.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	s.postgresDB.Close()
}
