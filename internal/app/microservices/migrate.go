package microservices

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/fair-fares/config"
	"github.com/Temutjin2k/fair-fares/internal/adapter/postgres"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	"github.com/Temutjin2k/fair-fares/pkg/passhash"
	postgresclient "github.com/Temutjin2k/fair-fares/pkg/postgres"
)

// MigrateService creates the schema and seeds the development account, then exits.
type MigrateService struct {
	postgresDB *postgresclient.PostgreDB
	migrator   *postgres.Migrator

	log logger.Logger
}

func NewMigrate(ctx context.Context, cfg config.Config, log logger.Logger) (*MigrateService, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &MigrateService{
		postgresDB: db,
		migrator:   postgres.NewMigrator(db.Pool, passhash.HashPassword),
		log:        log,
	}, nil
}

func (s *MigrateService) Start(ctx context.Context) error {
	defer s.postgresDB.Close()

	if err := s.migrator.Migrate(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "schema is up to date")

	seeded, err := s.migrator.SeedDevUser(ctx)
	if err != nil {
		return err
	}
	if seeded {
		s.log.Info(ctx, "development account created", "srcode", postgres.DevUser.SRCode)
	} else {
		s.log.Debug(ctx, "development account already exists", "srcode", postgres.DevUser.SRCode)
	}

	return nil
}
