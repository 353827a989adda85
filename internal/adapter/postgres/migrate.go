package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

//go:embed schema.sql
var schema string

// DevUser is seeded by the migrate mode so a fresh database can be logged into.
var DevUser = struct {
	SRCode, Name, College, Password string
}{
	SRCode:   "TEST001",
	Name:     "Test User",
	College:  "IT Department",
	Password: "test123",
}

type Migrator struct {
	db   Querier
	hash func(string) (string, error)
}

func NewMigrator(db Querier, hash func(string) (string, error)) *Migrator {
	return &Migrator{db: db, hash: hash}
}

// Migrate creates the schema. It is idempotent.
func (m *Migrator) Migrate(ctx context.Context) error {
	const op = "Migrator.Migrate"
	ctx = wrap.WithAction(ctx, types.ActionMigrate)

	if _, err := m.db.Exec(ctx, schema); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// SeedDevUser inserts DevUser unless its SRCODE already exists. It reports whether a row was written.
func (m *Migrator) SeedDevUser(ctx context.Context) (bool, error) {
	const op = "Migrator.SeedDevUser"
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionMigrate), DevUser.SRCode)

	hash, err := m.hash(DevUser.Password)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("%s: hash: %w", op, err))
	}

	u := &models.User{SRCode: DevUser.SRCode, Name: DevUser.Name, College: DevUser.College}
	u.SetPassword(hash)

	tag, err := m.db.Exec(ctx, `
		INSERT INTO users (srcode, name, college, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (srcode) DO NOTHING;`,
		u.SRCode, u.Name, u.College, u.GetPassword())
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return tag.RowsAffected() == 1, nil
}
