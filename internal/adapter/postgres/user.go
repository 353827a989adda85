package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

type UserRepo struct {
	db Querier
}

func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// Create inserts a user. A taken SRCODE yields types.ErrSRCodeTaken.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	const op = "UserRepo.Create"
	if u == nil {
		return errors.New("nil user")
	}

	const q = `
		INSERT INTO users (srcode, name, college, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at;`

	if err := TxorDB(ctx, r.db).QueryRow(ctx, q, u.SRCode, u.Name, u.College, u.GetPassword()).Scan(&u.CreatedAt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrSRCodeTaken
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

// Get fetches a user by SRCODE.
func (r *UserRepo) Get(ctx context.Context, srcode string) (*models.User, error) {
	const op = "UserRepo.Get"
	const q = `
		SELECT srcode, name, college, password_hash, created_at
		FROM users
		WHERE srcode = $1;`

	var (
		u    models.User
		hash string
	)
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, srcode).Scan(&u.SRCode, &u.Name, &u.College, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	u.SetPassword(hash)

	return &u, nil
}
