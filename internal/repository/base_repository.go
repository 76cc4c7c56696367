package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"party_quiz/internal/storage"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrCodeTaken       = errors.New("room code already taken")
	ErrVersionMismatch = errors.New("version mismatch")
	ErrUnexpected      = errors.New("unexpected database error")
)

// uniqueViolation 是 PostgreSQL 的 unique_violation 錯誤碼
const uniqueViolation = "23505"

type baseRepository struct {
	db *storage.PostgresDB
}

func (r *baseRepository) withContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// translateError 將 gorm/pgx 錯誤轉成 repository 的錯誤
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrCodeTaken
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrCodeTaken
	}
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}
