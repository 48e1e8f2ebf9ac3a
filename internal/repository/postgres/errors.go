package postgres

import (
	"errors"

	repo "github.com/NourWarrag/topup-service/internal/repository"
	"github.com/jackc/pgx/v5"
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	return err
}
