package postgres

import (
	"context"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, name, phone_number, is_verified)
		 VALUES($1,$2,$3,$4)
		 RETURNING id, name, phone_number, is_verified, created_at`,
		u.ID, u.Name, u.PhoneNumber, u.IsVerified,
	).Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.IsVerified, &u.CreatedAt)
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone_number, is_verified, created_at FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.PhoneNumber, &u.IsVerified, &u.CreatedAt)
	return u, notFound(err)
}
