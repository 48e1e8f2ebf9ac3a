package postgres

import (
	"context"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type beneficiariesRepo struct{ pool *pgxpool.Pool }

func (r *beneficiariesRepo) Create(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO beneficiaries(id, user_id, nickname, phone_number)
		 VALUES($1,$2,$3,$4)
		 RETURNING id, user_id, nickname, phone_number, created_at`,
		b.ID, b.UserID, b.Nickname, b.PhoneNumber,
	).Scan(&b.ID, &b.UserID, &b.Nickname, &b.PhoneNumber, &b.CreatedAt)
	return b, err
}

func (r *beneficiariesRepo) GetByID(ctx context.Context, id string) (models.Beneficiary, error) {
	var b models.Beneficiary
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, nickname, phone_number, created_at
		   FROM beneficiaries WHERE id=$1`, id,
	).Scan(&b.ID, &b.UserID, &b.Nickname, &b.PhoneNumber, &b.CreatedAt)
	return b, notFound(err)
}

func (r *beneficiariesRepo) GetForUser(ctx context.Context, id, userID string) (models.Beneficiary, error) {
	var b models.Beneficiary
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, nickname, phone_number, created_at
		   FROM beneficiaries WHERE id=$1 AND user_id=$2`, id, userID,
	).Scan(&b.ID, &b.UserID, &b.Nickname, &b.PhoneNumber, &b.CreatedAt)
	return b, notFound(err)
}

func (r *beneficiariesRepo) ListByUser(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, nickname, phone_number, created_at
		   FROM beneficiaries
		  WHERE user_id=$1
		  ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Beneficiary
	for rows.Next() {
		var b models.Beneficiary
		if err := rows.Scan(&b.ID, &b.UserID, &b.Nickname, &b.PhoneNumber, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *beneficiariesRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM beneficiaries WHERE user_id=$1`, userID,
	).Scan(&n)
	return n, err
}

func (r *beneficiariesRepo) PhoneExists(ctx context.Context, userID, phoneNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM beneficiaries WHERE user_id=$1 AND phone_number=$2)`,
		userID, phoneNumber,
	).Scan(&exists)
	return exists, err
}

func (r *beneficiariesRepo) Update(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE beneficiaries SET nickname=$2, phone_number=$3
		  WHERE id=$1
		  RETURNING id, user_id, nickname, phone_number, created_at`,
		b.ID, b.Nickname, b.PhoneNumber,
	).Scan(&b.ID, &b.UserID, &b.Nickname, &b.PhoneNumber, &b.CreatedAt)
	return b, notFound(err)
}

func (r *beneficiariesRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM beneficiaries WHERE id=$1`, id)
	return err
}
