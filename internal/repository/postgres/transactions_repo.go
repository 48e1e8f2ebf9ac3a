package postgres

import (
	"context"
	"time"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

const insertTransaction = `
INSERT INTO transactions (id, user_id, beneficiary_id, amount, is_charge, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`

func (r *transactionsRepo) CreatePair(ctx context.Context, principal, charge models.Transaction) error {
	if principal.ID == "" {
		principal.ID = uuid.NewString()
	}
	if charge.ID == "" {
		charge.ID = uuid.NewString()
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertTransaction,
			principal.ID, principal.UserID, principal.BeneficiaryID,
			principal.Amount, principal.IsCharge, principal.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertTransaction,
			charge.ID, charge.UserID, charge.BeneficiaryID,
			charge.Amount, charge.IsCharge, charge.CreatedAt,
		)
		return err
	})
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var t models.Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, beneficiary_id, amount, is_charge, created_at
		   FROM transactions WHERE id=$1`, id,
	).Scan(&t.ID, &t.UserID, &t.BeneficiaryID, &t.Amount, &t.IsCharge, &t.CreatedAt)
	return t, notFound(err)
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, beneficiary_id, amount, is_charge, created_at
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BeneficiaryID, &t.Amount, &t.IsCharge, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *transactionsRepo) SumForBeneficiarySince(ctx context.Context, userID, beneficiaryID string, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		   FROM transactions
		  WHERE user_id=$1 AND beneficiary_id=$2 AND created_at >= $3 AND is_charge=false`,
		userID, beneficiaryID, since,
	).Scan(&sum)
	return sum, err
}

func (r *transactionsRepo) SumForUserSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		   FROM transactions
		  WHERE user_id=$1 AND created_at >= $2 AND is_charge=false`,
		userID, since,
	).Scan(&sum)
	return sum, err
}

// withTx runs fn inside a serializable read-write transaction.
func (r *transactionsRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
