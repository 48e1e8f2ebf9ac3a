package postgres

import (
	"context"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type topUpOptionsRepo struct{ pool *pgxpool.Pool }

func (r *topUpOptionsRepo) List(ctx context.Context) ([]models.TopUpOption, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, amount FROM topup_options ORDER BY amount`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TopUpOption
	for rows.Next() {
		var o models.TopUpOption
		if err := rows.Scan(&o.ID, &o.Amount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *topUpOptionsRepo) AmountExists(ctx context.Context, amount decimal.Decimal) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM topup_options WHERE amount=$1)`, amount,
	).Scan(&exists)
	return exists, err
}
