package postgres

import (
	repo "github.com/NourWarrag/topup-service/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users         repo.Users
	Beneficiaries repo.Beneficiaries
	Transactions  repo.Transactions
	TopUpOptions  repo.TopUpOptions
	AuditLogs     repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:         &usersRepo{pool},
		Beneficiaries: &beneficiariesRepo{pool},
		Transactions:  &transactionsRepo{pool},
		TopUpOptions:  &topUpOptionsRepo{pool},
		AuditLogs:     &auditLogsRepo{pool},
	}
}
