package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NourWarrag/topup-service/internal/config"
	"github.com/NourWarrag/topup-service/internal/metrics"
	"github.com/NourWarrag/topup-service/internal/models"
	repo "github.com/NourWarrag/topup-service/internal/repository"
	"github.com/NourWarrag/topup-service/internal/worker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceGateway is the capability the orchestrator needs from the external
// balance service. Satisfied by gateway.Client in production and by fakes in
// tests.
type BalanceGateway interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	Debit(ctx context.Context, userID string, amount decimal.Decimal) error
	Credit(ctx context.Context, userID string, amount decimal.Decimal) error
}

// TopUpService runs the top-up workflow: validation gates, monthly-limit
// checks, balance debit, and the atomic two-row ledger commit.
type TopUpService struct {
	users   repo.Users
	bens    repo.Beneficiaries
	trx     repo.Transactions
	options repo.TopUpOptions
	audit   repo.AuditLogs
	balance BalanceGateway
	policy  config.Policy
	wp      *worker.Pool

	locks sync.Map // userID -> *sync.Mutex
	now   func() time.Time
}

func NewTopUpService(
	users repo.Users,
	bens repo.Beneficiaries,
	trx repo.Transactions,
	options repo.TopUpOptions,
	audit repo.AuditLogs,
	balance BalanceGateway,
	policy config.Policy,
	wp *worker.Pool,
) *TopUpService {
	return &TopUpService{
		users:   users,
		bens:    bens,
		trx:     trx,
		options: options,
		audit:   audit,
		balance: balance,
		policy:  policy,
		wp:      wp,
		now:     time.Now,
	}
}

// TopUp transfers amount to the beneficiary's phone account and records the
// principal plus the fixed service charge in the ledger. Gates run in order;
// the first failure aborts with no ledger rows written.
func (s *TopUpService) TopUp(ctx context.Context, amount decimal.Decimal, beneficiaryID, userID string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return s.fail("invalid_amount", ErrInvalidAmount)
	}

	ok, err := s.options.AmountExists(ctx, amount)
	if err != nil {
		return err
	}
	if !ok {
		return s.fail("option_not_found", ErrTopUpOptionNotFound)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.fail("user_not_found", ErrUserNotFound)
		}
		return err
	}

	beneficiary, err := s.bens.GetForUser(ctx, beneficiaryID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.fail("beneficiary_not_found", ErrBeneficiaryNotFound)
		}
		return err
	}

	// The limit-check-then-commit sequence must not interleave for the same
	// user: two concurrent requests could otherwise both pass the checks and
	// jointly exceed a cap.
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.checkBeneficiaryMonthlyLimit(ctx, amount, user, beneficiary); err != nil {
		return s.fail("beneficiary_limit", err)
	}
	if err := s.checkUserMonthlyLimit(ctx, amount, userID); err != nil {
		return s.fail("user_limit", err)
	}

	total := amount.Add(s.policy.ServiceCharge)

	balance, err := s.balance.GetBalance(ctx, userID)
	if err != nil {
		return s.fail("gateway", err)
	}
	if balance.LessThan(total) {
		return s.fail("insufficient_balance",
			fmt.Errorf("user %s has insufficient balance to top up %s: %w", userID, amount, ErrInsufficientBalance))
	}

	if err := s.balance.Debit(ctx, userID, total); err != nil {
		return s.fail("debit", err)
	}

	now := s.now().UTC()
	principal := models.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		BeneficiaryID: beneficiaryID,
		Amount:        amount,
		CreatedAt:     now,
	}
	charge := models.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		BeneficiaryID: beneficiaryID,
		Amount:        s.policy.ServiceCharge,
		IsCharge:      true,
		CreatedAt:     now,
	}

	if err := s.trx.CreatePair(ctx, principal, charge); err != nil {
		// The debit already happened; reverse it so the user is not charged
		// for a top-up that was never recorded.
		if creditErr := s.balance.Credit(ctx, userID, total); creditErr != nil {
			slog.Error("ledger commit failed and reversal failed; manual reconciliation needed",
				"user_id", userID, "amount", amount, "debited", total,
				"commit_err", err, "credit_err", creditErr)
		}
		metrics.TopUpsFailed.WithLabelValues("commit").Inc()
		return fmt.Errorf("commit top-up ledger: %w", err)
	}

	metrics.TopUpsTotal.Inc()
	s.auditTopUp(principal)
	return nil
}

// Options returns the allow-listed top-up amounts.
func (s *TopUpService) Options(ctx context.Context) ([]models.TopUpOption, error) {
	return s.options.List(ctx)
}

func (s *TopUpService) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	return s.trx.GetByID(ctx, id)
}

func (s *TopUpService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	return s.trx.ListByUser(ctx, userID, limit, offset)
}

func (s *TopUpService) userLock(userID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *TopUpService) fail(reason string, err error) error {
	metrics.TopUpsFailed.WithLabelValues(reason).Inc()
	return err
}

func (s *TopUpService) auditTopUp(principal models.Transaction) {
	id := principal.ID
	s.wp.Submit(func() {
		_ = s.audit.Create(context.Background(), models.AuditLog{
			EntityType: "transaction",
			EntityID:   &id,
			Action:     "topup",
			Details: map[string]any{
				"user_id":        principal.UserID,
				"beneficiary_id": principal.BeneficiaryID,
				"amount":         principal.Amount.String(),
			},
		})
	})
}
