package services

import (
	"context"
	"fmt"
	"time"

	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/shopspring/decimal"
)

// Monthly windows are [start of current UTC calendar month, now). Sums cover
// principal rows only; charge rows do not count toward either cap. Landing
// exactly on a cap is allowed.

func (s *TopUpService) checkBeneficiaryMonthlyLimit(ctx context.Context, amount decimal.Decimal, user models.User, beneficiary models.Beneficiary) error {
	spent, err := s.trx.SumForBeneficiarySince(ctx, user.ID, beneficiary.ID, startOfMonth(s.now()))
	if err != nil {
		return err
	}

	limit := s.policy.UnverifiedBeneficiaryMonthlyCap
	if user.IsVerified {
		limit = s.policy.VerifiedBeneficiaryMonthlyCap
	}

	if spent.Add(amount).GreaterThan(limit) {
		return fmt.Errorf("%w for %s", ErrMonthlyLimitExceeded, beneficiary.Nickname)
	}
	return nil
}

func (s *TopUpService) checkUserMonthlyLimit(ctx context.Context, amount decimal.Decimal, userID string) error {
	spent, err := s.trx.SumForUserSince(ctx, userID, startOfMonth(s.now()))
	if err != nil {
		return err
	}
	if spent.Add(amount).GreaterThan(s.policy.UserMonthlyCap) {
		return ErrMonthlyLimitExceeded
	}
	return nil
}

func startOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
