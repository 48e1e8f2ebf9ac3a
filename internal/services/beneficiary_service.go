package services

import (
	"context"
	"errors"
	"strings"

	"github.com/NourWarrag/topup-service/internal/api/validate"
	"github.com/NourWarrag/topup-service/internal/models"
	repo "github.com/NourWarrag/topup-service/internal/repository"
	"github.com/NourWarrag/topup-service/internal/worker"
)

// BeneficiaryService owns the per-user beneficiary registry and its caps.
type BeneficiaryService struct {
	bens       repo.Beneficiaries
	audit      repo.AuditLogs
	maxPerUser int
	wp         *worker.Pool
}

func NewBeneficiaryService(bens repo.Beneficiaries, audit repo.AuditLogs, maxPerUser int, wp *worker.Pool) *BeneficiaryService {
	return &BeneficiaryService{bens: bens, audit: audit, maxPerUser: maxPerUser, wp: wp}
}

func (s *BeneficiaryService) Add(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	b.Nickname = strings.TrimSpace(b.Nickname)
	b.PhoneNumber = strings.TrimSpace(b.PhoneNumber)
	if errs := validateBeneficiary(b); errs != nil {
		return models.Beneficiary{}, errs
	}

	exists, err := s.bens.PhoneExists(ctx, b.UserID, b.PhoneNumber)
	if err != nil {
		return models.Beneficiary{}, err
	}
	if exists {
		return models.Beneficiary{}, ErrBeneficiaryAlreadyExists
	}

	count, err := s.bens.CountByUser(ctx, b.UserID)
	if err != nil {
		return models.Beneficiary{}, err
	}
	if count >= s.maxPerUser {
		return models.Beneficiary{}, ErrBeneficiaryLimitExceeded
	}

	created, err := s.bens.Create(ctx, b)
	if err != nil {
		return models.Beneficiary{}, err
	}
	s.auditChange(created, "created")
	return created, nil
}

func (s *BeneficiaryService) Get(ctx context.Context, id string) (models.Beneficiary, error) {
	b, err := s.bens.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Beneficiary{}, ErrBeneficiaryNotFound
	}
	return b, err
}

func (s *BeneficiaryService) ListForUser(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	return s.bens.ListByUser(ctx, userID)
}

func (s *BeneficiaryService) Update(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	b.Nickname = strings.TrimSpace(b.Nickname)
	b.PhoneNumber = strings.TrimSpace(b.PhoneNumber)
	if errs := validateBeneficiary(b); errs != nil {
		return models.Beneficiary{}, errs
	}

	updated, err := s.bens.Update(ctx, b)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Beneficiary{}, ErrBeneficiaryNotFound
	}
	if err != nil {
		return models.Beneficiary{}, err
	}
	s.auditChange(updated, "updated")
	return updated, nil
}

func (s *BeneficiaryService) Delete(ctx context.Context, id string) error {
	b, err := s.bens.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBeneficiaryNotFound
	}
	if err != nil {
		return err
	}
	if err := s.bens.Delete(ctx, id); err != nil {
		return err
	}
	s.auditChange(b, "deleted")
	return nil
}

func validateBeneficiary(b models.Beneficiary) error {
	var errs validate.Errs
	if e := validate.Required("user_id", b.UserID); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("nickname", b.Nickname); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.MaxLen("nickname", b.Nickname, models.NicknameMaxLength); e != nil {
		errs = append(errs, *e)
	}
	if e := validate.Required("phone_number", b.PhoneNumber); e != nil {
		errs = append(errs, *e)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *BeneficiaryService) auditChange(b models.Beneficiary, action string) {
	id := b.ID
	s.wp.Submit(func() {
		_ = s.audit.Create(context.Background(), models.AuditLog{
			EntityType: "beneficiary",
			EntityID:   &id,
			Action:     action,
			Details:    map[string]any{"user_id": b.UserID, "nickname": b.Nickname},
		})
	})
}
