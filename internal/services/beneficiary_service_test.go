package services

import (
	"context"
	"strings"
	"testing"

	"github.com/NourWarrag/topup-service/internal/api/validate"
	"github.com/NourWarrag/topup-service/internal/models"
	"github.com/NourWarrag/topup-service/internal/worker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBeneficiaryService(t *testing.T) (*BeneficiaryService, *fakeBeneficiaries) {
	t.Helper()
	bens := newFakeBeneficiaries()
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)
	return NewBeneficiaryService(bens, &fakeAuditLogs{}, 5, wp), bens
}

func TestBeneficiaryAdd(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	b, err := svc.Add(context.Background(), models.Beneficiary{
		UserID:      userID,
		Nickname:    "mom",
		PhoneNumber: "+971501234567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestBeneficiaryAddValidation(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	tests := []struct {
		name string
		b    models.Beneficiary
	}{
		{"missing nickname", models.Beneficiary{UserID: userID, PhoneNumber: "+971501234567"}},
		{"missing phone", models.Beneficiary{UserID: userID, Nickname: "mom"}},
		{"nickname too long", models.Beneficiary{UserID: userID, Nickname: strings.Repeat("x", 21), PhoneNumber: "+971501234567"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tt.b)
			var verrs validate.Errs
			require.ErrorAs(t, err, &verrs)
		})
	}
}

func TestBeneficiaryAddRejectsDuplicatePhone(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	_, err := svc.Add(context.Background(), models.Beneficiary{UserID: userID, Nickname: "mom", PhoneNumber: "+971501234567"})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), models.Beneficiary{UserID: userID, Nickname: "mum", PhoneNumber: "+971501234567"})
	assert.ErrorIs(t, err, ErrBeneficiaryAlreadyExists)

	// A different user may register the same phone number.
	_, err = svc.Add(context.Background(), models.Beneficiary{UserID: uuid.NewString(), Nickname: "mom", PhoneNumber: "+971501234567"})
	assert.NoError(t, err)
}

func TestBeneficiaryAddRejectsSixth(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	for i := 0; i < 5; i++ {
		_, err := svc.Add(context.Background(), models.Beneficiary{
			UserID:      userID,
			Nickname:    "b" + string(rune('a'+i)),
			PhoneNumber: "+97150123456" + string(rune('0'+i)),
		})
		require.NoError(t, err)
	}

	_, err := svc.Add(context.Background(), models.Beneficiary{UserID: userID, Nickname: "extra", PhoneNumber: "+971509999999"})
	assert.ErrorIs(t, err, ErrBeneficiaryLimitExceeded)
}

func TestBeneficiaryGetMissing(t *testing.T) {
	svc, _ := newBeneficiaryService(t)

	_, err := svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrBeneficiaryNotFound)
}

func TestBeneficiaryUpdate(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	b, err := svc.Add(context.Background(), models.Beneficiary{UserID: userID, Nickname: "mom", PhoneNumber: "+971501234567"})
	require.NoError(t, err)

	b.Nickname = "mother"
	updated, err := svc.Update(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "mother", updated.Nickname)

	missing := b
	missing.ID = uuid.NewString()
	_, err = svc.Update(context.Background(), missing)
	assert.ErrorIs(t, err, ErrBeneficiaryNotFound)
}

func TestBeneficiaryDelete(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	b, err := svc.Add(context.Background(), models.Beneficiary{UserID: userID, Nickname: "mom", PhoneNumber: "+971501234567"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	_, err = svc.Get(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrBeneficiaryNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), b.ID), ErrBeneficiaryNotFound)
}

func TestBeneficiaryListForUser(t *testing.T) {
	svc, _ := newBeneficiaryService(t)
	userID := uuid.NewString()

	for i := 0; i < 3; i++ {
		_, err := svc.Add(context.Background(), models.Beneficiary{
			UserID:      userID,
			Nickname:    "b" + string(rune('a'+i)),
			PhoneNumber: "+97150123456" + string(rune('0'+i)),
		})
		require.NoError(t, err)
	}
	_, err := svc.Add(context.Background(), models.Beneficiary{UserID: uuid.NewString(), Nickname: "other", PhoneNumber: "+971509999999"})
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
