package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NourWarrag/topup-service/internal/models"
	repo "github.com/NourWarrag/topup-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeUsers struct {
	byID map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

type fakeBeneficiaries struct {
	byID map[string]models.Beneficiary
}

func newFakeBeneficiaries(bens ...models.Beneficiary) *fakeBeneficiaries {
	f := &fakeBeneficiaries{byID: map[string]models.Beneficiary{}}
	for _, b := range bens {
		f.byID[b.ID] = b
	}
	return f
}

func (f *fakeBeneficiaries) Create(_ context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBeneficiaries) GetByID(_ context.Context, id string) (models.Beneficiary, error) {
	b, ok := f.byID[id]
	if !ok {
		return models.Beneficiary{}, repo.ErrNotFound
	}
	return b, nil
}

func (f *fakeBeneficiaries) GetForUser(_ context.Context, id, userID string) (models.Beneficiary, error) {
	b, ok := f.byID[id]
	if !ok || b.UserID != userID {
		return models.Beneficiary{}, repo.ErrNotFound
	}
	return b, nil
}

func (f *fakeBeneficiaries) ListByUser(_ context.Context, userID string) ([]models.Beneficiary, error) {
	var out []models.Beneficiary
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBeneficiaries) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, b := range f.byID {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBeneficiaries) PhoneExists(_ context.Context, userID, phone string) (bool, error) {
	for _, b := range f.byID {
		if b.UserID == userID && b.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBeneficiaries) Update(_ context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	existing, ok := f.byID[b.ID]
	if !ok {
		return models.Beneficiary{}, repo.ErrNotFound
	}
	existing.Nickname = b.Nickname
	existing.PhoneNumber = b.PhoneNumber
	f.byID[b.ID] = existing
	return existing, nil
}

func (f *fakeBeneficiaries) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeTransactions struct {
	mu   sync.Mutex
	rows []models.Transaction

	failCreate error
}

func (f *fakeTransactions) CreatePair(_ context.Context, principal, charge models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.rows = append(f.rows, principal, charge)
	return nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id string) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, repo.ErrNotFound
}

func (f *fakeTransactions) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Transaction
	for _, t := range f.rows {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) SumForBeneficiarySince(_ context.Context, userID, beneficiaryID string, since time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, t := range f.rows {
		if t.UserID == userID && t.BeneficiaryID == beneficiaryID && !t.IsCharge && !t.CreatedAt.Before(since) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

func (f *fakeTransactions) SumForUserSince(_ context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, t := range f.rows {
		if t.UserID == userID && !t.IsCharge && !t.CreatedAt.Before(since) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

type fakeOptions struct {
	amounts []decimal.Decimal
}

func standardOptions() *fakeOptions {
	var amounts []decimal.Decimal
	for _, v := range []int64{5, 10, 20, 30, 50, 75, 100} {
		amounts = append(amounts, decimal.NewFromInt(v))
	}
	return &fakeOptions{amounts: amounts}
}

func (f *fakeOptions) List(_ context.Context) ([]models.TopUpOption, error) {
	var out []models.TopUpOption
	for _, a := range f.amounts {
		out = append(out, models.TopUpOption{ID: uuid.NewString(), Amount: a})
	}
	return out, nil
}

func (f *fakeOptions) AmountExists(_ context.Context, amount decimal.Decimal) (bool, error) {
	for _, a := range f.amounts {
		if a.Equal(amount) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditLogs struct {
	mu   sync.Mutex
	logs []models.AuditLog
}

func (f *fakeAuditLogs) Create(_ context.Context, l models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, l)
	return nil
}

// fakeGateway is an in-memory stand-in for the balance service. It applies
// debits and credits to a single balance and re-validates funds at debit
// time, like the real remote side.
type fakeGateway struct {
	mu      sync.Mutex
	balance decimal.Decimal
	missing bool

	getErr   error
	debitErr error

	debits  []decimal.Decimal
	credits []decimal.Decimal
}

func (g *fakeGateway) GetBalance(_ context.Context, userID string) (decimal.Decimal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return decimal.Zero, g.getErr
	}
	if g.missing {
		return decimal.Zero, ErrUserBalanceNotFound
	}
	return g.balance, nil
}

func (g *fakeGateway) Debit(_ context.Context, userID string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.debitErr != nil {
		return g.debitErr
	}
	if g.missing {
		return ErrUserBalanceNotFound
	}
	if g.balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	g.balance = g.balance.Sub(amount)
	g.debits = append(g.debits, amount)
	return nil
}

func (g *fakeGateway) Credit(_ context.Context, userID string, amount decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balance = g.balance.Add(amount)
	g.credits = append(g.credits, amount)
	return nil
}

var errDB = errors.New("db failure")
