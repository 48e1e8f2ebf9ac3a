package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.GatewayMaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.GatewayRetryBackoff)

	assert.True(t, cfg.Policy.VerifiedBeneficiaryMonthlyCap.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.Policy.UnverifiedBeneficiaryMonthlyCap.Equal(decimal.NewFromInt(500)))
	assert.True(t, cfg.Policy.UserMonthlyCap.Equal(decimal.NewFromInt(3000)))
	assert.True(t, cfg.Policy.ServiceCharge.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 5, cfg.Policy.MaxBeneficiariesPerUser)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BALANCE_SERVICE_URL", "http://balance:8081/api/userbalance")
	t.Setenv("USER_MONTHLY_CAP", "5000")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "http://balance:8081/api/userbalance", cfg.BalanceServiceURL)
	assert.True(t, cfg.Policy.UserMonthlyCap.Equal(decimal.NewFromInt(5000)))
}
