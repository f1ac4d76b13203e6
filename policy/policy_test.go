package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromConfig(t *testing.T) {
	type testCase struct {
		name   string
		config *Config
		expect *Policy
	}
	testCases := []testCase{
		{name: "nil", expect: Default()},
		{name: "claim drop", config: &Config{Mode: "CLAIM", Abandon: "drop"}, expect: &Policy{Mode: ModeClaim, Abandon: AbandonDrop, OfferTTL: DefaultOfferTTL}},
		{name: "custom ttl", config: &Config{OfferTTL: time.Minute}, expect: &Policy{Mode: ModeAuto, Abandon: AbandonReturn, OfferTTL: time.Minute}},
		{name: "ttl disabled", config: &Config{OfferTTL: -1}, expect: &Policy{Mode: ModeAuto, Abandon: AbandonReturn}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := FromConfig(tc.config)
			assert.Equal(t, tc.expect, actual)
			assert.NoError(t, actual.Validate())
		})
	}
	assert.Equal(t, &Config{Mode: ModeClaim, Abandon: AbandonDrop}, ToConfig(&Policy{Mode: ModeClaim, Abandon: AbandonDrop}))
	assert.Nil(t, ToConfig(nil))
}

func TestPolicy_Validate(t *testing.T) {
	assert.Error(t, (&Policy{Mode: "ask", Abandon: AbandonDrop}).Validate())
	assert.Error(t, (&Policy{Mode: ModeAuto, Abandon: "keep"}).Validate())
	assert.NoError(t, (*Policy)(nil).Validate())
}

func TestPolicy_Helpers(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	var unset *Policy
	assert.True(t, unset.Offers())
	assert.True(t, unset.ReturnsAbandoned())
	assert.Equal(t, now.Add(DefaultOfferTTL), *unset.OfferDeadline(now))

	claim := &Policy{Mode: ModeClaim, Abandon: AbandonDrop}
	assert.False(t, claim.Offers())
	assert.False(t, claim.ReturnsAbandoned())
	assert.Nil(t, claim.OfferDeadline(now))
}
