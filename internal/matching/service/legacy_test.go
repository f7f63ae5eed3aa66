package service

import (
	"testing"

	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyWeightsSumToOne(t *testing.T) {
	sum := legacyWeightVendorAccount + legacyWeightAccount + legacyWeightCustomerID +
		legacyWeightOrderID + legacyWeightName + legacyWeightProduct +
		legacyWeightUsage + legacyWeightCommission + legacyWeightDate
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestLegacyPerfectMatchScoresOne(t *testing.T) {
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountIDRaw = "ACCT-1"
		l.CustomerIDVendor = "CUST-1"
		l.OrderIDVendor = "ORD-1"
		l.VendorAccountIDRaw = "VA-1"
		l.DistributorName = "Telarus"
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Acme"
		s.Account.AccountNumber = "ACCT-1"
		s.VendorAccount = &scheduledomain.VendorAccount{AccountNumber: "VA-1"}
		s.Product = &scheduledomain.Product{Name: "Dedicated Internet"}
		s.Opportunity = &scheduledomain.Opportunity{
			CustomerIDVendor: "CUST-1",
			OrderIDVendor:    "ORD-1",
			DistributorName:  "Telarus",
		}
	}))

	cands := scoreLegacy(lf, rows, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, 1.0, cands[0].MatchConfidence)
	assert.Equal(t, matchingdomain.MatchTypeLegacy, cands[0].MatchType)
	assert.Equal(t, matchingdomain.ConfidenceHigh, cands[0].ConfidenceLevel)
	assert.Len(t, cands[0].Signals, 9)
}

func TestLegacyScoresEveryCandidateWithoutFloor(t *testing.T) {
	// A candidate sharing nothing but the month still gets a (low) score;
	// legacy mode has no cutoff.
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Unrelated Company"
		l.ProductName = "Something Else"
		l.UsageAmount = 5
		l.CommissionAmount = 1
	})
	rows := toRows(testSchedule(1))

	cands := scoreLegacy(lf, rows, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Greater(t, cands[0].MatchConfidence, 0.0, "date proximity alone contributes")
	assert.Less(t, cands[0].MatchConfidence, matchingdomain.DefaultThresholds().Medium)
	assert.Equal(t, matchingdomain.ConfidenceLow, cands[0].ConfidenceLevel)
}

func TestLegacyConfidenceIsBoundedAndRounded(t *testing.T) {
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Acme Telecom Services Group"
		l.UsageAmount = 997.77
		l.CommissionAmount = 149.13
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Acme Telecom"
	}))

	cands := scoreLegacy(lf, rows, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	conf := cands[0].MatchConfidence
	assert.GreaterOrEqual(t, conf, 0.0)
	assert.LessOrEqual(t, conf, 1.0)
	assert.Equal(t, round4(conf), conf, "confidence is rounded to 4 decimals")
}

func TestLegacyAccountExactViaLegalName(t *testing.T) {
	lf := lineFactsFor()
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	}))

	cands := scoreLegacy(lf, rows, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	found := false
	for _, sig := range cands[0].Signals {
		if sig.Name == "account_exact" {
			found = true
			assert.Equal(t, 1.0, sig.Score)
			assert.Equal(t, legacyWeightAccount, sig.Weight)
			assert.InDelta(t, legacyWeightAccount, sig.Contribution, 1e-9)
		}
	}
	assert.True(t, found)
}
