package service

import (
	"testing"

	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineFactsFor(opts ...lineOpt) lineFacts {
	l := testLine(opts...)
	return newLineFacts(l, l.PaymentDate)
}

func TestPassAAcceptsOnLegalNameWithSuffixStripped(t *testing.T) {
	// "Acme Corp" vs "ACME, INC." normalize to the same legal name.
	lf := lineFactsFor()
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	}))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, 1.0, cands[0].MatchConfidence)
	assert.Equal(t, matchingdomain.MatchTypeExact, cands[0].MatchType)
	assert.Equal(t, matchingdomain.ConfidenceHigh, cands[0].ConfidenceLevel)
	assert.Contains(t, cands[0].Reasons, "account legal name matches exactly")
}

func TestPassAOrderIDIsCaseInsensitive(t *testing.T) {
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Completely Different Name"
		l.OrderIDVendor = "ORD-100"
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Opportunity = &scheduledomain.Opportunity{OrderIDVendor: "ord-100"}
	}))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, matchingdomain.MatchTypeExact, cands[0].MatchType)

	var orderSignal *matchingdomain.CandidateSignal
	for i := range cands[0].Signals {
		if cands[0].Signals[i].Name == "order_id_exact" {
			orderSignal = &cands[0].Signals[i]
		}
	}
	require.NotNil(t, orderSignal)
	assert.Equal(t, 1.0, orderSignal.Score)
	assert.Equal(t, passAIdentityWeight, orderSignal.Weight)
}

func TestPassAVarianceGateDemotesAmountDrift(t *testing.T) {
	// Identity matches but both amount proximities fall below 1 with
	// zero tolerance, so the candidate lands in Pass B instead.
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.UsageAmount = 900       // vs expected 1000 -> 0.9
		l.CommissionAmount = 120  // vs outstanding 150 -> 0.8
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	}))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, matchingdomain.MatchTypeFuzzy, cands[0].MatchType)
	// 0.4*1 (name) + 0.3*0 (product) + 0.2*0.9 (amount) + 0.1*1 (date)
	assert.InDelta(t, 0.68, cands[0].MatchConfidence, 1e-9)
}

func TestPassAVarianceToleranceAdmitsDrift(t *testing.T) {
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.UsageAmount = 950      // 0.95 >= 1 - 0.1
		l.CommissionAmount = 140 // ~0.933 >= 1 - 0.1
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	}))

	cands := scoreHierarchical(lf, rows, 0.1, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, matchingdomain.MatchTypeExact, cands[0].MatchType)
}

func TestPassANeverAcceptsFallbackRows(t *testing.T) {
	lf := lineFactsFor()
	rows := asFallback(toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	})))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())

	for _, c := range cands {
		assert.NotEqual(t, matchingdomain.MatchTypeExact, c.MatchType)
		assert.LessOrEqual(t, c.MatchConfidence, fallbackConfidenceCap)
	}
}

func TestPassBFloorExcludesWeakCandidates(t *testing.T) {
	// Token overlap 1/2, no product signal, usage proximity 0.9, exact
	// date: 0.4*0.5 + 0.3*0 + 0.2*0.9 + 0.1*1 = 0.48, under the 0.5 floor.
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Globodyne West"
		l.ProductName = ""
		l.UsageAmount = 90
		l.CommissionAmount = 0
	})
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Globodyne"
		s.ExpectedUsage = 100
	}))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())
	assert.Empty(t, cands)
}

func TestPassBCapsFallbackConfidence(t *testing.T) {
	// Everything lines up (raw confidence 1.0) but the row came from the
	// cross-vendor fallback search.
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Globodyne"
		l.ProductName = "Dedicated Internet"
	})
	rows := asFallback(toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Globodyne"
		s.Product = &scheduledomain.Product{Name: "Dedicated Internet"}
	})))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 1)
	assert.Equal(t, fallbackConfidenceCap, cands[0].MatchConfidence)
	assert.Equal(t, matchingdomain.MatchTypeFuzzy, cands[0].MatchType)
	assert.True(t, cands[0].IsFallback)

	assert.Contains(t, cands[0].Reasons, "cross-vendor fallback candidate; confidence capped at 0.60")
}

func TestPassBRejectsStrongIDConflicts(t *testing.T) {
	// The name is close but not exact, so identity never comes from Pass
	// A; the remaining signals (0.5*0.4 + 0.3 + 0.2 + 0.1 = 0.8) would
	// clear the floor if the conflict did not reject first.
	base := func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Globodyne West"
	}

	tests := []struct {
		name     string
		lineOpt  lineOpt
		schedule scheduleOpt
	}{
		{
			name:    "order id conflict",
			lineOpt: func(l *depositdomain.DepositLineItem) { l.OrderIDVendor = "ORD-100" },
			schedule: func(s *scheduledomain.RevenueSchedule) {
				s.OrderID = "ORD-200"
			},
		},
		{
			name:    "customer id conflict",
			lineOpt: func(l *depositdomain.DepositLineItem) { l.CustomerIDVendor = "CUST-1" },
			schedule: func(s *scheduledomain.RevenueSchedule) {
				s.Opportunity = &scheduledomain.Opportunity{
					CustomerIDVendor:    "CUST-2",
					CustomerIDAlternate: "CUST-3",
				}
			},
		},
		{
			name:    "account id conflict",
			lineOpt: func(l *depositdomain.DepositLineItem) { l.AccountIDRaw = "ACCT-1" },
			schedule: func(s *scheduledomain.RevenueSchedule) {
				s.Account.AccountNumber = "ACCT-2"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf := lineFactsFor(base, tt.lineOpt)
			rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
				s.Account.Name = "Globodyne"
				s.Product = &scheduledomain.Product{Name: "Dedicated Internet"}
			}, tt.schedule))

			cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())
			assert.Empty(t, cands, "conflicting ids must reject the candidate outright")
		})
	}
}

func TestPassBMissingScheduleIDIsNotAConflict(t *testing.T) {
	lf := lineFactsFor(func(l *depositdomain.DepositLineItem) {
		l.AccountName = "Globodyne"
		l.ProductName = "Dedicated Internet"
		l.OrderIDVendor = "ORD-100"
		l.CustomerIDVendor = "CUST-1"
	})
	// Schedule carries no identifiers at all.
	rows := toRows(testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Globodyne"
		s.Product = &scheduledomain.Product{Name: "Dedicated Internet"}
	}))

	cands := scoreHierarchical(lf, rows, 0, matchingdomain.DefaultThresholds())
	require.Len(t, cands, 1)
	assert.Equal(t, matchingdomain.MatchTypeFuzzy, cands[0].MatchType)
}

func TestHierarchicalUnionOfPasses(t *testing.T) {
	lf := lineFactsFor()

	exact := testSchedule(1, func(s *scheduledomain.RevenueSchedule) {
		s.Account.LegalName = "ACME, INC."
	})
	fuzzy := testSchedule(2, func(s *scheduledomain.RevenueSchedule) {
		s.Account.Name = "Acme"
		s.Product = &scheduledomain.Product{Name: "Dedicated Internet"}
	})

	cands := scoreHierarchical(lf, toRows(exact, fuzzy), 0, matchingdomain.DefaultThresholds())

	require.Len(t, cands, 2)
	types := map[matchingdomain.MatchType]int{}
	for _, c := range cands {
		types[c.MatchType]++
	}
	assert.Equal(t, 1, types[matchingdomain.MatchTypeExact])
	assert.Equal(t, 1, types[matchingdomain.MatchTypeFuzzy])
}
