package service

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
)

func newSignal(name string, score, weight float64, description string) matchingdomain.CandidateSignal {
	return matchingdomain.CandidateSignal{
		Name:         name,
		Score:        score,
		Weight:       weight,
		Contribution: score * weight,
		Description:  description,
	}
}

// buildScoredCandidate snapshots the schedule and flattens positive
// signal descriptions into the reasons list. Extra notes (e.g. the
// fallback cap) follow the signal reasons.
func buildScoredCandidate(
	row *candidateRow,
	confidence float64,
	matchType matchingdomain.MatchType,
	level matchingdomain.ConfidenceLevel,
	signals []matchingdomain.CandidateSignal,
	notes []string,
) matchingdomain.ScoredCandidate {
	s := &row.schedule

	reasons := make([]string, 0, len(signals)+len(notes))
	for _, sig := range signals {
		if sig.Score > 0 && sig.Description != "" {
			reasons = append(reasons, sig.Description)
		}
	}
	reasons = append(reasons, notes...)

	cand := matchingdomain.ScoredCandidate{
		ScheduleID:     s.ID,
		ScheduleNumber: s.ScheduleNumber,
		ScheduleDate:   s.ScheduleDate,
		Status:         s.Status,

		ExpectedUsage:              s.ExpectedUsage,
		UsageAdjustment:            s.UsageAdjustment,
		ActualUsage:                s.ActualUsage,
		ActualUsageAdjustment:      s.ActualUsageAdjustment,
		ExpectedCommission:         s.ExpectedCommission,
		ActualCommission:           s.ActualCommission,
		ActualCommissionAdjustment: s.ActualCommissionAdjustment,

		UsageBalance:         row.metrics.usageBalance,
		CommissionDifference: row.metrics.commissionDifference,

		MatchConfidence: confidence,
		MatchType:       matchType,
		ConfidenceLevel: level,
		Signals:         signals,
		Reasons:         reasons,

		IsFallback: row.isFallback,
		CreatedAt:  s.CreatedAt,
	}
	if s.Account != nil {
		cand.AccountName = s.Account.Name
	}
	if s.Product != nil {
		cand.ProductName = s.Product.Name
	}
	return cand
}

// sortCandidates orders by confidence descending, then schedule date
// ascending (missing last), then creation time ascending (missing
// last). Among equally confident candidates the oldest outstanding
// obligation wins: first in, first settled.
func sortCandidates(cands []matchingdomain.ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := &cands[i], &cands[j]
		if a.MatchConfidence != b.MatchConfidence {
			return a.MatchConfidence > b.MatchConfidence
		}
		if less, decided := timePtrLess(a.ScheduleDate, b.ScheduleDate); decided {
			return less
		}
		if less, decided := timePtrLess(a.CreatedAt, b.CreatedAt); decided {
			return less
		}
		return false
	})
}

// timePtrLess compares nilable timestamps with nil sorting last.
// decided is false when the pair ties.
func timePtrLess(a, b *time.Time) (less, decided bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case a.Equal(*b):
		return false, false
	default:
		return a.Before(*b), true
	}
}

func truncateCandidates(cands []matchingdomain.ScoredCandidate, limit int) []matchingdomain.ScoredCandidate {
	if limit > 0 && len(cands) > limit {
		return cands[:limit]
	}
	return cands
}

// candidatesToSuggestedRows projects scored candidates into the row
// shape the suggestion UI renders. Rates divide commission net by usage
// net, zero when there is no usage to divide by.
func candidatesToSuggestedRows(
	lineItem *depositdomain.DepositLineItem,
	candidates []matchingdomain.ScoredCandidate,
	appliedScheduleID *snowflake.ID,
) []matchingdomain.SuggestedRow {
	rows := make([]matchingdomain.SuggestedRow, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]

		expectedUsageNet := c.ExpectedUsage + c.UsageAdjustment
		actualUsageNet := c.ActualUsage + c.ActualUsageAdjustment
		expectedCommissionNet := c.ExpectedCommission
		actualCommissionNet := c.ActualCommission + c.ActualCommissionAdjustment

		row := matchingdomain.SuggestedRow{
			ScheduleID:     c.ScheduleID,
			ScheduleNumber: c.ScheduleNumber,
			ScheduleDate:   c.ScheduleDate,
			AccountName:    c.AccountName,
			ProductName:    c.ProductName,

			ExpectedUsage:        expectedUsageNet,
			ExpectedCommission:   expectedCommissionNet,
			ActualUsage:          actualUsageNet,
			ActualCommission:     actualCommissionNet,
			UsageBalance:         c.UsageBalance,
			CommissionDifference: c.CommissionDifference,
			ExpectedRate:         commissionRate(expectedCommissionNet, expectedUsageNet),
			ActualRate:           commissionRate(actualCommissionNet, actualUsageNet),

			MatchConfidence: c.MatchConfidence,
			MatchType:       c.MatchType,
			ConfidenceLevel: c.ConfidenceLevel,
			Reasons:         c.Reasons,
			RowStatus:       matchingdomain.RowStatusSuggested,
		}
		if appliedScheduleID != nil && c.ScheduleID == *appliedScheduleID {
			row.RowStatus = matchingdomain.RowStatusReconciled
		}
		rows = append(rows, row)
	}
	return rows
}

func commissionRate(commissionNet, usageNet float64) float64 {
	if usageNet == 0 {
		return 0
	}
	return commissionNet / usageNet
}
