package service

import (
	"context"
	"fmt"
	"time"

	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

// retrieveCandidates builds the candidate universe for a line item: a
// narrow tenant/date/status query scoped to the line's distributor,
// vendor account, and account when known, with an optional cross-vendor
// fallback pass when the narrow search comes back empty. Schedules with
// no outstanding commission are dropped; there is nothing left for a
// deposit line to settle.
func (s *Service) retrieveCandidates(
	ctx context.Context,
	line *depositdomain.DepositLineItem,
	referenceDate time.Time,
	opts matchingdomain.Options,
) ([]candidateRow, error) {
	from, to := candidateDateRange(referenceDate, opts.DateWindowMonths, opts.IncludeFutureSchedules)

	narrow := matchingdomain.CandidateQuery{
		OrgID:    line.OrgID,
		From:     from,
		To:       to,
		Statuses: scheduledomain.MatchableStatuses,
		Take:     opts.Take,
	}
	if line.AccountID != nil {
		narrow.AccountID = line.AccountID
	}
	if line.Deposit != nil {
		narrow.VendorAccountID = line.Deposit.VendorAccountID
		narrow.DistributorAccountID = line.Deposit.DistributorAccountID
	}

	schedules, err := s.repo.ListCandidateSchedules(ctx, narrow)
	if err != nil {
		return nil, fmt.Errorf("list candidate schedules: %w", err)
	}

	isFallback := false
	if len(schedules) == 0 && opts.AllowCrossVendorFallback {
		broad := matchingdomain.CandidateQuery{
			OrgID:    line.OrgID,
			From:     from,
			To:       to,
			Statuses: scheduledomain.MatchableStatuses,
			Take:     opts.Take,
		}
		schedules, err = s.repo.ListCandidateSchedules(ctx, broad)
		if err != nil {
			return nil, fmt.Errorf("list fallback candidate schedules: %w", err)
		}
		isFallback = true
	}

	rows := make([]candidateRow, 0, len(schedules))
	for i := range schedules {
		metrics := computeScheduleMetrics(&schedules[i])
		if metrics.commissionDifference <= 0 {
			continue
		}
		rows = append(rows, candidateRow{
			schedule:   schedules[i],
			metrics:    metrics,
			isFallback: isFallback,
		})
	}
	return rows, nil
}

// candidateDateRange spans from windowMonths before the reference date
// through the end of the reference month, extended forward by another
// window when future schedules are allowed.
func candidateDateRange(reference time.Time, windowMonths int, includeFuture bool) (time.Time, time.Time) {
	ref := dateOnly(reference)
	from := ref.AddDate(0, -windowMonths, 0)
	to := endOfMonth(ref)
	if includeFuture {
		to = endOfMonth(ref.AddDate(0, windowMonths, 0))
	}
	return from, to
}

func endOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}
