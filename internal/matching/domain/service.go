package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

// Service scores and ranks revenue-schedule candidates for a deposit
// line. It never writes; applying a match is a separate concern owned
// by the reconciliation workflow.
type Service interface {
	MatchDepositLine(ctx context.Context, orgID snowflake.ID, lineID string, opts Options) (*MatchDepositLineResult, error)
	CandidatesToSuggestedRows(lineItem *depositdomain.DepositLineItem, candidates []ScoredCandidate, appliedScheduleID *snowflake.ID) []SuggestedRow
}

// CandidateQuery bounds one retrieval pass over revenue schedules.
// Narrowing ids are applied only when non-nil.
type CandidateQuery struct {
	OrgID                snowflake.ID
	From                 time.Time
	To                   time.Time
	Statuses             []scheduledomain.ScheduleStatus
	AccountID            *snowflake.ID
	VendorAccountID      *snowflake.ID
	DistributorAccountID *snowflake.ID
	Take                 int
}

type Repository interface {
	GetDepositLineItem(ctx context.Context, orgID, lineID snowflake.ID) (*depositdomain.DepositLineItem, error)
	ListCandidateSchedules(ctx context.Context, q CandidateQuery) ([]scheduledomain.RevenueSchedule, error)
}
