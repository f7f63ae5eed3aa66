// Package domain defines the matching engine's contract: options,
// thresholds, scored candidates, and the service/repository interfaces.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

type MatchType string

const (
	MatchTypeExact  MatchType = "exact"
	MatchTypeFuzzy  MatchType = "fuzzy"
	MatchTypeLegacy MatchType = "legacy"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Thresholds classify a match confidence. AutoMatch is part of the
// public contract for external auto-apply policies; the engine itself
// never branches on it.
type Thresholds struct {
	Suggest   float64 `json:"suggest"`
	Medium    float64 `json:"medium"`
	AutoMatch float64 `json:"auto_match"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Suggest:   0.90,
		Medium:    0.75,
		AutoMatch: 0.97,
	}
}

// Level classifies a confidence score against the thresholds.
func (t Thresholds) Level(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= t.Suggest:
		return ConfidenceHigh
	case confidence >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Options control one match run. Zero values fall back to the defaults
// from ApplyDefaults; the boolean pointers distinguish "unset" from an
// explicit false so callers can override the configured toggles.
type Options struct {
	ResultLimit              int         `json:"result_limit"`
	DateWindowMonths         int         `json:"date_window_months"`
	IncludeFutureSchedules   bool        `json:"include_future_schedules"`
	AllowCrossVendorFallback bool        `json:"allow_cross_vendor_fallback"`
	VarianceTolerance        float64     `json:"variance_tolerance"`
	Hierarchical             *bool       `json:"hierarchical,omitempty"`
	DebugLogging             *bool       `json:"debug_logging,omitempty"`
	Take                     int         `json:"take"`
	Thresholds               *Thresholds `json:"thresholds,omitempty"`
}

const (
	DefaultResultLimit      = 5
	DefaultDateWindowMonths = 1
	MinSearchBreadth        = 30
)

// ApplyDefaults fills unset options. Take defaults to three times the
// result limit with a floor of MinSearchBreadth so ranking has enough
// of a universe to be stable.
func (o Options) ApplyDefaults() Options {
	if o.ResultLimit <= 0 {
		o.ResultLimit = DefaultResultLimit
	}
	if o.DateWindowMonths <= 0 {
		o.DateWindowMonths = DefaultDateWindowMonths
	}
	if o.Take <= 0 {
		o.Take = o.ResultLimit * 3
		if o.Take < MinSearchBreadth {
			o.Take = MinSearchBreadth
		}
	}
	if o.VarianceTolerance < 0 {
		o.VarianceTolerance = 0
	}
	if o.VarianceTolerance > 1 {
		o.VarianceTolerance = 1
	}
	if o.Thresholds == nil {
		t := DefaultThresholds()
		o.Thresholds = &t
	}
	return o
}

// CandidateSignal is one named contribution to a candidate's score.
// Description is surfaced to users for audit, so it must read well.
type CandidateSignal struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Description  string  `json:"description,omitempty"`
}

// ScoredCandidate is the scored result for one (line, schedule) pair.
type ScoredCandidate struct {
	ScheduleID     snowflake.ID                  `json:"schedule_id"`
	ScheduleNumber string                        `json:"schedule_number"`
	ScheduleDate   *time.Time                    `json:"schedule_date,omitempty"`
	Status         scheduledomain.ScheduleStatus `json:"status"`
	AccountName    string                        `json:"account_name,omitempty"`
	ProductName    string                        `json:"product_name,omitempty"`

	ExpectedUsage              float64 `json:"expected_usage"`
	UsageAdjustment            float64 `json:"usage_adjustment"`
	ActualUsage                float64 `json:"actual_usage"`
	ActualUsageAdjustment      float64 `json:"actual_usage_adjustment"`
	ExpectedCommission         float64 `json:"expected_commission"`
	ActualCommission           float64 `json:"actual_commission"`
	ActualCommissionAdjustment float64 `json:"actual_commission_adjustment"`

	UsageBalance         float64 `json:"usage_balance"`
	CommissionDifference float64 `json:"commission_difference"`

	MatchConfidence float64           `json:"match_confidence"`
	MatchType       MatchType         `json:"match_type"`
	ConfidenceLevel ConfidenceLevel   `json:"confidence_level"`
	Signals         []CandidateSignal `json:"signals"`
	Reasons         []string          `json:"reasons"`

	IsFallback bool       `json:"is_fallback,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// MatchDepositLineResult is a pure, recomputed view; it owns nothing
// persistent. AppliedMatchScheduleID is resolved from existing match
// records regardless of how the candidates rank today.
type MatchDepositLineResult struct {
	LineItem               *depositdomain.DepositLineItem `json:"line_item"`
	AppliedMatchScheduleID *snowflake.ID                  `json:"applied_match_schedule_id,omitempty"`
	Candidates             []ScoredCandidate              `json:"candidates"`
}

type RowStatus string

const (
	RowStatusReconciled RowStatus = "Reconciled"
	RowStatusSuggested  RowStatus = "Suggested"
)

// SuggestedRow is the display-ready projection of a scored candidate.
type SuggestedRow struct {
	ScheduleID     snowflake.ID `json:"schedule_id"`
	ScheduleNumber string       `json:"schedule_number"`
	ScheduleDate   *time.Time   `json:"schedule_date,omitempty"`
	AccountName    string       `json:"account_name,omitempty"`
	ProductName    string       `json:"product_name,omitempty"`

	ExpectedUsage        float64 `json:"expected_usage"`
	ExpectedCommission   float64 `json:"expected_commission"`
	ActualUsage          float64 `json:"actual_usage"`
	ActualCommission     float64 `json:"actual_commission"`
	UsageBalance         float64 `json:"usage_balance"`
	CommissionDifference float64 `json:"commission_difference"`
	ExpectedRate         float64 `json:"expected_rate"`
	ActualRate           float64 `json:"actual_rate"`

	MatchConfidence float64         `json:"match_confidence"`
	MatchType       MatchType       `json:"match_type"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Reasons         []string        `json:"reasons"`
	RowStatus       RowStatus       `json:"status"`
}

var (
	ErrLineItemNotFound = errors.New("deposit_line_not_found")
	ErrInvalidLineID    = errors.New("invalid_deposit_line_id")
)
