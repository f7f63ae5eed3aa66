package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/revlinelabs/revline/internal/clock"
	"github.com/revlinelabs/revline/internal/config"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	"github.com/revlinelabs/revline/internal/matching/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log *zap.Logger

	repo  matchingdomain.Repository
	clock clock.Clock
	cfg   config.MatchingConfig
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cfg   config.Config
}

func NewService(p ServiceParam) matchingdomain.Service {
	return &Service{
		log:   p.Log.Named("matching.service"),
		repo:  repository.NewRepository(p.DB),
		clock: p.Clock,
		cfg:   p.Cfg.Matching,
	}
}

// MatchDepositLine scores and ranks revenue-schedule candidates for one
// deposit line. The computation is read-only and idempotent; candidates
// may be stale by the time a caller applies one, so eligibility must be
// re-validated at apply time.
func (s *Service) MatchDepositLine(ctx context.Context, orgID snowflake.ID, lineID string, opts matchingdomain.Options) (*matchingdomain.MatchDepositLineResult, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(lineID))
	if err != nil {
		return nil, matchingdomain.ErrInvalidLineID
	}

	ctx, span := otel.Tracer("revline/matching").Start(ctx, "matching.MatchDepositLine",
		trace.WithAttributes(
			attribute.String("org_id", orgID.String()),
			attribute.String("line_id", id.String()),
		))
	defer span.End()

	opts = opts.ApplyDefaults()
	hierarchical := s.cfg.HierarchicalEnabled
	if opts.Hierarchical != nil {
		hierarchical = *opts.Hierarchical
	}
	debug := s.cfg.DebugLogging
	if opts.DebugLogging != nil {
		debug = *opts.DebugLogging
	}

	line, err := s.repo.GetDepositLineItem(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, matchingdomain.ErrLineItemNotFound
	}

	referenceDate := s.clock.Now(ctx)
	if ref := line.ReferenceDate(); ref != nil {
		referenceDate = *ref
	}

	rows, err := s.retrieveCandidates(ctx, line, referenceDate, opts)
	if err != nil {
		return nil, err
	}

	lf := newLineFacts(line, &referenceDate)

	var candidates []matchingdomain.ScoredCandidate
	if hierarchical {
		candidates = scoreHierarchical(lf, rows, opts.VarianceTolerance, *opts.Thresholds)
	} else {
		candidates = scoreLegacy(lf, rows, *opts.Thresholds)
	}

	sortCandidates(candidates)
	candidates = truncateCandidates(candidates, opts.ResultLimit)

	if debug {
		s.logCandidates(line, candidates, hierarchical)
	}

	return &matchingdomain.MatchDepositLineResult{
		LineItem:               line,
		AppliedMatchScheduleID: line.AppliedScheduleID(),
		Candidates:             candidates,
	}, nil
}

func (s *Service) CandidatesToSuggestedRows(
	lineItem *depositdomain.DepositLineItem,
	candidates []matchingdomain.ScoredCandidate,
	appliedScheduleID *snowflake.ID,
) []matchingdomain.SuggestedRow {
	return candidatesToSuggestedRows(lineItem, candidates, appliedScheduleID)
}

// logCandidates emits the per-candidate summary behind the debug
// toggle. Advisory only; it never affects control flow.
func (s *Service) logCandidates(line *depositdomain.DepositLineItem, candidates []matchingdomain.ScoredCandidate, hierarchical bool) {
	runID := ulid.Make().String()
	s.log.Debug("match run",
		zap.String("run_id", runID),
		zap.String("line_id", line.ID.String()),
		zap.Int("line_number", line.LineNumber),
		zap.Bool("hierarchical", hierarchical),
		zap.Int("candidates", len(candidates)),
	)
	for i := range candidates {
		c := &candidates[i]
		reasons := c.Reasons
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		s.log.Debug("match candidate",
			zap.String("run_id", runID),
			zap.String("schedule_id", c.ScheduleID.String()),
			zap.String("schedule_number", c.ScheduleNumber),
			zap.Float64("confidence", c.MatchConfidence),
			zap.String("match_type", string(c.MatchType)),
			zap.Timep("schedule_date", c.ScheduleDate),
			zap.Strings("top_reasons", reasons),
		)
	}
}
