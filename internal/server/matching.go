package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	"github.com/revlinelabs/revline/pkg/db/pagination"
)

// @Summary      Match deposit line
// @Description  Score and rank revenue-schedule candidates for a deposit line
// @Tags         matching
// @Produce      json
// @Param        id                         path   string  true   "Deposit line id"
// @Param        limit                      query  int     false  "Result limit (default 5)"
// @Param        date_window_months         query  int     false  "Date window in months (default 1)"
// @Param        include_future             query  bool    false  "Include future schedules"
// @Param        hierarchical               query  bool    false  "Use hierarchical two-pass scoring"
// @Param        variance_tolerance         query  number  false  "Pass-A amount/date tolerance in [0,1]"
// @Param        cross_vendor_fallback      query  bool    false  "Broaden search when the narrow search is empty"
// @Param        debug                      query  bool    false  "Emit candidate debug logs"
// @Success      200  {object}  matchingdomain.MatchDepositLineResult
// @Router       /v1/deposit-lines/{id}/match-candidates [get]
func (s *Server) MatchDepositLine(c *gin.Context) {
	result, strategy, err := s.runMatch(c)
	if err != nil {
		matchRequestsTotal.WithLabelValues(strategy, "error").Inc()
		AbortWithError(c, err)
		return
	}
	matchRequestsTotal.WithLabelValues(strategy, "ok").Inc()
	respondData(c, result)
}

// @Summary      Match suggestions
// @Description  Ranked candidates projected into display-ready rows
// @Tags         matching
// @Produce      json
// @Param        id  path  string  true  "Deposit line id"
// @Success      200  {array}  matchingdomain.SuggestedRow
// @Router       /v1/deposit-lines/{id}/match-suggestions [get]
func (s *Server) MatchDepositLineSuggestions(c *gin.Context) {
	result, strategy, err := s.runMatch(c)
	if err != nil {
		matchRequestsTotal.WithLabelValues(strategy, "error").Inc()
		AbortWithError(c, err)
		return
	}
	matchRequestsTotal.WithLabelValues(strategy, "ok").Inc()

	rows := s.matchsvc.CandidatesToSuggestedRows(result.LineItem, result.Candidates, result.AppliedMatchScheduleID)
	respondList(c, rows, &pagination.PageInfo{TotalCount: int64(len(rows))})
}

func (s *Server) runMatch(c *gin.Context) (*matchingdomain.MatchDepositLineResult, string, error) {
	orgID, ok := orgIDFromContext(c)
	if !ok {
		return nil, "unknown", ErrMissingOrg
	}

	opts, err := matchOptionsFromQuery(c)
	if err != nil {
		return nil, "unknown", err
	}

	strategy := "legacy"
	if opts.Hierarchical != nil && *opts.Hierarchical || opts.Hierarchical == nil && s.cfg.Matching.HierarchicalEnabled {
		strategy = "hierarchical"
	}

	start := time.Now()
	result, err := s.matchsvc.MatchDepositLine(c.Request.Context(), orgID, c.Param("id"), opts)
	matchDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, strategy, err
	}
	return result, strategy, nil
}

func matchOptionsFromQuery(c *gin.Context) (matchingdomain.Options, error) {
	var opts matchingdomain.Options

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return opts, newValidationError("limit", "invalid_limit", "limit must be a positive integer")
		}
		opts.ResultLimit = limit
	}
	if raw := c.Query("date_window_months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil || months <= 0 {
			return opts, newValidationError("date_window_months", "invalid_date_window", "date_window_months must be a positive integer")
		}
		opts.DateWindowMonths = months
	}
	if raw := c.Query("variance_tolerance"); raw != "" {
		tol, err := strconv.ParseFloat(raw, 64)
		if err != nil || tol < 0 || tol > 1 {
			return opts, newValidationError("variance_tolerance", "invalid_tolerance", "variance_tolerance must be in [0,1]")
		}
		opts.VarianceTolerance = tol
	}

	opts.IncludeFutureSchedules = queryFlag(c, "include_future")
	opts.AllowCrossVendorFallback = queryFlag(c, "cross_vendor_fallback")

	if raw := c.Query("hierarchical"); raw != "" {
		v := parseQueryBool(raw)
		opts.Hierarchical = &v
	}
	if raw := c.Query("debug"); raw != "" {
		v := parseQueryBool(raw)
		opts.DebugLogging = &v
	}

	return opts, nil
}

func queryFlag(c *gin.Context, name string) bool {
	return parseQueryBool(c.Query(name))
}

func parseQueryBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true
	default:
		return false
	}
}
