package service

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
)

// Hierarchical two-pass scoring: Pass A accepts on exact identity with
// a variance-tolerance gate, Pass B scores the remainder on weighted
// fuzzy similarity.
const (
	passAIdentityWeight = 0.25

	passBWeightAccountName = 0.4
	passBWeightProduct     = 0.3
	passBWeightAmount      = 0.2
	passBWeightDate        = 0.1

	passBConfidenceFloor  = 0.5
	fallbackConfidenceCap = 0.6
)

func scoreHierarchical(lf lineFacts, rows []candidateRow, tolerance float64, thresholds matchingdomain.Thresholds) []matchingdomain.ScoredCandidate {
	accepted := make([]matchingdomain.ScoredCandidate, 0, len(rows))
	acceptedIDs := make(map[snowflake.ID]struct{})

	// Pass A: exact identity. Cross-vendor fallback rows never qualify;
	// a broadened search cannot assert identity.
	for i := range rows {
		row := &rows[i]
		if row.isFallback {
			continue
		}
		if cand, ok := scoreExactCandidate(lf, row, tolerance); ok {
			accepted = append(accepted, cand)
			acceptedIDs[row.schedule.ID] = struct{}{}
		}
	}

	// Pass B: fuzzy, over everything Pass A did not take.
	for i := range rows {
		row := &rows[i]
		if _, done := acceptedIDs[row.schedule.ID]; done {
			continue
		}
		if cand, ok := scoreFuzzyCandidate(lf, row, thresholds); ok {
			accepted = append(accepted, cand)
		}
	}

	return accepted
}

func scoreExactCandidate(lf lineFacts, row *candidateRow, tolerance float64) (matchingdomain.ScoredCandidate, bool) {
	cf := newCandidateFacts(&row.schedule)

	legalName := accountLegalNameExact(lf, cf)
	orderID := orderIDExact(lf, cf)
	customerID := customerIDExact(lf, cf)
	accountID := accountIDExact(lf, cf)

	// Qualification is OR-of-booleans; the weights exist for the audit
	// trail only.
	if !legalName && !orderID && !customerID && !accountID {
		return matchingdomain.ScoredCandidate{}, false
	}

	amountProx := commissionProximity(lf, row.metrics)
	if usage := usageProximity(lf, row.metrics); usage > amountProx {
		amountProx = usage
	}
	dateProx := candidateDateProximity(lf, cf)

	gate := 1 - tolerance
	if amountProx < gate || dateProx < gate {
		return matchingdomain.ScoredCandidate{}, false
	}

	signals := []matchingdomain.CandidateSignal{
		newSignal("account_legal_name_exact", boolScore(legalName), passAIdentityWeight, "account legal name matches exactly"),
		newSignal("order_id_exact", boolScore(orderID), passAIdentityWeight, "order id matches"),
		newSignal("customer_id_exact", boolScore(customerID), passAIdentityWeight, "customer id matches"),
		newSignal("account_id_exact", boolScore(accountID), passAIdentityWeight, "account id matches"),
	}

	cand := buildScoredCandidate(row, 1, matchingdomain.MatchTypeExact, matchingdomain.ConfidenceHigh, signals, nil)
	return cand, true
}

func scoreFuzzyCandidate(lf lineFacts, row *candidateRow, thresholds matchingdomain.Thresholds) (matchingdomain.ScoredCandidate, bool) {
	cf := newCandidateFacts(&row.schedule)

	if hasStrongIDConflict(lf, cf) {
		return matchingdomain.ScoredCandidate{}, false
	}

	amountProx := usageProximity(lf, row.metrics)
	if commission := commissionProximity(lf, row.metrics); commission > amountProx {
		amountProx = commission
	}

	signals := []matchingdomain.CandidateSignal{
		newSignal("account_name_similarity", accountNameSimilarity(lf, cf), passBWeightAccountName, "account name is similar"),
		newSignal("product_identity_similarity", productIdentitySimilarity(lf, cf), passBWeightProduct, "product name or part number is similar"),
		newSignal("amount_proximity", amountProx, passBWeightAmount, "reported amounts are close to the schedule"),
		newSignal("date_proximity", candidateDateProximity(lf, cf), passBWeightDate, "payment date is near the schedule date"),
	}

	confidence := 0.0
	for _, sig := range signals {
		confidence += sig.Contribution
	}
	confidence = round4(clamp01(confidence))

	var notes []string
	if row.isFallback && confidence > fallbackConfidenceCap {
		confidence = fallbackConfidenceCap
		notes = append(notes, fmt.Sprintf("cross-vendor fallback candidate; confidence capped at %.2f", fallbackConfidenceCap))
	}

	if confidence < passBConfidenceFloor {
		return matchingdomain.ScoredCandidate{}, false
	}

	cand := buildScoredCandidate(row, confidence, matchingdomain.MatchTypeFuzzy, thresholds.Level(confidence), signals, notes)
	return cand, true
}

// hasStrongIDConflict rejects candidates whose identifiers actively
// disagree with the line. A schedule that simply lacks an identifier is
// not a conflict.
func hasStrongIDConflict(lf lineFacts, cf candidateFacts) bool {
	if lf.hasOrderID && len(cf.orderIDs) > 0 && !orderIDExact(lf, cf) {
		return true
	}
	if lf.hasCustomerID && len(cf.customerIDs) > 0 && !customerIDExact(lf, cf) {
		return true
	}
	if lf.hasAccountID && cf.hasAccountNumber && lf.accountID != cf.accountNumber {
		return true
	}
	return false
}
