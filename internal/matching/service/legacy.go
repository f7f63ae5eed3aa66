package service

import (
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
)

// Legacy flat-weighted scoring. Weights sum to 1.0; every candidate in
// the universe gets a score, no floor is applied.
const (
	legacyWeightVendorAccount = 0.18
	legacyWeightAccount       = 0.22
	legacyWeightCustomerID    = 0.12
	legacyWeightOrderID       = 0.12
	legacyWeightName          = 0.12
	legacyWeightProduct       = 0.08
	legacyWeightUsage         = 0.08
	legacyWeightCommission    = 0.05
	legacyWeightDate          = 0.03
)

func scoreLegacy(lf lineFacts, rows []candidateRow, thresholds matchingdomain.Thresholds) []matchingdomain.ScoredCandidate {
	out := make([]matchingdomain.ScoredCandidate, 0, len(rows))
	for i := range rows {
		out = append(out, scoreLegacyCandidate(lf, &rows[i], thresholds))
	}
	return out
}

func scoreLegacyCandidate(lf lineFacts, row *candidateRow, thresholds matchingdomain.Thresholds) matchingdomain.ScoredCandidate {
	cf := newCandidateFacts(&row.schedule)

	// Account exact means an id match or legal-name equality; reported
	// statements rarely carry both.
	accountExact := accountIDExact(lf, cf) || accountLegalNameExact(lf, cf)

	nameSim := accountNameSimilarity(lf, cf)
	if dist := distributorNameSimilarity(lf, cf); dist > nameSim {
		nameSim = dist
	}

	signals := []matchingdomain.CandidateSignal{
		newSignal("vendor_account_exact", boolScore(vendorAccountExact(lf, cf, &row.schedule)), legacyWeightVendorAccount, "vendor account matches"),
		newSignal("account_exact", boolScore(accountExact), legacyWeightAccount, "account matches"),
		newSignal("customer_id_exact", boolScore(customerIDExact(lf, cf)), legacyWeightCustomerID, "customer id matches"),
		newSignal("order_id_exact", boolScore(orderIDExact(lf, cf)), legacyWeightOrderID, "order id matches"),
		newSignal("name_similarity", nameSim, legacyWeightName, "account/distributor name is similar"),
		newSignal("product_similarity", productNameSimilarity(lf, cf), legacyWeightProduct, "product name is similar"),
		newSignal("usage_proximity", usageProximity(lf, row.metrics), legacyWeightUsage, "usage amount is close to expected"),
		newSignal("commission_proximity", commissionProximity(lf, row.metrics), legacyWeightCommission, "commission amount is close to outstanding"),
		newSignal("date_proximity", candidateDateProximity(lf, cf), legacyWeightDate, "payment date is near the schedule date"),
	}

	confidence := 0.0
	for _, sig := range signals {
		confidence += sig.Contribution
	}
	if confidence > 1 {
		confidence = 1
	}
	confidence = round4(confidence)

	return buildScoredCandidate(row, confidence, matchingdomain.MatchTypeLegacy, thresholds.Level(confidence), signals, nil)
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
