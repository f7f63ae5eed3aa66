package service

import (
	"math"
	"strings"
	"time"
)

// legalSuffixes are stripped from normalized names as whole tokens.
// "L.L.C" and "CO." collapse to "LLC"-style tokens during punctuation
// replacement, so the token set holds the post-punctuation forms.
var legalSuffixes = map[string]struct{}{
	"LLC":          {},
	"INC":          {},
	"INCORPORATED": {},
	"CORP":         {},
	"CORPORATION":  {},
	"CO":           {},
	"LTD":          {},
}

// normalizeName upper-cases, replaces '.'/',' with spaces, collapses
// whitespace, and strips legal-entity suffix tokens. "ACME, INC." and
// "Acme Corp" both normalize to "ACME".
func normalizeName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	// Dotted multi-letter suffixes must go before punctuation
	// replacement splits them into single-letter tokens.
	s = strings.ReplaceAll(s, "L.L.C", " ")

	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, ",", " ")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, isSuffix := legalSuffixes[f]; isSuffix {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// cleanIdentifier trims and upper-cases an as-reported identifier.
// Empty strings and the literals "null"/"n/a" count as absent so a
// missing id is never confused with a mismatching one.
func cleanIdentifier(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	switch strings.ToLower(s) {
	case "null", "n/a":
		return "", false
	}
	return strings.ToUpper(s), true
}

// dateOnly truncates to the UTC calendar day. All date comparisons run
// on day values to avoid timezone-induced off-by-one errors.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

// nameSimilarity is token-set overlap between two normalized names:
// |intersection| / max(|A|, |B|). Identical normalized strings score 1,
// an empty side scores 0.
func nameSimilarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common++
		}
	}
	max := len(setA)
	if len(setB) > max {
		max = len(setB)
	}
	return float64(common) / float64(max)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// amountProximity is a symmetric relative-error measure: a $5 variance
// on a $10 line is far more damaging than on a $10,000 line. Zero on
// either side means no basis for comparison and scores 0.
func amountProximity(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	maxAbs := math.Abs(a)
	if math.Abs(b) > maxAbs {
		maxAbs = math.Abs(b)
	}
	return clamp01(1 - math.Abs(a-b)/maxAbs)
}

const dateProximityWindowDays = 90

// dateProximity decays linearly over a 90-day window of day gaps.
func dateProximity(a, b *time.Time) float64 {
	if a == nil || b == nil {
		return 0
	}
	gap := dateOnly(*a).Sub(dateOnly(*b)).Hours() / 24
	days := math.Abs(gap)
	if days >= dateProximityWindowDays {
		return 0
	}
	return clamp01((dateProximityWindowDays - days) / dateProximityWindowDays)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
