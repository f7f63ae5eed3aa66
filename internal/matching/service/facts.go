package service

import (
	"time"

	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

// lineFacts is the deposit line reduced to normalized comparison
// inputs, computed once per match run.
type lineFacts struct {
	accountName     string
	distributorName string
	productName     string

	accountID       string
	hasAccountID    bool
	vendorAccountID string
	hasVendorAccID  bool
	customerID      string
	hasCustomerID   bool
	orderID         string
	hasOrderID      bool

	usageAmount      float64
	commissionAmount float64
	referenceDate    *time.Time

	deposit *depositdomain.Deposit
	line    *depositdomain.DepositLineItem
}

func newLineFacts(line *depositdomain.DepositLineItem, referenceDate *time.Time) lineFacts {
	f := lineFacts{
		accountName:      line.AccountName,
		distributorName:  line.DistributorName,
		productName:      line.ProductName,
		usageAmount:      line.UsageAmount,
		commissionAmount: line.CommissionAmount,
		referenceDate:    dateOnlyPtr(referenceDate),
		deposit:          line.Deposit,
		line:             line,
	}
	f.accountID, f.hasAccountID = cleanIdentifier(line.AccountIDRaw)
	f.vendorAccountID, f.hasVendorAccID = cleanIdentifier(line.VendorAccountIDRaw)
	f.customerID, f.hasCustomerID = cleanIdentifier(line.CustomerIDVendor)
	f.orderID, f.hasOrderID = cleanIdentifier(line.OrderIDVendor)
	return f
}

// candidateRow decorates a retrieved schedule with its derived metrics
// and the call-scoped fallback flag. Fallback is never persisted.
type candidateRow struct {
	schedule   scheduledomain.RevenueSchedule
	metrics    scheduleMetrics
	isFallback bool
}

// candidateFacts mirror lineFacts for one schedule.
type candidateFacts struct {
	legalName   string // normalized; falls back to display name
	displayName string

	accountNumber    string
	hasAccountNumber bool
	vendorAccNumber  string
	hasVendorAccNum  bool

	orderIDs    []string // schedule order id, house order id, opportunity vendor order id
	customerIDs []string // opportunity customer id variants

	distributorNames []string
	productName      string
	partNumber       string

	scheduleDate *time.Time
}

func newCandidateFacts(s *scheduledomain.RevenueSchedule) candidateFacts {
	f := candidateFacts{
		scheduleDate: dateOnlyPtr(s.ScheduleDate),
	}

	if s.Account != nil {
		f.displayName = s.Account.Name
		f.legalName = s.Account.LegalName
		if f.legalName == "" {
			f.legalName = s.Account.Name
		}
		f.accountNumber, f.hasAccountNumber = cleanIdentifier(s.Account.AccountNumber)
	}
	if s.VendorAccount != nil {
		f.vendorAccNumber, f.hasVendorAccNum = cleanIdentifier(s.VendorAccount.AccountNumber)
	}

	for _, raw := range []string{s.OrderID, s.HouseOrderID} {
		if id, ok := cleanIdentifier(raw); ok {
			f.orderIDs = append(f.orderIDs, id)
		}
	}
	if s.Opportunity != nil {
		if id, ok := cleanIdentifier(s.Opportunity.OrderIDVendor); ok {
			f.orderIDs = append(f.orderIDs, id)
		}
		for _, raw := range []string{s.Opportunity.CustomerIDVendor, s.Opportunity.CustomerIDAlternate} {
			if id, ok := cleanIdentifier(raw); ok {
				f.customerIDs = append(f.customerIDs, id)
			}
		}
		if s.Opportunity.DistributorName != "" {
			f.distributorNames = append(f.distributorNames, s.Opportunity.DistributorName)
		}
	}
	if s.Distributor != nil && s.Distributor.Name != "" {
		f.distributorNames = append(f.distributorNames, s.Distributor.Name)
	}
	if s.Product != nil {
		f.productName = s.Product.Name
		f.partNumber = s.Product.PartNumber
	}

	return f
}

// -- identity signals ---------------------------------------------------

func accountIDExact(lf lineFacts, cf candidateFacts) bool {
	return lf.hasAccountID && cf.hasAccountNumber && lf.accountID == cf.accountNumber
}

func accountLegalNameExact(lf lineFacts, cf candidateFacts) bool {
	a := normalizeName(lf.accountName)
	b := normalizeName(cf.legalName)
	return a != "" && a == b
}

func vendorAccountExact(lf lineFacts, cf candidateFacts, schedule *scheduledomain.RevenueSchedule) bool {
	if lf.hasVendorAccID && cf.hasVendorAccNum && lf.vendorAccountID == cf.vendorAccNumber {
		return true
	}
	if lf.deposit != nil && lf.deposit.VendorAccountID != nil && schedule.VendorAccountID != nil {
		return *lf.deposit.VendorAccountID == *schedule.VendorAccountID
	}
	return false
}

func customerIDExact(lf lineFacts, cf candidateFacts) bool {
	if !lf.hasCustomerID {
		return false
	}
	for _, id := range cf.customerIDs {
		if id == lf.customerID {
			return true
		}
	}
	return false
}

func orderIDExact(lf lineFacts, cf candidateFacts) bool {
	if !lf.hasOrderID {
		return false
	}
	for _, id := range cf.orderIDs {
		if id == lf.orderID {
			return true
		}
	}
	return false
}

// -- similarity signals -------------------------------------------------

func accountNameSimilarity(lf lineFacts, cf candidateFacts) float64 {
	sim := nameSimilarity(lf.accountName, cf.displayName)
	if legal := nameSimilarity(lf.accountName, cf.legalName); legal > sim {
		sim = legal
	}
	return sim
}

func distributorNameSimilarity(lf lineFacts, cf candidateFacts) float64 {
	best := 0.0
	for _, name := range cf.distributorNames {
		if sim := nameSimilarity(lf.distributorName, name); sim > best {
			best = sim
		}
	}
	return best
}

func productNameSimilarity(lf lineFacts, cf candidateFacts) float64 {
	return nameSimilarity(lf.productName, cf.productName)
}

// productIdentitySimilarity is the best of product-name and part-number
// similarity; reported names often carry the part number instead of the
// catalog name.
func productIdentitySimilarity(lf lineFacts, cf candidateFacts) float64 {
	sim := productNameSimilarity(lf, cf)
	if part := nameSimilarity(lf.productName, cf.partNumber); part > sim {
		sim = part
	}
	return sim
}

// usageProximity compares the reported usage to the schedule's expected
// usage net of adjustment.
func usageProximity(lf lineFacts, m scheduleMetrics) float64 {
	return amountProximity(lf.usageAmount, m.expectedUsageNet)
}

// commissionProximity compares the reported commission to the
// outstanding commission difference, the amount the line would settle.
func commissionProximity(lf lineFacts, m scheduleMetrics) float64 {
	return amountProximity(lf.commissionAmount, m.commissionDifference)
}

func candidateDateProximity(lf lineFacts, cf candidateFacts) float64 {
	return dateProximity(lf.referenceDate, cf.scheduleDate)
}
