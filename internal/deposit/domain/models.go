// Package domain contains persistence models for vendor deposit
// statements and their line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Deposit is one vendor payment statement. Line items fall back to its
// payment date, then its month, when they carry no date of their own.
type Deposit struct {
	ID                   snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID                snowflake.ID  `gorm:"not null;index" json:"org_id"`
	DepositNumber        string        `gorm:"type:text" json:"deposit_number"`
	PaymentDate          *time.Time    `json:"payment_date,omitempty"`
	Month                *time.Time    `json:"month,omitempty"`
	DistributorAccountID *snowflake.ID `gorm:"index" json:"distributor_account_id,omitempty"`
	VendorAccountID      *snowflake.ID `gorm:"index" json:"vendor_account_id,omitempty"`
	CreatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Deposit) TableName() string { return "deposits" }

// DepositLineItem is one reported usage/commission row from a deposit
// statement. The identity strings are stored exactly as reported;
// normalization happens at matching time. Created by statement
// ingestion and read-only to the matching engine.
type DepositLineItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"org_id"`
	DepositID  snowflake.ID `gorm:"not null;index" json:"deposit_id"`
	LineNumber int          `gorm:"not null" json:"line_number"`

	UsageAmount      float64 `gorm:"not null;default:0" json:"usage_amount"`
	CommissionAmount float64 `gorm:"not null;default:0" json:"commission_amount"`
	CommissionRate   float64 `gorm:"not null;default:0" json:"commission_rate"`

	// As-reported identity strings.
	AccountName     string `gorm:"type:text" json:"account_name"`
	VendorName      string `gorm:"type:text" json:"vendor_name"`
	DistributorName string `gorm:"type:text" json:"distributor_name"`
	ProductName     string `gorm:"type:text" json:"product_name"`

	// As-reported identifiers.
	AccountIDRaw       string `gorm:"column:account_id_raw;type:text" json:"account_id_raw"`
	VendorAccountIDRaw string `gorm:"column:vendor_account_id_raw;type:text" json:"vendor_account_id_raw"`
	CustomerIDVendor   string `gorm:"type:text" json:"customer_id_vendor"`
	OrderIDVendor      string `gorm:"type:text" json:"order_id_vendor"`

	// AccountID is set when ingestion resolved the reported account to a
	// house account; used to narrow candidate retrieval.
	AccountID *snowflake.ID `gorm:"index" json:"account_id,omitempty"`

	PaymentDate *time.Time     `json:"payment_date,omitempty"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Deposit *Deposit           `gorm:"foreignKey:DepositID" json:"deposit,omitempty"`
	Matches []DepositLineMatch `gorm:"foreignKey:DepositLineItemID" json:"matches,omitempty"`
}

func (DepositLineItem) TableName() string { return "deposit_line_items" }

type MatchStatus string

const (
	MatchStatusSuggested MatchStatus = "Suggested"
	MatchStatusApplied   MatchStatus = "Applied"
	MatchStatusRejected  MatchStatus = "Rejected"
)

// DepositLineMatch records a schedule match decision for a line item.
// Writing these (the apply path) is outside the matching engine; the
// engine only reads them to surface the already-applied schedule.
type DepositLineMatch struct {
	ID                snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID   `gorm:"not null;index" json:"org_id"`
	DepositLineItemID snowflake.ID   `gorm:"not null;index" json:"deposit_line_item_id"`
	RevenueScheduleID snowflake.ID   `gorm:"not null;index" json:"revenue_schedule_id"`
	Status            MatchStatus    `gorm:"type:text;not null" json:"status"`
	Confidence        float64        `gorm:"not null;default:0" json:"confidence"`
	Reasons           pq.StringArray `gorm:"type:text[]" json:"reasons,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DepositLineMatch) TableName() string { return "deposit_line_matches" }

// ReferenceDate resolves the date used for candidate retrieval and date
// proximity: line payment date, else deposit payment date, else the
// deposit month.
func (li *DepositLineItem) ReferenceDate() *time.Time {
	if li.PaymentDate != nil {
		return li.PaymentDate
	}
	if li.Deposit != nil {
		if li.Deposit.PaymentDate != nil {
			return li.Deposit.PaymentDate
		}
		if li.Deposit.Month != nil {
			return li.Deposit.Month
		}
	}
	return nil
}

// AppliedScheduleID returns the schedule already applied to this line,
// if any.
func (li *DepositLineItem) AppliedScheduleID() *snowflake.ID {
	for i := range li.Matches {
		if li.Matches[i].Status == MatchStatusApplied {
			id := li.Matches[i].RevenueScheduleID
			return &id
		}
	}
	return nil
}
