// Package domain contains persistence models for revenue schedules and
// the CRM records they reference during matching.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ScheduleStatus string

const (
	ScheduleStatusProjected ScheduleStatus = "Projected"
	ScheduleStatusInvoiced  ScheduleStatus = "Invoiced"
	ScheduleStatusClosed    ScheduleStatus = "Closed"
)

// MatchableStatuses are the lifecycle states in which a schedule can
// still settle a deposit line.
var MatchableStatuses = []ScheduleStatus{ScheduleStatusProjected, ScheduleStatusInvoiced}

// Account is a house account. AccountNumber is the externally assigned
// identifier compared against reported account ids.
type Account struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name          string       `gorm:"type:text;not null" json:"name"`
	LegalName     string       `gorm:"type:text" json:"legal_name"`
	AccountNumber string       `gorm:"type:text" json:"account_number"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

// VendorAccount is the org's account with a vendor or supplier.
type VendorAccount struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name          string       `gorm:"type:text;not null" json:"name"`
	AccountNumber string       `gorm:"type:text" json:"account_number"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (VendorAccount) TableName() string { return "vendor_accounts" }

type Product struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	PartNumber string       `gorm:"type:text" json:"part_number"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Opportunity carries the vendor-assigned customer and order
// identifiers plus the distributor/vendor display names used as
// matching signals.
type Opportunity struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID               snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name                string       `gorm:"type:text" json:"name"`
	CustomerIDVendor    string       `gorm:"type:text" json:"customer_id_vendor"`
	CustomerIDAlternate string       `gorm:"type:text" json:"customer_id_alternate"`
	OrderIDVendor       string       `gorm:"type:text" json:"order_id_vendor"`
	DistributorName     string       `gorm:"type:text" json:"distributor_name"`
	VendorName          string       `gorm:"type:text" json:"vendor_name"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Opportunity) TableName() string { return "opportunities" }

// RevenueSchedule is one expected recurring obligation for a month.
// Expected commission carries no adjustment column; that asymmetry is
// long-standing and downstream financials depend on it.
type RevenueSchedule struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID   `gorm:"not null;index" json:"org_id"`
	ScheduleNumber string         `gorm:"type:text" json:"schedule_number"`
	ScheduleDate   *time.Time     `gorm:"index" json:"schedule_date,omitempty"`
	Status         ScheduleStatus `gorm:"type:text;not null;index" json:"status"`

	ExpectedUsage         float64 `gorm:"not null;default:0" json:"expected_usage"`
	UsageAdjustment       float64 `gorm:"not null;default:0" json:"usage_adjustment"`
	ActualUsage           float64 `gorm:"not null;default:0" json:"actual_usage"`
	ActualUsageAdjustment float64 `gorm:"not null;default:0" json:"actual_usage_adjustment"`

	ExpectedCommission         float64 `gorm:"not null;default:0" json:"expected_commission"`
	ActualCommission           float64 `gorm:"not null;default:0" json:"actual_commission"`
	ActualCommissionAdjustment float64 `gorm:"not null;default:0" json:"actual_commission_adjustment"`

	// Order identifiers carried on the schedule itself.
	OrderID      string `gorm:"type:text" json:"order_id"`
	HouseOrderID string `gorm:"type:text" json:"house_order_id"`

	AccountID            *snowflake.ID `gorm:"index" json:"account_id,omitempty"`
	VendorAccountID      *snowflake.ID `gorm:"index" json:"vendor_account_id,omitempty"`
	DistributorAccountID *snowflake.ID `gorm:"index" json:"distributor_account_id,omitempty"`
	ProductID            *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	OpportunityID        *snowflake.ID `gorm:"index" json:"opportunity_id,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`

	Account       *Account       `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	VendorAccount *VendorAccount `gorm:"foreignKey:VendorAccountID" json:"vendor_account,omitempty"`
	Distributor   *Account       `gorm:"foreignKey:DistributorAccountID" json:"distributor,omitempty"`
	Product       *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Opportunity   *Opportunity   `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}

func (RevenueSchedule) TableName() string { return "revenue_schedules" }
