// Package seed loads a deterministic demo tenant for local development:
// a few house accounts, a vendor account, products, opportunities, one
// quarter of revenue schedules, and a deposit statement whose lines
// exercise the exact, fuzzy, and fallback matching paths.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
	"gorm.io/gorm"
)

// DemoOrgID is the fixed tenant id every demo record belongs to.
const DemoOrgID = snowflake.ID(1_000_001)

// EnsureDemoData seeds the demo tenant. Safe to run repeatedly; every
// record is looked up by its natural key before insert.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id node is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acme, err := ensureAccount(ctx, tx, node, "Acme Communications LLC", "ACME COMMUNICATIONS", "ACCT-1001")
		if err != nil {
			return err
		}
		globodyne, err := ensureAccount(ctx, tx, node, "Globodyne", "GLOBODYNE INC", "ACCT-1002")
		if err != nil {
			return err
		}

		vendor, err := ensureVendorAccount(ctx, tx, node, "Lumen Wholesale", "VA-9001")
		if err != nil {
			return err
		}

		internet, err := ensureProduct(ctx, tx, node, "Dedicated Internet", "DIA-100")
		if err != nil {
			return err
		}
		voice, err := ensureProduct(ctx, tx, node, "SIP Trunking", "SIP-200")
		if err != nil {
			return err
		}

		acmeOpp, err := ensureOpportunity(ctx, tx, node, "Acme DIA renewal", "CUST-ACME-1", "ORD-5001")
		if err != nil {
			return err
		}
		globodyneOpp, err := ensureOpportunity(ctx, tx, node, "Globodyne voice", "CUST-GLOB-1", "ORD-5002")
		if err != nil {
			return err
		}

		months := []time.Time{
			monthStart(-2),
			monthStart(-1),
			monthStart(0),
		}
		for _, m := range months {
			if err := ensureSchedule(ctx, tx, node, acme, vendor, internet, acmeOpp, m, 1200, 180); err != nil {
				return err
			}
			if err := ensureSchedule(ctx, tx, node, globodyne, vendor, voice, globodyneOpp, m, 800, 96); err != nil {
				return err
			}
		}

		return ensureDeposit(ctx, tx, node, vendor, acme)
	})
}

func ensureAccount(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, legalName, number string) (*scheduledomain.Account, error) {
	var acct scheduledomain.Account
	err := tx.WithContext(ctx).
		Where("org_id = ? AND account_number = ?", DemoOrgID, number).
		First(&acct).Error
	if err == nil {
		return &acct, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	acct = scheduledomain.Account{
		ID:            node.Generate(),
		OrgID:         DemoOrgID,
		Name:          name,
		LegalName:     legalName,
		AccountNumber: number,
	}
	if err := tx.WithContext(ctx).Create(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

func ensureVendorAccount(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, number string) (*scheduledomain.VendorAccount, error) {
	var va scheduledomain.VendorAccount
	err := tx.WithContext(ctx).
		Where("org_id = ? AND account_number = ?", DemoOrgID, number).
		First(&va).Error
	if err == nil {
		return &va, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	va = scheduledomain.VendorAccount{
		ID:            node.Generate(),
		OrgID:         DemoOrgID,
		Name:          name,
		AccountNumber: number,
	}
	if err := tx.WithContext(ctx).Create(&va).Error; err != nil {
		return nil, err
	}
	return &va, nil
}

func ensureProduct(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, partNumber string) (*scheduledomain.Product, error) {
	var p scheduledomain.Product
	err := tx.WithContext(ctx).
		Where("org_id = ? AND part_number = ?", DemoOrgID, partNumber).
		First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = scheduledomain.Product{
		ID:         node.Generate(),
		OrgID:      DemoOrgID,
		Name:       name,
		PartNumber: partNumber,
	}
	if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func ensureOpportunity(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, customerID, orderID string) (*scheduledomain.Opportunity, error) {
	var opp scheduledomain.Opportunity
	err := tx.WithContext(ctx).
		Where("org_id = ? AND order_id_vendor = ?", DemoOrgID, orderID).
		First(&opp).Error
	if err == nil {
		return &opp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	opp = scheduledomain.Opportunity{
		ID:               node.Generate(),
		OrgID:            DemoOrgID,
		Name:             name,
		CustomerIDVendor: customerID,
		OrderIDVendor:    orderID,
		VendorName:       "Lumen",
	}
	if err := tx.WithContext(ctx).Create(&opp).Error; err != nil {
		return nil, err
	}
	return &opp, nil
}

func ensureSchedule(
	ctx context.Context,
	tx *gorm.DB,
	node *snowflake.Node,
	account *scheduledomain.Account,
	vendor *scheduledomain.VendorAccount,
	product *scheduledomain.Product,
	opp *scheduledomain.Opportunity,
	month time.Time,
	usage, commission float64,
) error {
	number := "RS-" + account.AccountNumber + "-" + month.Format("200601")

	var existing scheduledomain.RevenueSchedule
	err := tx.WithContext(ctx).
		Where("org_id = ? AND schedule_number = ?", DemoOrgID, number).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	s := scheduledomain.RevenueSchedule{
		ID:                 node.Generate(),
		OrgID:              DemoOrgID,
		ScheduleNumber:     number,
		ScheduleDate:       &month,
		Status:             scheduledomain.ScheduleStatusInvoiced,
		ExpectedUsage:      usage,
		ExpectedCommission: commission,
		OrderID:            opp.OrderIDVendor,
		AccountID:          &account.ID,
		VendorAccountID:    &vendor.ID,
		ProductID:          &product.ID,
		OpportunityID:      &opp.ID,
		CreatedAt:          &now,
	}
	return tx.WithContext(ctx).Create(&s).Error
}

// ensureDeposit creates one statement with three lines: a clean match
// for the first account, a name-variant line that only matches fuzzily,
// and a stranger that needs the cross-vendor fallback.
func ensureDeposit(ctx context.Context, tx *gorm.DB, node *snowflake.Node, vendor *scheduledomain.VendorAccount, acme *scheduledomain.Account) error {
	const depositNumber = "DEP-DEMO-1"

	var existing depositdomain.Deposit
	err := tx.WithContext(ctx).
		Where("org_id = ? AND deposit_number = ?", DemoOrgID, depositNumber).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	paymentDate := monthStart(0).AddDate(0, 0, 14)
	month := monthStart(0)
	dep := depositdomain.Deposit{
		ID:              node.Generate(),
		OrgID:           DemoOrgID,
		DepositNumber:   depositNumber,
		PaymentDate:     &paymentDate,
		Month:           &month,
		VendorAccountID: &vendor.ID,
	}
	if err := tx.WithContext(ctx).Create(&dep).Error; err != nil {
		return err
	}

	lines := []depositdomain.DepositLineItem{
		{
			ID:               node.Generate(),
			OrgID:            DemoOrgID,
			DepositID:        dep.ID,
			LineNumber:       1,
			UsageAmount:      1200,
			CommissionAmount: 180,
			AccountName:      "Acme Communications, L.L.C",
			ProductName:      "Dedicated Internet",
			AccountIDRaw:     acme.AccountNumber,
			OrderIDVendor:    "ORD-5001",
			AccountID:        &acme.ID,
			PaymentDate:      &paymentDate,
		},
		{
			ID:               node.Generate(),
			OrgID:            DemoOrgID,
			DepositID:        dep.ID,
			LineNumber:       2,
			UsageAmount:      790,
			CommissionAmount: 95,
			AccountName:      "Globodyne Inc",
			ProductName:      "SIP Trunk",
			PaymentDate:      &paymentDate,
		},
		{
			ID:               node.Generate(),
			OrgID:            DemoOrgID,
			DepositID:        dep.ID,
			LineNumber:       3,
			UsageAmount:      410,
			CommissionAmount: 55,
			AccountName:      "Initech Solutions",
			ProductName:      "Dark Fiber",
			PaymentDate:      &paymentDate,
		},
	}
	for i := range lines {
		if err := tx.WithContext(ctx).Create(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func monthStart(offset int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
}
