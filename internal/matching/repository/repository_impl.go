package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	matchingdomain "github.com/revlinelabs/revline/internal/matching/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) matchingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) GetDepositLineItem(ctx context.Context, orgID, lineID snowflake.ID) (*depositdomain.DepositLineItem, error) {
	var line depositdomain.DepositLineItem
	err := r.db.WithContext(ctx).
		Preload("Deposit").
		Preload("Matches").
		Where("org_id = ? AND id = ?", orgID, lineID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// ListCandidateSchedules runs one bounded query per call; relations are
// preloaded so scoring needs no further round trips.
func (r *repository) ListCandidateSchedules(ctx context.Context, q matchingdomain.CandidateQuery) ([]scheduledomain.RevenueSchedule, error) {
	query := r.db.WithContext(ctx).
		Model(&scheduledomain.RevenueSchedule{}).
		Preload("Account").
		Preload("VendorAccount").
		Preload("Distributor").
		Preload("Product").
		Preload("Opportunity").
		Where("org_id = ?", q.OrgID).
		Where("status IN ?", q.Statuses).
		Where("schedule_date >= ? AND schedule_date <= ?", q.From, q.To)

	if q.DistributorAccountID != nil {
		query = query.Where("distributor_account_id = ?", *q.DistributorAccountID)
	}
	if q.VendorAccountID != nil {
		query = query.Where("vendor_account_id = ?", *q.VendorAccountID)
	}
	if q.AccountID != nil {
		query = query.Where("account_id = ?", *q.AccountID)
	}

	var rows []scheduledomain.RevenueSchedule
	err := query.
		Order("schedule_date ASC, id ASC").
		Limit(q.Take).
		Find(&rows).Error
	return rows, err
}
