package service

import (
	"time"

	"github.com/bwmarrin/snowflake"
	depositdomain "github.com/revlinelabs/revline/internal/deposit/domain"
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

const testOrgID = snowflake.ID(1001)

func datePtr(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

type lineOpt func(*depositdomain.DepositLineItem)

func testLine(opts ...lineOpt) *depositdomain.DepositLineItem {
	line := &depositdomain.DepositLineItem{
		ID:               snowflake.ID(5001),
		OrgID:            testOrgID,
		DepositID:        snowflake.ID(4001),
		LineNumber:       1,
		UsageAmount:      1000,
		CommissionAmount: 150,
		AccountName:      "Acme Corp",
		ProductName:      "Dedicated Internet",
		PaymentDate:      datePtr("2024-03-15"),
	}
	for _, opt := range opts {
		opt(line)
	}
	return line
}

type scheduleOpt func(*scheduledomain.RevenueSchedule)

func testSchedule(id int64, opts ...scheduleOpt) scheduledomain.RevenueSchedule {
	s := scheduledomain.RevenueSchedule{
		ID:                 snowflake.ID(id),
		OrgID:              testOrgID,
		ScheduleNumber:     "RS-" + snowflake.ID(id).String(),
		ScheduleDate:       datePtr("2024-03-15"),
		Status:             scheduledomain.ScheduleStatusInvoiced,
		ExpectedUsage:      1000,
		ExpectedCommission: 150,
		CreatedAt:          datePtr("2024-01-10"),
		Account: &scheduledomain.Account{
			ID:    snowflake.ID(id + 100),
			OrgID: testOrgID,
			Name:  "Acme",
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func toRows(schedules ...scheduledomain.RevenueSchedule) []candidateRow {
	rows := make([]candidateRow, 0, len(schedules))
	for i := range schedules {
		rows = append(rows, candidateRow{
			schedule: schedules[i],
			metrics:  computeScheduleMetrics(&schedules[i]),
		})
	}
	return rows
}

func asFallback(rows []candidateRow) []candidateRow {
	for i := range rows {
		rows[i].isFallback = true
	}
	return rows
}
