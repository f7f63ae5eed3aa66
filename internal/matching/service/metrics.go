package service

import (
	scheduledomain "github.com/revlinelabs/revline/internal/revenueschedule/domain"
)

// scheduleMetrics are the derived usage/commission figures for one
// candidate schedule. Expected commission carries no adjustment column
// in the schema; the zero term is structural, not an omission.
type scheduleMetrics struct {
	expectedUsageNet      float64
	actualUsageNet        float64
	expectedCommissionNet float64
	actualCommissionNet   float64
	usageBalance          float64
	commissionDifference  float64
}

func computeScheduleMetrics(s *scheduledomain.RevenueSchedule) scheduleMetrics {
	m := scheduleMetrics{
		expectedUsageNet:      s.ExpectedUsage + s.UsageAdjustment,
		actualUsageNet:        s.ActualUsage + s.ActualUsageAdjustment,
		expectedCommissionNet: s.ExpectedCommission,
		actualCommissionNet:   s.ActualCommission + s.ActualCommissionAdjustment,
	}
	m.usageBalance = m.expectedUsageNet - m.actualUsageNet
	m.commissionDifference = m.expectedCommissionNet - m.actualCommissionNet
	return m
}
