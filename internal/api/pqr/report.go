package pqr

import (
	"armonia-backend/internal/domain/pqr"

	"gorm.io/gorm"
)

type Report struct {
	Total              int64            `json:"total"`
	ByStatus           map[string]int64 `json:"by_status"`
	ByCategory         map[string]int64 `json:"by_category"`
	ResolvedCount      int64            `json:"resolved_count"`
	SLACompliancePct   float64          `json:"sla_compliance_pct"`
	AvgResolutionHours float64          `json:"avg_resolution_hours"`
}

type groupCount struct {
	Key string
	N   int64
}

// BuildReport aggregates ticket counts and SLA compliance: the share of
// resolved tickets whose resolution landed within the category's SLA window.
func BuildReport(db *gorm.DB) (*Report, error) {
	report := &Report{
		ByStatus:   map[string]int64{},
		ByCategory: map[string]int64{},
	}

	if err := db.Model(&pqr.Ticket{}).Count(&report.Total).Error; err != nil {
		return nil, err
	}

	var byStatus []groupCount
	if err := db.Model(&pqr.Ticket{}).
		Select("status AS key, COUNT(*) AS n").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		report.ByStatus[row.Key] = row.N
	}

	var byCategory []groupCount
	if err := db.Model(&pqr.Ticket{}).
		Select("category AS key, COUNT(*) AS n").
		Group("category").
		Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		report.ByCategory[row.Key] = row.N
	}

	var resolved []pqr.Ticket
	if err := db.
		Where("resolved_at IS NOT NULL").
		Find(&resolved).Error; err != nil {
		return nil, err
	}
	report.ResolvedCount = int64(len(resolved))
	if len(resolved) == 0 {
		return report, nil
	}

	withinSLA := 0
	var totalHours float64
	for _, t := range resolved {
		hours := t.ResolvedAt.Sub(t.CreatedAt).Hours()
		totalHours += hours
		if hours <= float64(t.SLAHours) {
			withinSLA++
		}
	}
	report.SLACompliancePct = float64(withinSLA) / float64(len(resolved)) * 100
	report.AvgResolutionHours = totalHours / float64(len(resolved))

	return report, nil
}
