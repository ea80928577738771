package dto

import "time"

// DashboardResponse es el resumen de GET /v1/dashboard. Se computa
// detrás del cache con TTL de 5 minutos, por eso lleva GeneratedAt.
type DashboardResponse struct {
	ActiveEmployees int                `json:"active_employees"`
	PendingLeaves   int                `json:"pending_leaves"`
	Period          string             `json:"period"` // YYYY-MM corriente
	PeriodNetTotal  int64              `json:"period_net_total"`
	RecentActivity  []AuditLogResponse `json:"recent_activity"`
	GeneratedAt     time.Time          `json:"generated_at"`
}
