package model

// AdminStats aggregates platform-wide counters for the admin dashboard
type AdminStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalItems        int64 `json:"total_items"`
	TotalSwaps        int64 `json:"total_swaps"`
	PendingApprovals  int64 `json:"pending_approvals"`
	TotalPointsIssued int64 `json:"total_points_issued"`
}
