package domain

// OverallClearance is the aggregate progress state derived from a student's
// clearance list.
type OverallClearance string

const (
	// OverallCleared means every clearance department has approved.
	OverallCleared OverallClearance = "cleared"
	// OverallInProgress means no rejections yet, but approvals are outstanding.
	OverallInProgress OverallClearance = "in progress"
	// OverallActionRequired means at least one department has rejected.
	OverallActionRequired OverallClearance = "action required"
)

// ClearanceSummary is a pure projection over a student's clearance statuses.
// It is recomputed from the latest fetched list every time and never cached;
// the backend remains the only authority on the underlying statuses.
type ClearanceSummary struct {
	Total           int
	Approved        int
	Pending         int
	Rejected        int
	PercentComplete float64
	FullyCleared    bool
	Overall         OverallClearance

	// RejectedDepartments lists departments needing student action,
	// in canonical order.
	RejectedDepartments []ClearanceDepartment
	// PendingDepartments lists departments still awaiting review,
	// in canonical order. Departments absent from the input list count
	// as pending.
	PendingDepartments []ClearanceDepartment
}

// SummarizeClearance computes the dashboard aggregates for a clearance list.
// Departments missing from the input are treated as pending, so a freshly
// created student with no status rows still shows the full set outstanding.
func SummarizeClearance(statuses []ClearanceStatus) ClearanceSummary {
	all := AllClearanceDepartments()
	byDept := make(map[ClearanceDepartment]ClearanceState, len(statuses))
	for _, st := range statuses {
		byDept[st.Department] = st.Status
	}

	summary := ClearanceSummary{Total: len(all)}
	for _, dept := range all {
		switch byDept[dept] {
		case ClearanceApproved:
			summary.Approved++
		case ClearanceRejected:
			summary.Rejected++
			summary.RejectedDepartments = append(summary.RejectedDepartments, dept)
		default:
			summary.Pending++
			summary.PendingDepartments = append(summary.PendingDepartments, dept)
		}
	}

	if summary.Total > 0 {
		summary.PercentComplete = float64(summary.Approved) / float64(summary.Total) * 100
	}
	summary.FullyCleared = summary.Approved == summary.Total

	switch {
	case summary.Rejected > 0:
		summary.Overall = OverallActionRequired
	case summary.FullyCleared:
		summary.Overall = OverallCleared
	default:
		summary.Overall = OverallInProgress
	}

	return summary
}
