package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func status(dept ClearanceDepartment, state ClearanceState) ClearanceStatus {
	return ClearanceStatus{Department: dept, Status: state}
}

func TestSummarizeClearance_Empty(t *testing.T) {
	s := SummarizeClearance(nil)

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 0, s.Approved)
	assert.Equal(t, 5, s.Pending)
	assert.Equal(t, 0, s.Rejected)
	assert.InDelta(t, 0.0, s.PercentComplete, 0.001)
	assert.False(t, s.FullyCleared)
	assert.Equal(t, OverallInProgress, s.Overall)
	assert.Len(t, s.PendingDepartments, 5)
}

func TestSummarizeClearance_Partial(t *testing.T) {
	s := SummarizeClearance([]ClearanceStatus{
		status(ClearanceLibrary, ClearanceApproved),
		status(ClearanceBursary, ClearanceApproved),
		status(ClearanceStudentAffairs, ClearancePending),
	})

	assert.Equal(t, 2, s.Approved)
	assert.Equal(t, 3, s.Pending) // explicit pending + two missing departments
	assert.Equal(t, 0, s.Rejected)
	assert.InDelta(t, 40.0, s.PercentComplete, 0.001)
	assert.False(t, s.FullyCleared)
	assert.Equal(t, OverallInProgress, s.Overall)
}

func TestSummarizeClearance_Rejection(t *testing.T) {
	s := SummarizeClearance([]ClearanceStatus{
		status(ClearanceLibrary, ClearanceApproved),
		status(ClearanceStudentAffairs, ClearanceApproved),
		status(ClearanceBursary, ClearanceRejected),
		status(ClearanceAcademicAffairs, ClearanceApproved),
		status(ClearanceHealthCenter, ClearanceApproved),
	})

	assert.Equal(t, 4, s.Approved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 0, s.Pending)
	assert.False(t, s.FullyCleared)
	assert.Equal(t, OverallActionRequired, s.Overall)
	assert.Equal(t, []ClearanceDepartment{ClearanceBursary}, s.RejectedDepartments)
}

func TestSummarizeClearance_FullyCleared(t *testing.T) {
	var statuses []ClearanceStatus
	for _, dept := range AllClearanceDepartments() {
		statuses = append(statuses, status(dept, ClearanceApproved))
	}

	s := SummarizeClearance(statuses)

	assert.Equal(t, 5, s.Approved)
	assert.True(t, s.FullyCleared)
	assert.InDelta(t, 100.0, s.PercentComplete, 0.001)
	assert.Equal(t, OverallCleared, s.Overall)
	assert.Empty(t, s.PendingDepartments)
	assert.Empty(t, s.RejectedDepartments)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, Role("superuser").Valid())
}

func TestClearanceStateValid(t *testing.T) {
	assert.True(t, ClearanceApproved.Valid())
	assert.False(t, ClearanceState("done").Valid())
}
