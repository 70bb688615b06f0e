package api

import (
	"context"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// ClearanceService covers the clearance status endpoints used by staff.
type ClearanceService struct {
	gw *gateway.Client
}

// Update sets one department's clearance status for a student.
func (s ClearanceService) Update(ctx context.Context, req domain.ClearanceUpdate) (domain.ClearanceStatus, error) {
	var status domain.ClearanceStatus
	if err := s.gw.Put(ctx, "/clearance/update", req, &status); err != nil {
		return domain.ClearanceStatus{}, err
	}
	return status, nil
}
