package api

import (
	"context"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// ScannersService covers the scan-session endpoints: arming a desk scanner
// for the current operator and polling for the tag it reports.
type ScannersService struct {
	gw *gateway.Client
}

// Activate binds the given device to the authenticated operator so the next
// hardware scan is routed to them.
func (s ScannersService) Activate(ctx context.Context, deviceID int64) error {
	req := domain.ActivationRequest{DeviceID: deviceID}
	return s.gw.Post(ctx, "/admin/scanners/activate", req, nil)
}

// Retrieve polls for the latest tag scanned by the operator's activated
// device. The backend answers not-found until a scan arrives; callers treat
// that as an empty poll, not a failure.
func (s ScannersService) Retrieve(ctx context.Context) (domain.TagScan, error) {
	var scan domain.TagScan
	if err := s.gw.Get(ctx, "/admin/scanners/retrieve", nil, &scan); err != nil {
		return domain.TagScan{}, err
	}
	return scan, nil
}
