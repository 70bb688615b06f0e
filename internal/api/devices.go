package api

import (
	"context"
	"fmt"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// DevicesService covers the scanner device registry endpoints. Devices are
// owned and mutated exclusively by the backend; this client only reads the
// registry and issues create/delete requests.
type DevicesService struct {
	gw *gateway.Client
}

// List retrieves all registered scanner devices.
func (s DevicesService) List(ctx context.Context) ([]domain.Device, error) {
	var devices []domain.Device
	if err := s.gw.Get(ctx, "/admin/devices/", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Create registers a new scanner device. The backend issues its API key.
func (s DevicesService) Create(ctx context.Context, req domain.DeviceCreate) (domain.Device, error) {
	var device domain.Device
	if err := s.gw.Post(ctx, "/admin/devices/", req, &device); err != nil {
		return domain.Device{}, err
	}
	return device, nil
}

// Delete de-authorises a device, invalidating its API key.
func (s DevicesService) Delete(ctx context.Context, id int64) (domain.Device, error) {
	var device domain.Device
	if err := s.gw.Delete(ctx, fmt.Sprintf("/admin/devices/%d", id), &device); err != nil {
		return domain.Device{}, err
	}
	return device, nil
}
