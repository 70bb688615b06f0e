// Package api provides typed resource clients over the gateway, one per
// backend resource family. Each client is a thin translation layer: paths,
// query parameters, and payload types. All policy (auth injection, error
// normalisation, the 401 teardown) lives in the gateway.
package api

import "github.com/clearance-asce/portal/internal/gateway"

// Client bundles the per-resource services behind a single constructor.
type Client struct {
	Students  StudentsService
	Users     UsersService
	Devices   DevicesService
	Tags      TagsService
	Scanners  ScannersService
	Clearance ClearanceService
}

// New creates the resource clients on top of a gateway.
func New(gw *gateway.Client) *Client {
	return &Client{
		Students:  StudentsService{gw: gw},
		Users:     UsersService{gw: gw},
		Devices:   DevicesService{gw: gw},
		Tags:      TagsService{gw: gw},
		Scanners:  ScannersService{gw: gw},
		Clearance: ClearanceService{gw: gw},
	}
}
