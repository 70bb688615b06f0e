// Package mocks provides mock implementations for testing the portal.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the interfaces other packages depend on. The mocks are generated with
// go:generate directives; regenerate after interface changes with:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	api := mocks.NewMockScanAPI(ctrl)
//	api.EXPECT().Activate(gomock.Any(), int64(4)).Return(nil)
package mocks

// Generate mock for ScanAPI from internal/scanner.
// This creates MockScanAPI covering Activate and Retrieve.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=scan_api_mock.go github.com/clearance-asce/portal/internal/scanner ScanAPI
