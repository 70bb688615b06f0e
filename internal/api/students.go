package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clearance-asce/portal/internal/domain"
	"github.com/clearance-asce/portal/internal/gateway"
)

// StudentsService covers the student record endpoints.
type StudentsService struct {
	gw *gateway.Client
}

// StudentLookup identifies a student by exactly one of the two identifiers.
// The backend rejects ambiguous or missing combinations; the client sends
// whatever was supplied and surfaces that rejection verbatim.
type StudentLookup struct {
	MatricNo string
	TagID    string
}

// List retrieves all student records with their clearance statuses.
func (s StudentsService) List(ctx context.Context) ([]domain.StudentWithClearance, error) {
	var students []domain.StudentWithClearance
	if err := s.gw.Get(ctx, "/admin/students/", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Get retrieves a single student by internal ID.
func (s StudentsService) Get(ctx context.Context, id int64) (domain.StudentWithClearance, error) {
	var student domain.StudentWithClearance
	if err := s.gw.Get(ctx, fmt.Sprintf("/admin/students/%d", id), nil, &student); err != nil {
		return domain.StudentWithClearance{}, err
	}
	return student, nil
}

// Create registers a new student; the backend initialises their clearance
// rows and login account.
func (s StudentsService) Create(ctx context.Context, req domain.StudentCreate) (domain.StudentWithClearance, error) {
	var student domain.StudentWithClearance
	if err := s.gw.Post(ctx, "/admin/students/", req, &student); err != nil {
		return domain.StudentWithClearance{}, err
	}
	return student, nil
}

// Update applies a partial update to a student record.
func (s StudentsService) Update(ctx context.Context, id int64, req domain.StudentUpdate) (domain.StudentWithClearance, error) {
	var student domain.StudentWithClearance
	if err := s.gw.Put(ctx, fmt.Sprintf("/admin/students/%d", id), req, &student); err != nil {
		return domain.StudentWithClearance{}, err
	}
	return student, nil
}

// Delete removes a student record and all associated data.
func (s StudentsService) Delete(ctx context.Context, id int64) (domain.Student, error) {
	var student domain.Student
	if err := s.gw.Delete(ctx, fmt.Sprintf("/admin/students/%d", id), &student); err != nil {
		return domain.Student{}, err
	}
	return student, nil
}

// Lookup resolves a student by matric number or tag ID through the
// admin/staff lookup endpoint.
func (s StudentsService) Lookup(ctx context.Context, q StudentLookup) (domain.StudentWithClearance, error) {
	query := url.Values{}
	if q.MatricNo != "" {
		query.Set("matric_no", q.MatricNo)
	}
	if q.TagID != "" {
		query.Set("tag_id", q.TagID)
	}

	var student domain.StudentWithClearance
	if err := s.gw.Get(ctx, "/admin/students/lookup", query, &student); err != nil {
		return domain.StudentWithClearance{}, err
	}
	return student, nil
}

// SelfLookup resolves a student by matric number through the self-service
// endpoint available to any authenticated user.
func (s StudentsService) SelfLookup(ctx context.Context, matricNo string) (domain.StudentWithClearance, error) {
	var student domain.StudentWithClearance
	req := domain.StudentLookupRequest{MatricNo: matricNo}
	if err := s.gw.Post(ctx, "/students/lookup", req, &student); err != nil {
		return domain.StudentWithClearance{}, err
	}
	return student, nil
}

// MyClearance fetches the authenticated student's own clearance summary.
func (s StudentsService) MyClearance(ctx context.Context) (domain.MyClearance, error) {
	var my domain.MyClearance
	if err := s.gw.Get(ctx, "/students/me/clearance", nil, &my); err != nil {
		return domain.MyClearance{}, err
	}
	return my, nil
}
