// Package domain contains the data model mirrored from the clearance backend.
// Types here are pure DTOs; the backend owns every record, this client only
// reads and issues mutation requests.
package domain

// Role represents an application authorization role.
// Keep string form for easy persistence in the session cache.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleStudent:
		return true
	default:
		return false
	}
}

// Department is an academic department a student or staff member belongs to.
type Department string

const (
	DepartmentComputerScience Department = "Computer Science"
	DepartmentEngineering     Department = "Engineering"
	DepartmentBusinessAdmin   Department = "Business Administration"
	DepartmentLaw             Department = "Law"
	DepartmentMedicine        Department = "Medicine"
)

// ClearanceDepartment is an administrative unit that signs off on a
// student's clearance. Distinct from Department: these are the offices a
// student must be cleared by, not the faculty they study in.
type ClearanceDepartment string

const (
	ClearanceLibrary         ClearanceDepartment = "Library"
	ClearanceStudentAffairs  ClearanceDepartment = "Student Affairs"
	ClearanceBursary         ClearanceDepartment = "Bursary"
	ClearanceAcademicAffairs ClearanceDepartment = "Academic Affairs"
	ClearanceHealthCenter    ClearanceDepartment = "Health Center"
)

// AllClearanceDepartments returns the canonical ordered list of clearance
// departments. A student is fully cleared once every one of these has
// approved.
func AllClearanceDepartments() []ClearanceDepartment {
	return []ClearanceDepartment{
		ClearanceLibrary,
		ClearanceStudentAffairs,
		ClearanceBursary,
		ClearanceAcademicAffairs,
		ClearanceHealthCenter,
	}
}

// ClearanceState is the per-department approval state.
type ClearanceState string

const (
	ClearancePending  ClearanceState = "pending"
	ClearanceApproved ClearanceState = "approved"
	ClearanceRejected ClearanceState = "rejected"
)

// Valid reports whether the state is one of the known values.
func (s ClearanceState) Valid() bool {
	switch s {
	case ClearancePending, ClearanceApproved, ClearanceRejected:
		return true
	default:
		return false
	}
}

// Token is the credential-exchange response from POST /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is a system account (admin or staff; students authenticate through an
// associated user record).
type User struct {
	ID                  int64                `json:"id"`
	Username            string               `json:"username"`
	Email               string               `json:"email"`
	FullName            string               `json:"full_name"`
	Role                Role                 `json:"role"`
	Department          *Department          `json:"department,omitempty"`
	ClearanceDepartment *ClearanceDepartment `json:"clearance_department,omitempty"`
}

// UserCreate is the payload for POST /admin/users/.
type UserCreate struct {
	Username            string               `json:"username"`
	Password            string               `json:"password"`
	Email               string               `json:"email"`
	FullName            string               `json:"full_name"`
	Role                Role                 `json:"role"`
	Department          *Department          `json:"department,omitempty"`
	ClearanceDepartment *ClearanceDepartment `json:"clearance_department,omitempty"`
}

// UserUpdate is the partial-update payload for PUT /admin/users/{id}.
// Nil fields are omitted and left unchanged by the backend.
type UserUpdate struct {
	Username            *string              `json:"username,omitempty"`
	Email               *string              `json:"email,omitempty"`
	FullName            *string              `json:"full_name,omitempty"`
	Role                *Role                `json:"role,omitempty"`
	Department          *Department          `json:"department,omitempty"`
	ClearanceDepartment *ClearanceDepartment `json:"clearance_department,omitempty"`
	Password            *string              `json:"password,omitempty"`
}

// Student is the basic student record.
type Student struct {
	ID         int64      `json:"id"`
	FullName   string     `json:"full_name"`
	MatricNo   string     `json:"matric_no"`
	Department Department `json:"department"`
}

// StudentWithClearance is the full student record including per-department
// clearance statuses and the linked RFID tag, if any.
type StudentWithClearance struct {
	Student
	ClearanceStatuses []ClearanceStatus `json:"clearance_statuses"`
	RFIDTag           *RFIDTag          `json:"rfid_tag,omitempty"`
}

// StudentCreate is the payload for POST /admin/students/. The password seeds
// the student's login account.
type StudentCreate struct {
	FullName   string     `json:"full_name"`
	MatricNo   string     `json:"matric_no"`
	Email      string     `json:"email"`
	Department Department `json:"department"`
	Password   string     `json:"password"`
}

// StudentUpdate is the partial-update payload for PUT /admin/students/{id}.
type StudentUpdate struct {
	FullName   *string     `json:"full_name,omitempty"`
	Department *Department `json:"department,omitempty"`
	Email      *string     `json:"email,omitempty"`
}

// ClearanceStatus is one department's sign-off state for a student.
type ClearanceStatus struct {
	Department ClearanceDepartment `json:"department"`
	Status     ClearanceState      `json:"status"`
	Remarks    *string             `json:"remarks,omitempty"`
}

// ClearanceUpdate is the payload for PUT /clearance/update.
type ClearanceUpdate struct {
	MatricNo   string              `json:"matric_no"`
	Department ClearanceDepartment `json:"department"`
	Status     ClearanceState      `json:"status"`
	Remarks    *string             `json:"remarks,omitempty"`
}

// RFIDTag is a physical tag and its (at most one) linked entity. The backend
// enforces student XOR user; this client never assumes local knowledge of a
// link is authoritative and re-queries to confirm.
type RFIDTag struct {
	TagID     string `json:"tag_id"`
	StudentID *int64 `json:"student_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}

// TagLinkRequest is the payload for POST /admin/tags/link. Exactly one of
// MatricNo or Username must be set; the backend rejects ambiguous or missing
// targets.
type TagLinkRequest struct {
	TagID    string  `json:"tag_id"`
	MatricNo *string `json:"matric_no,omitempty"`
	Username *string `json:"username,omitempty"`
}

// TagScan is the poll response from GET /admin/scanners/retrieve.
type TagScan struct {
	TagID string `json:"tag_id"`
}

// ActivationRequest is the payload for POST /admin/scanners/activate.
type ActivationRequest struct {
	DeviceID int64 `json:"device_id"`
}

// Device is a registered physical RFID scanner.
type Device struct {
	ID         int64      `json:"id"`
	DeviceName string     `json:"device_name"`
	APIKey     string     `json:"api_key"`
	Location   string     `json:"location"`
	Department Department `json:"department"`
	IsActive   bool       `json:"is_active"`
}

// DeviceCreate is the payload for POST /admin/devices/. The backend issues
// the device's API key.
type DeviceCreate struct {
	DeviceName string     `json:"device_name"`
	Location   string     `json:"location"`
	Department Department `json:"department"`
}

// StudentLookupRequest is the payload for the self-service
// POST /students/lookup endpoint.
type StudentLookupRequest struct {
	MatricNo string `json:"matric_no"`
}

// MyClearance is the response from GET /students/me/clearance: the
// authenticated student's record plus their clearance list. Aggregates are
// always recomputed client-side with SummarizeClearance, never read from
// this payload.
type MyClearance struct {
	FullName          string            `json:"full_name"`
	MatricNo          string            `json:"matric_no"`
	Department        Department        `json:"department"`
	ClearanceStatuses []ClearanceStatus `json:"clearance_statuses"`
}
