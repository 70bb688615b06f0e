// Package taglink implements the RFID tag association workflows: linking a
// tag to a student or staff account, resolving what a tag currently points
// at, and unlinking with operator confirmation.
package taglink

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clearance-asce/portal/internal/api"
	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

// notLinkedMessage matches the backend's wording for an unassociated tag so
// operators see the same text whichever side detected it.
const notLinkedMessage = "Tag not linked to any entity"

// Target names what a tag should be linked to: exactly one of a student's
// matric number or a staff account's username.
type Target struct {
	MatricNo string
	Username string
}

func (t Target) validate() error {
	matric := strings.TrimSpace(t.MatricNo)
	username := strings.TrimSpace(t.Username)
	if (matric == "") == (username == "") {
		return apperrors.Validation("provide exactly one of matric number or username")
	}
	return nil
}

// EntityKind tells which side of the system a tag resolved to.
type EntityKind string

const (
	EntityStudent EntityKind = "student"
	EntityUser    EntityKind = "user"
)

// Resolution is the result of a tag lookup: the kind of entity plus the
// matching record.
type Resolution struct {
	Kind    EntityKind
	Student domain.StudentWithClearance
	User    domain.User
}

// Confirmer approves destructive operations before they run. The CLI prompts
// the operator; tests stub it.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// StudentFinder is the student-lookup slice of the API client.
type StudentFinder interface {
	Lookup(ctx context.Context, q api.StudentLookup) (domain.StudentWithClearance, error)
}

// UserFinder is the user-lookup slice of the API client.
type UserFinder interface {
	Lookup(ctx context.Context, q api.UserLookup) (domain.User, error)
}

// TagAPI is the tag-association slice of the API client.
type TagAPI interface {
	Link(ctx context.Context, req domain.TagLinkRequest) (domain.RFIDTag, error)
	Unlink(ctx context.Context, tagID string) (domain.RFIDTag, error)
}

// Workflow drives the tag association operations against the backend.
type Workflow struct {
	students StudentFinder
	users    UserFinder
	tags     TagAPI
	logger   *slog.Logger
}

// Options holds the dependencies for creating a Workflow.
type Options struct {
	Students StudentFinder
	Users    UserFinder
	Tags     TagAPI
	Logger   *slog.Logger
}

// New creates a tag-link workflow.
func New(opts Options) (*Workflow, error) {
	if opts.Students == nil || opts.Users == nil || opts.Tags == nil {
		return nil, errors.New("students, users and tags services are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		students: opts.Students,
		users:    opts.Users,
		tags:     opts.Tags,
		logger:   logger,
	}, nil
}

// Link associates a tag with the given target. Backend rejections, an
// already-linked tag or an unknown target among them, surface verbatim.
func (w *Workflow) Link(ctx context.Context, tagID string, target Target) (domain.RFIDTag, error) {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return domain.RFIDTag{}, apperrors.Validation("tag ID is required")
	}
	if err := target.validate(); err != nil {
		return domain.RFIDTag{}, err
	}

	req := domain.TagLinkRequest{TagID: tagID}
	if matric := strings.TrimSpace(target.MatricNo); matric != "" {
		req.MatricNo = &matric
	}
	if username := strings.TrimSpace(target.Username); username != "" {
		req.Username = &username
	}

	tag, err := w.tags.Link(ctx, req)
	if err != nil {
		return domain.RFIDTag{}, err
	}
	w.logger.InfoContext(ctx, "tag linked", "tag_id", tag.TagID)
	return tag, nil
}

// Lookup resolves what a tag points at: the student record is probed first,
// then the staff account. Only a definitive not-found moves the chain to the
// second probe; any other failure aborts so a transport blip is never
// misreported as an unlinked tag.
func (w *Workflow) Lookup(ctx context.Context, tagID string) (Resolution, error) {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return Resolution{}, apperrors.Validation("tag ID is required")
	}

	student, err := w.students.Lookup(ctx, api.StudentLookup{TagID: tagID})
	if err == nil {
		return Resolution{Kind: EntityStudent, Student: student}, nil
	}
	if !apperrors.IsNotFound(err) {
		return Resolution{}, err
	}

	user, err := w.users.Lookup(ctx, api.UserLookup{TagID: tagID})
	if err == nil {
		return Resolution{Kind: EntityUser, User: user}, nil
	}
	if !apperrors.IsNotFound(err) {
		return Resolution{}, err
	}

	return Resolution{}, apperrors.NotFound(notLinkedMessage)
}

// ErrUnlinkDeclined is returned when the confirmer rejects the unlink.
var ErrUnlinkDeclined = errors.New("unlink not confirmed")

// Unlink removes a tag's association after the confirmer approves. The
// freed tag is returned so the caller can show what was released.
func (w *Workflow) Unlink(ctx context.Context, tagID string, confirm Confirmer) (domain.RFIDTag, error) {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return domain.RFIDTag{}, apperrors.Validation("tag ID is required")
	}
	if confirm == nil || !confirm.Confirm("Unlink tag "+tagID+"? This cannot be undone.") {
		return domain.RFIDTag{}, ErrUnlinkDeclined
	}

	tag, err := w.tags.Unlink(ctx, tagID)
	if err != nil {
		return domain.RFIDTag{}, err
	}
	w.logger.InfoContext(ctx, "tag unlinked", "tag_id", tag.TagID)
	return tag, nil
}
