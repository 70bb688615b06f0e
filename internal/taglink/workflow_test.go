package taglink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearance-asce/portal/internal/api"
	"github.com/clearance-asce/portal/internal/domain"
	apperrors "github.com/clearance-asce/portal/internal/errors"
	"github.com/clearance-asce/portal/internal/testutil"
)

type fakeStudents struct {
	student domain.StudentWithClearance
	err     error
	queries []api.StudentLookup
}

func (f *fakeStudents) Lookup(_ context.Context, q api.StudentLookup) (domain.StudentWithClearance, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return domain.StudentWithClearance{}, f.err
	}
	return f.student, nil
}

type fakeUsers struct {
	user    domain.User
	err     error
	queries []api.UserLookup
}

func (f *fakeUsers) Lookup(_ context.Context, q api.UserLookup) (domain.User, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return domain.User{}, f.err
	}
	return f.user, nil
}

type fakeTags struct {
	tag       domain.RFIDTag
	linkErr   error
	unlinkErr error
	linked    []domain.TagLinkRequest
	unlinked  []string
}

func (f *fakeTags) Link(_ context.Context, req domain.TagLinkRequest) (domain.RFIDTag, error) {
	f.linked = append(f.linked, req)
	if f.linkErr != nil {
		return domain.RFIDTag{}, f.linkErr
	}
	return f.tag, nil
}

func (f *fakeTags) Unlink(_ context.Context, tagID string) (domain.RFIDTag, error) {
	f.unlinked = append(f.unlinked, tagID)
	if f.unlinkErr != nil {
		return domain.RFIDTag{}, f.unlinkErr
	}
	return f.tag, nil
}

func newWorkflow(t *testing.T, students *fakeStudents, users *fakeUsers, tags *fakeTags) *Workflow {
	t.Helper()
	w, err := New(Options{Students: students, Users: users, Tags: tags})
	require.NoError(t, err)
	return w
}

func TestLink_Student(t *testing.T) {
	tags := &fakeTags{tag: domain.RFIDTag{TagID: "TAG-1", StudentID: testutil.Int64Ptr(12)}}
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, tags)

	tag, err := w.Link(context.Background(), " TAG-1 ", Target{MatricNo: "CSC/2021/044"})

	require.NoError(t, err)
	assert.Equal(t, "TAG-1", tag.TagID)
	require.Len(t, tags.linked, 1)
	assert.Equal(t, "TAG-1", tags.linked[0].TagID)
	require.NotNil(t, tags.linked[0].MatricNo)
	assert.Equal(t, "CSC/2021/044", *tags.linked[0].MatricNo)
	assert.Nil(t, tags.linked[0].Username)
}

func TestLink_User(t *testing.T) {
	tags := &fakeTags{tag: domain.RFIDTag{TagID: "TAG-2", UserID: testutil.Int64Ptr(3)}}
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, tags)

	_, err := w.Link(context.Background(), "TAG-2", Target{Username: "bursar1"})

	require.NoError(t, err)
	require.Len(t, tags.linked, 1)
	require.NotNil(t, tags.linked[0].Username)
	assert.Equal(t, "bursar1", *tags.linked[0].Username)
	assert.Nil(t, tags.linked[0].MatricNo)
}

func TestLink_TargetValidation(t *testing.T) {
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, &fakeTags{})
	ctx := context.Background()

	_, err := w.Link(ctx, "TAG-1", Target{})
	assert.True(t, apperrors.IsValidation(err))

	_, err = w.Link(ctx, "TAG-1", Target{MatricNo: "CSC/2021/044", Username: "bursar1"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = w.Link(ctx, "  ", Target{MatricNo: "CSC/2021/044"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestLink_BackendRejectionSurfacesVerbatim(t *testing.T) {
	tags := &fakeTags{linkErr: apperrors.Conflict("Tag already linked to a student")}
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, tags)

	_, err := w.Link(context.Background(), "TAG-1", Target{MatricNo: "CSC/2021/044"})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "Tag already linked to a student", apperrors.UserMessage(err))
}

func TestLookup_ResolvesStudentFirst(t *testing.T) {
	students := &fakeStudents{student: domain.StudentWithClearance{
		Student: domain.Student{ID: 12, MatricNo: "CSC/2021/044", FullName: "Ada N."},
	}}
	users := &fakeUsers{}
	w := newWorkflow(t, students, users, &fakeTags{})

	res, err := w.Lookup(context.Background(), "TAG-1")

	require.NoError(t, err)
	assert.Equal(t, EntityStudent, res.Kind)
	assert.Equal(t, "CSC/2021/044", res.Student.MatricNo)
	require.Len(t, students.queries, 1)
	assert.Equal(t, "TAG-1", students.queries[0].TagID)
	assert.Empty(t, users.queries, "user probe skipped when the student probe hits")
}

func TestLookup_FallsBackToUser(t *testing.T) {
	students := &fakeStudents{err: apperrors.NotFound("Student not found")}
	users := &fakeUsers{user: domain.User{ID: 3, Username: "bursar1", Role: domain.RoleStaff}}
	w := newWorkflow(t, students, users, &fakeTags{})

	res, err := w.Lookup(context.Background(), "TAG-1")

	require.NoError(t, err)
	assert.Equal(t, EntityUser, res.Kind)
	assert.Equal(t, "bursar1", res.User.Username)
}

func TestLookup_UnlinkedTag(t *testing.T) {
	students := &fakeStudents{err: apperrors.NotFound("Student not found")}
	users := &fakeUsers{err: apperrors.NotFound("User not found")}
	w := newWorkflow(t, students, users, &fakeTags{})

	_, err := w.Lookup(context.Background(), "TAG-9")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Tag not linked to any entity", apperrors.UserMessage(err))
}

func TestLookup_TransportFailureAbortsChain(t *testing.T) {
	students := &fakeStudents{err: apperrors.Transport(errors.New("dial timeout"))}
	users := &fakeUsers{}
	w := newWorkflow(t, students, users, &fakeTags{})

	_, err := w.Lookup(context.Background(), "TAG-1")

	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Empty(t, users.queries, "a failed probe must not be mistaken for a miss")
}

func TestUnlink_Confirmed(t *testing.T) {
	tags := &fakeTags{tag: domain.RFIDTag{TagID: "TAG-1"}}
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, tags)

	var prompt string
	confirm := ConfirmerFunc(func(p string) bool {
		prompt = p
		return true
	})

	tag, err := w.Unlink(context.Background(), "TAG-1", confirm)

	require.NoError(t, err)
	assert.Equal(t, "TAG-1", tag.TagID)
	assert.Equal(t, []string{"TAG-1"}, tags.unlinked)
	assert.Contains(t, prompt, "TAG-1")
}

func TestUnlink_Declined(t *testing.T) {
	tags := &fakeTags{}
	w := newWorkflow(t, &fakeStudents{}, &fakeUsers{}, tags)

	confirm := ConfirmerFunc(func(string) bool { return false })

	_, err := w.Unlink(context.Background(), "TAG-1", confirm)

	require.ErrorIs(t, err, ErrUnlinkDeclined)
	assert.Empty(t, tags.unlinked, "no delete issued without confirmation")

	// A nil confirmer counts as declined, never as approved.
	_, err = w.Unlink(context.Background(), "TAG-1", nil)
	require.ErrorIs(t, err, ErrUnlinkDeclined)
}
