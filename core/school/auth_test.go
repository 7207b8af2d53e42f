package school_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
	testutil "github.com/trezcool/academia/tests"
)

func seedCredentials(t *testing.T, deps *testutil.Deps) {
	t.Helper()
	testutil.Mutate(t, deps.Store, func(doc *document.Document) {
		doc.Append(document.AccessCodes, document.Record{"studentId": "S001", "code": "ABC123"})
		doc.Append(document.Parents, document.Record{"id": "P1", "name": "Jane Kamau", "studentIds": []interface{}{"S001"}})
		doc.Append(document.ParentAccessCodes, document.Record{"parentId": "P1", "code": "PAR999"})
		doc.Append(document.Staff, document.Record{"id": "T900", "name": "Visitor", "role": "Teacher", "schoolId": "other-school"})
	})
}

func TestService_AuthenticateTeacher(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC))

	res, err := deps.Service.Authenticate(ctx, school.Credentials{Type: "teacher", SchoolCode: " demo ", StaffID: "T001"})
	require.NoError(t, err)
	assert.Equal(t, "Grace Mwangi", res.User["name"])
	assert.Equal(t, "2026-09-01T07:30:00Z", res.User["lastSeen"])
	assert.Nil(t, res.Staff)

	// persisted: a subsequent bootstrap reflects the update
	doc, err := deps.Service.Bootstrap(ctx)
	require.NoError(t, err)
	_, staff := doc.FindByID(document.Staff, "T001")
	assert.Equal(t, "2026-09-01T07:30:00Z", staff["lastSeen"])
}

func TestService_AuthenticateStudentAndParent(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	seedCredentials(t, deps)

	res, err := deps.Service.Authenticate(ctx, school.Credentials{Type: "student", StudentID: "S001", AccessCode: "ABC123"})
	require.NoError(t, err)
	assert.Equal(t, "John Kamau", res.User["name"])

	res, err = deps.Service.Authenticate(ctx, school.Credentials{Type: "parent", ParentID: "P1", AccessCode: "PAR999"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Kamau", res.User["name"])
}

func TestService_AuthenticateFailuresMutateNothing(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	seedCredentials(t, deps)
	before := testutil.LoadDocument(t, deps.Store)

	tests := []struct {
		name  string
		creds school.Credentials
	}{
		{name: "teacher: unknown school", creds: school.Credentials{Type: "teacher", SchoolCode: "NOPE", StaffID: "T001"}},
		{name: "teacher: unknown staff", creds: school.Credentials{Type: "teacher", SchoolCode: "DEMO", StaffID: "T404"}},
		{name: "teacher: staff of another school", creds: school.Credentials{Type: "teacher", SchoolCode: "DEMO", StaffID: "T900"}},
		{name: "teacher: empty", creds: school.Credentials{Type: "teacher"}},
		{name: "creator: wrong secret", creds: school.Credentials{Type: "teacher", SchoolCode: testutil.CreatorSchoolCode, StaffID: "nope"}},
		{name: "student: wrong code", creds: school.Credentials{Type: "student", StudentID: "S001", AccessCode: "WRONG"}},
		{name: "student: code of another student", creds: school.Credentials{Type: "student", StudentID: "S002", AccessCode: "ABC123"}},
		{name: "student: unknown", creds: school.Credentials{Type: "student", StudentID: "S404", AccessCode: "ABC123"}},
		{name: "parent: wrong code", creds: school.Credentials{Type: "parent", ParentID: "P1", AccessCode: "ABC123"}},
		{name: "parent: missing code", creds: school.Credentials{Type: "parent", ParentID: "P1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deps.Service.Authenticate(ctx, tt.creds)
			assert.Equal(t, school.ErrUnauthorized, err)
		})
	}

	after := testutil.LoadDocument(t, deps.Store)
	assert.Equal(t, before, after)
}

func TestService_AuthenticateUnknownType(t *testing.T) {
	deps := testutil.NewService(t)

	_, err := deps.Service.Authenticate(context.Background(), school.Credentials{Type: "janitor"})
	assert.Error(t, err)
	assert.NotEqual(t, school.ErrUnauthorized, err)
}

func TestService_AuthenticateCreator(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	before := testutil.LoadDocument(t, deps.Store)

	res, err := deps.Service.Authenticate(ctx, school.Credentials{Type: "teacher", SchoolCode: "root", StaffID: testutil.CreatorID})
	require.NoError(t, err)
	assert.Equal(t, school.CreatorUser(), res.User)
	assert.Equal(t, before.Staff, res.Staff)
	assert.Equal(t, before, testutil.LoadDocument(t, deps.Store))
}

func TestService_AuthenticateCreatorBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	conf := testutil.NewConfig()
	conf.Creator = core.CreatorConfig{SchoolCode: "ROOT", Secret: string(hash)}
	svc := school.NewService(conf, testutil.NewStore(t), testutil.NewValidator(), nil, nil, testutil.NewLogger())
	ctx := context.Background()

	res, err := svc.Authenticate(ctx, school.Credentials{Type: "teacher", SchoolCode: "ROOT", StaffID: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Creator", res.User["role"])

	_, err = svc.Authenticate(ctx, school.Credentials{Type: "teacher", SchoolCode: "ROOT", StaffID: string(hash)})
	assert.Equal(t, school.ErrUnauthorized, err)
}

type loggedEvent struct {
	msg  string
	args []interface{}
}

type recordingLogger struct {
	events []loggedEvent
}

func (l *recordingLogger) record(msg string, args []interface{}) {
	l.events = append(l.events, loggedEvent{msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) { l.record(msg, args) }
func (l *recordingLogger) Info(msg string, args ...interface{})  { l.record(msg, args) }
func (l *recordingLogger) Warn(msg string, args ...interface{})  { l.record(msg, args) }
func (l *recordingLogger) Error(msg string, args ...interface{}) { l.record(msg, args) }
func (l *recordingLogger) Fatal(msg string, args ...interface{}) { l.record(msg, args) }

func TestService_AuthenticateLogsIdentity(t *testing.T) {
	deps := testutil.NewService(t)
	logger := new(recordingLogger)
	svc := school.NewService(deps.Conf, deps.Store, deps.Validate, deps.Mailer, deps.Publisher, logger)
	seedCredentials(t, deps)
	ctx := context.Background()

	tests := []struct {
		name  string
		creds school.Credentials
		want  core.Identity
	}{
		{
			name:  "teacher",
			creds: school.Credentials{Type: "teacher", SchoolCode: "DEMO", StaffID: "T001"},
			want:  core.Identity{ID: "T001", Name: "Grace Mwangi", Role: "Head Teacher"},
		},
		{
			name:  "student",
			creds: school.Credentials{Type: "student", StudentID: "S001", AccessCode: "ABC123"},
			want:  core.Identity{ID: "S001", Name: "John Kamau", Role: "student"},
		},
		{
			name:  "creator",
			creds: school.Credentials{Type: "teacher", SchoolCode: testutil.CreatorSchoolCode, StaffID: testutil.CreatorID},
			want:  core.Identity{ID: "creator", Name: "Creator", Role: "Creator"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.events = nil
			_, err := svc.Authenticate(ctx, tt.creds)
			require.NoError(t, err)
			require.Len(t, logger.events, 1)
			assert.Equal(t, []interface{}{tt.want}, logger.events[0].args)
		})
	}

	t.Run("failure logs nothing", func(t *testing.T) {
		logger.events = nil
		_, err := svc.Authenticate(ctx, school.Credentials{Type: "student", StudentID: "S001", AccessCode: "nope"})
		assert.Equal(t, school.ErrUnauthorized, err)
		assert.Empty(t, logger.events)
	})
}
