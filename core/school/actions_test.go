package school_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
	testutil "github.com/trezcool/academia/tests"
)

func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	orig := core.Now
	core.Now = func() time.Time { return at }
	t.Cleanup(func() { core.Now = orig })
}

func TestService_AddEssaySubmission(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	_, err := deps.Service.AddEssaySubmission(ctx, school.EssaySubmissionInput{StudentID: "S404", AssignmentID: "A1", SubmissionText: "x"})
	assert.True(t, core.IsNotFound(err))

	_, err = deps.Service.AddEssaySubmission(ctx, school.EssaySubmissionInput{StudentID: "S001", AssignmentID: "A1", SubmissionText: "first"})
	require.NoError(t, err)
	sub, err := deps.Service.AddEssaySubmission(ctx, school.EssaySubmissionInput{StudentID: "S001", AssignmentID: "A1", SubmissionText: "second"})
	require.NoError(t, err)
	assert.Equal(t, "John Kamau", sub["studentName"])

	doc := testutil.LoadDocument(t, deps.Store)
	require.Len(t, doc.EssaySubmissions, 1)
	assert.Equal(t, "second", doc.EssaySubmissions[0]["submissionText"])
	assert.Equal(t, "John Kamau", doc.EssaySubmissions[0]["studentName"])
}

func TestService_AddEssaySubmissionValidation(t *testing.T) {
	deps := testutil.NewService(t)

	_, err := deps.Service.AddEssaySubmission(context.Background(), school.EssaySubmissionInput{SubmissionText: "x"})
	require.Error(t, err)
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	fields := make([]string, 0, len(vErrs))
	for _, e := range vErrs {
		fields = append(fields, e.Field())
	}
	assert.ElementsMatch(t, []string{"studentId", "assignmentId"}, fields)
}

func TestService_UpdateEssayFeedback(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	_, err := deps.Service.UpdateEssayFeedback(ctx, school.EssayFeedbackInput{AssignmentID: "A1", StudentID: "S001", Feedback: "ok"})
	assert.True(t, core.IsNotFound(err))

	testutil.Mutate(t, deps.Store, func(doc *document.Document) {
		doc.Append(document.EssaySubmissions,
			document.Record{"assignmentId": "A1", "studentId": "S001", "submissionText": "essay"},
			document.Record{"assignmentId": "A2", "studentId": "S001", "submissionText": "essay"},
		)
		doc.Append(document.EssayAssignments, document.Record{"id": "A1", "title": "My holiday"})
	})

	sub, err := deps.Service.UpdateEssayFeedback(ctx, school.EssayFeedbackInput{AssignmentID: "A1", StudentID: "S001", Feedback: "Great", Score: float64(18)})
	require.NoError(t, err)
	assert.Equal(t, "Great", sub["feedback"])
	assert.Equal(t, float64(18), sub["score"])

	doc := testutil.LoadDocument(t, deps.Store)
	require.Len(t, doc.Notifications, 1)
	n := doc.Notifications[0]
	assert.Equal(t, "S001", n["userId"])
	assert.Equal(t, false, n["read"])
	assert.NotEmpty(t, n["id"])
	assert.Contains(t, n["message"], "My holiday")

	// no assignment: no notification
	_, err = deps.Service.UpdateEssayFeedback(ctx, school.EssayFeedbackInput{AssignmentID: "A2", StudentID: "S001", Feedback: "Fine"})
	require.NoError(t, err)
	doc = testutil.LoadDocument(t, deps.Store)
	assert.Len(t, doc.Notifications, 1)
	// a request without a score keeps the existing one; an explicit null clears it
	sub, err = deps.Service.UpdateEssayFeedback(ctx, school.NewEssayFeedbackInput(document.Record{
		"assignmentId": "A1", "studentId": "S001", "feedback": "Great, see margin notes",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Great, see margin notes", sub["feedback"])
	assert.Equal(t, float64(18), sub["score"])

	sub, err = deps.Service.UpdateEssayFeedback(ctx, school.NewEssayFeedbackInput(document.Record{
		"assignmentId": "A1", "studentId": "S001", "feedback": "Regrading", "score": nil,
	}))
	require.NoError(t, err)
	score, ok := sub["score"]
	assert.True(t, ok)
	assert.Nil(t, score)
}

func TestService_ProctoringAndCompletedExam(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	_, err := deps.Service.AddProctoringFlag(ctx, school.ProctoringFlagInput{StudentID: "S001", ExamID: "E1", Event: "tab-switch"})
	assert.True(t, core.IsNotFound(err))
	_, err = deps.Service.UpdateCompletedExam(ctx, school.CompletedExamInput{StudentID: "S001", ExamID: "E1", Score: float64(1)})
	assert.True(t, core.IsNotFound(err))

	testutil.Mutate(t, deps.Store, func(doc *document.Document) {
		doc.Append(document.CompletedExams, document.Record{"studentId": "S001", "examId": float64(1), "score": float64(5), "scaledScore": float64(50)})
	})

	_, err = deps.Service.AddProctoringFlag(ctx, school.ProctoringFlagInput{StudentID: "S001", ExamID: "1", Event: "tab-switch"})
	require.NoError(t, err)
	exam, err := deps.Service.AddProctoringFlag(ctx, school.ProctoringFlagInput{StudentID: "S001", ExamID: "1", Event: "fullscreen-exit"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"timestamp": "2026-03-02T10:00:00Z", "event": "tab-switch"},
		map[string]interface{}{"timestamp": "2026-03-02T10:00:00Z", "event": "fullscreen-exit"},
	}, exam["proctoringFlags"])

	exam, err = deps.Service.UpdateCompletedExam(ctx, school.CompletedExamInput{StudentID: "S001", ExamID: "1", Score: float64(8), ScaledScore: float64(80)})
	require.NoError(t, err)
	assert.Equal(t, float64(8), exam["score"])
	assert.Equal(t, float64(80), exam["scaledScore"])
	assert.Len(t, exam["proctoringFlags"], 2)
}

func TestService_UpdateGradeIsIdempotentInTotals(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	body := document.Record{"studentId": "S001", "term": "Term 1", "subject": "Math", "ca1": float64(10), "ca2": nil, "exam": float64(55)}
	for i := 0; i < 2; i++ {
		grade, err := deps.Service.UpdateGrade(ctx, school.NewGradeInput(body.Clone()))
		require.NoError(t, err)
		assert.Equal(t, float64(65), grade["total"])
	}

	doc := testutil.LoadDocument(t, deps.Store)
	require.Len(t, doc.Grades, 1)
	g := doc.Grades[0]
	assert.Nil(t, g["ca2"])
	assert.Nil(t, g["ca3"])
	assert.Equal(t, float64(65), g["total"])

	// merge into the existing grade
	grade, err := deps.Service.UpdateGrade(ctx, school.NewGradeInput(document.Record{"studentId": "S001", "term": "Term 1", "subject": "Math", "ca3": "5"}))
	require.NoError(t, err)
	assert.Equal(t, float64(70), grade["total"])
	doc = testutil.LoadDocument(t, deps.Store)
	assert.Len(t, doc.Grades, 1)
}

func TestService_UpdateGradeValidation(t *testing.T) {
	deps := testutil.NewService(t)

	_, err := deps.Service.UpdateGrade(context.Background(), school.NewGradeInput(document.Record{"studentId": "S001"}))
	_, ok := err.(validator.ValidationErrors)
	assert.True(t, ok, "%v", err)
}

func TestGradeTotal(t *testing.T) {
	tests := []struct {
		name  string
		grade document.Record
		want  float64
	}{
		{name: "all set", grade: document.Record{"ca1": float64(1), "ca2": float64(2), "ca3": float64(3), "exam": float64(4)}, want: 10},
		{name: "nulls", grade: document.Record{"ca1": nil, "ca2": float64(2), "ca3": nil, "exam": nil}, want: 2},
		{name: "missing", grade: document.Record{}, want: 0},
		{name: "numeric strings", grade: document.Record{"ca1": "1.5", "exam": "x"}, want: 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, school.GradeTotal(tt.grade))
		})
	}
}

func TestService_ProcessTuition(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	_, err := deps.Service.ProcessTuition(ctx, school.TuitionInput{StudentID: "S404"})
	assert.True(t, core.IsNotFound(err))

	testutil.Mutate(t, deps.Store, func(doc *document.Document) {
		doc.Append(document.Parents,
			document.Record{"id": "P1", "name": "Jane Kamau", "studentIds": []interface{}{"S001"}, "email": "jane@example.com"},
			document.Record{"id": "P2", "name": "Joe Kamau", "studentIds": []interface{}{"S001"}},
			document.Record{"id": "P3", "name": "Other", "studentIds": []interface{}{"S002"}, "email": "other@example.com"},
		)
	})

	rec, err := deps.Service.ProcessTuition(ctx, school.TuitionInput{StudentID: "S001"})
	require.NoError(t, err)
	assert.Equal(t, "Paid", rec["status"])

	doc := testutil.LoadDocument(t, deps.Store)
	_, tuition := doc.Find(document.TuitionRecords, "studentId", "S001")
	assert.Equal(t, "Paid", tuition["status"])

	sent := deps.Mailer.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "John Kamau")
	assert.Contains(t, sent[0].TextContent, "500.00")
	assert.Contains(t, sent[0].HTMLContent, "John Kamau")
}

func TestService_SaveAttendance(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))

	in := school.AttendanceInput{ClassName: "Grade 7", Records: []school.AttendanceEntry{
		{StudentID: "S001", Status: "Present"},
		{StudentID: "S002", Status: "Absent"},
	}}
	_, err := deps.Service.SaveAttendance(ctx, in)
	require.NoError(t, err)

	in.Records[1].Status = "Late"
	rec, err := deps.Service.SaveAttendance(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-04", rec["date"])

	_, err = deps.Service.SaveAttendance(ctx, school.AttendanceInput{ClassName: "Grade 8", Records: []school.AttendanceEntry{{StudentID: "S003", Status: "Present"}}})
	require.NoError(t, err)

	doc := testutil.LoadDocument(t, deps.Store)
	require.Len(t, doc.AttendanceRecords, 2)
	var grade7 document.Record
	for _, r := range doc.AttendanceRecords {
		if r["class"] == "Grade 7" {
			grade7 = r
		}
	}
	require.NotNil(t, grade7)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"studentId": "S001", "status": "Present"},
		map[string]interface{}{"studentId": "S002", "status": "Late"},
	}, grade7["records"])
}

func TestService_SaveAttendanceInvalidStatus(t *testing.T) {
	deps := testutil.NewService(t)

	_, err := deps.Service.SaveAttendance(context.Background(), school.AttendanceInput{
		ClassName: "Grade 7",
		Records:   []school.AttendanceEntry{{StudentID: "S001", Status: "Sleeping"}},
	})
	_, ok := err.(validator.ValidationErrors)
	assert.True(t, ok, "%v", err)
}

func TestService_Messages(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()
	freezeTime(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	msg, err := deps.Service.SetMessage(ctx, school.AdminMessage, school.MessageInput{Message: "Staff meeting at 4"})
	require.NoError(t, err)
	assert.Equal(t, &document.Message{Message: "Staff meeting at 4", Timestamp: "2026-01-01T00:00:00Z"}, msg)

	_, err = deps.Service.SetMessage(ctx, school.BroadcastMessage, school.MessageInput{Message: "School closes early"})
	require.NoError(t, err)

	doc := testutil.LoadDocument(t, deps.Store)
	assert.Equal(t, "Staff meeting at 4", doc.AdminMessage.Message)
	assert.Equal(t, "School closes early", doc.BroadcastMessage.Message)

	require.NoError(t, deps.Service.ClearMessage(ctx, school.AdminMessage))
	doc = testutil.LoadDocument(t, deps.Store)
	assert.Nil(t, doc.AdminMessage)
	assert.NotNil(t, doc.BroadcastMessage)

	_, err = deps.Service.SetMessage(ctx, school.AdminMessage, school.MessageInput{Message: "   "})
	assert.Error(t, err)

	events := deps.Publisher.Events()
	assert.Contains(t, events, []string{"adminMessage"})
	assert.Contains(t, events, []string{"broadcastMessage"})
}

func TestService_MarkNotificationsRead(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	testutil.Mutate(t, deps.Store, func(doc *document.Document) {
		doc.Append(document.Notifications,
			document.Record{"id": float64(1), "userId": "S001", "read": false},
			document.Record{"id": "n2", "userId": "S001", "read": false},
			document.Record{"id": "n3", "userId": "S002", "read": false},
		)
	})

	marked, err := deps.Service.MarkNotificationsRead(ctx, school.NotificationsReadInput{NotificationIDs: []interface{}{"1", "n2", "nope"}})
	require.NoError(t, err)
	assert.Len(t, marked, 2)

	doc := testutil.LoadDocument(t, deps.Store)
	assert.Equal(t, true, doc.Notifications[0]["read"])
	assert.Equal(t, true, doc.Notifications[1]["read"])
	assert.Equal(t, false, doc.Notifications[2]["read"])
}

func TestService_ResetData(t *testing.T) {
	deps := testutil.NewService(t)
	ctx := context.Background()

	_, err := deps.Service.Create(ctx, document.Students, document.Record{"id": "S100", "name": "New"})
	require.NoError(t, err)
	_, err = deps.Service.SetMessage(ctx, school.BroadcastMessage, school.MessageInput{Message: "hello"})
	require.NoError(t, err)

	_, err = deps.Service.ResetData(ctx)
	require.NoError(t, err)

	doc, err := deps.Service.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, document.Seed(), doc)
	assert.Len(t, doc.Schools, 1)
	assert.Len(t, doc.Staff, 3)
	assert.Len(t, doc.Students, 3)
	assert.Len(t, doc.TuitionRecords, 3)
}
