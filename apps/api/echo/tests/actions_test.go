package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/tests"
)

func Test_schoolApi_actions(t *testing.T) {
	a := setup(t)
	testutil.Mutate(t, a.deps.Store, func(doc *document.Document) {
		doc.Append(document.CompletedExams, document.Record{"studentId": "S001", "examId": "E1", "score": 10})
		doc.Append(document.Notifications, document.Record{"id": "N1", "userId": "S001", "message": "hi", "read": false})
	})

	tests := []httpTest{
		{
			name:     "unknown action",
			method:   http.MethodPost,
			path:     "/actions/launch-rockets",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: `action "launch-rockets" not found`}),
		},
		{
			name:     "add essay submission",
			method:   http.MethodPost,
			path:     "/actions/add-essay-submission",
			body:     []byte(`{"studentId":"S001","assignmentId":"A1","submissionText":"My holiday"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "add essay submission for unknown student",
			method:   http.MethodPost,
			path:     "/actions/add-essay-submission",
			body:     []byte(`{"studentId":"S404","assignmentId":"A1","submissionText":"x"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "update essay feedback with PUT",
			method:   http.MethodPut,
			path:     "/actions/update-essay-feedback",
			body:     []byte(`{"studentId":"S001","assignmentId":"A1","feedback":"Good","score":8}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "update essay feedback without score",
			method:   http.MethodPost,
			path:     "/actions/update-essay-feedback",
			body:     []byte(`{"studentId":"S001","assignmentId":"A1","feedback":"Good work"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "add proctoring flag",
			method:   http.MethodPost,
			path:     "/actions/add-proctoring-flag",
			body:     []byte(`{"studentId":"S001","examId":"E1","event":"tab switched"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "add proctoring flag without event",
			method:   http.MethodPost,
			path:     "/actions/add-proctoring-flag",
			body:     []byte(`{"studentId":"S001","examId":"E1","event":"  "}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "update completed exam",
			method:   http.MethodPut,
			path:     "/actions/update-completed-exam",
			body:     []byte(`{"studentId":"S001","examId":"E1","score":18,"scaledScore":90}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "update grade",
			method:   http.MethodPost,
			path:     "/actions/update-grade",
			body:     []byte(`{"studentId":"S001","term":"Term 1","subject":"Math","ca1":10,"exam":"55"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "update grade without subject",
			method:   http.MethodPost,
			path:     "/actions/update-grade",
			body:     []byte(`{"studentId":"S001","term":"Term 1"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"subject":"this field is required"}`),
		},
		{
			name:     "process tuition",
			method:   http.MethodPost,
			path:     "/actions/process-tuition",
			body:     []byte(`{"studentId":"S003"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"studentId":"S003","status":"Paid","amount":500}`),
		},
		{
			name:     "process tuition for unknown student",
			method:   http.MethodPost,
			path:     "/actions/process-tuition",
			body:     []byte(`{"studentId":"S404"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "save attendance",
			method:   http.MethodPost,
			path:     "/actions/save-attendance",
			body:     []byte(`{"className":"Grade 7","records":[{"studentId":"S001","status":"Present"},{"studentId":"S002","status":"Late"}]}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "save attendance with unknown status",
			method:   http.MethodPost,
			path:     "/actions/save-attendance",
			body:     []byte(`{"className":"Grade 7","records":[{"studentId":"S001","status":"Asleep"}]}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "mark notifications read",
			method:   http.MethodPut,
			path:     "/actions/mark-notifications-read",
			body:     []byte(`{"notificationIds":["N1","N404"]}`),
			wantCode: http.StatusOK,
			wantData: []byte(`[{"id":"N1","userId":"S001","message":"hi","read":true}]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			a.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	doc := testutil.LoadDocument(t, a.deps.Store)
	require.Len(t, doc.EssaySubmissions, 1)
	assert.Equal(t, "Good work", doc.EssaySubmissions[0]["feedback"])
	assert.EqualValues(t, 8, doc.EssaySubmissions[0]["score"])
	require.Len(t, doc.Grades, 1)
	assert.EqualValues(t, 65, doc.Grades[0]["total"])
	require.Len(t, doc.AttendanceRecords, 1)
	_, exam := doc.Find(document.CompletedExams, "examId", "E1")
	assert.EqualValues(t, 18, exam["score"])
	assert.Len(t, exam["proctoringFlags"], 1)
}

func Test_schoolApi_messages(t *testing.T) {
	a := setup(t)

	for _, name := range []string{"admin-message", "broadcast-message"} {
		t.Run(name, func(t *testing.T) {
			rec := a.do(http.MethodPost, "/actions/"+name, []byte(`{"message":"School closes early on Friday"}`))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var msg document.Message
			unmarshal(t, rec, &msg)
			assert.Equal(t, "School closes early on Friday", msg.Message)
			assert.NotEmpty(t, msg.Timestamp)

			rec = a.do(http.MethodPost, "/actions/"+name, []byte(`{"message":""}`))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			rec = a.do(http.MethodDelete, "/actions/"+name)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	doc := testutil.LoadDocument(t, a.deps.Store)
	assert.Nil(t, doc.AdminMessage)
	assert.Nil(t, doc.BroadcastMessage)
	assert.Contains(t, a.deps.Publisher.Events(), []string{"adminMessage"})
}

func Test_schoolApi_resetData(t *testing.T) {
	a := setup(t)
	a.do(http.MethodDelete, "/data/students/S001")
	a.do(http.MethodPost, "/data/tasks", []byte(`{"id":"t1"}`))

	rec := a.do(http.MethodPost, "/actions/reset-data")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, document.Seed())}, rec)

	rec = a.do(http.MethodGet, "/bootstrap")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, document.Seed())}, rec)
}
