package school

import "github.com/trezcool/academia/core/document"

// Tuition defaults for a newly enrolled student.
const (
	TuitionOwing         = "Owing"
	TuitionPaid          = "Paid"
	DefaultTuitionAmount = 500
)

type (
	EssaySubmissionInput struct {
		StudentID      interface{} `json:"studentId" validate:"required"`
		AssignmentID   interface{} `json:"assignmentId" validate:"required"`
		SubmissionText string      `json:"submissionText"`
	}

	EssayFeedbackInput struct {
		AssignmentID interface{} `json:"assignmentId" validate:"required"`
		StudentID    interface{} `json:"studentId" validate:"required"`
		Feedback     string      `json:"feedback"`
		Score        interface{} `json:"score"`
		ScoreSet     bool        `json:"-"` // the request carried a score, possibly null
	}

	ProctoringFlagInput struct {
		StudentID interface{} `json:"studentId" validate:"required"`
		ExamID    interface{} `json:"examId" validate:"required"`
		Event     string      `json:"event" validate:"notblank"`
	}

	CompletedExamInput struct {
		StudentID   interface{} `json:"studentId" validate:"required"`
		ExamID      interface{} `json:"examId" validate:"required"`
		Score       interface{} `json:"score"`
		ScaledScore interface{} `json:"scaledScore"`
	}

	// GradeInput identifies a grade by (studentId, term, subject). Fields holds the whole request body.
	GradeInput struct {
		StudentID interface{}     `json:"studentId" validate:"required"`
		Term      interface{}     `json:"term" validate:"required"`
		Subject   interface{}     `json:"subject" validate:"required"`
		Fields    document.Record `json:"-"`
	}

	TuitionInput struct {
		StudentID interface{} `json:"studentId" validate:"required"`
	}

	AttendanceEntry struct {
		StudentID interface{} `json:"studentId" validate:"required"`
		Status    string      `json:"status" validate:"required,attendance_status"`
	}

	AttendanceInput struct {
		ClassName string            `json:"className" validate:"notblank"`
		Records   []AttendanceEntry `json:"records" validate:"dive"`
	}

	MessageInput struct {
		Message string `json:"message" validate:"notblank"`
	}

	NotificationsReadInput struct {
		NotificationIDs []interface{} `json:"notificationIds" validate:"required"`
	}
)

// NewGradeInput builds a GradeInput from a raw update-grade request body.
func NewGradeInput(body document.Record) GradeInput {
	return GradeInput{
		StudentID: body["studentId"],
		Term:      body["term"],
		Subject:   body["subject"],
		Fields:    body,
	}
}

// NewEssayFeedbackInput builds an EssayFeedbackInput from a raw update-essay-feedback request body.
func NewEssayFeedbackInput(body document.Record) EssayFeedbackInput {
	score, ok := body["score"]
	return EssayFeedbackInput{
		AssignmentID: body["assignmentId"],
		StudentID:    body["studentId"],
		Feedback:     body.StringField("feedback"),
		Score:        score,
		ScoreSet:     ok,
	}
}

// MessageKind selects one of the document's singleton notices.
type MessageKind string

const (
	AdminMessage     MessageKind = "admin-message"
	BroadcastMessage MessageKind = "broadcast-message"
)

// field is the document key holding the notice.
func (k MessageKind) field() string {
	if k == AdminMessage {
		return "adminMessage"
	}
	return "broadcastMessage"
}
