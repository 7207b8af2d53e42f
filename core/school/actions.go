package school

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

var gradeComponents = []string{"ca1", "ca2", "ca3", "exam"}

// AddEssaySubmission records a student's essay, replacing any earlier submission for the same assignment.
func (svc *Service) AddEssaySubmission(ctx context.Context, in EssaySubmissionInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var sub document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		_, student := doc.FindByID(document.Students, in.StudentID)
		if student == nil {
			return core.NewNotFoundError("student", document.CanonicalID(in.StudentID))
		}
		doc.Filter(document.EssaySubmissions, func(r document.Record) bool {
			return !(r.Matches("assignmentId", in.AssignmentID) && r.Matches("studentId", in.StudentID))
		})
		sub = document.Record{
			"assignmentId":   in.AssignmentID,
			"studentId":      in.StudentID,
			"studentName":    student["name"],
			"submissionText": in.SubmissionText,
			"submittedAt":    core.Timestamp(core.Now()),
		}
		doc.Append(document.EssaySubmissions, sub.Clone())
		return nil
	}, document.EssaySubmissions)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateEssayFeedback grades a submission and notifies the student when the assignment is known.
func (svc *Service) UpdateEssayFeedback(ctx context.Context, in EssayFeedbackInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var updated document.Record
	touched := []document.Collection{document.EssaySubmissions}
	err := svc.mutate(ctx, func(doc *document.Document) error {
		var sub document.Record
		for _, r := range doc.EssaySubmissions {
			if r.Matches("assignmentId", in.AssignmentID) && r.Matches("studentId", in.StudentID) {
				sub = r
				break
			}
		}
		if sub == nil {
			return core.NewNotFoundError("essay submission", document.CanonicalID(in.AssignmentID))
		}
		sub["feedback"] = in.Feedback
		if in.ScoreSet || in.Score != nil {
			sub["score"] = in.Score
		}
		updated = sub.Clone()

		if _, assignment := doc.FindByID(document.EssayAssignments, in.AssignmentID); assignment != nil {
			title := assignment.StringField("title")
			if title == "" {
				title = "your essay"
			}
			doc.Append(document.Notifications, newNotification(in.StudentID,
				fmt.Sprintf("Your submission for %q has been graded.", title)))
			touched = append(touched, document.Notifications)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.publish(touched...)
	return updated, nil
}

func newNotification(userID interface{}, msg string) document.Record {
	return document.Record{
		"id":        uuid.NewString(),
		"userId":    userID,
		"message":   msg,
		"read":      false,
		"timestamp": core.Timestamp(core.Now()),
	}
}

func findCompletedExam(doc *document.Document, studentID, examID interface{}) document.Record {
	for _, r := range doc.CompletedExams {
		if r.Matches("studentId", studentID) && r.Matches("examId", examID) {
			return r
		}
	}
	return nil
}

// AddProctoringFlag appends a {timestamp, event} flag to a completed exam.
func (svc *Service) AddProctoringFlag(ctx context.Context, in ProctoringFlagInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var updated document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		exam := findCompletedExam(doc, in.StudentID, in.ExamID)
		if exam == nil {
			return core.NewNotFoundError("completed exam", document.CanonicalID(in.ExamID))
		}
		flags, _ := exam["proctoringFlags"].([]interface{})
		exam["proctoringFlags"] = append(flags, map[string]interface{}{
			"timestamp": core.Timestamp(core.Now()),
			"event":     in.Event,
		})
		updated = exam.Clone()
		return nil
	}, document.CompletedExams)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateCompletedExam overwrites the score fields of a completed exam.
func (svc *Service) UpdateCompletedExam(ctx context.Context, in CompletedExamInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var updated document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		exam := findCompletedExam(doc, in.StudentID, in.ExamID)
		if exam == nil {
			return core.NewNotFoundError("completed exam", document.CanonicalID(in.ExamID))
		}
		exam["score"] = in.Score
		exam["scaledScore"] = in.ScaledScore
		updated = exam.Clone()
		return nil
	}, document.CompletedExams)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateGrade merges the given fields into the (studentId, term, subject) grade, creating it when
// missing, and recomputes its total.
func (svc *Service) UpdateGrade(ctx context.Context, in GradeInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var updated document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		var grade document.Record
		for _, r := range doc.Grades {
			if r.Matches("studentId", in.StudentID) && r.Matches("term", in.Term) && r.Matches("subject", in.Subject) {
				grade = r
				break
			}
		}
		if grade == nil {
			grade = document.Record{
				"studentId": in.StudentID,
				"term":      in.Term,
				"subject":   in.Subject,
			}
			for _, k := range gradeComponents {
				grade[k] = nil
			}
			doc.Append(document.Grades, grade)
		}
		grade.Merge(in.Fields)
		grade["total"] = GradeTotal(grade)
		updated = grade.Clone()
		return nil
	}, document.Grades)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GradeTotal sums ca1, ca2, ca3 and exam, treating missing or non-numeric components as 0.
func GradeTotal(grade document.Record) float64 {
	var total float64
	for _, k := range gradeComponents {
		if n, ok := ToNumber(grade[k]); ok {
			total += n
		}
	}
	return total
}

// ToNumber converts a JSON number or numeric string.
func ToNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// ProcessTuition marks a student's tuition as paid and emails a receipt to the linked parents.
func (svc *Service) ProcessTuition(ctx context.Context, in TuitionInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	var (
		updated  document.Record
		receipts []*core.EmailMessage
	)
	err := svc.mutate(ctx, func(doc *document.Document) error {
		_, tuition := doc.Find(document.TuitionRecords, "studentId", in.StudentID)
		if tuition == nil {
			return core.NewNotFoundError("tuition record", document.CanonicalID(in.StudentID))
		}
		tuition["status"] = TuitionPaid
		updated = tuition.Clone()
		receipts = tuitionReceipts(doc, tuition)
		return nil
	}, document.TuitionRecords)
	if err != nil {
		return nil, err
	}
	if len(receipts) > 0 && svc.mailer != nil {
		svc.mailer.SendMessages(receipts...)
	}
	return updated, nil
}

// SaveAttendance stores today's attendance for a class, replacing any earlier record for the same day.
func (svc *Service) SaveAttendance(ctx context.Context, in AttendanceInput) (document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	entries := make([]interface{}, 0, len(in.Records))
	for _, e := range in.Records {
		entries = append(entries, map[string]interface{}{"studentId": e.StudentID, "status": e.Status})
	}
	today := core.Today()
	rec := document.Record{
		"date":    today,
		"class":   in.ClassName,
		"records": entries,
	}
	err := svc.mutate(ctx, func(doc *document.Document) error {
		doc.Filter(document.AttendanceRecords, func(r document.Record) bool {
			return !(r.StringField("date") == today && r.StringField("class") == in.ClassName)
		})
		doc.Append(document.AttendanceRecords, rec.Clone())
		return nil
	}, document.AttendanceRecords)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SetMessage sets one of the singleton notices.
func (svc *Service) SetMessage(ctx context.Context, kind MessageKind, in MessageInput) (*document.Message, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	msg := &document.Message{Message: in.Message, Timestamp: core.Timestamp(core.Now())}
	if err := svc.setMessage(ctx, kind, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ClearMessage resets one of the singleton notices to null.
func (svc *Service) ClearMessage(ctx context.Context, kind MessageKind) error {
	return svc.setMessage(ctx, kind, nil)
}

func (svc *Service) setMessage(ctx context.Context, kind MessageKind, msg *document.Message) error {
	switch kind {
	case AdminMessage, BroadcastMessage:
	default:
		return core.NewNotFoundError("message", string(kind))
	}
	_, err := svc.store.Mutate(ctx, func(doc *document.Document) error {
		if kind == AdminMessage {
			doc.AdminMessage = msg
		} else {
			doc.BroadcastMessage = msg
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "setting %s", kind)
	}
	if svc.publisher != nil {
		svc.publisher.Publish(kind.field())
	}
	return nil
}

// MarkNotificationsRead flips `read` on every listed notification and returns them.
func (svc *Service) MarkNotificationsRead(ctx context.Context, in NotificationsReadInput) ([]document.Record, error) {
	if err := svc.validate.Struct(in); err != nil {
		return nil, err
	}
	marked := make([]document.Record, 0, len(in.NotificationIDs))
	err := svc.mutate(ctx, func(doc *document.Document) error {
		for _, n := range doc.Notifications {
			for _, id := range in.NotificationIDs {
				if n.Matches("id", id) {
					n["read"] = true
					marked = append(marked, n.Clone())
					break
				}
			}
		}
		return nil
	}, document.Notifications)
	if err != nil {
		return nil, err
	}
	return marked, nil
}

// ResetData replaces the whole document with the seed.
func (svc *Service) ResetData(ctx context.Context) (*document.Document, error) {
	doc, err := svc.store.Reseed(ctx)
	if err != nil {
		return nil, err
	}
	svc.publish(document.Collections...)
	return doc, nil
}
