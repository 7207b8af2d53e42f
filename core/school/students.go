package school

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

// EnrollStudent appends the student and an owing tuition record for it.
func (svc *Service) EnrollStudent(ctx context.Context, student document.Record) (document.Record, error) {
	if student == nil {
		student = make(document.Record)
	}
	err := svc.mutate(ctx, func(doc *document.Document) error {
		doc.Append(document.Students, student.Clone())
		doc.Append(document.TuitionRecords, document.Record{
			"studentId": student["id"],
			"status":    TuitionOwing,
			"amount":    DefaultTuitionAmount,
		})
		return nil
	}, document.Students, document.TuitionRecords)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// WithdrawStudent removes the student with its tuition records and grades.
// Attendance, completed exams and essay submissions are kept as historical records.
func (svc *Service) WithdrawStudent(ctx context.Context, id string) (document.Record, error) {
	var removed document.Record
	err := svc.mutate(ctx, func(doc *document.Document) error {
		i, _ := doc.FindByID(document.Students, id)
		if i < 0 {
			return core.NewNotFoundError(recordResource(document.Students), id)
		}
		removed = doc.RemoveAt(document.Students, i)

		keep := func(r document.Record) bool { return !r.Matches("studentId", id) }
		doc.Filter(document.TuitionRecords, keep)
		doc.Filter(document.Grades, keep)
		return nil
	}, document.Students, document.TuitionRecords, document.Grades)
	if err != nil {
		return nil, err
	}
	return removed, nil
}
