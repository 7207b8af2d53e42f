// Package analytics aggregates attendance, grades and tuition over a loaded document.
package analytics

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
	"github.com/trezcool/academia/core/school"
)

type (
	// Attendance counts marks; Rate is (present+late)/marked, 0 when nothing is marked.
	Attendance struct {
		Present int     `json:"present"`
		Late    int     `json:"late"`
		Absent  int     `json:"absent"`
		Marked  int     `json:"marked"`
		Rate    float64 `json:"rate"`
	}

	// Average is the mean grade total over Count grades.
	Average struct {
		Count   int     `json:"count"`
		Average float64 `json:"average"`
	}

	Tuition struct {
		OwingCount  int     `json:"owingCount"`
		OwingAmount float64 `json:"owingAmount"`
		PaidCount   int     `json:"paidCount"`
		PaidAmount  float64 `json:"paidAmount"`
	}

	Overview struct {
		Students          int                   `json:"students"`
		Staff             int                   `json:"staff"`
		Parents           int                   `json:"parents"`
		Attendance        Attendance            `json:"attendance"`
		AttendanceByClass map[string]Attendance `json:"attendanceByClass"`
		GradesBySubject   map[string]Average    `json:"gradesBySubject"`
		Tuition           Tuition               `json:"tuition"`
	}

	StudentReport struct {
		Student         document.Record    `json:"student"`
		Attendance      Attendance         `json:"attendance"`
		Grades          Average            `json:"grades"`
		GradesBySubject map[string]Average `json:"gradesBySubject"`
		Tuition         document.Record    `json:"tuition"`
	}
)

func (a *Attendance) mark(status string) {
	switch status {
	case "Present":
		a.Present++
	case "Late":
		a.Late++
	case "Absent":
		a.Absent++
	default:
		return
	}
	a.Marked++
	a.Rate = float64(a.Present+a.Late) / float64(a.Marked)
}

type accumulator struct {
	sum   float64
	count int
}

func (acc *accumulator) add(n float64) {
	acc.sum += n
	acc.count++
}

func (acc accumulator) average() Average {
	if acc.count == 0 {
		return Average{}
	}
	return Average{Count: acc.count, Average: acc.sum / float64(acc.count)}
}

// gradeTotal prefers the stored total and falls back to summing the components.
func gradeTotal(grade document.Record) float64 {
	if n, ok := school.ToNumber(grade["total"]); ok {
		return n
	}
	return school.GradeTotal(grade)
}

// attendanceEntries calls fn for every {studentId, status} entry of every attendance record.
func attendanceEntries(doc *document.Document, fn func(class string, entry map[string]interface{})) {
	for _, rec := range doc.AttendanceRecords {
		entries, _ := rec["records"].([]interface{})
		for _, e := range entries {
			if entry, ok := e.(map[string]interface{}); ok {
				fn(rec.StringField("class"), entry)
			}
		}
	}
}

// Compute builds the school-wide overview.
func Compute(doc *document.Document) Overview {
	ov := Overview{
		Students:          len(doc.Students),
		Staff:             len(doc.Staff),
		Parents:           len(doc.Parents),
		AttendanceByClass: map[string]Attendance{},
		GradesBySubject:   map[string]Average{},
	}

	attendanceEntries(doc, func(class string, entry map[string]interface{}) {
		status, _ := entry["status"].(string)
		byClass := ov.AttendanceByClass[class]
		byClass.mark(status)
		ov.AttendanceByClass[class] = byClass
		ov.Attendance.mark(status)
	})

	subjects := map[string]*accumulator{}
	for _, g := range doc.Grades {
		subject := g.StringField("subject")
		acc, ok := subjects[subject]
		if !ok {
			acc = &accumulator{}
			subjects[subject] = acc
		}
		acc.add(gradeTotal(g))
	}
	for subject, acc := range subjects {
		ov.GradesBySubject[subject] = acc.average()
	}

	for _, t := range doc.TuitionRecords {
		amount, _ := school.ToNumber(t["amount"])
		if t.StringField("status") == school.TuitionPaid {
			ov.Tuition.PaidCount++
			ov.Tuition.PaidAmount += amount
		} else {
			ov.Tuition.OwingCount++
			ov.Tuition.OwingAmount += amount
		}
	}
	return ov
}

// ForStudent builds one student's report. Records are matched loosely on studentId.
func ForStudent(doc *document.Document, studentID interface{}) (*StudentReport, error) {
	_, student := doc.FindByID(document.Students, studentID)
	if student == nil {
		return nil, core.NewNotFoundError("student", document.CanonicalID(studentID))
	}

	report := &StudentReport{Student: student.Clone(), GradesBySubject: map[string]Average{}}

	attendanceEntries(doc, func(_ string, entry map[string]interface{}) {
		if document.LooseEqual(entry["studentId"], studentID) {
			status, _ := entry["status"].(string)
			report.Attendance.mark(status)
		}
	})

	var all accumulator
	subjects := map[string]*accumulator{}
	for _, g := range doc.Grades {
		if !g.Matches("studentId", studentID) {
			continue
		}
		total := gradeTotal(g)
		all.add(total)
		subject := g.StringField("subject")
		acc, ok := subjects[subject]
		if !ok {
			acc = &accumulator{}
			subjects[subject] = acc
		}
		acc.add(total)
	}
	report.Grades = all.average()
	for subject, acc := range subjects {
		report.GradesBySubject[subject] = acc.average()
	}

	if _, t := doc.Find(document.TuitionRecords, "studentId", studentID); t != nil {
		report.Tuition = t.Clone()
	}
	return report, nil
}
