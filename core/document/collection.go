package document

import "github.com/trezcool/academia/core"

// Collection names one of the record lists held by a Document.
type Collection string

const (
	Schools           Collection = "schools"
	Staff             Collection = "staff"
	Students          Collection = "students"
	Parents           Collection = "parents"
	TuitionRecords    Collection = "tuitionRecords"
	AccessCodes       Collection = "accessCodes"
	ParentAccessCodes Collection = "parentAccessCodes"
	EssayAssignments  Collection = "essayAssignments"
	EssaySubmissions  Collection = "essaySubmissions"
	CompletedExams    Collection = "completedExams"
	Grades            Collection = "grades"
	AttendanceRecords Collection = "attendanceRecords"
	Tasks             Collection = "tasks"
	Announcements     Collection = "announcements"
	Notifications     Collection = "notifications"
	LessonPlans       Collection = "lessonPlans"
	Schemes           Collection = "schemes"
	RecordsOfWork     Collection = "recordsOfWork"
	QuestionBank      Collection = "questionBank"
	Examinations      Collection = "examinations"
	Timetable         Collection = "timetable"
)

// Collections lists every collection in document order.
var Collections = []Collection{
	Schools, Staff, Students, Parents, TuitionRecords, AccessCodes, ParentAccessCodes,
	EssayAssignments, EssaySubmissions, CompletedExams, Grades, AttendanceRecords,
	Tasks, Announcements, Notifications, LessonPlans, Schemes, RecordsOfWork,
	QuestionBank, Examinations, Timetable,
}

var collectionSet = func() map[Collection]bool {
	set := make(map[Collection]bool, len(Collections))
	for _, c := range Collections {
		set[c] = true
	}
	return set
}()

// ParseCollection returns the Collection named `name` or a NotFoundError.
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	if !collectionSet[c] {
		return "", core.NewNotFoundError("collection", name)
	}
	return c, nil
}

func (c Collection) String() string { return string(c) }
