package document

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Message is the value of a singleton notice such as the admin or broadcast message.
type Message struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Document is the whole application dataset.
type Document struct {
	Schools           []Record `json:"schools"`
	Staff             []Record `json:"staff"`
	Students          []Record `json:"students"`
	Parents           []Record `json:"parents"`
	TuitionRecords    []Record `json:"tuitionRecords"`
	AccessCodes       []Record `json:"accessCodes"`
	ParentAccessCodes []Record `json:"parentAccessCodes"`
	EssayAssignments  []Record `json:"essayAssignments"`
	EssaySubmissions  []Record `json:"essaySubmissions"`
	CompletedExams    []Record `json:"completedExams"`
	Grades            []Record `json:"grades"`
	AttendanceRecords []Record `json:"attendanceRecords"`
	Tasks             []Record `json:"tasks"`
	Announcements     []Record `json:"announcements"`
	Notifications     []Record `json:"notifications"`
	LessonPlans       []Record `json:"lessonPlans"`
	Schemes           []Record `json:"schemes"`
	RecordsOfWork     []Record `json:"recordsOfWork"`
	QuestionBank      []Record `json:"questionBank"`
	Examinations      []Record `json:"examinations"`
	Timetable         []Record `json:"timetable"`

	AdminMessage     *Message `json:"adminMessage"`
	BroadcastMessage *Message `json:"broadcastMessage"`

	// Extra keeps unknown top-level keys so that they survive a rewrite.
	Extra map[string]json.RawMessage `json:"-"`
}

const (
	adminMessageKey     = "adminMessage"
	broadcastMessageKey = "broadcastMessage"
)

// New returns an empty document.
func New() *Document {
	d := new(Document)
	d.normalize()
	return d
}

// Records returns a pointer to the record list of c, or nil if c is not a known collection.
func (d *Document) Records(c Collection) *[]Record {
	switch c {
	case Schools:
		return &d.Schools
	case Staff:
		return &d.Staff
	case Students:
		return &d.Students
	case Parents:
		return &d.Parents
	case TuitionRecords:
		return &d.TuitionRecords
	case AccessCodes:
		return &d.AccessCodes
	case ParentAccessCodes:
		return &d.ParentAccessCodes
	case EssayAssignments:
		return &d.EssayAssignments
	case EssaySubmissions:
		return &d.EssaySubmissions
	case CompletedExams:
		return &d.CompletedExams
	case Grades:
		return &d.Grades
	case AttendanceRecords:
		return &d.AttendanceRecords
	case Tasks:
		return &d.Tasks
	case Announcements:
		return &d.Announcements
	case Notifications:
		return &d.Notifications
	case LessonPlans:
		return &d.LessonPlans
	case Schemes:
		return &d.Schemes
	case RecordsOfWork:
		return &d.RecordsOfWork
	case QuestionBank:
		return &d.QuestionBank
	case Examinations:
		return &d.Examinations
	case Timetable:
		return &d.Timetable
	}
	return nil
}

// Find returns the index and the first record of c whose `key` loosely equals v, or -1.
func (d *Document) Find(c Collection, key string, v interface{}) (int, Record) {
	recs := d.Records(c)
	if recs == nil {
		return -1, nil
	}
	for i, r := range *recs {
		if r.Matches(key, v) {
			return i, r
		}
	}
	return -1, nil
}

// FindByID is Find on the "id" field.
func (d *Document) FindByID(c Collection, id interface{}) (int, Record) {
	return d.Find(c, "id", id)
}

// Append adds records to the end of c.
func (d *Document) Append(c Collection, recs ...Record) {
	if list := d.Records(c); list != nil {
		*list = append(*list, recs...)
	}
}

// RemoveAt deletes the record at index i of c and returns it.
func (d *Document) RemoveAt(c Collection, i int) Record {
	list := d.Records(c)
	removed := (*list)[i]
	*list = append((*list)[:i:i], (*list)[i+1:]...)
	return removed
}

// Filter keeps only the records of c for which keep returns true and returns how many were dropped.
func (d *Document) Filter(c Collection, keep func(Record) bool) int {
	list := d.Records(c)
	kept := make([]Record, 0, len(*list))
	for _, r := range *list {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	dropped := len(*list) - len(kept)
	*list = kept
	return dropped
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{}
	for _, coll := range Collections {
		src := d.Records(coll)
		dst := c.Records(coll)
		*dst = make([]Record, len(*src))
		for i, r := range *src {
			(*dst)[i] = r.Clone()
		}
	}
	if d.AdminMessage != nil {
		m := *d.AdminMessage
		c.AdminMessage = &m
	}
	if d.BroadcastMessage != nil {
		m := *d.BroadcastMessage
		c.BroadcastMessage = &m
	}
	if d.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// normalize replaces nil lists with empty ones so that they encode as [].
func (d *Document) normalize() {
	for _, c := range Collections {
		if list := d.Records(c); *list == nil {
			*list = make([]Record, 0)
		}
	}
}

// Decode parses a persisted document.
// A collection stored as a single object becomes a one-record list. Unknown keys go to Extra.
func Decode(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}

	d := new(Document)
	for key, v := range raw {
		var err error
		switch {
		case collectionSet[Collection(key)]:
			err = decodeRecords(v, d.Records(Collection(key)))
		case key == adminMessageKey:
			err = json.Unmarshal(v, &d.AdminMessage)
		case key == broadcastMessageKey:
			err = json.Unmarshal(v, &d.BroadcastMessage)
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]json.RawMessage)
			}
			d.Extra[key] = append(json.RawMessage(nil), v...)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decoding document %q", key)
		}
	}
	d.normalize()
	return d, nil
}

func decodeRecords(v json.RawMessage, list *[]Record) error {
	if trimmed := bytes.TrimSpace(v); len(trimmed) > 0 && trimmed[0] == '{' {
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return err
		}
		*list = []Record{rec}
		return nil
	}
	return json.Unmarshal(v, list)
}

// Encode serializes d for persistence, Extra keys included.
func (d *Document) Encode() ([]byte, error) {
	d.normalize()
	if len(d.Extra) == 0 {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding document")
		}
		return data, nil
	}

	known, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	merged := make(map[string]json.RawMessage, len(d.Extra)+len(Collections)+2)
	if err = json.Unmarshal(known, &merged); err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	for k, v := range d.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return data, nil
}
