package document

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want bool
	}{
		{name: "number and string", a: float64(5), b: "5", want: true},
		{name: "int and float", a: 5, b: float64(5), want: true},
		{name: "strings", a: "S001", b: "S001", want: true},
		{name: "different", a: "S001", b: "S002"},
		{name: "fraction", a: 1.5, b: "1.5", want: true},
		{name: "missing never matches", a: nil, b: ""},
		{name: "both missing", a: nil, b: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooseEqual(tt.a, tt.b))
		})
	}
}

func TestParseCollection(t *testing.T) {
	for _, c := range Collections {
		got, err := ParseCollection(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCollection("users")
	assert.Error(t, err)
	assert.EqualError(t, err, `collection "users" not found`)
}

func TestDocument_Records(t *testing.T) {
	d := New()
	for _, c := range Collections {
		recs := d.Records(c)
		if assert.NotNil(t, recs, c) {
			assert.Empty(t, *recs)
		}
	}
	assert.Nil(t, d.Records("users"))
}

func TestRecord_CloneIsDeep(t *testing.T) {
	r := Record{"id": "1", "subscription": map[string]interface{}{"status": "Active"}, "tags": []interface{}{"a"}}
	c := r.Clone()
	c["subscription"].(map[string]interface{})["status"] = "Expired"
	c["tags"].([]interface{})[0] = "b"

	assert.Equal(t, "Active", r["subscription"].(map[string]interface{})["status"])
	assert.Equal(t, "a", r["tags"].([]interface{})[0])
}

func TestDocument_Filter(t *testing.T) {
	d := Seed()
	dropped := d.Filter(TuitionRecords, func(r Record) bool { return !r.Matches("studentId", "S002") })
	assert.Equal(t, 1, dropped)
	assert.Len(t, d.TuitionRecords, 2)
}

func TestSeed(t *testing.T) {
	d := Seed()
	assert.Len(t, d.Schools, 1)
	assert.Equal(t, "Demo Academy", d.Schools[0]["name"])
	assert.Equal(t, "DEMO", d.Schools[0]["code"])
	assert.Len(t, d.Staff, 3)
	assert.Len(t, d.Students, 3)
	assert.Len(t, d.TuitionRecords, 3)
	for _, tr := range d.TuitionRecords {
		assert.Equal(t, "Owing", tr["status"])
		assert.Equal(t, float64(500), tr["amount"])
	}
	for _, c := range Collections {
		switch c {
		case Schools, Staff, Students, TuitionRecords:
		default:
			assert.Empty(t, *d.Records(c), c)
		}
	}
	assert.Nil(t, d.AdminMessage)
	assert.Nil(t, d.BroadcastMessage)
}

func TestDecode_KeepsUnknownKeys(t *testing.T) {
	d, err := Decode([]byte(`{"students": [{"id": "S1"}], "settings": {"theme": "dark"}, "version": 3}`))
	require.NoError(t, err)
	assert.Len(t, d.Students, 1)
	assert.Len(t, d.Extra, 2)

	c := d.Clone()
	c.Append(Tasks, Record{"id": "T1"})
	data, err := c.Encode()
	require.NoError(t, err)

	var persisted map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, map[string]interface{}{"theme": "dark"}, persisted["settings"])
	assert.Equal(t, float64(3), persisted["version"])
	assert.Len(t, persisted["tasks"], 1)
	assert.Contains(t, persisted, "adminMessage")

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, c.Tasks, again.Tasks)
	require.Len(t, again.Extra, 2)
	assert.JSONEq(t, `{"theme": "dark"}`, string(again.Extra["settings"]))
}

func TestDecode_ObjectCollection(t *testing.T) {
	d, err := Decode([]byte(`{"timetable": {"Grade 7": {"Mon": ["Math", "English"]}}}`))
	require.NoError(t, err)
	require.Len(t, d.Timetable, 1)
	assert.Contains(t, d.Timetable[0], "Grade 7")
	assert.Nil(t, d.Extra)
}

func TestDecode_InvalidCollection(t *testing.T) {
	_, err := Decode([]byte(`{"students": "everyone"}`))
	assert.Error(t, err)
}
