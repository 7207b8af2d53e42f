package document

const seedJSON = `{
  "schools": [
    {
      "id": "sch-demo",
      "name": "Demo Academy",
      "code": "DEMO",
      "subscription": {"type": "Termly", "status": "Active", "costPerTerm": 150, "costAnnually": 400}
    }
  ],
  "staff": [
    {"id": "T001", "name": "Grace Mwangi", "role": "Head Teacher", "schoolId": "sch-demo", "lastSeen": null},
    {"id": "T002", "name": "Peter Otieno", "role": "Teacher", "schoolId": "sch-demo", "lastSeen": null},
    {"id": "T003", "name": "Amina Hassan", "role": "Bursar", "schoolId": "sch-demo", "lastSeen": null}
  ],
  "students": [
    {"id": "S001", "name": "John Kamau", "class": "Grade 7"},
    {"id": "S002", "name": "Mary Wanjiru", "class": "Grade 7"},
    {"id": "S003", "name": "David Ochieng", "class": "Grade 8"}
  ],
  "tuitionRecords": [
    {"studentId": "S001", "status": "Owing", "amount": 500},
    {"studentId": "S002", "status": "Owing", "amount": 500},
    {"studentId": "S003", "status": "Owing", "amount": 500}
  ],
  "adminMessage": null,
  "broadcastMessage": null
}`

// Seed returns a fresh copy of the initial dataset.
func Seed() *Document {
	d, err := Decode([]byte(seedJSON))
	if err != nil {
		panic(err)
	}
	return d
}
