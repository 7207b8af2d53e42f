package school

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/document"
)

type tuitionReceiptData struct {
	ParentName  string
	StudentName string
	Amount      string
	Status      string
	Date        string
}

// tuitionReceipts builds one receipt per parent of the tuition's student that has a valid email.
func tuitionReceipts(doc *document.Document, tuition document.Record) []*core.EmailMessage {
	studentID := tuition["studentId"]
	studentName := document.CanonicalID(studentID)
	if _, student := doc.FindByID(document.Students, studentID); student != nil {
		if name := student.StringField("name"); name != "" {
			studentName = name
		}
	}

	amount := fmt.Sprint(tuition["amount"])
	if n, ok := ToNumber(tuition["amount"]); ok {
		amount = fmt.Sprintf("%.2f", n)
	}

	var msgs []*core.EmailMessage
	for _, parent := range doc.Parents {
		if !parentOf(parent, studentID) {
			continue
		}
		addr, err := mail.ParseAddress(strings.TrimSpace(parent.StringField("email")))
		if err != nil {
			continue
		}
		addr.Name = parent.StringField("name")
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{*addr},
			Subject:      "Tuition payment received",
			TemplateName: "tuition_receipt",
			TemplateData: tuitionReceiptData{
				ParentName:  addr.Name,
				StudentName: studentName,
				Amount:      amount,
				Status:      TuitionPaid,
				Date:        core.Today(),
			},
		})
	}
	return msgs
}

func parentOf(parent document.Record, studentID interface{}) bool {
	ids, _ := parent["studentIds"].([]interface{})
	for _, id := range ids {
		if document.LooseEqual(id, studentID) {
			return true
		}
	}
	return false
}
