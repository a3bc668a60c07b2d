// Package export renders credit records as an XML document.
package export

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Dan9191/credit-service/internal/models"
)

// Document builds the <credits> document for the given records
func Document(records []models.CreditRecord) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("credits")
	root.CreateAttr("count", strconv.Itoa(len(records)))
	for i := range records {
		appendRecord(root, &records[i])
	}
	doc.Indent(2)
	return doc
}

func appendRecord(root *etree.Element, rec *models.CreditRecord) {
	el := root.CreateElement("credit")
	el.CreateAttr("id", strconv.FormatInt(rec.ID, 10))
	fields := []struct {
		name  string
		value string
	}{
		{"company_name", rec.CompanyName},
		{"address", rec.Address},
		{"registration_date", rec.RegistrationDate},
		{"number_of_employees", strconv.FormatInt(rec.NumberOfEmployees, 10)},
		{"raised_capital", formatFloat(rec.RaisedCapital)},
		{"turnover", formatFloat(rec.Turnover)},
		{"net_profit", formatFloat(rec.NetProfit)},
		{"contact_number", rec.ContactNumber},
		{"contact_email", rec.ContactEmail},
		{"company_website", rec.CompanyWebsite},
		{"loan_amount", formatFloat(rec.LoanAmount)},
		{"loan_interest", formatFloat(rec.LoanInterest)},
		{"account_status", strconv.FormatBool(rec.AccountStatus)},
	}
	for _, f := range fields {
		el.CreateElement(f.name).SetText(f.value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteXML writes the document for records to w
func WriteXML(w io.Writer, records []models.CreditRecord) error {
	_, err := Document(records).WriteTo(w)
	return err
}
