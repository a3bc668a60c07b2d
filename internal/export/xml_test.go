package export

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/credit-service/internal/models"
)

func TestWriteXML(t *testing.T) {
	records := []models.CreditRecord{
		{
			ID:                1,
			CompanyName:       "Test & Sons",
			NumberOfEmployees: 100,
			RaisedCapital:     1000000,
			LoanInterest:      0.05,
			AccountStatus:     true,
		},
		{ID: 2, CompanyName: "Other"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, records))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.SelectElement("credits")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("count", ""))

	credits := root.SelectElements("credit")
	require.Len(t, credits, 2)
	first := credits[0]
	assert.Equal(t, "1", first.SelectAttrValue("id", ""))
	assert.Equal(t, "Test & Sons", first.SelectElement("company_name").Text())
	assert.Equal(t, "100", first.SelectElement("number_of_employees").Text())
	assert.Equal(t, "1000000", first.SelectElement("raised_capital").Text())
	assert.Equal(t, "0.05", first.SelectElement("loan_interest").Text())
	assert.Equal(t, "true", first.SelectElement("account_status").Text())
	assert.Equal(t, "false", credits[1].SelectElement("account_status").Text())
}

func TestWriteXML_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, nil))
	assert.Contains(t, buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, buf.String(), `<credits count="0"/>`)
}
