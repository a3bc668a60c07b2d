package models

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// CreditRecord represents one company's credit information row
type CreditRecord struct {
	ID                int64   `json:"id" db:"id"`
	CompanyName       string  `json:"company_name" db:"company_name"`
	Address           string  `json:"address" db:"address"`
	RegistrationDate  string  `json:"registration_date" db:"registration_date"`
	NumberOfEmployees int64   `json:"number_of_employees" db:"number_of_employees"`
	RaisedCapital     float64 `json:"raised_capital" db:"raised_capital"`
	Turnover          float64 `json:"turnover" db:"turnover"`
	NetProfit         float64 `json:"net_profit" db:"net_profit"`
	ContactNumber     string  `json:"contact_number" db:"contact_number"`
	ContactEmail      string  `json:"contact_email" db:"contact_email"`
	CompanyWebsite    string  `json:"company_website" db:"company_website"`
	LoanAmount        float64 `json:"loan_amount" db:"loan_amount"`
	LoanInterest      float64 `json:"loan_interest" db:"loan_interest"`
	AccountStatus     bool    `json:"account_status" db:"account_status"`
}

// Count is a whole-number quantity. JSON numbers with a zero fractional part,
// such as 100.0, are accepted as well.
type Count int64

func (c *Count) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*c = Count(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(int64(0))}
	}
	*c = Count(f)
	return nil
}

func jsonKind(data []byte) string {
	switch {
	case len(data) == 0:
		return "value"
	case data[0] == '"':
		return "string"
	case data[0] == 't', data[0] == 'f':
		return "bool"
	case data[0] == '{':
		return "object"
	case data[0] == '[':
		return "array"
	default:
		return "number " + string(data)
	}
}

// CreditInput is the full record accepted on creation. Pointers distinguish
// a missing attribute from its zero value.
type CreditInput struct {
	ID                *int64   `json:"id" validate:"omitempty,gte=1"`
	CompanyName       *string  `json:"company_name" validate:"required"`
	Address           *string  `json:"address" validate:"required"`
	RegistrationDate  *string  `json:"registration_date" validate:"required"`
	NumberOfEmployees *Count   `json:"number_of_employees" validate:"required,gte=0"`
	RaisedCapital     *float64 `json:"raised_capital" validate:"required"`
	Turnover          *float64 `json:"turnover" validate:"required"`
	NetProfit         *float64 `json:"net_profit" validate:"required"`
	ContactNumber     *string  `json:"contact_number" validate:"required"`
	ContactEmail      *string  `json:"contact_email" validate:"required"`
	CompanyWebsite    *string  `json:"company_website" validate:"required"`
	LoanAmount        *float64 `json:"loan_amount" validate:"required"`
	LoanInterest      *float64 `json:"loan_interest" validate:"required"`
	AccountStatus     *bool    `json:"account_status" validate:"required"`
}

// Record converts a validated input into a record. It must only be called
// after validation, every required pointer is dereferenced.
func (in CreditInput) Record() CreditRecord {
	rec := CreditRecord{
		CompanyName:       *in.CompanyName,
		Address:           *in.Address,
		RegistrationDate:  *in.RegistrationDate,
		NumberOfEmployees: int64(*in.NumberOfEmployees),
		RaisedCapital:     *in.RaisedCapital,
		Turnover:          *in.Turnover,
		NetProfit:         *in.NetProfit,
		ContactNumber:     *in.ContactNumber,
		ContactEmail:      *in.ContactEmail,
		CompanyWebsite:    *in.CompanyWebsite,
		LoanAmount:        *in.LoanAmount,
		LoanInterest:      *in.LoanInterest,
		AccountStatus:     *in.AccountStatus,
	}
	if in.ID != nil {
		rec.ID = *in.ID
	}
	return rec
}

// CreditPatch is a partial record used on update. Nil fields are left untouched.
type CreditPatch struct {
	CompanyName       *string  `json:"company_name"`
	Address           *string  `json:"address"`
	RegistrationDate  *string  `json:"registration_date"`
	NumberOfEmployees *Count   `json:"number_of_employees" validate:"omitempty,gte=0"`
	RaisedCapital     *float64 `json:"raised_capital"`
	Turnover          *float64 `json:"turnover"`
	NetProfit         *float64 `json:"net_profit"`
	ContactNumber     *string  `json:"contact_number"`
	ContactEmail      *string  `json:"contact_email"`
	CompanyWebsite    *string  `json:"company_website"`
	LoanAmount        *float64 `json:"loan_amount"`
	LoanInterest      *float64 `json:"loan_interest"`
	AccountStatus     *bool    `json:"account_status"`
}

// Apply returns a copy of rec with the supplied fields replaced
func (p CreditPatch) Apply(rec CreditRecord) CreditRecord {
	if p.CompanyName != nil {
		rec.CompanyName = *p.CompanyName
	}
	if p.Address != nil {
		rec.Address = *p.Address
	}
	if p.RegistrationDate != nil {
		rec.RegistrationDate = *p.RegistrationDate
	}
	if p.NumberOfEmployees != nil {
		rec.NumberOfEmployees = int64(*p.NumberOfEmployees)
	}
	if p.RaisedCapital != nil {
		rec.RaisedCapital = *p.RaisedCapital
	}
	if p.Turnover != nil {
		rec.Turnover = *p.Turnover
	}
	if p.NetProfit != nil {
		rec.NetProfit = *p.NetProfit
	}
	if p.ContactNumber != nil {
		rec.ContactNumber = *p.ContactNumber
	}
	if p.ContactEmail != nil {
		rec.ContactEmail = *p.ContactEmail
	}
	if p.CompanyWebsite != nil {
		rec.CompanyWebsite = *p.CompanyWebsite
	}
	if p.LoanAmount != nil {
		rec.LoanAmount = *p.LoanAmount
	}
	if p.LoanInterest != nil {
		rec.LoanInterest = *p.LoanInterest
	}
	if p.AccountStatus != nil {
		rec.AccountStatus = *p.AccountStatus
	}
	return rec
}

// Key addresses a single record, either by identifier or by company name
type Key struct {
	ID   int64
	Name string
}

// ByName reports whether the key addresses a record by company name
func (k Key) ByName() bool {
	return k.Name != ""
}

func (k Key) String() string {
	if k.ByName() {
		return k.Name
	}
	return strconv.FormatInt(k.ID, 10)
}

// ParseKey turns a path segment into a Key. Integer segments address the
// record by id, anything else by company name.
func ParseKey(raw string) Key {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Key{ID: id}
	}
	return Key{Name: raw}
}
