package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// validationIssue is one entry of a 422 response
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type validationResponse struct {
	Detail []validationIssue `json:"detail"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return typeName(t.Elem())
	case reflect.String:
		return "str"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Struct, reflect.Map:
		return "dict"
	default:
		return t.Kind().String()
	}
}

func bodyLoc(field string) []string {
	if field == "" {
		return []string{"body"}
	}
	return []string{"body", field}
}

// decodeBody reads r's JSON body into dst and validates it. A nil result
// means dst is safe to use.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) []validationIssue {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return []validationIssue{{Loc: bodyLoc(""), Msg: "field required", Type: "value_error.missing"}}
		case errors.As(err, &typeErr):
			name := typeName(typeErr.Type)
			return []validationIssue{{
				Loc:  bodyLoc(typeErr.Field),
				Msg:  fmt.Sprintf("value is not a valid %s", name),
				Type: "type_error." + name,
			}}
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return []validationIssue{{Loc: bodyLoc(""), Msg: "invalid JSON: " + err.Error(), Type: "value_error.jsondecode"}}
		case errors.As(err, &maxErr):
			return []validationIssue{{Loc: bodyLoc(""), Msg: "request body too large", Type: "value_error.any_str.max_length"}}
		default:
			return []validationIssue{{Loc: bodyLoc(""), Msg: err.Error(), Type: "value_error"}}
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return []validationIssue{{
			Loc:  bodyLoc(""),
			Msg:  "invalid JSON: unexpected data after the top-level value",
			Type: "value_error.jsondecode",
		}}
	}

	err := h.validator.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []validationIssue{{Loc: bodyLoc(""), Msg: err.Error(), Type: "value_error"}}
	}
	issues := make([]validationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issue := validationIssue{Loc: bodyLoc(fe.Field())}
		switch fe.Tag() {
		case "required":
			issue.Msg = "field required"
			issue.Type = "value_error.missing"
		case "gte":
			issue.Msg = fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
			issue.Type = "value_error.number.not_ge"
		default:
			issue.Msg = fmt.Sprintf("failed on the %q rule", fe.Tag())
			issue.Type = "value_error"
		}
		issues = append(issues, issue)
	}
	return issues
}

func (h *Handler) writeValidation(w http.ResponseWriter, issues []validationIssue) {
	h.writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: issues})
}
