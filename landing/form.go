package landing

import (
	"fmt"
	"strings"
)

// Field names as posted by the form and sent to the webhook
const (
	FieldCompanyName   = "companyName"
	FieldCompanyDomain = "companyDomain"
	FieldEmail         = "email"
	FieldMessage       = "message"
)

// Fields lists the form fields in display order
var Fields = []string{FieldCompanyName, FieldCompanyDomain, FieldEmail, FieldMessage}

// FormData is the lead captured by the form. The JSON shape is the webhook body.
type FormData struct {
	CompanyName   string `json:"companyName"`
	CompanyDomain string `json:"companyDomain"`
	Email         string `json:"email"`
	Message       string `json:"message"`
}

// Get returns the value of the named field
func (f FormData) Get(field string) string {
	switch field {
	case FieldCompanyName:
		return f.CompanyName
	case FieldCompanyDomain:
		return f.CompanyDomain
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

func (f *FormData) set(field, value string) error {
	switch field {
	case FieldCompanyName:
		f.CompanyName = value
	case FieldCompanyDomain:
		f.CompanyDomain = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Validate flags every field that is empty after trimming
func (f FormData) Validate() ValidationState {
	return ValidationState{
		CompanyName:   strings.TrimSpace(f.CompanyName) == "",
		CompanyDomain: strings.TrimSpace(f.CompanyDomain) == "",
		Email:         strings.TrimSpace(f.Email) == "",
		Message:       strings.TrimSpace(f.Message) == "",
	}
}

// ValidationState holds one flag per field; true means the required field is empty
type ValidationState struct {
	CompanyName   bool
	CompanyDomain bool
	Email         bool
	Message       bool
}

// Get returns the flag for the named field
func (v ValidationState) Get(field string) bool {
	switch field {
	case FieldCompanyName:
		return v.CompanyName
	case FieldCompanyDomain:
		return v.CompanyDomain
	case FieldEmail:
		return v.Email
	case FieldMessage:
		return v.Message
	}
	return false
}

func (v *ValidationState) clear(field string) {
	switch field {
	case FieldCompanyName:
		v.CompanyName = false
	case FieldCompanyDomain:
		v.CompanyDomain = false
	case FieldEmail:
		v.Email = false
	case FieldMessage:
		v.Message = false
	}
}

// Any reports whether at least one field is flagged
func (v ValidationState) Any() bool {
	return v.CompanyName || v.CompanyDomain || v.Email || v.Message
}

// Missing returns the flagged field names in display order
func (v ValidationState) Missing() []string {
	var missing []string
	for _, field := range Fields {
		if v.Get(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
