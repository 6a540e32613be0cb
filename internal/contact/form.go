package contact

import "strings"

// Field identifies one input of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields returns the form fields in display order.
func Fields() []Field {
	return []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}
}

// Valid reports whether f names one of the four form fields.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldSubject, FieldMessage:
		return true
	}
	return false
}

// FormState is the draft message. The zero value is an empty form.
type FormState struct {
	Name    string `json:"name" validate:"present,minrunes=2,maxrunes=50"`
	Email   string `json:"email" validate:"present,contactemail"`
	Subject string `json:"subject" validate:"present,minrunes=5,maxrunes=100"`
	Message string `json:"message" validate:"present,minrunes=10,maxrunes=500"`
}

// Get returns the value of the named field.
func (s FormState) Get(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldSubject:
		return s.Subject
	case FieldMessage:
		return s.Message
	}
	return ""
}

// Set assigns the named field. It reports false for an unknown field.
func (s *FormState) Set(f Field, value string) bool {
	switch f {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldSubject:
		s.Subject = value
	case FieldMessage:
		s.Message = value
	default:
		return false
	}
	return true
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (s FormState) Trimmed() FormState {
	return FormState{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// IsZero reports whether every field is empty.
func (s FormState) IsZero() bool {
	return s == FormState{}
}

// ValidationResult maps an invalid field to a human-readable message.
// An empty result means the form is valid.
type ValidationResult map[Field]string

// Valid reports whether no field has an error.
func (r ValidationResult) Valid() bool {
	return len(r) == 0
}

// Has reports whether f has an error.
func (r ValidationResult) Has(f Field) bool {
	_, ok := r[f]
	return ok
}

// Clone returns an independent copy. A nil result clones to an empty one.
func (r ValidationResult) Clone() ValidationResult {
	out := make(ValidationResult, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
