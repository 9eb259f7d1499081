package validation

import (
	"encoding/json"
	"fmt"

	"fud-buddy/gateway/pkg/chat"
)

// RawRequest is the undecoded chat payload. Fields stay raw so type
// mismatches surface as field errors instead of a decode failure.
type RawRequest struct {
	Message          json.RawMessage `json:"message"`
	ChatType         json.RawMessage `json:"chatType"`
	PreviousMessages json.RawMessage `json:"previousMessages"`
}

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of validating one request.
type Result struct {
	// Valid is true only when every rule passed.
	Valid bool

	// Errors holds the failing field. It is empty when Valid is true.
	Errors []FieldError

	// Request is the sanitized request. It is the zero value when Valid is false.
	Request chat.Request
}

// Validator runs an ordered rule list over raw requests.
type Validator struct {
	rules []Rule
}

// NewValidator returns a Validator using DefaultRules.
func NewValidator() *Validator {
	return &Validator{rules: DefaultRules()}
}

// NewValidatorWithRules returns a Validator evaluating rules in the given order.
func NewValidatorWithRules(rules []Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate evaluates the rules in order and stops at the first failure.
// The message is sanitized only after every rule has passed.
func (v *Validator) Validate(raw RawRequest) Result {
	d := &draft{raw: raw, chatType: chat.TypeHome}

	for _, rule := range v.rules {
		if fe := rule.Check(d); fe != nil {
			return Result{Valid: false, Errors: []FieldError{*fe}}
		}
	}

	return Result{
		Valid: true,
		Request: chat.Request{
			Message:          Sanitize(d.message),
			Type:             d.chatType,
			PreviousMessages: d.previous,
		},
	}
}
