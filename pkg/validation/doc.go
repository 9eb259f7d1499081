// Package validation checks inbound chat payloads and sanitizes the message
// text before it reaches the limiter, cache or upstream model.
//
// Rules run in a fixed order and the first failure stops evaluation, so a
// Result is either fully valid or carries exactly the failing field.
// Sanitization only runs once every rule has passed; invalid input is never
// repaired and forwarded.
//
// # Example
//
//	v := validation.NewValidator()
//	result := v.Validate(raw)
//	if !result.Valid {
//	    // result.Errors[0] names the offending field
//	}
//	req := result.Request // sanitized chat.Request
package validation
