package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"fud-buddy/gateway/pkg/chat"
)

const (
	// MaxMessageLength is the longest accepted message, in characters.
	MaxMessageLength = 1000

	// MaxPreviousMessages caps the conversation history a client may send.
	MaxPreviousMessages = 50
)

// unsafePatterns reject markup and script injection anywhere in a message.
var unsafePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
	regexp.MustCompile(`(?i)<embed`),
}

// Rule is one step of the validation pipeline. Check inspects the request
// being built and either fills in its typed field or returns the failure.
type Rule struct {
	Field string
	Check func(d *draft) *FieldError
}

// draft carries the raw payload and the typed values decoded so far.
type draft struct {
	raw      RawRequest
	message  string
	chatType chat.Type
	previous []chat.Message
}

// DefaultRules returns the pipeline in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Field: "message", Check: checkMessagePresent},
		{Field: "message", Check: checkMessageLength},
		{Field: "message", Check: checkMessageSafe},
		{Field: "chatType", Check: checkChatType},
		{Field: "previousMessages", Check: checkPreviousMessages},
	}
}

func checkMessagePresent(d *draft) *FieldError {
	if isAbsent(d.raw.Message) {
		return &FieldError{Field: "message", Message: "Message is required"}
	}

	var s string
	if err := json.Unmarshal(d.raw.Message, &s); err != nil {
		return &FieldError{Field: "message", Message: "Message must be a string", Value: rawValue(d.raw.Message)}
	}
	if strings.TrimSpace(stripControl(s)) == "" {
		return &FieldError{Field: "message", Message: "Message is required", Value: s}
	}

	d.message = s
	return nil
}

func checkMessageLength(d *draft) *FieldError {
	n := utf8.RuneCountInString(d.message)
	if n < 1 || n > MaxMessageLength {
		return &FieldError{
			Field:   "message",
			Message: "Message must be between 1 and 1000 characters",
			Value:   n,
		}
	}
	return nil
}

func checkMessageSafe(d *draft) *FieldError {
	for _, p := range unsafePatterns {
		if p.MatchString(d.message) {
			return &FieldError{
				Field:   "message",
				Message: "Message contains potentially unsafe content",
				Value:   d.message,
			}
		}
	}
	return nil
}

func checkChatType(d *draft) *FieldError {
	if isAbsent(d.raw.ChatType) {
		d.chatType = chat.TypeHome
		return nil
	}

	var s string
	if err := json.Unmarshal(d.raw.ChatType, &s); err != nil {
		return &FieldError{Field: "chatType", Message: "Invalid chat type", Value: rawValue(d.raw.ChatType)}
	}
	t := chat.Type(s)
	if !t.Valid() {
		return &FieldError{Field: "chatType", Message: "Invalid chat type", Value: s}
	}

	d.chatType = t
	return nil
}

func checkPreviousMessages(d *draft) *FieldError {
	if isAbsent(d.raw.PreviousMessages) {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(d.raw.PreviousMessages, &entries); err != nil {
		return &FieldError{
			Field:   "previousMessages",
			Message: "Previous messages must be an array",
			Value:   rawValue(d.raw.PreviousMessages),
		}
	}
	if len(entries) > MaxPreviousMessages {
		return &FieldError{
			Field:   "previousMessages",
			Message: "Too many previous messages",
			Value:   len(entries),
		}
	}

	previous := make([]chat.Message, 0, len(entries))
	for _, e := range entries {
		var m chat.Message
		if err := json.Unmarshal(e, &m); err != nil {
			return &FieldError{
				Field:   "previousMessages",
				Message: "Previous messages must be an array",
				Value:   rawValue(e),
			}
		}
		previous = append(previous, m)
	}

	d.previous = previous
	return nil
}

// isAbsent treats a missing field and an explicit JSON null the same way.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// rawValue decodes raw for echoing back in an error detail.
func rawValue(raw json.RawMessage) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
