package chat

import "fmt"

// Type selects the system framing used for a conversation.
type Type string

const (
	// TypeWhereToGo asks for restaurant and venue recommendations.
	TypeWhereToGo Type = "whereToGo"

	// TypeWhatToOrder asks for dish recommendations at a known place.
	TypeWhatToOrder Type = "whatToOrder"

	// TypeSomethingFun asks for unusual food experiences.
	TypeSomethingFun Type = "somethingFun"

	// TypeHome is the general food assistant and the default.
	TypeHome Type = "home"
)

// Types lists every recognized chat type in display order.
var Types = []Type{TypeWhereToGo, TypeWhatToOrder, TypeSomethingFun, TypeHome}

// Valid reports whether t is one of the recognized chat types.
func (t Type) Valid() bool {
	switch t {
	case TypeWhereToGo, TypeWhatToOrder, TypeSomethingFun, TypeHome:
		return true
	}
	return false
}

// ParseType converts s into a Type. An empty string yields TypeHome.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeHome, nil
	}
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown chat type %q", s)
	}
	return t, nil
}

// Message is one prior turn of the conversation supplied by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat request that has passed validation and sanitization.
// Message is always the sanitized form.
type Request struct {
	Message          string
	Type             Type
	PreviousMessages []Message
}

// Preview returns at most n runes of the message for log lines.
func (r Request) Preview(n int) string {
	return Preview(r.Message, n)
}

// Preview truncates s to n runes, appending "..." when shortened.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
