package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"fud-buddy/gateway/pkg/chat"
)

func rawFromJSON(t *testing.T, body string) RawRequest {
	t.Helper()
	var raw RawRequest
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("failed to decode %q: %v", body, err)
	}
	return raw
}

func TestValidate_Valid(t *testing.T) {
	v := NewValidator()

	result := v.Validate(rawFromJSON(t, `{"message":"  Best tacos near me?  ","chatType":"whereToGo","previousMessages":[{"role":"user","content":"hi"}]}`))
	if !result.Valid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if result.Request.Message != "Best tacos near me?" {
		t.Errorf("expected trimmed message, got %q", result.Request.Message)
	}
	if result.Request.Type != chat.TypeWhereToGo {
		t.Errorf("expected chat type whereToGo, got %q", result.Request.Type)
	}
	if len(result.Request.PreviousMessages) != 1 || result.Request.PreviousMessages[0].Role != "user" {
		t.Errorf("unexpected previous messages: %+v", result.Request.PreviousMessages)
	}
}

func TestValidate_DefaultChatType(t *testing.T) {
	v := NewValidator()

	for _, body := range []string{`{"message":"pizza"}`, `{"message":"pizza","chatType":null}`} {
		result := v.Validate(rawFromJSON(t, body))
		if !result.Valid {
			t.Fatalf("%s: expected valid, got %v", body, result.Errors)
		}
		if result.Request.Type != chat.TypeHome {
			t.Errorf("%s: expected default chat type home, got %q", body, result.Request.Type)
		}
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"missing message", `{}`, "message", "Message is required"},
		{"null message", `{"message":null}`, "message", "Message is required"},
		{"empty message", `{"message":""}`, "message", "Message is required"},
		{"blank message", `{"message":"   \u0001 "}`, "message", "Message is required"},
		{"non-string message", `{"message":42}`, "message", "Message must be a string"},
		{"too long", `{"message":"` + strings.Repeat("a", 1001) + `"}`, "message", "Message must be between 1 and 1000 characters"},
		{"script tag", `{"message":"<script>alert(1)</script>"}`, "message", "Message contains potentially unsafe content"},
		{"script tag mixed case", `{"message":"hello <ScRiPt src=x>bad()</SCRIPT> there"}`, "message", "Message contains potentially unsafe content"},
		{"javascript uri", `{"message":"click JavaScript:void(0)"}`, "message", "Message contains potentially unsafe content"},
		{"event handler", `{"message":"<img src=x onerror = alert(1)>"}`, "message", "Message contains potentially unsafe content"},
		{"iframe", `{"message":"see <IFRAME src=evil>"}`, "message", "Message contains potentially unsafe content"},
		{"object", `{"message":"<object data=x>"}`, "message", "Message contains potentially unsafe content"},
		{"embed", `{"message":"<embed src=x>"}`, "message", "Message contains potentially unsafe content"},
		{"bad chat type", `{"message":"hi","chatType":"dessert"}`, "chatType", "Invalid chat type"},
		{"numeric chat type", `{"message":"hi","chatType":3}`, "chatType", "Invalid chat type"},
		{"previous not array", `{"message":"hi","previousMessages":"nope"}`, "previousMessages", "Previous messages must be an array"},
		{"previous entry not object", `{"message":"hi","previousMessages":["nope"]}`, "previousMessages", "Previous messages must be an array"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(rawFromJSON(t, tt.body))
			if result.Valid {
				t.Fatal("expected validation failure")
			}
			if len(result.Errors) != 1 {
				t.Fatalf("expected exactly one error, got %d", len(result.Errors))
			}
			if result.Errors[0].Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, result.Errors[0].Field)
			}
			if result.Errors[0].Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, result.Errors[0].Message)
			}
			if result.Request.Message != "" {
				t.Errorf("invalid request must not carry a sanitized message, got %q", result.Request.Message)
			}
		})
	}
}

func TestValidate_LengthBoundaries(t *testing.T) {
	v := NewValidator()

	exact := strings.Repeat("é", MaxMessageLength)
	result := v.Validate(RawRequest{Message: mustJSON(t, exact)})
	if !result.Valid {
		t.Errorf("expected %d multi-byte characters to be valid, got %v", MaxMessageLength, result.Errors)
	}

	over := strings.Repeat("é", MaxMessageLength+1)
	result = v.Validate(RawRequest{Message: mustJSON(t, over)})
	if result.Valid {
		t.Error("expected message over the limit to fail")
	}
}

func TestValidate_PreviousMessagesCap(t *testing.T) {
	v := NewValidator()

	history := make([]chat.Message, MaxPreviousMessages)
	for i := range history {
		history[i] = chat.Message{Role: "user", Content: "turn"}
	}

	result := v.Validate(RawRequest{Message: mustJSON(t, "hi"), PreviousMessages: mustJSON(t, history)})
	if !result.Valid {
		t.Fatalf("expected %d previous messages to be accepted, got %v", MaxPreviousMessages, result.Errors)
	}
	if len(result.Request.PreviousMessages) != MaxPreviousMessages {
		t.Errorf("expected history to be kept whole, got %d entries", len(result.Request.PreviousMessages))
	}

	history = append(history, chat.Message{Role: "assistant", Content: "one too many"})
	result = v.Validate(RawRequest{Message: mustJSON(t, "hi"), PreviousMessages: mustJSON(t, history)})
	if result.Valid {
		t.Fatal("expected history over the cap to be rejected")
	}
	if result.Errors[0].Message != "Too many previous messages" {
		t.Errorf("unexpected error message %q", result.Errors[0].Message)
	}
}

func TestValidate_ShortCircuits(t *testing.T) {
	calls := 0
	rules := append(DefaultRules(), Rule{
		Field: "never",
		Check: func(d *draft) *FieldError {
			calls++
			return nil
		},
	})

	v := NewValidatorWithRules(rules)
	v.Validate(RawRequest{Message: mustJSON(t, "<iframe>"), ChatType: mustJSON(t, "bogus")})

	if calls != 0 {
		t.Errorf("expected later rules to be skipped after a failure, ran %d times", calls)
	}
}

func TestValidate_UnsafeCheckedBeforeSanitize(t *testing.T) {
	v := NewValidator()

	// Escaping would turn the tag into harmless text; validation must still reject it.
	result := v.Validate(RawRequest{Message: mustJSON(t, "<script>alert(1)</script>")})
	if result.Valid {
		t.Fatal("expected script tag to be rejected rather than escaped")
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return b
}
