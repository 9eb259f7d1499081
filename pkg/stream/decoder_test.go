package stream

import (
	"reflect"
	"testing"
)

func content(s string) Event { return Event{Kind: EventContent, Content: s} }
func raw(s string) Event { return Event{Kind: EventRaw, Raw: s} }

func feedAll(d *Decoder, parts ...string) ([]Event, bool) {
	var all []Event
	var done bool
	for _, p := range parts {
		events, isDone := d.Feed([]byte(p))
		all = append(all, events...)
		done = isDone
	}
	return all, done
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		want     []Event
		wantDone bool
	}{
		{
			name:     "single record",
			parts:    []string{"data: {\"content\":\"hi\"}\n\n"},
			want:     []Event{content("hi")},
			wantDone: false,
		},
		{
			name:     "terminal marker",
			parts:    []string{"data: {\"content\":\"a\"}\n\ndata: {\"content\":\"b\"}\n\ndata: [DONE]\n\n"},
			want:     []Event{content("a"), content("b")},
			wantDone: true,
		},
		{
			name:  "record split across reads",
			parts: []string{"da", "ta: {\"cont", "ent\":\"Hel", "lo\"}", "\n"},
			want:  []Event{content("Hello")},
		},
		{
			name:     "split before terminal newline",
			parts:    []string{"data: {\"content\":\"x\"}\ndata: [DO", "NE]", "\n"},
			want:     []Event{content("x")},
			wantDone: true,
		},
		{
			name:  "malformed record followed by good one",
			parts: []string{"data: {not json\n", "data: {\"content\":\"ok\"}\n"},
			want:  []Event{raw("{not json"), content("ok")},
		},
		{
			name:  "json without content is raw",
			parts: []string{"data: {\"other\":1}\n"},
			want:  []Event{raw("{\"other\":1}")},
		},
		{
			name:  "non-prefixed and blank lines ignored",
			parts: []string{": comment\n\nevent: ping\ndata:nospace\ndata: {\"content\":\"y\"}\n"},
			want:  []Event{content("y")},
		},
		{
			name:     "input after terminal marker ignored",
			parts:    []string{"data: [DONE]\ndata: {\"content\":\"late\"}\n", "data: {\"content\":\"later\"}\n"},
			want:     nil,
			wantDone: true,
		},
		{
			name:  "empty content is still content",
			parts: []string{"data: {\"content\":\"\"}\n"},
			want:  []Event{content("")},
		},
		{
			name:  "crlf line endings",
			parts: []string{"data: {\"content\":\"z\"}\r\n"},
			want:  []Event{content("z")},
		},
		{
			name:  "unicode split mid-rune",
			parts: []string{"data: {\"content\":\"caf\xc3", "\xa9\"}\n"},
			want:  []Event{content("café")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			got, done := feedAll(d, tt.parts...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("events = %#v, want %#v", got, tt.want)
			}
			if done != tt.wantDone {
				t.Errorf("done = %v, want %v", done, tt.wantDone)
			}
		})
	}
}

func TestDecoder_ByteAtATime(t *testing.T) {
	input := "data: {\"content\":\"one\"}\n\ndata: oops\n\ndata: {\"content\":\"two\"}\n\ndata: [DONE]\n\n"
	d := NewDecoder()

	var got []Event
	var done bool
	for i := 0; i < len(input); i++ {
		events, isDone := d.Feed([]byte{input[i]})
		got = append(got, events...)
		done = isDone
	}

	want := []Event{content("one"), raw("oops"), content("two")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events = %#v, want %#v", got, want)
	}
	if !done {
		t.Error("expected done")
	}
}

func TestDecoder_Flush(t *testing.T) {
	d := NewDecoder()
	if events, _ := d.Feed([]byte("data: {\"content\":\"tail\"}")); len(events) != 0 {
		t.Fatalf("incomplete line produced events: %v", events)
	}
	events, done := d.Flush()
	if done || !reflect.DeepEqual(events, []Event{content("tail")}) {
		t.Errorf("Flush() = %v, %v", events, done)
	}

	d = NewDecoder()
	d.Feed([]byte("data: [DONE]"))
	if _, done := d.Flush(); !done {
		t.Error("Flush() should report the terminal marker")
	}
}

func TestDecoder_FallbackFlag(t *testing.T) {
	d := NewDecoder()
	events, _ := d.Feed([]byte("data: {\"content\":\"sorry\",\"fallback\":true}\n"))
	if len(events) != 1 || !events[0].Fallback || events[0].Text() != "sorry" {
		t.Errorf("events = %#v", events)
	}
}
