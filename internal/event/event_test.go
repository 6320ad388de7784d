package event

import "testing"

func TestBalanced(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   bool
	}{
		{
			name:   "empty stream",
			events: nil,
			want:   true,
		},
		{
			name: "flat paragraph",
			events: []Event{
				Start{Paragraph{}},
				Text("hello"),
				End{Paragraph{}},
			},
			want: true,
		},
		{
			name: "nested quote in paragraph order",
			events: []Event{
				Start{BlockQuote{}},
				Start{Paragraph{}},
				Text("quoted"),
				End{Paragraph{}},
				End{BlockQuote{}},
			},
			want: true,
		},
		{
			name: "missing end",
			events: []Event{
				Start{Paragraph{}},
				Text("dangling"),
			},
			want: false,
		},
		{
			name: "end without start",
			events: []Event{
				End{Paragraph{}},
			},
			want: false,
		},
		{
			name: "interleaved spans",
			events: []Event{
				Start{Paragraph{}},
				Start{BlockQuote{}},
				End{Paragraph{}},
				End{BlockQuote{}},
			},
			want: false,
		},
		{
			name: "leaves ignored",
			events: []Event{
				Text("a"),
				SoftBreak{},
				Code("b"),
				HardBreak{},
				InlineMath("x"),
				FootnoteReference{Label: "1"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Balanced(tt.events); got != tt.want {
				t.Errorf("Balanced() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{Heading{Level: 2}, "heading"},
		{Paragraph{}, "paragraph"},
		{BlockQuote{}, "blockquote"},
		{CodeBlock{Language: "go"}, "codeblock"},
		{FootnoteDefinition{Label: "a"}, "footnote-definition"},
		{Image{Destination: "x.png"}, "image"},
	}

	for _, tt := range tests {
		if got := Kind(tt.tag); got != tt.want {
			t.Errorf("Kind(%#v) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}
