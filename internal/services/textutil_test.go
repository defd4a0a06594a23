package services

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple",
			text: "Dogs bark. Cats meow.",
			want: []string{"Dogs bark.", "Cats meow."},
		},
		{
			name: "mixed_terminators",
			text: "Really? Yes! Good.",
			want: []string{"Really?", "Yes!", "Good."},
		},
		{
			name: "trailing_without_terminator",
			text: "First sentence. second fragment",
			want: []string{"First sentence.", "second fragment"},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitSentences(tc.text)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d sentences %v, want %d", len(got), got, len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("sentence %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTruncateWordsIdempotent(t *testing.T) {
	text := "one two three four five six seven eight"

	once := truncateWords(text, 5)
	if got := countWords(once); got != 5 {
		t.Fatalf("truncated word count=%d, want 5", got)
	}
	if !strings.HasSuffix(once, "...") {
		t.Fatalf("truncated text should end with ellipsis: %q", once)
	}

	twice := truncateWords(once, 5)
	if twice != once {
		t.Fatalf("second truncation changed text: %q -> %q", once, twice)
	}

	short := truncateWords("one two", 5)
	if short != "one two" {
		t.Fatalf("text within cap should be unchanged, got %q", short)
	}
}

func TestCountSyllables(t *testing.T) {
	cases := []struct {
		word string
		want int
	}{
		{word: "cat", want: 1},
		{word: "table", want: 2},
		{word: "banana", want: 3},
		{word: "gene", want: 1},
		{word: "", want: 0},
	}
	for _, tc := range cases {
		if got := countSyllables(tc.word); got != tc.want {
			t.Fatalf("countSyllables(%q)=%d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestFleschScores(t *testing.T) {
	simple := "The cat sat. The dog ran. We had fun."
	complex := "Notwithstanding considerable institutional heterogeneity, comprehensive organizational restructuring necessitates extraordinarily deliberate administrative coordination."

	if g1, g2 := fleschKincaidGrade(simple), fleschKincaidGrade(complex); g1 >= g2 {
		t.Fatalf("simple text grade %.2f should be below complex text grade %.2f", g1, g2)
	}
	if e1, e2 := fleschReadingEase(simple), fleschReadingEase(complex); e1 <= e2 {
		t.Fatalf("simple text ease %.2f should be above complex text ease %.2f", e1, e2)
	}

	if got := fleschReadingEase(simple); got < 0 || got > 100 {
		t.Fatalf("reading ease %.2f out of [0,100]", got)
	}
	if got := fleschKincaidGrade(""); got != 0 {
		t.Fatalf("empty text grade=%.2f, want 0", got)
	}
}

func TestContentWordsFiltersStopwords(t *testing.T) {
	got := contentWords("The cell is the basic unit of life")
	for _, w := range got {
		if isStopword(w) {
			t.Fatalf("stopword %q leaked into content words %v", w, got)
		}
	}
	joined := strings.Join(got, " ")
	if !strings.Contains(joined, "cell") || !strings.Contains(joined, "life") {
		t.Fatalf("content words missing expected terms: %v", got)
	}
}
