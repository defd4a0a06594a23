package services

import (
	"context"
	"strings"
	"testing"

	"github.com/lumenlearn/lumen-backend/internal/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

func TestSimplifyRuleBased(t *testing.T) {
	svc := NewSimplifyService(logger.NewNop(), nil)
	text := "We utilize numerous techniques in order to demonstrate the fundamental principles, " +
		"and due to the fact that the subject matter is intricate the majority of students require additional practice."

	out, err := svc.Simplify(context.Background(), text, types.ExplanationBasic)
	if err != nil {
		t.Fatalf("Simplify returned error: %v", err)
	}
	if out.Original != text {
		t.Fatal("original text should be echoed back unchanged")
	}
	if strings.Contains(strings.ToLower(out.Simplified), "utilize") {
		t.Fatalf("complex word survived simplification: %q", out.Simplified)
	}
	if out.ReadabilityScore < 0 || out.ReadabilityScore > 100 {
		t.Fatalf("ReadabilityScore=%.2f out of [0,100]", out.ReadabilityScore)
	}
	if out.WordCountReduction < 0 {
		t.Fatalf("simplification should not grow the text: reduction=%d", out.WordCountReduction)
	}
}

func TestSimplifyLevels(t *testing.T) {
	svc := NewSimplifyService(logger.NewNop(), nil)

	if _, err := svc.Simplify(context.Background(), "Some text here.", types.ExplanationIntermediate); err != nil {
		t.Fatalf("intermediate level failed: %v", err)
	}
	if _, err := svc.Simplify(context.Background(), "Some text here.", types.ExplanationDetailed); err != nil {
		t.Fatalf("detailed level failed: %v", err)
	}
	if _, err := svc.Simplify(context.Background(), "Some text here.", types.ExplanationLevel("extreme")); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := svc.Simplify(context.Background(), "  ", types.ExplanationBasic); err == nil {
		t.Fatal("expected error for empty text")
	}

	// Empty level defaults to basic.
	out, err := svc.Simplify(context.Background(), "Some text here.", "")
	if err != nil {
		t.Fatalf("default level failed: %v", err)
	}
	if out.Simplified == "" {
		t.Fatal("expected simplified output")
	}
}

func TestSplitLongSentence(t *testing.T) {
	long := "The chloroplast absorbs the light energy from the sun, and the resulting chemical reactions produce glucose molecules that the plant stores for growth during the night"
	parts := splitLongSentence(long)
	if len(parts) < 2 {
		t.Fatalf("expected the sentence to be split, got %d parts", len(parts))
	}
	for _, p := range parts {
		if countWords(p) > 25 {
			t.Fatalf("split part still too long (%d words): %q", countWords(p), p)
		}
	}

	short := "Plants grow."
	if got := splitLongSentence(short); len(got) != 1 || got[0] != short {
		t.Fatalf("short sentence should pass through, got %v", got)
	}
}
