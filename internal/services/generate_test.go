package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lumenlearn/lumen-backend/internal/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

const lessonText = "Photosynthesis is the process plants use to convert light into chemical energy. " +
	"Chlorophyll is the green pigment that absorbs light inside the leaf. " +
	"Glucose is the sugar produced at the end of the light reactions. " +
	"The mitochondria are the organelles that release energy from glucose. " +
	"Plants store extra glucose as starch for later use."

func testChunk(text string) types.Chunk {
	return types.Chunk{ID: uuid.New(), Index: 0, Text: text}
}

func TestGenerateItemsRuleFallback(t *testing.T) {
	// No hosted client wired: the rule path must carry the request.
	svc := NewGenerateService(logger.NewNop(), nil)

	items, err := svc.GenerateItems(context.Background(), testChunk(lessonText), types.ProfileNeurotypical)
	if err != nil {
		t.Fatalf("GenerateItems returned error: %v", err)
	}
	if items.Source != "rules" {
		t.Fatalf("Source=%q, want rules", items.Source)
	}
	if len(items.Flashcards) == 0 {
		t.Fatal("expected flashcards from definitional sentences")
	}
	if len(items.Summary) == 0 {
		t.Fatal("expected summary points")
	}
	if len(items.MCQ) == 0 {
		t.Fatal("expected multiple choice questions from 4+ concepts")
	}
	for _, q := range items.MCQ {
		found := false
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				found = true
			}
		}
		if !found {
			t.Fatalf("correct answer %q missing from options %v", q.CorrectAnswer, q.Options)
		}
	}
}

func TestGenerateItemsHonorsProfileConstraints(t *testing.T) {
	svc := NewGenerateService(logger.NewNop(), nil)

	for _, profile := range []types.Profile{
		types.ProfileADHD,
		types.ProfileDyslexia,
		types.ProfileAutism,
		types.ProfileDyscalculia,
		types.ProfileDysgraphia,
		types.ProfileNeurotypical,
	} {
		t.Run(string(profile), func(t *testing.T) {
			cs := types.ConstraintsFor(profile)
			items, err := svc.GenerateItems(context.Background(), testChunk(lessonText), profile)
			if err != nil {
				t.Fatalf("GenerateItems returned error: %v", err)
			}
			if len(items.Flashcards) > cs.MaxFlashcards {
				t.Fatalf("%d flashcards exceeds cap %d", len(items.Flashcards), cs.MaxFlashcards)
			}
			for _, f := range items.Flashcards {
				if countWords(f.Question) > cs.MaxQuestionWords {
					t.Fatalf("question %q exceeds %d words", f.Question, cs.MaxQuestionWords)
				}
				if countWords(f.Answer) > cs.MaxAnswerWords {
					t.Fatalf("answer %q exceeds %d words", f.Answer, cs.MaxAnswerWords)
				}
			}
			if len(items.Summary) > cs.MaxSummaryPoints {
				t.Fatalf("%d summary points exceeds cap %d", len(items.Summary), cs.MaxSummaryPoints)
			}
			for _, p := range items.Summary {
				if countWords(p) > cs.MaxSummaryWords {
					t.Fatalf("summary point %q exceeds %d words", p, cs.MaxSummaryWords)
				}
			}
			for _, q := range items.MCQ {
				if countWords(q.CorrectAnswer) > cs.MaxOptionWords {
					t.Fatalf("correct answer %q exceeds %d words", q.CorrectAnswer, cs.MaxOptionWords)
				}
				found := false
				for _, o := range q.Options {
					if countWords(o) > cs.MaxOptionWords {
						t.Fatalf("option %q exceeds %d words", o, cs.MaxOptionWords)
					}
					if o == q.CorrectAnswer {
						found = true
					}
				}
				if !found {
					t.Fatalf("correct answer %q missing from options %v", q.CorrectAnswer, q.Options)
				}
			}
			if items.EstimatedMinutes < 5 || items.EstimatedMinutes > 60 {
				t.Fatalf("EstimatedMinutes=%d out of [5,60]", items.EstimatedMinutes)
			}
			if len(items.Modalities) == 0 {
				t.Fatal("expected profile modalities on the item bundle")
			}
		})
	}
}

func TestEnforceConstraintsIdempotent(t *testing.T) {
	cs := types.ConstraintsFor(types.ProfileADHD)
	svc := NewGenerateService(logger.NewNop(), nil)

	items, err := svc.GenerateItems(context.Background(), testChunk(lessonText), types.ProfileADHD)
	if err != nil {
		t.Fatalf("GenerateItems returned error: %v", err)
	}

	before := *items
	beforeCards := append([]types.Flashcard{}, items.Flashcards...)
	beforeSummary := append([]string{}, items.Summary...)

	enforceConstraints(items, cs)

	if len(items.Flashcards) != len(beforeCards) {
		t.Fatal("re-applying constraints changed flashcard count")
	}
	for i := range beforeCards {
		if items.Flashcards[i] != beforeCards[i] {
			t.Fatalf("re-applying constraints changed flashcard %d: %+v -> %+v", i, beforeCards[i], items.Flashcards[i])
		}
	}
	for i := range beforeSummary {
		if items.Summary[i] != beforeSummary[i] {
			t.Fatalf("re-applying constraints changed summary point %d", i)
		}
	}
	if items.EstimatedMinutes != before.EstimatedMinutes {
		t.Fatal("re-applying constraints changed study time")
	}
}

func TestEstimateStudyMinutes(t *testing.T) {
	cases := []struct {
		name   string
		words  int
		factor float64
		want   int
	}{
		{name: "floor_at_five", words: 10, factor: 1.0, want: 5},
		{name: "adhd_scaling", words: 400, factor: 1.5, want: 30},
		{name: "ceiling_at_sixty", words: 5000, factor: 1.5, want: 60},
		{name: "zero_factor_defaults", words: 400, factor: 0, want: 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := estimateStudyMinutes(tc.words, tc.factor); got != tc.want {
				t.Fatalf("estimateStudyMinutes(%d, %.1f)=%d, want %d", tc.words, tc.factor, got, tc.want)
			}
		})
	}
}

func TestExtractConcepts(t *testing.T) {
	concepts := extractConcepts(lessonText)
	if len(concepts) < 3 {
		t.Fatalf("expected at least 3 concepts, got %d: %+v", len(concepts), concepts)
	}
	if concepts[0].Term != "Photosynthesis" {
		t.Fatalf("first concept=%q, want Photosynthesis", concepts[0].Term)
	}
}

func TestGenerateItemsEmptyChunk(t *testing.T) {
	svc := NewGenerateService(logger.NewNop(), nil)
	if _, err := svc.GenerateItems(context.Background(), testChunk("  "), types.ProfileADHD); err == nil {
		t.Fatal("expected error for empty chunk")
	}
}
