package services

import (
	"context"
	"strings"
	"testing"

	"github.com/lumenlearn/lumen-backend/internal/apperr"
	"github.com/lumenlearn/lumen-backend/internal/logger"
)

func buildText(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		b.WriteString("Photosynthesis converts light energy into chemical energy inside plant cells. ")
	}
	return strings.TrimSpace(b.String())
}

func TestSegmentCoversEveryWordInOrder(t *testing.T) {
	svc := NewSegmentService(logger.NewNop(), nil, nil)
	text := buildText(60)

	chunks, err := svc.Segment(context.Background(), text)
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d words, got %d", countWords(text), len(chunks))
	}

	var rejoined []string
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("chunk %d has index %d", i, c.Index)
		}
		rejoined = append(rejoined, c.Text)
	}
	got := strings.Fields(strings.Join(rejoined, " "))
	want := strings.Fields(text)
	if len(got) != len(want) {
		t.Fatalf("chunks cover %d words, source has %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSegmentChunkSizes(t *testing.T) {
	svc := NewSegmentService(logger.NewNop(), nil, nil)
	chunks, err := svc.Segment(context.Background(), buildText(100))
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	for _, c := range chunks[:len(chunks)-1] {
		w := countWords(c.Text)
		if w > chunkMaxWords {
			t.Fatalf("chunk %d has %d words, max is %d", c.Index, w, chunkMaxWords)
		}
		if w < 10 {
			t.Fatalf("chunk %d suspiciously small: %d words", c.Index, w)
		}
	}
}

func TestSegmentConfidenceBounds(t *testing.T) {
	svc := NewSegmentService(logger.NewNop(), nil, nil)
	chunks, err := svc.Segment(context.Background(), buildText(40))
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	for _, c := range chunks {
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Fatalf("chunk %d confidence %.3f out of [0,1]", c.Index, c.Confidence)
		}
		if c.LowConfidence != (c.Confidence < lowConfidenceThreshold) {
			t.Fatalf("chunk %d low-confidence flag inconsistent with score %.3f", c.Index, c.Confidence)
		}
		if c.Topic == "" {
			t.Fatalf("chunk %d missing topic label", c.Index)
		}
	}
}

func TestSegmentEmptyText(t *testing.T) {
	svc := NewSegmentService(logger.NewNop(), nil, nil)
	_, err := svc.Segment(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	if apperr.KindOf(err) != apperr.KindSegmentation {
		t.Fatalf("kind=%s, want %s", apperr.KindOf(err), apperr.KindSegmentation)
	}
}

func TestGroupTopicsMergesAdjacent(t *testing.T) {
	svc := NewSegmentService(logger.NewNop(), nil, nil)
	chunks, err := svc.Segment(context.Background(), buildText(60))
	if err != nil {
		t.Fatalf("Segment returned error: %v", err)
	}
	// Identical sentences produce identical keyword topics.
	groups := svc.GroupTopics(context.Background(), chunks)
	if len(groups) != 1 {
		t.Fatalf("expected one merged topic group, got %d", len(groups))
	}
	if len(groups[0].Chunks) != len(chunks) {
		t.Fatalf("group holds %d chunks, want %d", len(groups[0].Chunks), len(chunks))
	}
	if groups[0].Confidence < 0 || groups[0].Confidence > 1 {
		t.Fatalf("group confidence %.3f out of [0,1]", groups[0].Confidence)
	}
}

func TestChunkConfidenceComponents(t *testing.T) {
	full := chunkConfidence(buildText(15))
	fragment := chunkConfidence("word word word word word")
	if full <= fragment {
		t.Fatalf("rich complete chunk (%.3f) should outscore a tiny repetitive fragment (%.3f)", full, fragment)
	}
}
