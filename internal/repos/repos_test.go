package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumenlearn/lumen-backend/internal/logger"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Document{}, &types.Chunk{}, &types.AudioTrack{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testDocument() *types.Document {
	return &types.Document{
		ID:             uuid.New(),
		SourceName:     "notes.txt",
		SourceFormat:   "text",
		ProcessingMode: "text",
		ExtractedText:  "The cell is the basic unit of life.",
		Confidence:     1.0,
	}
}

func TestDocumentRepoRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewDocumentRepo(db, logger.NewNop())
	ctx := context.Background()

	doc := testDocument()
	if _, err := repo.Create(ctx, nil, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SourceName != doc.SourceName || got.ExtractedText != doc.ExtractedText {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := repo.GetByID(ctx, nil, uuid.New()); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestChunkRepoOrdering(t *testing.T) {
	db := testDB(t)
	docRepo := NewDocumentRepo(db, logger.NewNop())
	chunkRepo := NewChunkRepo(db, logger.NewNop())
	ctx := context.Background()

	doc := testDocument()
	if _, err := docRepo.Create(ctx, nil, doc); err != nil {
		t.Fatalf("Create document: %v", err)
	}

	// Insert out of order; reads must come back ordered by index.
	chunks := []*types.Chunk{
		{ID: uuid.New(), DocumentID: doc.ID, Index: 2, Text: "third", Confidence: 0.9},
		{ID: uuid.New(), DocumentID: doc.ID, Index: 0, Text: "first", Confidence: 0.9},
		{ID: uuid.New(), DocumentID: doc.ID, Index: 1, Text: "second", Confidence: 0.9},
	}
	if _, err := chunkRepo.Create(ctx, nil, chunks); err != nil {
		t.Fatalf("Create chunks: %v", err)
	}

	got, err := chunkRepo.GetByDocumentID(ctx, nil, doc.ID)
	if err != nil {
		t.Fatalf("GetByDocumentID: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	for i, c := range got {
		if c.Index != i {
			t.Fatalf("position %d holds index %d", i, c.Index)
		}
	}

	single, err := chunkRepo.GetByID(ctx, nil, chunks[1].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if single.Text != "first" {
		t.Fatalf("GetByID text=%q", single.Text)
	}
}

func TestChunkRepoCreateEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewChunkRepo(db, logger.NewNop())
	got, err := repo.Create(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Create(nil): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestAudioTrackRepoContentKey(t *testing.T) {
	db := testDB(t)
	repo := NewAudioTrackRepo(db, logger.NewNop())
	ctx := context.Background()

	missing, err := repo.GetByContentKey(ctx, nil, "nope")
	if err != nil {
		t.Fatalf("GetByContentKey miss: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown key, got %+v", missing)
	}

	track := &types.AudioTrack{
		ID:              uuid.New(),
		ContentKey:      "abc123",
		Voice:           "female",
		ObjectKey:       "audio/abc123.mp3",
		URL:             "https://storage.googleapis.com/bucket/audio/abc123.mp3",
		DurationSeconds: 4.5,
		WordCount:       9,
	}
	if _, err := repo.Create(ctx, nil, track); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByContentKey(ctx, nil, "abc123")
	if err != nil {
		t.Fatalf("GetByContentKey hit: %v", err)
	}
	if got == nil || got.URL != track.URL || got.WordCount != 9 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
