package services

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lumenlearn/lumen-backend/internal/logger"
	"github.com/lumenlearn/lumen-backend/internal/repos"
	"github.com/lumenlearn/lumen-backend/internal/types"
)

func pipelineFixture(t *testing.T) (PipelineService, repos.ChunkRepo) {
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

	log := logger.NewNop()
	docRepo := repos.NewDocumentRepo(db, log)
	chunkRepo := repos.NewChunkRepo(db, log)

	ingest := NewIngestService(log, docRepo, nil)
	segment := NewSegmentService(log, chunkRepo, nil)
	gen := NewGenerateService(log, nil)
	adapt := NewAdaptService(log)
	micro := NewMicroLessonService(log)
	roadmap := NewRoadmapService(log)

	return NewPipelineService(log, ingest, segment, gen, adapt, micro, nil, roadmap), chunkRepo
}

const pipelineText = "Cell Biology\n\n" +
	"The cell is the smallest unit of life that can replicate independently. " +
	"The nucleus is the organelle that stores genetic material. " +
	"The membrane is the barrier that controls what enters the cell. " +
	"Mitochondria are the structures that release energy for the cell. " +
	"Ribosomes are the machines that build proteins from amino acids."

func TestPipelineComplete(t *testing.T) {
	svc, chunkRepo := pipelineFixture(t)

	result, err := svc.Run(context.Background(), PipelineRequest{
		Text:        pipelineText,
		SourceName:  "cells.txt",
		Profile:     types.ProfileADHD,
		Preferences: types.DefaultPreferences(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Document == nil {
		t.Fatal("expected a persisted document")
	}
	if result.Document.Heading != "Cell Biology" {
		t.Fatalf("heading=%q", result.Document.Heading)
	}
	if len(result.Chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if len(result.Items) == 0 {
		t.Fatal("expected learning items")
	}
	for _, items := range result.Items {
		if items.Profile != types.ProfileADHD {
			t.Fatalf("items carry profile %q", items.Profile)
		}
		if items.Source != "rules" {
			t.Fatalf("hosted model is unavailable, Source=%q", items.Source)
		}
	}
	if result.MicroLessons == nil || len(result.MicroLessons.Lessons) == 0 {
		t.Fatal("expected micro lessons")
	}
	if result.Personalization == nil {
		t.Fatal("expected personalization")
	}
	if result.Roadmap == nil || len(result.Roadmap.Weeks) == 0 {
		t.Fatal("expected a roadmap")
	}
	if result.TotalMinutes < 5 {
		t.Fatalf("TotalMinutes=%d", result.TotalMinutes)
	}

	// Chunks were persisted under the document.
	stored, err := chunkRepo.GetByDocumentID(context.Background(), nil, result.Document.ID)
	if err != nil {
		t.Fatalf("GetByDocumentID: %v", err)
	}
	if len(stored) != len(result.Chunks) {
		t.Fatalf("stored %d chunks, result has %d", len(stored), len(result.Chunks))
	}
}

func TestPipelineRejectsUnknownProfile(t *testing.T) {
	svc, _ := pipelineFixture(t)
	_, err := svc.Run(context.Background(), PipelineRequest{
		Text:    pipelineText,
		Profile: types.Profile("WIZARD"),
	})
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestPipelineRejectsEmptyText(t *testing.T) {
	svc, _ := pipelineFixture(t)
	_, err := svc.Run(context.Background(), PipelineRequest{
		Text:    "   ",
		Profile: types.ProfileADHD,
	})
	if err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestPipelineWarnsOnLowConfidenceChunks(t *testing.T) {
	svc, _ := pipelineFixture(t)

	// A stub of a text produces a short, incomplete chunk.
	result, err := svc.Run(context.Background(), PipelineRequest{
		Text:        "The cell is the smallest unit of life and",
		SourceName:  "stub.txt",
		Profile:     types.ProfileNeurotypical,
		Preferences: types.DefaultPreferences(),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "low segmentation confidence") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a low-confidence warning, warnings=%v", result.Warnings)
	}
	if len(result.Chunks) == 0 {
		t.Fatal("low-confidence chunks must still be returned")
	}
}
