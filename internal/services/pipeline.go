package services

import (
  "context"
  "fmt"
  "sync"

  "golang.org/x/sync/errgroup"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

// pipelineWorkers caps concurrent per-chunk generation.
const pipelineWorkers = 4

type PipelineRequest struct {
  Text         string            `json:"text"`
  SourceName   string            `json:"source_name"`
  Profile      types.Profile     `json:"profile"`
  Preferences  types.Preferences `json:"preferences"`
  IncludeAudio bool              `json:"include_audio"`
  Voice        types.VoiceType   `json:"voice"`
}

type PipelineResult struct {
  Document        *types.Document        `json:"document"`
  Chunks          []types.Chunk          `json:"chunks"`
  Items           []types.LearningItems  `json:"items"`
  MicroLessons    *types.MicroLessonSet  `json:"micro_lessons"`
  Personalization *types.Personalization `json:"personalization"`
  Audio           []*types.AudioTrack    `json:"audio,omitempty"`
  Roadmap         *types.Roadmap         `json:"roadmap"`
  TotalMinutes    int                    `json:"total_estimated_minutes"`
  Warnings        []string               `json:"warnings,omitempty"`
}

type PipelineService interface {
  Run(ctx context.Context, req PipelineRequest) (*PipelineResult, error)
}

type pipelineService struct {
  log     *logger.Logger
  ingest  IngestService
  segment SegmentService
  gen     GenerateService
  adapt   AdaptService
  micro   MicroLessonService
  audio   AudioService
  roadmap RoadmapService
}

func NewPipelineService(
  log *logger.Logger,
  ingest IngestService,
  segment SegmentService,
  gen GenerateService,
  adapt AdaptService,
  micro MicroLessonService,
  audio AudioService,
  roadmap RoadmapService,
) PipelineService {
  return &pipelineService{
    log:     log.With("service", "PipelineService"),
    ingest:  ingest,
    segment: segment,
    gen:     gen,
    adapt:   adapt,
    micro:   micro,
    audio:   audio,
    roadmap: roadmap,
  }
}

// Run executes the whole ingestion-to-roadmap pipeline for one text.
// Chunk-level failures are isolated: a chunk that cannot be processed
// becomes a warning instead of failing the request.
func (s *pipelineService) Run(ctx context.Context, req PipelineRequest) (*PipelineResult, error) {
  profile, ok := types.ParseProfile(string(req.Profile))
  if !ok {
    return nil, apperr.New(apperr.KindBadRequest, "unknown profile %q", req.Profile)
  }

  doc, err := s.ingest.IngestText(ctx, req.SourceName, req.Text)
  if err != nil {
    return nil, err
  }

  chunks, err := s.segment.SegmentDocument(ctx, doc)
  if err != nil {
    return nil, err
  }

  result := &PipelineResult{
    Document: doc,
    Chunks:   chunks,
  }

  for _, c := range chunks {
    if c.LowConfidence {
      result.Warnings = append(result.Warnings,
        fmt.Sprintf("chunk %d has low segmentation confidence (%.2f)", c.Index, c.Confidence))
    }
  }

  // Fan out per-chunk generation.
  itemsByIdx := make([]*types.LearningItems, len(chunks))
  var mu sync.Mutex

  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(pipelineWorkers)
  for i := range chunks {
    i := i
    g.Go(func() error {
      items, genErr := s.gen.GenerateItems(gctx, chunks[i], profile)
      if genErr != nil {
        mu.Lock()
        result.Warnings = append(result.Warnings,
          fmt.Sprintf("chunk %d: generation failed: %v", chunks[i].Index, genErr))
        mu.Unlock()
        return nil
      }
      itemsByIdx[i] = items
      return nil
    })
  }
  if err := g.Wait(); err != nil {
    return nil, apperr.Wrap(apperr.KindInternal, err)
  }

  for _, items := range itemsByIdx {
    if items == nil {
      continue
    }
    for j := range items.Summary {
      items.Summary[j] = s.adapt.AdaptText(items.Summary[j], profile)
    }
    result.Items = append(result.Items, *items)
    result.TotalMinutes += items.EstimatedMinutes
  }

  if s.micro != nil {
    set, microErr := s.micro.Build(ctx, doc.ExtractedText, profile)
    if microErr != nil {
      result.Warnings = append(result.Warnings, fmt.Sprintf("micro-lessons failed: %v", microErr))
    } else {
      result.MicroLessons = set
    }
  }

  personalization, persErr := s.adapt.Personalize(doc.ExtractedText, profile, req.Preferences)
  if persErr != nil {
    result.Warnings = append(result.Warnings, fmt.Sprintf("personalization failed: %v", persErr))
  } else {
    result.Personalization = personalization
  }

  if req.IncludeAudio && s.audio != nil {
    for _, items := range result.Items {
      for _, point := range items.Summary {
        track, audioErr := s.audio.Synthesize(ctx, point, req.Voice)
        if audioErr != nil {
          result.Warnings = append(result.Warnings, fmt.Sprintf("audio synthesis failed: %v", audioErr))
          continue
        }
        result.Audio = append(result.Audio, track)
      }
    }
  }

  groups := s.segment.GroupTopics(ctx, chunks)
  topics := make([]string, 0, len(groups))
  for _, grp := range groups {
    topics = append(topics, grp.TopicName)
  }
  roadmap, rmErr := s.roadmap.Build(ctx, topics, profile)
  if rmErr != nil {
    result.Warnings = append(result.Warnings, fmt.Sprintf("roadmap failed: %v", rmErr))
  } else {
    result.Roadmap = roadmap
  }

  s.log.Info("Pipeline complete",
    "document_id", doc.ID.String(),
    "profile", profile,
    "chunks", len(chunks),
    "items", len(result.Items),
    "warnings", len(result.Warnings),
  )
  return result, nil
}
