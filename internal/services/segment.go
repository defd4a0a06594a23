package services

import (
  "context"
  "errors"
  "math"
  "sort"
  "strings"

  "github.com/google/uuid"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/repos"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

const (
  chunkTargetWords = 200
  chunkMaxWords    = 280

  lowConfidenceThreshold = 0.5

  // Adjacent chunks at or above this cosine similarity are treated as
  // continuing the same topic.
  topicSimilarityThreshold = 0.82
)

type SegmentService interface {
  Segment(ctx context.Context, text string) ([]types.Chunk, error)
  SegmentDocument(ctx context.Context, doc *types.Document) ([]types.Chunk, error)
  GroupTopics(ctx context.Context, chunks []types.Chunk) []types.TopicGroup
}

type segmentService struct {
  log       *logger.Logger
  chunkRepo repos.ChunkRepo
  llm       LLMClient
}

func NewSegmentService(log *logger.Logger, chunkRepo repos.ChunkRepo, llm LLMClient) SegmentService {
  return &segmentService{
    log:       log.With("service", "SegmentService"),
    chunkRepo: chunkRepo,
    llm:       llm,
  }
}

// Segment splits text into ordered chunks of roughly chunkTargetWords
// words, breaking only at sentence boundaries. Every sentence of the
// input lands in exactly one chunk, in order.
func (s *segmentService) Segment(ctx context.Context, text string) ([]types.Chunk, error) {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil, apperr.New(apperr.KindSegmentation, "cannot segment empty text")
  }

  sentences := splitSentences(text)
  if len(sentences) == 0 {
    return nil, apperr.New(apperr.KindSegmentation, "no sentences found in text")
  }

  var chunks []types.Chunk
  var cur []string
  curWords := 0

  flush := func() {
    if len(cur) == 0 {
      return
    }
    body := strings.Join(cur, " ")
    chunks = append(chunks, types.Chunk{
      ID:    uuid.New(),
      Index: len(chunks),
      Text:  body,
    })
    cur = nil
    curWords = 0
  }

  for _, sent := range sentences {
    w := countWords(sent)
    if curWords > 0 && curWords+w > chunkMaxWords {
      flush()
    }
    cur = append(cur, sent)
    curWords += w
    if curWords >= chunkTargetWords {
      flush()
    }
  }
  flush()

  for i := range chunks {
    chunks[i].Confidence = chunkConfidence(chunks[i].Text)
    chunks[i].LowConfidence = chunks[i].Confidence < lowConfidenceThreshold
  }

  s.assignTopics(ctx, chunks)

  return chunks, nil
}

func (s *segmentService) SegmentDocument(ctx context.Context, doc *types.Document) ([]types.Chunk, error) {
  if doc == nil {
    return nil, apperr.New(apperr.KindSegmentation, "document required")
  }
  chunks, err := s.Segment(ctx, doc.ExtractedText)
  if err != nil {
    return nil, err
  }
  for i := range chunks {
    chunks[i].DocumentID = doc.ID
  }
  if s.chunkRepo != nil {
    ptrs := make([]*types.Chunk, len(chunks))
    for i := range chunks {
      ptrs[i] = &chunks[i]
    }
    if _, err := s.chunkRepo.Create(ctx, nil, ptrs); err != nil {
      return nil, apperr.Wrap(apperr.KindInternal, err)
    }
  }
  s.log.Info("Document segmented", "document_id", doc.ID.String(), "chunks", len(chunks))
  return chunks, nil
}

// GroupTopics folds consecutive chunks sharing a topic label into
// ordered groups with an averaged confidence.
func (s *segmentService) GroupTopics(ctx context.Context, chunks []types.Chunk) []types.TopicGroup {
  var groups []types.TopicGroup
  for _, c := range chunks {
    n := len(groups)
    if n > 0 && groups[n-1].TopicName == c.Topic {
      g := &groups[n-1]
      g.Confidence = (g.Confidence*float64(len(g.Chunks)) + c.Confidence) / float64(len(g.Chunks)+1)
      g.Chunks = append(g.Chunks, c)
      continue
    }
    groups = append(groups, types.TopicGroup{
      TopicName:  c.Topic,
      Chunks:     []types.Chunk{c},
      Confidence: c.Confidence,
    })
  }
  return groups
}

// assignTopics labels chunks, merging adjacent chunks into one topic
// when their embeddings are close enough. The hosted model is optional:
// without it every chunk gets a keyword label of its own.
func (s *segmentService) assignTopics(ctx context.Context, chunks []types.Chunk) {
  if len(chunks) == 0 {
    return
  }

  for i := range chunks {
    chunks[i].Topic = keywordTopic(chunks[i].Text)
  }
  if len(chunks) == 1 || s.llm == nil || !s.llm.Available() {
    return
  }

  inputs := make([]string, len(chunks))
  for i, c := range chunks {
    inputs[i] = c.Text
  }
  vecs, err := s.llm.Embed(ctx, inputs)
  if err != nil {
    if !errors.Is(err, ErrQuotaExhausted) {
      s.log.Warn("Embedding failed, keeping keyword topics", "error", err)
    }
    return
  }

  // Carry the previous label forward while similarity holds.
  for i := 1; i < len(chunks); i++ {
    if cosineSimilarity(vecs[i-1], vecs[i]) >= topicSimilarityThreshold {
      chunks[i].Topic = chunks[i-1].Topic
    }
  }
}

func cosineSimilarity(a, b []float32) float64 {
  if len(a) == 0 || len(a) != len(b) {
    return 0
  }
  var dot, na, nb float64
  for i := range a {
    dot += float64(a[i]) * float64(b[i])
    na += float64(a[i]) * float64(a[i])
    nb += float64(b[i]) * float64(b[i])
  }
  if na == 0 || nb == 0 {
    return 0
  }
  return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// keywordTopic names a chunk after its two most frequent content words.
func keywordTopic(text string) string {
  words := contentWords(text)
  if len(words) == 0 {
    return "General"
  }
  freq := map[string]int{}
  for _, w := range words {
    if len(w) > 2 {
      freq[w]++
    }
  }
  if len(freq) == 0 {
    return "General"
  }

  type wc struct {
    w string
    n int
  }
  ranked := make([]wc, 0, len(freq))
  for w, n := range freq {
    ranked = append(ranked, wc{w, n})
  }
  sort.Slice(ranked, func(i, j int) bool {
    if ranked[i].n != ranked[j].n {
      return ranked[i].n > ranked[j].n
    }
    return ranked[i].w < ranked[j].w
  })

  top := ranked[:minInt(2, len(ranked))]
  parts := make([]string, len(top))
  for i, r := range top {
    parts[i] = strings.ToUpper(r.w[:1]) + r.w[1:]
  }
  return strings.Join(parts, " ")
}

// chunkConfidence scores a chunk on length (0.4), sentence completeness
// (0.3), and vocabulary richness (0.3).
func chunkConfidence(text string) float64 {
  words := countWords(text)

  var lengthScore float64
  switch {
  case words >= 100 && words <= chunkMaxWords:
    lengthScore = 1.0
  case words < 100:
    lengthScore = float64(words) / 100.0
  default:
    lengthScore = math.Max(0, 1.0-float64(words-chunkMaxWords)/float64(chunkMaxWords))
  }

  completeness := 0.5
  trimmed := strings.TrimSpace(text)
  if trimmed != "" && strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
    completeness = 1.0
  }

  cw := contentWords(text)
  richness := 0.0
  if len(cw) > 0 {
    uniq := map[string]struct{}{}
    for _, w := range cw {
      uniq[w] = struct{}{}
    }
    richness = float64(len(uniq)) / float64(len(cw))
  }

  return 0.4*lengthScore + 0.3*completeness + 0.3*richness
}
