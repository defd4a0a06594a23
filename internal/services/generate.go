package services

import (
  "context"
  "encoding/json"
  "fmt"
  "math"
  "regexp"
  "sort"
  "strings"
  "time"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type GenerateService interface {
  GenerateItems(ctx context.Context, chunk types.Chunk, profile types.Profile) (*types.LearningItems, error)
  Stats() QuotaStats
}

type generateService struct {
  log *logger.Logger
  llm LLMClient
}

func NewGenerateService(log *logger.Logger, llm LLMClient) GenerateService {
  return &generateService{
    log: log.With("service", "GenerateService"),
    llm: llm,
  }
}

func (s *generateService) Stats() QuotaStats {
  if s.llm == nil {
    return QuotaStats{}
  }
  return s.llm.Quota().Stats(time.Now())
}

// GenerateItems builds flashcards, a summary, and multiple-choice
// questions for one chunk. The hosted model is tried first; any failure
// there falls back to the rule-based path, so a result always comes
// back for non-empty input.
func (s *generateService) GenerateItems(ctx context.Context, chunk types.Chunk, profile types.Profile) (*types.LearningItems, error) {
  text := strings.TrimSpace(chunk.Text)
  if text == "" {
    return nil, apperr.New(apperr.KindGeneration, "cannot generate from empty chunk")
  }
  cs := types.ConstraintsFor(profile)

  items := s.generateHosted(ctx, text, profile, cs)
  if items == nil {
    items = s.generateRules(text, cs)
    items.Source = "rules"
  } else {
    items.Source = "hosted"
  }

  items.ChunkID = chunk.ID
  items.Profile = profile
  items.Modalities = cs.PreferredModalities
  items.EstimatedMinutes = estimateStudyMinutes(countWords(text), cs.StudyTimeFactor)

  enforceConstraints(items, cs)

  if len(items.Flashcards) == 0 && len(items.Summary) == 0 && len(items.MCQ) == 0 {
    return nil, apperr.New(apperr.KindGeneration, "no learning items could be derived from chunk")
  }
  return items, nil
}

// estimateStudyMinutes converts chunk length into study minutes, scaled
// per profile and clamped to [5, 60].
func estimateStudyMinutes(words int, factor float64) int {
  if factor <= 0 {
    factor = 1.0
  }
  base := float64(words) / 20.0
  minutes := int(math.Ceil(base * factor))
  if minutes < 5 {
    minutes = 5
  }
  if minutes > 60 {
    minutes = 60
  }
  return minutes
}

// enforceConstraints trims counts and word caps in place. Applying it
// twice leaves items unchanged.
func enforceConstraints(items *types.LearningItems, cs types.ConstraintSet) {
  if len(items.Flashcards) > cs.MaxFlashcards {
    items.Flashcards = items.Flashcards[:cs.MaxFlashcards]
  }
  for i := range items.Flashcards {
    items.Flashcards[i].Question = truncateWords(items.Flashcards[i].Question, cs.MaxQuestionWords)
    items.Flashcards[i].Answer = truncateWords(items.Flashcards[i].Answer, cs.MaxAnswerWords)
  }

  if len(items.Summary) > cs.MaxSummaryPoints {
    items.Summary = items.Summary[:cs.MaxSummaryPoints]
  }
  for i := range items.Summary {
    items.Summary[i] = truncateWords(items.Summary[i], cs.MaxSummaryWords)
  }

  for i := range items.MCQ {
    items.MCQ[i].Question = truncateWords(items.MCQ[i].Question, cs.MaxQuestionWords)
    for j := range items.MCQ[i].Options {
      items.MCQ[i].Options[j] = truncateWords(items.MCQ[i].Options[j], cs.MaxOptionWords)
    }
    // The correct answer must track its option through truncation so it
    // still appears among the choices.
    items.MCQ[i].CorrectAnswer = truncateWords(items.MCQ[i].CorrectAnswer, cs.MaxOptionWords)
    items.MCQ[i].Explanation = truncateWords(items.MCQ[i].Explanation, cs.MaxAnswerWords)
  }
}

// ---------------------------
// Hosted path
// ---------------------------

var learningItemsSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "flashcards": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "question":   map[string]any{"type": "string"},
          "answer":     map[string]any{"type": "string"},
          "difficulty": map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
        },
        "required":             []string{"question", "answer", "difficulty"},
        "additionalProperties": false,
      },
    },
    "summary": map[string]any{
      "type":  "array",
      "items": map[string]any{"type": "string"},
    },
    "mcq": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "question":       map[string]any{"type": "string"},
          "options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
          "correct_answer": map[string]any{"type": "string"},
          "explanation":    map[string]any{"type": "string"},
        },
        "required":             []string{"question", "options", "correct_answer", "explanation"},
        "additionalProperties": false,
      },
    },
  },
  "required":             []string{"flashcards", "summary", "mcq"},
  "additionalProperties": false,
}

// generateHosted returns nil on any failure; the caller falls back to
// rules and the failure is never surfaced to API clients.
func (s *generateService) generateHosted(ctx context.Context, text string, profile types.Profile, cs types.ConstraintSet) *types.LearningItems {
  if s.llm == nil || !s.llm.Available() {
    return nil
  }

  system := fmt.Sprintf(
    "You create study material for a learner with profile %s. "+
      "Produce at most %d flashcards (questions up to %d words, answers up to %d words), "+
      "at most %d summary bullet points of up to %d words each, "+
      "and 1-3 multiple choice questions with 3-4 options of up to %d words each. "+
      "Ground everything strictly in the provided text.",
    profile, cs.MaxFlashcards, cs.MaxQuestionWords, cs.MaxAnswerWords,
    cs.MaxSummaryPoints, cs.MaxSummaryWords, cs.MaxOptionWords,
  )

  raw, err := s.llm.GenerateJSON(ctx, system, text, "learning_items", learningItemsSchema)
  if err != nil {
    s.log.Warn("Hosted generation failed, using rule fallback", "error", err)
    return nil
  }

  // Round-trip through JSON into the typed shape.
  b, err := json.Marshal(raw)
  if err != nil {
    return nil
  }
  var parsed struct {
    Flashcards []types.Flashcard `json:"flashcards"`
    Summary    []string          `json:"summary"`
    MCQ        []types.MCQ       `json:"mcq"`
  }
  if err := json.Unmarshal(b, &parsed); err != nil {
    s.log.Warn("Hosted generation returned malformed items, using rule fallback", "error", err)
    return nil
  }
  if len(parsed.Flashcards) == 0 && len(parsed.Summary) == 0 && len(parsed.MCQ) == 0 {
    return nil
  }

  out := &types.LearningItems{
    Flashcards: parsed.Flashcards,
    Summary:    parsed.Summary,
    MCQ:        sanitizeMCQ(parsed.MCQ),
  }
  return out
}

func sanitizeMCQ(in []types.MCQ) []types.MCQ {
  out := make([]types.MCQ, 0, len(in))
  for _, q := range in {
    if q.Question == "" || len(q.Options) < 2 {
      continue
    }
    found := false
    for _, o := range q.Options {
      if o == q.CorrectAnswer {
        found = true
        break
      }
    }
    if !found {
      continue
    }
    out = append(out, q)
  }
  return out
}

// ---------------------------
// Rule-based fallback
// ---------------------------

type concept struct {
  Term       string
  Definition string
}

var definitionRe = regexp.MustCompile(`^(?:The |A |An )?([A-Z][A-Za-z0-9' -]{1,50}?)\s+(?:is|are|was|were|refers to|means|describes|consists of)\s+(.+)$`)

// extractConcepts finds definitional sentences ("X is ...") in order of
// appearance.
func extractConcepts(text string) []concept {
  var out []concept
  seen := map[string]struct{}{}
  for _, sent := range splitSentences(text) {
    m := definitionRe.FindStringSubmatch(sent)
    if m == nil {
      continue
    }
    term := strings.TrimSpace(m[1])
    def := strings.TrimSpace(strings.TrimRight(m[2], ".!?"))
    if term == "" || def == "" {
      continue
    }
    key := strings.ToLower(term)
    if _, ok := seen[key]; ok {
      continue
    }
    seen[key] = struct{}{}
    out = append(out, concept{Term: term, Definition: def})
  }
  return out
}

func (s *generateService) generateRules(text string, cs types.ConstraintSet) *types.LearningItems {
  concepts := extractConcepts(text)

  out := &types.LearningItems{
    Flashcards: ruleFlashcards(concepts, cs),
    Summary:    ruleSummary(text, cs),
    MCQ:        ruleMCQ(concepts),
  }
  return out
}

func ruleFlashcards(concepts []concept, cs types.ConstraintSet) []types.Flashcard {
  out := make([]types.Flashcard, 0, len(concepts))
  for _, c := range concepts {
    difficulty := "easy"
    defWords := countWords(c.Definition)
    if defWords > 15 {
      difficulty = "hard"
    } else if defWords > 8 {
      difficulty = "medium"
    }
    out = append(out, types.Flashcard{
      Question:   fmt.Sprintf("What is %s?", c.Term),
      Answer:     c.Definition,
      Difficulty: difficulty,
    })
    if len(out) >= cs.MaxFlashcards {
      break
    }
  }
  return out
}

// ruleSummary ranks sentences by content-word overlap with the chunk's
// overall vocabulary, keeping original order among the winners.
func ruleSummary(text string, cs types.ConstraintSet) []string {
  sentences := splitSentences(text)
  if len(sentences) == 0 {
    return nil
  }

  freq := map[string]int{}
  for _, w := range contentWords(text) {
    freq[w]++
  }

  type scored struct {
    idx   int
    score float64
  }
  ranked := make([]scored, 0, len(sentences))
  for i, sent := range sentences {
    cw := contentWords(sent)
    if len(cw) == 0 {
      continue
    }
    sum := 0
    for _, w := range cw {
      sum += freq[w]
    }
    ranked = append(ranked, scored{idx: i, score: float64(sum) / float64(len(cw))})
  }
  sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

  n := minInt(cs.MaxSummaryPoints, len(ranked))
  keep := ranked[:n]
  sort.Slice(keep, func(i, j int) bool { return keep[i].idx < keep[j].idx })

  out := make([]string, 0, n)
  for _, k := range keep {
    out = append(out, strings.TrimRight(sentences[k.idx], "."))
  }
  return out
}

// ruleMCQ pits each concept's definition against other concepts'
// definitions as distractors. Needs at least three concepts.
func ruleMCQ(concepts []concept) []types.MCQ {
  if len(concepts) < 3 {
    return nil
  }
  out := make([]types.MCQ, 0, 3)
  for i, c := range concepts {
    if len(out) >= 3 {
      break
    }
    options := []string{c.Definition}
    for j := 1; len(options) < 4 && j < len(concepts); j++ {
      d := concepts[(i+j)%len(concepts)]
      if d.Term == c.Term {
        continue
      }
      options = append(options, d.Definition)
    }
    if len(options) < 3 {
      continue
    }
    // Deterministic rotation so the correct answer is not always first.
    rot := i % len(options)
    rotated := append(append([]string{}, options[rot:]...), options[:rot]...)

    out = append(out, types.MCQ{
      Question:      fmt.Sprintf("Which of the following best describes %s?", c.Term),
      Options:       rotated,
      CorrectAnswer: c.Definition,
      Explanation:   fmt.Sprintf("%s: %s.", c.Term, c.Definition),
    })
  }
  return out
}
