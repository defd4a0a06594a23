package services

import (
  "context"
  "fmt"
  "math"
  "regexp"
  "strings"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type MicroLessonService interface {
  Build(ctx context.Context, text string, profile types.Profile) (*types.MicroLessonSet, error)
}

type microLessonService struct {
  log *logger.Logger
}

func NewMicroLessonService(log *logger.Logger) MicroLessonService {
  return &microLessonService{log: log.With("service", "MicroLessonService")}
}

var numericFactRe = regexp.MustCompile(`^(.{3,60}?)\s+(?:is|are|was|were|has|have|contains|measures|equals)\s+(.*\d.*)$`)

// Build turns text into bite-size question/answer lessons. Definitional
// sentences come first, numeric facts fill remaining slots, and the set
// never exceeds the profile's micro-lesson cap.
func (s *microLessonService) Build(ctx context.Context, text string, profile types.Profile) (*types.MicroLessonSet, error) {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil, apperr.New(apperr.KindBadRequest, "text required")
  }
  cs := types.ConstraintsFor(profile)

  var lessons []types.MicroLesson
  seen := map[string]struct{}{}

  add := func(question, answer string) {
    if len(lessons) >= cs.MaxMicroLessons {
      return
    }
    answer = truncateWords(strings.TrimRight(answer, ".!?"), cs.MaxMicroLessonWords)
    question = truncateWords(question, cs.MaxMicroLessonWords)
    key := strings.ToLower(question)
    if _, ok := seen[key]; ok {
      return
    }
    seen[key] = struct{}{}
    lessons = append(lessons, types.MicroLesson{
      Question:             question,
      Answer:               answer,
      EstimatedTimeSeconds: 20 + 2*countWords(answer),
    })
  }

  for _, c := range extractConcepts(text) {
    add(fmt.Sprintf("What is %s?", c.Term), c.Definition)
  }

  if len(lessons) < cs.MaxMicroLessons {
    for _, sent := range splitSentences(text) {
      m := numericFactRe.FindStringSubmatch(strings.TrimRight(sent, ".!?"))
      if m == nil {
        continue
      }
      subject := strings.TrimSpace(m[1])
      value := strings.TrimSpace(m[2])
      if subject == "" || value == "" {
        continue
      }
      add(fmt.Sprintf("What do you know about %s?", lowerFirst(subject)), value)
      if len(lessons) >= cs.MaxMicroLessons {
        break
      }
    }
  }

  if len(lessons) == 0 {
    // Fall back to the leading sentences as prompts.
    sentences := splitSentences(text)
    for i, sent := range sentences {
      if i >= cs.MaxMicroLessons {
        break
      }
      add(fmt.Sprintf("Key point %d: what does this say?", i+1), sent)
    }
  }

  totalSeconds := 0
  for _, l := range lessons {
    totalSeconds += l.EstimatedTimeSeconds
  }

  return &types.MicroLessonSet{
    Lessons:               lessons,
    TotalEstimatedMinutes: int(math.Ceil(float64(totalSeconds) / 60.0)),
  }, nil
}

func lowerFirst(s string) string {
  if s == "" {
    return s
  }
  // Keep acronyms intact.
  if len(s) > 1 && s[1] >= 'A' && s[1] <= 'Z' {
    return s
  }
  return strings.ToLower(s[:1]) + s[1:]
}
