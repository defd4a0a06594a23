package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type SimplifyService interface {
  Simplify(ctx context.Context, text string, level types.ExplanationLevel) (*types.SimplifiedText, error)
}

type simplifyService struct {
  log *logger.Logger
  llm LLMClient
}

func NewSimplifyService(log *logger.Logger, llm LLMClient) SimplifyService {
  return &simplifyService{
    log: log.With("service", "SimplifyService"),
    llm: llm,
  }
}

// simplifyReplacements extends the short-word table with academic
// phrasing that rule-based simplification flattens out.
var simplifyReplacements = map[string]string{
  "in addition":    "also",
  "as a result":    "so",
  "due to the fact that": "because",
  "in the event that":    "if",
  "a large number of":    "many",
  "the majority of":      "most",
  "it is important to note that": "note that",
  "with regard to": "about",
  "in conclusion":  "finally",
}

var levelGradeTargets = map[types.ExplanationLevel]int{
  types.ExplanationBasic:        5,
  types.ExplanationIntermediate: 8,
  types.ExplanationDetailed:     11,
}

// Simplify rewrites text toward the reading grade implied by level. The
// hosted model is tried first; rule-based simplification covers every
// failure, so the call only errors on empty input.
func (s *simplifyService) Simplify(ctx context.Context, text string, level types.ExplanationLevel) (*types.SimplifiedText, error) {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil, apperr.New(apperr.KindBadRequest, "text required")
  }
  if level == "" {
    level = types.ExplanationBasic
  }
  grade, ok := levelGradeTargets[level]
  if !ok {
    return nil, apperr.New(apperr.KindBadRequest, "unknown explanation level %q", level)
  }

  simplified := s.simplifyHosted(ctx, text, grade)
  if simplified == "" {
    simplified = simplifyRules(text, grade)
  }

  origWords := countWords(text)
  simpWords := countWords(simplified)

  return &types.SimplifiedText{
    Original:           text,
    Simplified:         simplified,
    ReadabilityScore:   fleschReadingEase(simplified),
    WordCountReduction: origWords - simpWords,
  }, nil
}

func (s *simplifyService) simplifyHosted(ctx context.Context, text string, grade int) string {
  if s.llm == nil || !s.llm.Available() {
    return ""
  }
  system := fmt.Sprintf(
    "Rewrite the user's text at roughly a grade %d reading level. "+
      "Keep every fact, use short sentences and common words, and return only the rewritten text.",
    grade,
  )
  out, err := s.llm.GenerateText(ctx, system, text)
  if err != nil {
    s.log.Warn("Hosted simplification failed, using rule fallback", "error", err)
    return ""
  }
  return strings.TrimSpace(out)
}

// simplifyRules swaps complex words for short ones and splits sentences
// until the Flesch-Kincaid grade meets the target or no split helps.
func simplifyRules(text string, grade int) string {
  out := replaceAll(text, dyslexiaReplacements)
  out = replaceAll(out, simplifyReplacements)

  if fleschKincaidGrade(out) <= float64(grade) {
    return out
  }

  var rebuilt []string
  for _, sent := range splitSentences(out) {
    rebuilt = append(rebuilt, splitLongSentence(sent)...)
  }
  return strings.Join(rebuilt, " ")
}

// splitLongSentence breaks a sentence over 20 words at its first
// mid-sentence comma or coordinating conjunction.
func splitLongSentence(sent string) []string {
  if countWords(sent) <= 20 {
    return []string{sent}
  }

  fields := strings.Fields(sent)
  mid := len(fields) / 2
  splitAt := -1

  // Prefer a comma near the middle.
  bestDist := len(fields)
  for i, f := range fields {
    if !strings.HasSuffix(f, ",") {
      continue
    }
    d := absInt(i - mid)
    if d < bestDist {
      bestDist = d
      splitAt = i
    }
  }
  if splitAt < 0 {
    for i := 1; i < len(fields)-1; i++ {
      lw := strings.ToLower(fields[i])
      if lw == "and" || lw == "but" || lw == "because" {
        d := absInt(i - mid)
        if d < bestDist {
          bestDist = d
          splitAt = i - 1
        }
      }
    }
  }
  if splitAt < 0 || splitAt >= len(fields)-1 {
    return []string{sent}
  }

  first := strings.TrimRight(strings.Join(fields[:splitAt+1], " "), ",")
  if !strings.HasSuffix(first, ".") {
    first += "."
  }
  rest := strings.Join(fields[splitAt+1:], " ")
  if rest != "" {
    rest = strings.ToUpper(rest[:1]) + rest[1:]
  }
  return append([]string{first}, splitLongSentence(rest)...)
}

func absInt(a int) int {
  if a < 0 {
    return -a
  }
  return a
}
