package services

import (
  "regexp"
  "strings"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type AdaptService interface {
  AdaptText(text string, profile types.Profile) string
  Personalize(content string, profile types.Profile, prefs types.Preferences) (*types.Personalization, error)
}

type adaptService struct {
  log *logger.Logger
}

func NewAdaptService(log *logger.Logger) AdaptService {
  return &adaptService{log: log.With("service", "AdaptService")}
}

// dyslexiaReplacements swaps multisyllabic words for common short ones.
// No replacement value appears as a key, so re-applying the map is a
// no-op.
var dyslexiaReplacements = map[string]string{
  "utilize":       "use",
  "utilizes":      "uses",
  "approximately": "about",
  "demonstrate":   "show",
  "demonstrates":  "shows",
  "consequently":  "so",
  "furthermore":   "also",
  "additionally":  "also",
  "sufficient":    "enough",
  "numerous":      "many",
  "facilitate":    "help",
  "fundamental":   "basic",
  "subsequently":  "later",
  "terminate":     "end",
  "commence":      "start",
  "prior to":      "before",
  "in order to":   "to",
}

// idiomReplacements rewrites figurative phrases literally for learners
// who read language literally.
var idiomReplacements = map[string]string{
  "a piece of cake":      "easy",
  "hit the books":        "study",
  "in a nutshell":        "briefly",
  "on the other hand":    "in contrast",
  "keep in mind":         "remember",
  "make sure":            "check",
  "rule of thumb":        "general rule",
  "at the end of the day": "finally",
}

const bulletPrefix = "• "

// AdaptText rewrites text for the given profile. The transform is
// idempotent: adapting already-adapted text returns it unchanged.
func (s *adaptService) AdaptText(text string, profile types.Profile) string {
  text = strings.TrimSpace(text)
  if text == "" {
    return text
  }
  switch profile {
  case types.ProfileADHD:
    return adhdChunked(text)
  case types.ProfileDyslexia:
    return replaceAll(text, dyslexiaReplacements)
  case types.ProfileAutism:
    return replaceAll(text, idiomReplacements)
  case types.ProfileDyscalculia:
    return dyscalculiaAnnotated(text)
  default:
    return text
  }
}

// adhdChunked breaks prose into bullet lines of at most two sentences.
// Already-bulleted text passes through untouched.
func adhdChunked(text string) string {
  if strings.HasPrefix(text, bulletPrefix) {
    return text
  }
  sentences := splitSentences(text)
  if len(sentences) <= 1 {
    return text
  }
  var lines []string
  for i := 0; i < len(sentences); i += 2 {
    end := minInt(i+2, len(sentences))
    lines = append(lines, bulletPrefix+strings.Join(sentences[i:end], " "))
  }
  return strings.Join(lines, "\n")
}

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// dyscalculiaAnnotated spells out percent signs, which are a frequent
// symbol-decoding stumbling block.
func dyscalculiaAnnotated(text string) string {
  return percentRe.ReplaceAllString(text, "$1 percent")
}

func replaceAll(text string, table map[string]string) string {
  lower := strings.ToLower(text)
  for from, to := range table {
    for {
      idx := strings.Index(lower, from)
      if idx < 0 {
        break
      }
      // Replace in the original while preserving surrounding text.
      text = text[:idx] + to + text[idx+len(from):]
      lower = lower[:idx] + to + lower[idx+len(from):]
    }
  }
  return text
}

var recommendedFormats = map[types.Profile]string{
  types.ProfileADHD:        "interactive_chunks",
  types.ProfileDyslexia:    "audio_supported_text",
  types.ProfileAutism:      "structured_visual",
  types.ProfileDyscalculia: "step_by_step_visual",
  types.ProfileDysgraphia:  "choice_based",
  types.ProfileNeurotypical: "mixed_format",
}

var profileRecommendations = map[types.Profile][]string{
  types.ProfileADHD: {
    "Study in short sessions with timed breaks",
    "Use the flashcard view rather than long-form reading",
    "Turn on progress indicators to keep momentum visible",
  },
  types.ProfileDyslexia: {
    "Enable text-to-speech narration for every section",
    "Use the simplified text view before reading the original",
    "Prefer larger line spacing in display settings",
  },
  types.ProfileAutism: {
    "Follow the lesson sequence in the listed order",
    "Review the lesson outline before starting each section",
    "Keep the same study routine across sessions",
  },
  types.ProfileDyscalculia: {
    "Work through math content one step at a time",
    "Use the worked-step view for every equation",
    "Pair numeric examples with the concrete explanations",
  },
  types.ProfileDysgraphia: {
    "Answer with multiple-choice or voice input instead of writing",
    "Use selection-based exercises where available",
  },
  types.ProfileNeurotypical: {
    "Mix reading, flashcards, and quiz practice",
    "Review summaries after each study session",
  },
}

// Personalize adapts raw content for a profile and layers the user's
// preferences on top of the profile defaults.
func (s *adaptService) Personalize(content string, profile types.Profile, prefs types.Preferences) (*types.Personalization, error) {
  content = strings.TrimSpace(content)
  if content == "" {
    return nil, apperr.New(apperr.KindBadRequest, "content required")
  }
  cs := types.ConstraintsFor(profile)

  adapted := s.AdaptText(content, profile)

  var adaptedContent any = adapted
  if profile == types.ProfileADHD {
    // Segment view for chunked consumption.
    adaptedContent = strings.Split(adapted, "\n")
  }

  features := append([]string{}, cs.PreferredModalities...)
  if prefs.AudioEnabled {
    features = append(features, "audio_narration")
  }
  if prefs.VisualAids {
    features = append(features, "visual_aids")
  }
  if prefs.InteractiveElements {
    features = append(features, "interactive_elements")
  }

  minutes := estimateStudyMinutes(countWords(content), cs.StudyTimeFactor)
  switch prefs.PreferredContentLength {
  case "short":
    minutes = maxInt(5, minutes/2)
  case "long":
    minutes = minInt(60, minutes*2)
  }

  recs := append([]string{}, profileRecommendations[profile]...)
  if prefs.RepetitionFrequency == "high" {
    recs = append(recs, "Schedule repeat reviews of each section within 24 hours")
  }

  format, ok := recommendedFormats[profile]
  if !ok {
    format = recommendedFormats[types.ProfileNeurotypical]
  }

  return &types.Personalization{
    Content: types.PersonalizedContent{
      AdaptedContent:        adaptedContent,
      RecommendedFormat:     format,
      AccessibilityFeatures: features,
      EstimatedMinutes:      minutes,
    },
    Recommendations: recs,
  }, nil
}

func maxInt(a, b int) int {
  if a > b {
    return a
  }
  return b
}
