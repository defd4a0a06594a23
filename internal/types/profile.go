package types

import "strings"

// Profile is the closed set of learner profile kinds.
type Profile string

const (
  ProfileADHD        Profile = "ADHD"
  ProfileDyslexia    Profile = "DYSLEXIA"
  ProfileAutism      Profile = "AUTISM"
  ProfileDyscalculia Profile = "DYSCALCULIA"
  ProfileDysgraphia  Profile = "DYSGRAPHIA"
  ProfileNeurotypical Profile = "NEUROTYPICAL"
)

func ParseProfile(s string) (Profile, bool) {
  p := Profile(strings.ToUpper(strings.TrimSpace(s)))
  switch p {
  case ProfileADHD, ProfileDyslexia, ProfileAutism, ProfileDyscalculia, ProfileDysgraphia, ProfileNeurotypical:
    return p, true
  }
  return "", false
}

type VoiceType string

const (
  VoiceMale   VoiceType = "male"
  VoiceFemale VoiceType = "female"
  VoiceChild  VoiceType = "child"
)

func ParseVoiceType(s string) (VoiceType, bool) {
  v := VoiceType(strings.ToLower(strings.TrimSpace(s)))
  switch v {
  case VoiceMale, VoiceFemale, VoiceChild:
    return v, true
  }
  return "", false
}

type ExplanationLevel string

const (
  ExplanationBasic        ExplanationLevel = "basic"
  ExplanationIntermediate ExplanationLevel = "intermediate"
  ExplanationDetailed     ExplanationLevel = "detailed"
)

// ConstraintSet caps generated content for one profile kind. All enforcement
// reads from the Constraints table below so the limits stay auditable in one
// place.
type ConstraintSet struct {
  MaxFlashcards      int
  MaxQuestionWords   int
  MaxAnswerWords     int
  MaxSummaryPoints   int
  MaxSummaryWords    int
  MaxOptionWords     int
  MaxMicroLessons    int
  MaxMicroLessonWords int
  ReadingGradeTarget int
  StudyTimeFactor    float64
  PreferredModalities []string
}

var constraintTable = map[Profile]ConstraintSet{
  ProfileADHD: {
    MaxFlashcards: 5, MaxQuestionWords: 10, MaxAnswerWords: 6,
    MaxSummaryPoints: 3, MaxSummaryWords: 12, MaxOptionWords: 6,
    MaxMicroLessons: 5, MaxMicroLessonWords: 15,
    ReadingGradeTarget: 7, StudyTimeFactor: 1.5,
    PreferredModalities: []string{"flashcards", "timers", "interactive"},
  },
  ProfileDyslexia: {
    MaxFlashcards: 4, MaxQuestionWords: 8, MaxAnswerWords: 5,
    MaxSummaryPoints: 3, MaxSummaryWords: 10, MaxOptionWords: 6,
    MaxMicroLessons: 5, MaxMicroLessonWords: 12,
    ReadingGradeTarget: 5, StudyTimeFactor: 1.3,
    PreferredModalities: []string{"simplified_text", "tts", "visual_aids"},
  },
  ProfileAutism: {
    MaxFlashcards: 6, MaxQuestionWords: 12, MaxAnswerWords: 8,
    MaxSummaryPoints: 4, MaxSummaryWords: 15, MaxOptionWords: 8,
    MaxMicroLessons: 5, MaxMicroLessonWords: 15,
    ReadingGradeTarget: 8, StudyTimeFactor: 1.0,
    PreferredModalities: []string{"structured_sequence", "visual_schedules", "clear_instructions"},
  },
  ProfileDyscalculia: {
    MaxFlashcards: 5, MaxQuestionWords: 12, MaxAnswerWords: 8,
    MaxSummaryPoints: 4, MaxSummaryWords: 15, MaxOptionWords: 8,
    MaxMicroLessons: 5, MaxMicroLessonWords: 15,
    ReadingGradeTarget: 7, StudyTimeFactor: 1.4,
    PreferredModalities: []string{"visual_math", "step_explanations", "concrete_examples"},
  },
  ProfileDysgraphia: {
    MaxFlashcards: 6, MaxQuestionWords: 12, MaxAnswerWords: 8,
    MaxSummaryPoints: 4, MaxSummaryWords: 15, MaxOptionWords: 5,
    MaxMicroLessons: 5, MaxMicroLessonWords: 15,
    ReadingGradeTarget: 8, StudyTimeFactor: 1.2,
    PreferredModalities: []string{"multiple_choice", "voice_input", "visual_selection"},
  },
  ProfileNeurotypical: {
    MaxFlashcards: 6, MaxQuestionWords: 14, MaxAnswerWords: 10,
    MaxSummaryPoints: 4, MaxSummaryWords: 18, MaxOptionWords: 10,
    MaxMicroLessons: 5, MaxMicroLessonWords: 15,
    ReadingGradeTarget: 9, StudyTimeFactor: 1.0,
    PreferredModalities: []string{"mixed_formats", "traditional_reading", "interactive_elements"},
  },
}

// ConstraintsFor returns the constraint set for p, defaulting to the
// neurotypical set for unknown kinds.
func ConstraintsFor(p Profile) ConstraintSet {
  if cs, ok := constraintTable[p]; ok {
    return cs
  }
  return constraintTable[ProfileNeurotypical]
}

// Preferences are per-user adjustments layered on top of the profile
// constraint set.
type Preferences struct {
  PreferredContentLength string `json:"preferred_content_length"` // short|medium|long
  AudioEnabled           bool   `json:"audio_enabled"`
  VisualAids             bool   `json:"visual_aids"`
  InteractiveElements    bool   `json:"interactive_elements"`
  RepetitionFrequency    string `json:"repetition_frequency"` // low|normal|high
}

func DefaultPreferences() Preferences {
  return Preferences{
    PreferredContentLength: "medium",
    AudioEnabled:           true,
    VisualAids:             true,
    InteractiveElements:    true,
    RepetitionFrequency:    "normal",
  }
}
