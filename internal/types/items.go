package types

import "github.com/google/uuid"

// ItemKind tags one generated study artifact.
type ItemKind string

const (
  ItemFlashcard   ItemKind = "flashcard"
  ItemSummary     ItemKind = "summary"
  ItemMCQ         ItemKind = "mcq"
  ItemMicroLesson ItemKind = "micro_lesson"
  ItemAudioRef    ItemKind = "audio_ref"
  ItemMathSteps   ItemKind = "math_steps"
)

type Flashcard struct {
  Question   string `json:"question"`
  Answer     string `json:"answer"`
  Difficulty string `json:"difficulty"`
}

type MCQ struct {
  Question      string   `json:"question"`
  Options       []string `json:"options"`
  CorrectAnswer string   `json:"correct_answer"`
  Explanation   string   `json:"explanation"`
}

// LearningItems is the artifact bundle the generator produces for one chunk.
type LearningItems struct {
  ChunkID          uuid.UUID   `json:"chunk_id,omitempty"`
  Profile          Profile     `json:"profile"`
  Flashcards       []Flashcard `json:"flashcards"`
  Summary          []string    `json:"summary"`
  MCQ              []MCQ       `json:"mcq"`
  EstimatedMinutes int         `json:"estimated_study_time_minutes"`
  Source           string      `json:"source"` // "hosted" | "rules"
  Modalities       []string    `json:"modalities,omitempty"`
}

type MicroLesson struct {
  Question             string `json:"question"`
  Answer               string `json:"answer"`
  EstimatedTimeSeconds int    `json:"estimated_time_seconds"`
}

type MicroLessonSet struct {
  Lessons               []MicroLesson `json:"micro_lessons"`
  TotalEstimatedMinutes int           `json:"total_estimated_time_minutes"`
}

type SimplifiedText struct {
  Original           string  `json:"original"`
  Simplified         string  `json:"simplified"`
  ReadabilityScore   float64 `json:"readability_score"`
  WordCountReduction int     `json:"word_count_reduction"`
}

type MathStep struct {
  StepNumber         int    `json:"step_number"`
  Explanation        string `json:"explanation"`
  IntermediateResult string `json:"intermediate_result"`
}

type MathSolution struct {
  Problem     string     `json:"problem"`
  Steps       []MathStep `json:"steps"`
  FinalAnswer string     `json:"final_answer"`
  Difficulty  string     `json:"difficulty_level"`
}

type RoadmapWeek struct {
  WeekNumber     int      `json:"week_number"`
  Topic          string   `json:"topic"`
  Mode           string   `json:"mode"`
  EstimatedHours float64  `json:"estimated_hours"`
  Activities     []string `json:"learning_activities"`
}

type Roadmap struct {
  Weeks                 []RoadmapWeek `json:"roadmap"`
  TotalEstimatedHours   float64       `json:"total_estimated_hours"`
  DifficultyProgression string        `json:"difficulty_progression"`
}

type PersonalizedContent struct {
  AdaptedContent        any      `json:"adapted_content"`
  RecommendedFormat     string   `json:"recommended_format"`
  AccessibilityFeatures []string `json:"accessibility_features"`
  EstimatedMinutes      int      `json:"estimated_completion_time"`
}

type Personalization struct {
  Content         PersonalizedContent `json:"personalized_content"`
  Recommendations []string            `json:"profile_specific_recommendations"`
}
