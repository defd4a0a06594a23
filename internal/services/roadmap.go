package services

import (
  "context"
  "math"
  "sort"
  "strings"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type RoadmapService interface {
  Build(ctx context.Context, topics []string, profile types.Profile) (*types.Roadmap, error)
}

type roadmapService struct {
  log *logger.Logger
}

func NewRoadmapService(log *logger.Logger) RoadmapService {
  return &roadmapService{log: log.With("service", "RoadmapService")}
}

var easyTopicMarkers = []string{"basic", "basics", "introduction", "intro", "overview", "fundamentals", "getting started"}

var hardTopicMarkers = []string{"advanced", "complex", "expert", "optimization", "architecture", "in depth", "theory"}

// topicDifficulty grades a topic title 1 (easy) to 3 (hard) from its
// wording.
func topicDifficulty(topic string) int {
  lower := strings.ToLower(topic)
  for _, m := range easyTopicMarkers {
    if strings.Contains(lower, m) {
      return 1
    }
  }
  for _, m := range hardTopicMarkers {
    if strings.Contains(lower, m) {
      return 3
    }
  }
  return 2
}

var profileModes = map[types.Profile]string{
  types.ProfileADHD:        "short_sessions",
  types.ProfileDyslexia:    "audio_first",
  types.ProfileAutism:      "structured_routine",
  types.ProfileDyscalculia: "step_by_step",
  types.ProfileDysgraphia:  "low_writing",
  types.ProfileNeurotypical: "standard",
}

var profileActivities = map[types.Profile][]string{
  types.ProfileADHD: {
    "Flashcard sprints with timed breaks",
    "Interactive quizzes",
    "Short video-style walkthroughs",
  },
  types.ProfileDyslexia: {
    "Audio narration of each section",
    "Simplified-text reading",
    "Visual concept maps",
  },
  types.ProfileAutism: {
    "Sequenced lesson checklist",
    "Predictable practice drills",
    "Concept review in fixed order",
  },
  types.ProfileDyscalculia: {
    "Worked examples one step at a time",
    "Concrete visual models for each concept",
    "Practice with immediate step feedback",
  },
  types.ProfileDysgraphia: {
    "Multiple-choice practice",
    "Verbal recall exercises",
    "Selection-based concept sorting",
  },
  types.ProfileNeurotypical: {
    "Reading with summary review",
    "Mixed flashcards and quizzes",
    "Self-testing at the end of each week",
  },
}

// Build lays topics out one per week, easiest first, with hours scaled
// by the profile's study-time factor.
func (s *roadmapService) Build(ctx context.Context, topics []string, profile types.Profile) (*types.Roadmap, error) {
  cleaned := make([]string, 0, len(topics))
  for _, t := range topics {
    t = normalizeWhitespace(t)
    if t != "" {
      cleaned = append(cleaned, t)
    }
  }
  if len(cleaned) == 0 {
    return nil, apperr.New(apperr.KindBadRequest, "at least one topic required")
  }

  cs := types.ConstraintsFor(profile)
  mode, ok := profileModes[profile]
  if !ok {
    mode = profileModes[types.ProfileNeurotypical]
  }
  activities, ok := profileActivities[profile]
  if !ok {
    activities = profileActivities[types.ProfileNeurotypical]
  }

  type graded struct {
    topic      string
    difficulty int
    order      int
  }
  g := make([]graded, len(cleaned))
  for i, t := range cleaned {
    g[i] = graded{topic: t, difficulty: topicDifficulty(t), order: i}
  }
  // Easiest first; original order breaks ties.
  sort.SliceStable(g, func(i, j int) bool { return g[i].difficulty < g[j].difficulty })

  weeks := make([]types.RoadmapWeek, len(g))
  total := 0.0
  for i, t := range g {
    hours := roundHalf(float64(t.difficulty) * 2.0 * cs.StudyTimeFactor)
    weeks[i] = types.RoadmapWeek{
      WeekNumber:     i + 1,
      Topic:          t.topic,
      Mode:           mode,
      EstimatedHours: hours,
      Activities:     activities,
    }
    total += hours
  }

  progression := "gradual"
  for i := 1; i < len(g); i++ {
    if g[i].difficulty < g[i-1].difficulty {
      progression = "mixed"
      break
    }
  }
  if len(g) == 1 {
    progression = "single_topic"
  }

  return &types.Roadmap{
    Weeks:                 weeks,
    TotalEstimatedHours:   total,
    DifficultyProgression: progression,
  }, nil
}

func roundHalf(f float64) float64 {
  return math.Round(f*2) / 2
}
