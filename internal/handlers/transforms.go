package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/services"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

// TransformHandler serves the single-shot content transforms:
// simplification, micro-lessons, math solving, audio narration,
// roadmaps, and personalization.
type TransformHandler struct {
  log      *logger.Logger
  simplify services.SimplifyService
  micro    services.MicroLessonService
  math     services.MathService
  audio    services.AudioService
  roadmap  services.RoadmapService
  adapt    services.AdaptService
}

func NewTransformHandler(
  log *logger.Logger,
  simplify services.SimplifyService,
  micro services.MicroLessonService,
  math services.MathService,
  audio services.AudioService,
  roadmap services.RoadmapService,
  adapt services.AdaptService,
) *TransformHandler {
  return &TransformHandler{
    log:      log.With("handler", "TransformHandler"),
    simplify: simplify,
    micro:    micro,
    math:     math,
    audio:    audio,
    roadmap:  roadmap,
    adapt:    adapt,
  }
}

type simplifyRequest struct {
  Text  string `json:"text" binding:"required"`
  Level string `json:"level"`
}

func (h *TransformHandler) Simplify(c *gin.Context) {
  var req simplifyRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  out, err := h.simplify.Simplify(c.Request.Context(), req.Text, types.ExplanationLevel(req.Level))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}

type microLessonRequest struct {
  Text    string `json:"text" binding:"required"`
  Profile string `json:"profile"`
}

func (h *TransformHandler) MicroLessons(c *gin.Context) {
  var req microLessonRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  profile, _ := types.ParseProfile(req.Profile)
  out, err := h.micro.Build(c.Request.Context(), req.Text, profile)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}

type mathRequest struct {
  Problem string `json:"problem" binding:"required"`
}

func (h *TransformHandler) SolveMath(c *gin.Context) {
  var req mathRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  out, err := h.math.Solve(c.Request.Context(), req.Problem)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}

type audioRequest struct {
  Text  string `json:"text" binding:"required"`
  Voice string `json:"voice"`
}

func (h *TransformHandler) Audio(c *gin.Context) {
  var req audioRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  voice := types.VoiceFemale
  if req.Voice != "" {
    parsed, ok := types.ParseVoiceType(req.Voice)
    if !ok {
      RespondError(c, apperr.New(apperr.KindBadRequest, "unknown voice %q", req.Voice))
      return
    }
    voice = parsed
  }
  out, err := h.audio.Synthesize(c.Request.Context(), req.Text, voice)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}

type roadmapRequest struct {
  Topics  []string `json:"topics" binding:"required"`
  Profile string   `json:"profile"`
}

func (h *TransformHandler) Roadmap(c *gin.Context) {
  var req roadmapRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  profile, _ := types.ParseProfile(req.Profile)
  out, err := h.roadmap.Build(c.Request.Context(), req.Topics, profile)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}

type personalizeRequest struct {
  Content     string             `json:"content" binding:"required"`
  Profile     string             `json:"profile" binding:"required"`
  Preferences *types.Preferences `json:"preferences"`
}

func (h *TransformHandler) Personalize(c *gin.Context) {
  var req personalizeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  profile, ok := types.ParseProfile(req.Profile)
  if !ok {
    RespondError(c, apperr.New(apperr.KindBadRequest, "unknown profile %q", req.Profile))
    return
  }
  prefs := types.DefaultPreferences()
  if req.Preferences != nil {
    prefs = *req.Preferences
  }
  out, err := h.adapt.Personalize(req.Content, profile, prefs)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, out)
}
