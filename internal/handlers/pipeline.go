package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/services"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

type PipelineHandler struct {
  log      *logger.Logger
  pipeline services.PipelineService
}

func NewPipelineHandler(log *logger.Logger, pipeline services.PipelineService) *PipelineHandler {
  return &PipelineHandler{
    log:      log.With("handler", "PipelineHandler"),
    pipeline: pipeline,
  }
}

type pipelineRequest struct {
  Text         string             `json:"text" binding:"required"`
  SourceName   string             `json:"source_name"`
  Profile      string             `json:"profile" binding:"required"`
  Preferences  *types.Preferences `json:"preferences"`
  IncludeAudio bool               `json:"include_audio"`
  Voice        string             `json:"voice"`
}

// Complete runs the whole ingestion-to-roadmap pipeline in one call.
func (h *PipelineHandler) Complete(c *gin.Context) {
  var req pipelineRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  prefs := types.DefaultPreferences()
  if req.Preferences != nil {
    prefs = *req.Preferences
  }
  result, err := h.pipeline.Run(c.Request.Context(), services.PipelineRequest{
    Text:         req.Text,
    SourceName:   req.SourceName,
    Profile:      types.Profile(req.Profile),
    Preferences:  prefs,
    IncludeAudio: req.IncludeAudio,
    Voice:        types.VoiceType(req.Voice),
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, result)
}
