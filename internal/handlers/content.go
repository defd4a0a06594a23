package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/services"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

// ContentHandler serves the segmentation and generation endpoints.
type ContentHandler struct {
  log     *logger.Logger
  segment services.SegmentService
  gen     services.GenerateService
}

func NewContentHandler(log *logger.Logger, segment services.SegmentService, gen services.GenerateService) *ContentHandler {
  return &ContentHandler{
    log:     log.With("handler", "ContentHandler"),
    segment: segment,
    gen:     gen,
  }
}

type segmentRequest struct {
  Text string `json:"text" binding:"required"`
}

type segmentResponse struct {
  Chunks []types.Chunk      `json:"chunks"`
  Topics []types.TopicGroup `json:"topics"`
}

func (h *ContentHandler) Segment(c *gin.Context) {
  var req segmentRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  chunks, err := h.segment.Segment(c.Request.Context(), req.Text)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, segmentResponse{
    Chunks: chunks,
    Topics: h.segment.GroupTopics(c.Request.Context(), chunks),
  })
}

type generateRequest struct {
  Text    string `json:"text" binding:"required"`
  Profile string `json:"profile" binding:"required"`
}

func (h *ContentHandler) Generate(c *gin.Context) {
  var req generateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  profile, ok := types.ParseProfile(req.Profile)
  if !ok {
    RespondError(c, apperr.New(apperr.KindBadRequest, "unknown profile %q", req.Profile))
    return
  }

  chunks, err := h.segment.Segment(c.Request.Context(), req.Text)
  if err != nil {
    RespondError(c, err)
    return
  }

  out := make([]types.LearningItems, 0, len(chunks))
  for _, chunk := range chunks {
    items, genErr := h.gen.GenerateItems(c.Request.Context(), chunk, profile)
    if genErr != nil {
      h.log.Warn("Generation failed for chunk", "index", chunk.Index, "error", genErr)
      continue
    }
    out = append(out, *items)
  }
  if len(out) == 0 {
    RespondError(c, apperr.New(apperr.KindGeneration, "no learning items could be generated"))
    return
  }
  RespondOK(c, gin.H{"items": out})
}

// Stats reports hosted model quota usage.
func (h *ContentHandler) Stats(c *gin.Context) {
  RespondOK(c, h.gen.Stats())
}
