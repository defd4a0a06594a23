package handlers

import (
  "fmt"
  "io"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/services"
)

// maxUploadBytes caps course material uploads at 20MB.
const maxUploadBytes = 20 << 20

type DocumentHandler struct {
  log    *logger.Logger
  ingest services.IngestService
}

func NewDocumentHandler(log *logger.Logger, ingest services.IngestService) *DocumentHandler {
  return &DocumentHandler{
    log:    log.With("handler", "DocumentHandler"),
    ingest: ingest,
  }
}

// Upload accepts multipart course material and runs extraction.
func (h *DocumentHandler) Upload(c *gin.Context) {
  fileHeader, err := c.FormFile("file")
  if err != nil {
    RespondBadRequest(c, fmt.Errorf("missing file field: %w", err))
    return
  }
  if fileHeader.Size > maxUploadBytes {
    RespondError(c, apperr.New(apperr.KindBadRequest, "file exceeds %dMB limit", maxUploadBytes>>20))
    return
  }

  f, err := fileHeader.Open()
  if err != nil {
    RespondBadRequest(c, err)
    return
  }
  defer f.Close()
  data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
  if err != nil {
    RespondError(c, apperr.Wrap(apperr.KindInternal, err))
    return
  }

  mode := c.PostForm("mode")

  doc, err := h.ingest.IngestUpload(c.Request.Context(), fileHeader.Filename, data, mode)
  if err != nil {
    h.log.Warn("Upload ingestion failed", "filename", fileHeader.Filename, "error", err)
    RespondError(c, err)
    return
  }
  RespondOK(c, doc)
}

type ingestTextRequest struct {
  Text       string `json:"text" binding:"required"`
  SourceName string `json:"source_name"`
}

// IngestText accepts pasted plain text.
func (h *DocumentHandler) IngestText(c *gin.Context) {
  var req ingestTextRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, err)
    return
  }
  doc, err := h.ingest.IngestText(c.Request.Context(), req.SourceName, req.Text)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, doc)
}

// Get returns one ingested document by id.
func (h *DocumentHandler) Get(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, fmt.Errorf("invalid document id: %w", err))
    return
  }
  doc, err := h.ingest.GetDocument(c.Request.Context(), id)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, doc)
}
