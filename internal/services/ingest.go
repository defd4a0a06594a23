package services

import (
  "context"
  "encoding/json"
  "fmt"
  "regexp"
  "strings"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/lumenlearn/lumen-backend/internal/apperr"
  "github.com/lumenlearn/lumen-backend/internal/clients/gcp"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/repos"
  "github.com/lumenlearn/lumen-backend/internal/types"
)

const (
  ModeAuto = "auto"
  ModeText = "text"
  ModeOCR  = "ocr"
)

// minTextLayerLen is the threshold below which a PDF's embedded text
// layer is considered a scan artifact and the OCR fallback kicks in.
const minTextLayerLen = 40

type IngestService interface {
  IngestUpload(ctx context.Context, filename string, data []byte, mode string) (*types.Document, error)
  IngestText(ctx context.Context, sourceName string, text string) (*types.Document, error)
  GetDocument(ctx context.Context, id uuid.UUID) (*types.Document, error)
}

type ingestService struct {
  log     *logger.Logger
  docRepo repos.DocumentRepo
  docai   gcp.DocAI
}

func NewIngestService(log *logger.Logger, docRepo repos.DocumentRepo, docai gcp.DocAI) IngestService {
  return &ingestService{
    log:     log.With("service", "IngestService"),
    docRepo: docRepo,
    docai:   docai,
  }
}

func (s *ingestService) IngestUpload(ctx context.Context, filename string, data []byte, mode string) (*types.Document, error) {
  mode = strings.ToLower(strings.TrimSpace(mode))
  if mode == "" {
    mode = ModeAuto
  }
  if mode != ModeAuto && mode != ModeText && mode != ModeOCR {
    return nil, apperr.New(apperr.KindBadRequest, "unknown processing mode %q", mode)
  }
  if len(data) == 0 {
    return nil, apperr.New(apperr.KindIngestion, "empty upload: %s", filename)
  }

  var (
    text       string
    format     string
    confidence float64
    usedMode   = ModeText
  )

  if mode == ModeOCR {
    ocr, err := s.runOCR(ctx, data)
    if err != nil {
      return nil, err
    }
    text = ocr.Text
    format = "pdf"
    confidence = ocr.Confidence
    usedMode = ModeOCR
  } else {
    var err error
    text, format, err = extractText(filename, data)
    if err != nil {
      return nil, apperr.Wrap(apperr.KindIngestion, err)
    }
    confidence = textLayerConfidence(format)

    // Scanned PDFs carry little or no text layer.
    if mode == ModeAuto && format == "pdf" && len(text) < minTextLayerLen && s.docai != nil && s.docai.Configured() {
      s.log.Info("PDF text layer too thin, falling back to OCR", "filename", filename, "text_len", len(text))
      ocr, err := s.runOCR(ctx, data)
      if err != nil {
        return nil, err
      }
      text = ocr.Text
      confidence = ocr.Confidence
      usedMode = ModeOCR
    }
  }

  if strings.TrimSpace(text) == "" {
    return nil, apperr.New(apperr.KindIngestion, "no text could be extracted from %s", filename)
  }

  return s.persist(ctx, filename, format, usedMode, text, confidence)
}

func (s *ingestService) IngestText(ctx context.Context, sourceName string, text string) (*types.Document, error) {
  text = tidyText(text)
  if text == "" {
    return nil, apperr.New(apperr.KindIngestion, "empty text body")
  }
  if sourceName == "" {
    sourceName = "pasted-text"
  }
  return s.persist(ctx, sourceName, "text", ModeText, text, 1.0)
}

func (s *ingestService) GetDocument(ctx context.Context, id uuid.UUID) (*types.Document, error) {
  return s.docRepo.GetByID(ctx, nil, id)
}

func (s *ingestService) runOCR(ctx context.Context, data []byte) (*gcp.OCRResult, error) {
  if s.docai == nil || !s.docai.Configured() {
    return nil, apperr.New(apperr.KindIngestion, "ocr requested but document ai is not configured")
  }
  ocr, err := s.docai.ProcessBytes(ctx, data, "application/pdf")
  if err != nil {
    return nil, apperr.Wrap(apperr.KindIngestion, fmt.Errorf("ocr failed: %w", err))
  }
  return ocr, nil
}

func (s *ingestService) persist(ctx context.Context, sourceName, format, mode, text string, confidence float64) (*types.Document, error) {
  heading, paragraphs := splitStructure(text)
  equations := findEquations(text)

  paraJSON, err := json.Marshal(paragraphs)
  if err != nil {
    return nil, apperr.Wrap(apperr.KindInternal, err)
  }
  eqJSON, err := json.Marshal(equations)
  if err != nil {
    return nil, apperr.Wrap(apperr.KindInternal, err)
  }

  doc := &types.Document{
    ID:             uuid.New(),
    SourceName:     sourceName,
    SourceFormat:   format,
    ProcessingMode: mode,
    Heading:        heading,
    Paragraphs:     datatypes.JSON(paraJSON),
    Equations:      datatypes.JSON(eqJSON),
    ExtractedText:  text,
    Confidence:     confidence,
  }
  if _, err := s.docRepo.Create(ctx, nil, doc); err != nil {
    return nil, apperr.Wrap(apperr.KindInternal, err)
  }

  s.log.Info("Document ingested",
    "document_id", doc.ID.String(),
    "source", sourceName,
    "format", format,
    "mode", mode,
    "paragraphs", len(paragraphs),
    "equations", len(equations),
    "confidence", confidence,
  )
  return doc, nil
}

func textLayerConfidence(format string) float64 {
  switch format {
  case "pdf":
    return 0.95
  case "html":
    return 0.9
  default:
    return 1.0
  }
}

// splitStructure pulls a heading candidate off the top of the text and
// splits the remainder into paragraphs on blank lines. A heading is a
// short first line without terminal punctuation.
func splitStructure(text string) (heading string, paragraphs []string) {
  blocks := strings.Split(text, "\n\n")
  cleaned := make([]string, 0, len(blocks))
  for _, b := range blocks {
    b = normalizeWhitespace(b)
    if b != "" {
      cleaned = append(cleaned, b)
    }
  }
  if len(cleaned) == 0 {
    return "", nil
  }

  first := cleaned[0]
  if countWords(first) <= 12 && !strings.ContainsAny(first[len(first)-1:], ".!?") && len(cleaned) > 1 {
    return first, cleaned[1:]
  }

  // Single-block text: fall back to per-line heading detection.
  if len(cleaned) == 1 {
    lines := strings.Split(strings.TrimSpace(text), "\n")
    if len(lines) > 1 {
      l0 := normalizeWhitespace(lines[0])
      if l0 != "" && countWords(l0) <= 12 && !strings.ContainsAny(l0[len(l0)-1:], ".!?") {
        rest := normalizeWhitespace(strings.Join(lines[1:], " "))
        if rest != "" {
          return l0, []string{rest}
        }
      }
    }
  }
  return "", cleaned
}

var equationLineRe = regexp.MustCompile(`(?m)^[^\n]*[=≈≠≤≥][^\n]*$`)

var mathMarkerRe = regexp.MustCompile(`(\\frac|\\sum|\\int|\\sqrt|[∑∫√^±×÷]|\d\s*[+\-*/]\s*[\dA-Za-z]|[A-Za-z]\s*[+\-*/]\s*\d)`)

// findEquations collects lines that look like math rather than prose:
// they contain a relation symbol plus at least one arithmetic marker,
// and stay short.
func findEquations(text string) []string {
  var out []string
  seen := map[string]struct{}{}
  for _, line := range equationLineRe.FindAllString(text, -1) {
    line = normalizeWhitespace(line)
    if line == "" || countWords(line) > 20 {
      continue
    }
    if !mathMarkerRe.MatchString(line) {
      continue
    }
    if _, ok := seen[line]; ok {
      continue
    }
    seen[line] = struct{}{}
    out = append(out, line)
  }
  return out
}
