package gcp

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  "cloud.google.com/go/documentai/apiv1"
  "cloud.google.com/go/documentai/apiv1/documentaipb"
  "google.golang.org/api/option"
  "google.golang.org/grpc/codes"
  "google.golang.org/grpc/status"

  "github.com/lumenlearn/lumen-backend/internal/logger"
)

// DocAI runs scanned documents through a Document AI OCR processor. It is
// the fallback path for PDFs whose embedded text layer is empty.
type DocAI interface {
  ProcessBytes(ctx context.Context, data []byte, mimeType string) (*OCRResult, error)
  Configured() bool
  Close() error
}

type OCRResult struct {
  Text       string   `json:"text"`
  Paragraphs []string `json:"paragraphs"`
  Confidence float64  `json:"confidence"`
}

type docAIService struct {
  log    *logger.Logger
  client *documentai.DocumentProcessorClient

  projectID   string
  location    string
  processorID string
  maxRetries  int
}

func NewDocAI(log *logger.Logger) (DocAI, error) {
  if log == nil {
    return nil, fmt.Errorf("logger required")
  }
  slog := log.With("service", "gcp.DocAI")

  projectID := strings.TrimSpace(os.Getenv("GCP_PROJECT_ID"))
  processorID := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID"))
  location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
  if location == "" {
    location = "us"
  }

  if projectID == "" || processorID == "" {
    slog.Warn("Document AI not configured, OCR fallback disabled")
    return &docAIService{log: slog, location: location}, nil
  }

  endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
  c, err := documentai.NewDocumentProcessorClient(context.Background(), option.WithEndpoint(endpoint))
  if err != nil {
    return nil, fmt.Errorf("documentai client: %w", err)
  }

  slog.Info("Document AI initialized", "endpoint", endpoint)

  return &docAIService{
    log:         slog,
    client:      c,
    projectID:   projectID,
    location:    location,
    processorID: processorID,
    maxRetries:  4,
  }, nil
}

func (s *docAIService) Configured() bool {
  return s != nil && s.client != nil
}

func (s *docAIService) Close() error {
  if s == nil || s.client == nil {
    return nil
  }
  return s.client.Close()
}

func (s *docAIService) ProcessBytes(ctx context.Context, data []byte, mimeType string) (*OCRResult, error) {
  if !s.Configured() {
    return nil, fmt.Errorf("documentai not configured")
  }
  if len(data) == 0 {
    return &OCRResult{}, nil
  }
  if mimeType == "" {
    mimeType = "application/pdf"
  }

  ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
  defer cancel()

  name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", s.projectID, s.location, s.processorID)

  req := &documentaipb.ProcessRequest{
    Name: name,
    Source: &documentaipb.ProcessRequest_RawDocument{
      RawDocument: &documentaipb.RawDocument{
        Content:  data,
        MimeType: mimeType,
      },
    },
  }

  resp, err := s.retryProcess(ctx, func() (*documentaipb.ProcessResponse, error) {
    return s.client.ProcessDocument(ctx, req)
  })
  if err != nil {
    return nil, fmt.Errorf("documentai ProcessDocument: %w", err)
  }
  if resp == nil || resp.Document == nil {
    return &OCRResult{}, nil
  }

  doc := resp.Document
  out := &OCRResult{Text: strings.TrimSpace(doc.Text)}

  confSum := 0.0
  confN := 0
  for _, p := range doc.Pages {
    if p == nil {
      continue
    }
    for _, para := range p.Paragraphs {
      if para == nil || para.Layout == nil {
        continue
      }
      if para.Layout.Confidence > 0 {
        confSum += float64(para.Layout.Confidence)
        confN++
      }
      if para.Layout.TextAnchor == nil {
        continue
      }
      t := strings.TrimSpace(anchorText(doc.Text, para.Layout.TextAnchor))
      if t != "" {
        out.Paragraphs = append(out.Paragraphs, t)
      }
    }
  }
  if confN > 0 {
    out.Confidence = confSum / float64(confN)
  } else if out.Text != "" {
    out.Confidence = 0.9
  }
  return out, nil
}

func (s *docAIService) retryProcess(ctx context.Context, fn func() (*documentaipb.ProcessResponse, error)) (*documentaipb.ProcessResponse, error) {
  backoff := 750 * time.Millisecond
  var last error
  for attempt := 0; attempt <= s.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return nil, ctx.Err()
    }
    resp, err := fn()
    if err == nil {
      return resp, nil
    }
    last = err

    code := status.Code(err)
    if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
      return nil, err
    }
    if attempt == s.maxRetries {
      break
    }
    time.Sleep(backoff)
    backoff *= 2
    if backoff > 10*time.Second {
      backoff = 10 * time.Second
    }
  }
  return nil, last
}

func anchorText(full string, anchor *documentaipb.Document_TextAnchor) string {
  if anchor == nil || len(anchor.TextSegments) == 0 || full == "" {
    return ""
  }
  var b strings.Builder
  for _, seg := range anchor.TextSegments {
    if seg == nil {
      continue
    }
    start := int(seg.StartIndex)
    end := int(seg.EndIndex)
    if start < 0 {
      start = 0
    }
    if end > len(full) {
      end = len(full)
    }
    if start >= end {
      continue
    }
    b.WriteString(full[start:end])
  }
  return b.String()
}
