package services

import (
  "archive/zip"
  "bytes"
  "encoding/xml"
  "fmt"
  "io"
  "path/filepath"
  "regexp"
  "strings"

  pdf "github.com/ledongthuc/pdf"
)

// extractText determines the true file type from bytes (sniffing first,
// extension/mime as fallback) and pulls plain text out of it. Paragraph
// breaks are preserved as blank lines where the format carries them.
// Supported: PDF, DOCX, PPTX, TXT/MD, HTML.
func extractText(originalName string, data []byte) (text string, format string, err error) {
  ext := strings.ToLower(filepath.Ext(originalName))

  if len(data) == 0 {
    return "", "", fmt.Errorf("empty file: name=%s", originalName)
  }

  if sniffPDF(data) {
    text, err = pdfText(data)
    return text, "pdf", err
  }
  if sniffZip(data) {
    kind, kerr := openXMLKind(data)
    if kerr != nil {
      return "", "", fmt.Errorf("zip/openxml detect failed: %w", kerr)
    }
    switch kind {
    case "docx":
      text, err = docxText(data)
      return text, "docx", err
    case "pptx":
      text, err = pptxText(data)
      return text, "pptx", err
    default:
      return "", "", fmt.Errorf("unsupported zip/openxml kind=%s name=%s", kind, originalName)
    }
  }
  if sniffHTML(data) || ext == ".html" || ext == ".htm" {
    return htmlText(string(data)), "html", nil
  }
  if sniffPlaintext(data) || ext == ".txt" || ext == ".md" || ext == ".markdown" {
    return tidyText(string(data)), "text", nil
  }

  if ext == ".pdf" {
    return "", "", fmt.Errorf("file claims pdf but missing %%PDF header: name=%s head=%s", originalName, headHex(data, 16))
  }
  if ext == ".docx" || ext == ".pptx" {
    return "", "", fmt.Errorf("file claims %s but is not a valid zip container: name=%s", strings.TrimPrefix(ext, "."), originalName)
  }

  return "", "", fmt.Errorf("unsupported file type: name=%s ext=%s head=%s", originalName, ext, headHex(data, 16))
}

// ------------------------
// Sniff helpers
// ------------------------

func sniffPDF(b []byte) bool {
  return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func sniffZip(b []byte) bool {
  return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func sniffHTML(b []byte) bool {
  s := strings.ToLower(string(b[:minInt(len(b), 2048)]))
  trimmed := strings.TrimSpace(s)
  if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
    return true
  }
  return strings.Contains(s, "<html") && strings.Contains(s, "</html>")
}

func sniffPlaintext(b []byte) bool {
  sample := b[:minInt(len(b), 4096)]
  good := 0
  for _, c := range sample {
    if c == 0x00 {
      return false
    }
    if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
      good++
    }
  }
  return float64(good)/float64(len(sample)) > 0.9
}

func headHex(b []byte, n int) string {
  n = minInt(len(b), n)
  const hexdigits = "0123456789abcdef"
  out := make([]byte, 0, n*2)
  for i := 0; i < n; i++ {
    out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
  }
  return string(out)
}

func minInt(a, b int) int {
  if a < b {
    return a
  }
  return b
}

// ------------------------
// Extractors
// ------------------------

func pdfText(data []byte) (string, error) {
  r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
  if err != nil {
    return "", fmt.Errorf("pdf reader: %w", err)
  }
  plain, err := r.GetPlainText()
  if err != nil {
    return "", fmt.Errorf("pdf plaintext: %w", err)
  }
  b, err := io.ReadAll(plain)
  if err != nil {
    return "", fmt.Errorf("pdf read: %w", err)
  }
  return tidyText(string(b)), nil
}

func openXMLKind(zipBytes []byte) (string, error) {
  zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
  if err != nil {
    return "", err
  }
  hasWord := false
  hasPpt := false
  for _, f := range zr.File {
    if strings.HasPrefix(f.Name, "word/") {
      hasWord = true
    }
    if strings.HasPrefix(f.Name, "ppt/") {
      hasPpt = true
    }
  }
  switch {
  case hasWord && !hasPpt:
    return "docx", nil
  case hasPpt && !hasWord:
    return "pptx", nil
  default:
    return "unknown", fmt.Errorf("zip does not look like docx or pptx")
  }
}

func docxText(zipBytes []byte) (string, error) {
  zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
  if err != nil {
    return "", err
  }
  var f *zip.File
  for _, zf := range zr.File {
    if zf.Name == "word/document.xml" {
      f = zf
      break
    }
  }
  if f == nil {
    return "", fmt.Errorf("docx missing word/document.xml")
  }
  rc, err := f.Open()
  if err != nil {
    return "", err
  }
  raw, _ := io.ReadAll(rc)
  _ = rc.Close()

  s := wordXMLText(raw)
  if s == "" {
    return "", fmt.Errorf("no text extracted from docx")
  }
  return s, nil
}

func pptxText(zipBytes []byte) (string, error) {
  zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
  if err != nil {
    return "", err
  }
  var out strings.Builder
  for _, f := range zr.File {
    if !strings.HasPrefix(f.Name, "ppt/slides/") || !strings.HasSuffix(f.Name, ".xml") {
      continue
    }
    rc, err := f.Open()
    if err != nil {
      return "", err
    }
    raw, _ := io.ReadAll(rc)
    _ = rc.Close()
    out.WriteString(wordXMLText(raw))
    out.WriteString("\n\n")
  }
  s := tidyText(out.String())
  if s == "" {
    return "", fmt.Errorf("no text extracted from pptx slides")
  }
  return s, nil
}

// wordXMLText walks an OpenXML part, gathering text runs (<w:t>/<a:t>)
// and turning each closed paragraph (<w:p>/<a:p>) into a blank line.
func wordXMLText(xmlBytes []byte) string {
  dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
  var out strings.Builder
  for {
    tok, err := dec.Token()
    if err != nil {
      break
    }
    switch t := tok.(type) {
    case xml.StartElement:
      if t.Name.Local == "t" {
        var v string
        _ = dec.DecodeElement(&v, &t)
        if v != "" {
          out.WriteString(v)
          out.WriteString(" ")
        }
      }
    case xml.EndElement:
      if t.Name.Local == "p" {
        out.WriteString("\n\n")
      }
    }
  }
  return tidyText(out.String())
}

func htmlText(s string) string {
  s = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`).ReplaceAllString(s, " ")
  s = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|section|article)>`).ReplaceAllString(s, "\n\n")
  s = regexp.MustCompile(`(?i)<br\s*/?>`).ReplaceAllString(s, "\n")
  s = regexp.MustCompile(`(?s)<[^>]*>`).ReplaceAllString(s, " ")
  s = strings.ReplaceAll(s, "&nbsp;", " ")
  s = strings.ReplaceAll(s, "&amp;", "&")
  s = strings.ReplaceAll(s, "&lt;", "<")
  s = strings.ReplaceAll(s, "&gt;", ">")
  s = strings.ReplaceAll(s, "&quot;", `"`)
  s = strings.ReplaceAll(s, "&#39;", "'")
  return tidyText(s)
}

var (
  spaceRunRe   = regexp.MustCompile(`[ \t]+`)
  newlineRunRe = regexp.MustCompile(`\n{3,}`)
)

// tidyText normalizes whitespace while keeping blank-line paragraph
// boundaries intact.
func tidyText(s string) string {
  s = strings.ReplaceAll(s, " ", " ")
  s = strings.ReplaceAll(s, "\r\n", "\n")
  s = strings.ReplaceAll(s, "\r", "\n")
  s = spaceRunRe.ReplaceAllString(s, " ")

  lines := strings.Split(s, "\n")
  for i := range lines {
    lines[i] = strings.TrimSpace(lines[i])
  }
  s = strings.Join(lines, "\n")
  s = newlineRunRe.ReplaceAllString(s, "\n\n")
  return strings.TrimSpace(s)
}
