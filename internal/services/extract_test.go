package services

import (
	"strings"
	"testing"
)

func TestExtractTextPlaintext(t *testing.T) {
	text, format, err := extractText("notes.txt", []byte("Cell Biology\n\nThe cell is the basic unit of life.\nIt was discovered in 1665."))
	if err != nil {
		t.Fatalf("extractText returned error: %v", err)
	}
	if format != "text" {
		t.Fatalf("format=%q, want text", format)
	}
	if !strings.Contains(text, "basic unit of life") {
		t.Fatalf("extracted text missing content: %q", text)
	}
	// Paragraph break survives.
	if !strings.Contains(text, "\n\n") {
		t.Fatalf("paragraph break lost: %q", text)
	}
}

func TestExtractTextHTML(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><head><style>p{color:red}</style></head>" +
		"<body><h1>Cells</h1><p>The cell is small.</p><p>It divides &amp; grows.</p></body></html>")

	text, format, err := extractText("page.html", html)
	if err != nil {
		t.Fatalf("extractText returned error: %v", err)
	}
	if format != "html" {
		t.Fatalf("format=%q, want html", format)
	}
	if strings.Contains(text, "<") || strings.Contains(text, "color:red") {
		t.Fatalf("markup leaked into text: %q", text)
	}
	if !strings.Contains(text, "It divides & grows.") {
		t.Fatalf("entity not decoded: %q", text)
	}
}

func TestExtractTextRejectsFakePDF(t *testing.T) {
	_, _, err := extractText("scan.pdf", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05})
	if err == nil {
		t.Fatal("expected error for binary claiming to be pdf")
	}
	if !strings.Contains(err.Error(), "missing %PDF header") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextEmpty(t *testing.T) {
	if _, _, err := extractText("empty.txt", nil); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestSniffers(t *testing.T) {
	if !sniffPDF([]byte("%PDF-1.7 rest")) {
		t.Fatal("pdf magic not detected")
	}
	if sniffPDF([]byte("PDF-1.7")) {
		t.Fatal("false positive pdf sniff")
	}
	if !sniffZip([]byte{'P', 'K', 3, 4, 0}) {
		t.Fatal("zip magic not detected")
	}
	if !sniffHTML([]byte("  <!doctype html><html></html>")) {
		t.Fatal("doctype not detected")
	}
	if !sniffPlaintext([]byte("plain words and\nnewlines")) {
		t.Fatal("plaintext not detected")
	}
	if sniffPlaintext([]byte{0x00, 0x01, 'a'}) {
		t.Fatal("NUL bytes should not sniff as text")
	}
}

func TestTidyText(t *testing.T) {
	got := tidyText("a  b\r\nc\n\n\n\nd e")
	if got != "a b\nc\n\nd e" {
		t.Fatalf("tidyText=%q", got)
	}
}

func TestSplitStructure(t *testing.T) {
	heading, paragraphs := splitStructure("Cell Biology\n\nThe cell is the basic unit.\n\nCells divide by mitosis.")
	if heading != "Cell Biology" {
		t.Fatalf("heading=%q", heading)
	}
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs: %v", len(paragraphs), paragraphs)
	}

	// A full sentence up top is body, not a heading.
	heading, paragraphs = splitStructure("The cell is the basic unit of life.\n\nCells divide.")
	if heading != "" {
		t.Fatalf("sentence mistaken for heading: %q", heading)
	}
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs: %v", len(paragraphs), paragraphs)
	}
}

func TestFindEquations(t *testing.T) {
	text := "Solving Linear Equations\n\nConsider the following:\n2x + 3 = 7\nE = mc^2\nThis chapter is about balance."
	got := findEquations(text)
	if len(got) != 2 {
		t.Fatalf("got %d equations %v, want 2", len(got), got)
	}
	if got[0] != "2x + 3 = 7" {
		t.Fatalf("first equation=%q", got[0])
	}
}
