package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
)

func TestExtractPlainTextKeepsLines(t *testing.T) {
	data := []byte("Chapter 1: Intro\nChapter 2: Data Structures\n")
	res, err := Extract("syllabus.txt", "text/plain", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Text != "Chapter 1: Intro\nChapter 2: Data Structures" {
		t.Fatalf("text=%q", res.Text)
	}
	if res.Pages != 0 {
		t.Fatalf("pages=%d", res.Pages)
	}
}

func TestExtractHTMLStripsTags(t *testing.T) {
	data := []byte("<!DOCTYPE html><html><body><h1>Week 1</h1><p>Sorting &amp; searching</p></body></html>")
	res, err := Extract("syllabus.html", "text/html", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(res.Text, "Week 1") || !strings.Contains(res.Text, "Sorting & searching") {
		t.Fatalf("text=%q", res.Text)
	}
	if strings.Contains(res.Text, "<") {
		t.Fatalf("tags left in %q", res.Text)
	}
}

func TestExtractEmptyFile(t *testing.T) {
	_, err := Extract("syllabus.pdf", "application/pdf", nil)
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractWhitespaceOnly(t *testing.T) {
	_, err := Extract("blank.txt", "text/plain", []byte("   \n\t \n"))
	if !errors.Is(err, apperrors.ErrNoTextContent) {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractUnknownBinary(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	_, err := Extract("image.png", "image/png", data)
	if !errors.Is(err, apperrors.ErrUnsupportedMedia) {
		t.Fatalf("err=%v", err)
	}
}

func TestExtractClaimsPDFWithoutHeader(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04}
	_, err := Extract("fake.pdf", "application/pdf", data)
	if !errors.Is(err, apperrors.ErrUnsupportedMedia) {
		t.Fatalf("err=%v", err)
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>Course Outline</w:t></w:r><w:r><w:t>Unit 1: Foundations</w:t></w:r></w:p></w:body></w:document>`
	data := buildZip(t, map[string]string{
		"word/document.xml": doc,
		"word/styles.xml":   `<w:styles xmlns:w="x"/>`,
	})

	res, err := Extract("syllabus.docx", "", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(res.Text, "Course Outline") || !strings.Contains(res.Text, "Unit 1: Foundations") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractPPTXCountsSlides(t *testing.T) {
	slide := func(text string) string {
		return `<?xml version="1.0"?>` +
			`<p:sld xmlns:p="p" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
			`<a:t>` + text + `</a:t></p:sld>`
	}
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": slide("Intro week"),
		"ppt/slides/slide2.xml": slide("Review week"),
	})

	res, err := Extract("deck.pptx", "", data)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Pages != 2 {
		t.Fatalf("pages=%d", res.Pages)
	}
	if !strings.Contains(res.Text, "Intro week") || !strings.Contains(res.Text, "Review week") {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestNormalizeTextCollapsesBlankRuns(t *testing.T) {
	in := "Week  1\n\n\n\nWeek   2\r\nWeek 3"
	got := normalizeText(in)
	want := "Week 1\n\nWeek 2\nWeek 3"
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
