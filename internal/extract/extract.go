package extract

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

	apperrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
)

// Result is the extracted syllabus text plus the page count when the source
// format has one (PDF pages, PPTX slides; 0 otherwise).
type Result struct {
	Text  string
	Pages int
}

// Extract determines the true file type from bytes (sniffing first, then
// mime/extension claims) and pulls plain text out of it.
// Supported: PDF, DOCX, PPTX, TXT/MD, HTML (strip tags).
// Failure is terminal for the request: no text means no plan.
func Extract(originalName string, mimeType string, data []byte) (Result, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return Result{}, fmt.Errorf("empty file %s: %w", originalName, apperrors.ErrInvalidArgument)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isZip(data) {
		kind, err := detectOpenXMLKind(data)
		if err != nil {
			return Result{}, fmt.Errorf("zip/openxml detect failed (%v): %w", err, apperrors.ErrUnsupportedMedia)
		}
		switch kind {
		case "docx":
			return extractDOCX(data)
		case "pptx":
			return extractPPTX(data)
		default:
			return Result{}, fmt.Errorf("unsupported zip kind %s for %s: %w", kind, originalName, apperrors.ErrUnsupportedMedia)
		}
	}

	if looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm" {
		return textResult(stripHTML(string(data)))
	}

	if isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md" || ext == ".markdown" {
		return textResult(string(data))
	}

	// The upload claims a supported format but the bytes disagree.
	if mt == "application/pdf" || ext == ".pdf" {
		return Result{}, fmt.Errorf("file %s claims pdf but missing %%PDF header (head=%s): %w",
			originalName, firstBytesHex(data, 16), apperrors.ErrUnsupportedMedia)
	}
	if ext == ".docx" || ext == ".pptx" {
		return Result{}, fmt.Errorf("file %s is not a valid zip container: %w", originalName, apperrors.ErrUnsupportedMedia)
	}

	return Result{}, fmt.Errorf("unsupported file type name=%s ext=%s mime=%s head=%s: %w",
		originalName, ext, mt, firstBytesHex(data, 16), apperrors.ErrUnsupportedMedia)
}

func textResult(raw string) (Result, error) {
	text := normalizeText(raw)
	if text == "" {
		return Result{}, fmt.Errorf("document contains no readable text: %w", apperrors.ErrNoTextContent)
	}
	return Result{Text: text}, nil
}

// ------------------------
// Sniff helpers
// ------------------------

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(string(b[:min(len(b), 2048)]))
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	return strings.Contains(s, "<html") && strings.Contains(s, "</html>")
}

func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
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

func firstBytesHex(b []byte, n int) string {
	n = min(len(b), n)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
	}
	return string(out)
}

// ------------------------
// Extractors
// ------------------------

func extractPDF(data []byte) (Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("pdf reader (%v): %w", err, apperrors.ErrUnsupportedMedia)
	}

	total := r.NumPage()
	var out strings.Builder
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&out, "\n--- Page %d ---\n%s", i, pageText)
	}

	text := normalizeText(out.String())
	if text == "" {
		return Result{}, fmt.Errorf("pdf has no extractable text layer (scanned images?): %w", apperrors.ErrNoTextContent)
	}
	return Result{Text: text, Pages: total}, nil
}

func detectOpenXMLKind(zipBytes []byte) (string, error) {
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

func extractDOCX(zipBytes []byte) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return Result{}, fmt.Errorf("docx zip: %w", err)
	}
	f := findZipFile(zr, "word/document.xml")
	if f == nil {
		return Result{}, fmt.Errorf("docx missing word/document.xml: %w", apperrors.ErrUnsupportedMedia)
	}
	b, err := readZipFile(f)
	if err != nil {
		return Result{}, fmt.Errorf("docx read: %w", err)
	}
	return textResult(textFromXMLRuns(b, "t"))
}

func extractPPTX(zipBytes []byte) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return Result{}, fmt.Errorf("pptx zip: %w", err)
	}
	var out strings.Builder
	slides := 0
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "ppt/slides/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		slides++
		b, err := readZipFile(f)
		if err != nil {
			return Result{}, fmt.Errorf("pptx read %s: %w", f.Name, err)
		}
		out.WriteString(textFromXMLRuns(b, "t"))
		out.WriteString("\n")
	}
	res, err := textResult(out.String())
	if err != nil {
		return Result{}, err
	}
	res.Pages = slides
	return res, nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// textFromXMLRuns gathers the character data of every element whose local
// name matches (w:t in DOCX, a:t in PPTX).
func textFromXMLRuns(xmlBytes []byte, local string) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

// normalizeText collapses horizontal whitespace per line but keeps line
// structure: syllabus headings like "Chapter 1: Intro" stay on their own
// lines for the analysis prompt.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
