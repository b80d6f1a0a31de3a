package services

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Word files that mimetype only recognizes as their container format are
// accepted by extension.
var wordContainers = map[string]struct{ ext, container string }{
	mimeDOCX: {".docx", "application/zip"},
	mimeDOC:  {".doc", "application/x-ole-storage"},
}

// ParseResume checks an uploaded resume. Plain text is returned as Text so
// it can shape the questions. PDF and Word documents keep their bytes for a
// TextExtractor.
func ParseResume(name string, data []byte, maxBytes int64) (*Resume, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrFileTooLarge
	}
	mt := mimetype.Detect(data)
	if isText(mt) {
		text := string(data)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "")
		}
		return &Resume{Name: name, Text: strings.TrimSpace(text)}, nil
	}
	ctype, ok := documentType(name, mt)
	if !ok {
		return nil, ErrUnsupportedFile
	}
	return &Resume{Name: name, ContentType: ctype, data: data}, nil
}

func documentType(name string, mt *mimetype.MIME) (string, bool) {
	for _, t := range []string{mimePDF, mimeDOCX, mimeDOC} {
		if mt.Is(t) {
			return t, true
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for t, w := range wordContainers {
		if ext == w.ext && mt.Is(w.container) {
			return t, true
		}
	}
	return "", false
}

// isText walks the detected type's ancestry; csv and markdown-like uploads
// descend from text/plain.
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
