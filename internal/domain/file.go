package domain

import (
	"path/filepath"
	"strings"
)

// FileTypePDF is the only file type the upload form accepts
const FileTypePDF = ".pdf"

// File is a document picked for upload
type File struct {
	Name string
	Data []byte
}

// IsPDF applies the upload form's file filter (extension only, like an
// accept=".pdf" picker).
func IsPDF(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == FileTypePDF
}
