package storage

import (
	"path/filepath"
	"strings"
	"time"
)

// Asset represents a file or directory in storage
type Asset struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	IsDir       bool      `json:"isDir,omitempty"`
	Size        int64     `json:"size,omitempty"`
	ModTime     time.Time `json:"modTime,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
}

var contentTypes = map[string]string{
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".csv":  "text/csv",
	".txt":  "text/plain",
	".xml":  "application/xml",
	".gz":   "application/gzip",
	".zip":  "application/zip",
}

// ContentType returns the content type guessed from the file extension
func ContentType(location string) string {
	if ret, ok := contentTypes[strings.ToLower(filepath.Ext(location))]; ok {
		return ret
	}
	return "application/octet-stream"
}
