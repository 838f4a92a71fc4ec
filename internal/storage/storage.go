package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
)

// Storage handles reading and writing destination documents
type Storage struct {
	log *logger.Logger
}

// New creates a new Storage instance
func New(log *logger.Logger) *Storage {
	return &Storage{log: log}
}

// ExpandPath expands a leading ~/ to the home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Load reads and parses an HTML document from disk
func (s *Storage) Load(path string) (*goquery.Document, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	s.log.Debug("Loaded document", logger.Fields{"path": path, "bytes": len(data)})
	return doc, nil
}

// Save pretty-prints doc and overwrites the file at path
func (s *Storage) Save(path string, doc *goquery.Document) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}

	data, err := Prettify(doc.Selection)
	if err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	s.log.Debug("Saved document", logger.Fields{"path": path, "bytes": len(data)})
	return nil
}
