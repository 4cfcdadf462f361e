package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/andrew/page-eval/pkg/models"
)

// ErrNoInput is returned when neither a directory nor a file was given
var ErrNoInput = errors.New("no input directory or file given")

// LoadError reports a failure to produce documents from a path
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads documents from directory if set, otherwise from file
func Load(directory, file string, logger *zap.Logger) ([]models.Document, error) {
	switch {
	case directory != "":
		return LoadDirectory(directory, logger)
	case file != "":
		return LoadFile(file)
	default:
		return nil, ErrNoInput
	}
}

// LoadDirectory loads every readable file directly under dir, in name order.
// Sub-directories and dot-files are not loaded. A file that cannot be read is
// logged and skipped; the call fails only when no file yields documents.
func LoadDirectory(dir string, logger *zap.Logger) ([]models.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: dir, Err: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	var docs []models.Document
	var result *multierror.Error
	for _, path := range files {
		fileDocs, err := extractFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			result = multierror.Append(result, err)
			continue
		}
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		if err := result.ErrorOrNil(); err != nil {
			return nil, &LoadError{Path: dir, Err: fmt.Errorf("no readable files: %w", err)}
		}
		return nil, &LoadError{Path: dir, Err: errors.New("no files found")}
	}
	if result != nil {
		logger.Debug("directory loaded with skipped files", zap.String("directory", dir),
			zap.Int("skipped", len(result.Errors)), zap.Int("documents", len(docs)))
	}

	return number(docs), nil
}

// LoadFile loads a single file
func LoadFile(path string) ([]models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Err: errors.New("path is a directory, not a file")}
	}

	docs, err := extractFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(docs) == 0 {
		return nil, &LoadError{Path: path, Err: errors.New("no content extracted")}
	}

	return number(docs), nil
}

// extractFile turns one file into its page documents, without global numbering
func extractFile(path string) ([]models.Document, error) {
	pages, kind, err := extractPages(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	docs := make([]models.Document, 0, len(pages))
	for i, text := range pages {
		docs = append(docs, models.Document{
			ID:     uuid.New().String(),
			Page:   i + 1,
			Text:   text,
			Source: path,
			Metadata: map[string]string{
				"filename": filepath.Base(path),
				"filepath": path,
				"format":   kind,
			},
		})
	}
	return docs, nil
}

// number assigns the 1-based sequence index
func number(docs []models.Document) []models.Document {
	for i := range docs {
		docs[i].Index = i + 1
	}
	return docs
}
