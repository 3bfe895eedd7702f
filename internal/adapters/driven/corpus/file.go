package corpus

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/sercha-corpus/internal/core/domain"
	"github.com/custodia-labs/sercha-corpus/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// Ensure FileSource implements the interface.
var _ driven.CorpusSource = (*FileSource)(nil)

// FileSource reads the corpus from a file or from every file matching a glob.
// Shards are read in lexical order; a later shard wins on duplicate ids.
type FileSource struct {
	pattern string
}

// NewFileSource creates a source for a path or doublestar glob.
func NewFileSource(pattern string) *FileSource {
	return &FileSource{pattern: pattern}
}

// Describe returns the path or glob.
func (s *FileSource) Describe() string {
	return s.pattern
}

// IsGlob reports whether the source pattern contains glob syntax.
func (s *FileSource) IsGlob() bool {
	return strings.ContainsAny(s.pattern, "*?[{")
}

// Files returns the corpus files in read order.
func (s *FileSource) Files() ([]string, error) {
	if !s.IsGlob() {
		if _, err := os.Stat(s.pattern); err != nil {
			return nil, fmt.Errorf("corpus file: %w", err)
		}
		return []string{s.pattern}, nil
	}

	files, err := doublestar.FilepathGlob(s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", s.pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no corpus files match %s", s.pattern)
	}
	sort.Strings(files)
	return files, nil
}

// Fetch reads and merges every corpus file.
func (s *FileSource) Fetch(ctx context.Context) ([]domain.Document, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		shard, err := readFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Read %d documents from %s", len(shard), path)
		docs = append(docs, shard...)
	}
	return dedupe(docs), nil
}

func readFile(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	docs, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Fingerprint combines path, size and modification time of every file.
func (s *FileSource) Fingerprint(_ context.Context) (string, error) {
	files, err := s.Files()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		fmt.Fprintf(&b, "%s:%d:%d\n", path, info.Size(), info.ModTime().UnixNano())
	}
	return b.String(), nil
}
