// Package catalog loads the static source catalog and expands it into feed
// targets, one per (source, section) pair.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"catchup-news/internal/domain/entity"
)

// File is the on-disk catalog document.
//
//	sources:
//	  - id: verge
//	    name: The Verge
//	    baseUrl: https://www.theverge.com
//	    sections:
//	      - slug: tech
//	        feedUrl: https://www.theverge.com/rss/index.xml
type File struct {
	Sources []SourceRecord `yaml:"sources"`
}

// SourceRecord is one publisher in the catalog file.
type SourceRecord struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	BaseURL  string          `yaml:"baseUrl"`
	Sections []SectionRecord `yaml:"sections"`
}

// SectionRecord maps a section slug to a feed URL.
type SectionRecord struct {
	Slug    string `yaml:"slug"`
	FeedURL string `yaml:"feedUrl"`
}

// Parse decodes a catalog and returns its valid feed targets.
// Invalid sources and sections are skipped with a warning log; a catalog with
// no valid target at all is an error wrapping entity.ErrInvalidCatalog.
func Parse(r io.Reader, logger *slog.Logger) ([]entity.SourceFeedTarget, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: catalog is empty", entity.ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: decode catalog: %v", entity.ErrInvalidCatalog, err)
	}

	var targets []entity.SourceFeedTarget
	seen := make(map[string]bool)
	for i, rec := range f.Sources {
		src := rec.toEntity()
		if err := src.Validate(); err != nil {
			logger.Warn("skipping invalid catalog source",
				slog.Int("index", i),
				slog.String("source_id", rec.ID),
				slog.Any("error", err))
			continue
		}
		for _, sec := range src.Sections {
			if err := sec.Validate(); err != nil {
				logger.Warn("skipping invalid catalog section",
					slog.String("source_id", src.ID),
					slog.String("section", sec.Slug),
					slog.Any("error", err))
				continue
			}
			t := src.Target(sec)
			key := t.SourceID + "\x00" + t.SectionSlug + "\x00" + t.FeedURL
			if seen[key] {
				continue
			}
			seen[key] = true
			targets = append(targets, t)
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no valid feed targets in %d source(s)", entity.ErrInvalidCatalog, len(f.Sources))
	}
	return targets, nil
}

func (r SourceRecord) toEntity() entity.Source {
	src := entity.Source{ID: r.ID, Name: r.Name, BaseURL: r.BaseURL}
	for _, s := range r.Sections {
		src.Sections = append(src.Sections, entity.Section{Slug: s.Slug, FeedURL: s.FeedURL})
	}
	return src
}

// FileLoader reads the catalog from disk on every Load, so edits take effect
// on the next request without a restart.
type FileLoader struct {
	Path   string
	Logger *slog.Logger
}

// NewFileLoader creates a FileLoader for path.
func NewFileLoader(path string, logger *slog.Logger) *FileLoader {
	return &FileLoader{Path: path, Logger: logger}
}

// Load reads and parses the catalog file.
func (l *FileLoader) Load(ctx context.Context) ([]entity.SourceFeedTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrInvalidCatalog, l.Path, err)
	}
	return Parse(bytes.NewReader(data), l.Logger)
}
