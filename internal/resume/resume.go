// Package resume turns candidate resume files into plain text and runs the
// fact extractor over them for quick pre-screening triage.
package resume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/mpetrov/screener/internal/extract"
	"github.com/mpetrov/screener/internal/profile"
	"github.com/mpetrov/screener/internal/rate"
)

// Result is the triage outcome for one resume file.
type Result struct {
	Path      string
	Candidate profile.Candidate
	Band      rate.Band // empty when the resume quotes no rate
}

// ExtractText returns the plain text of a resume file. PDF resumes are
// parsed page by page; .txt and .md files are read as-is.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDFText(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading resume: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported resume format %q", filepath.Ext(path))
	}
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// Screen extracts a resume's text and folds it through the fact extractor.
func Screen(path string) (Result, error) {
	text, err := ExtractText(path)
	if err != nil {
		return Result{}, err
	}

	r := Result{Path: path}
	extract.Apply(&r.Candidate, text)
	if r.Candidate.QuotedRate != nil {
		r.Band = rate.Classify(*r.Candidate.QuotedRate)
	}
	return r, nil
}

// ScreenBatch screens multiple resumes concurrently with bounded fan-out.
// Results keep the input order. The first failure cancels the batch.
func ScreenBatch(ctx context.Context, paths []string) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]Result, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := Screen(path)
			if err != nil {
				return fmt.Errorf("screening %s: %w", path, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
