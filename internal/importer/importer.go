// Package importer bulk-loads problem logs written as markdown files
// from a local directory or a git repository.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/gitsource"
	"github.com/conorfennell/problemlog/internal/knol"
	"github.com/conorfennell/problemlog/internal/parser"
	"github.com/conorfennell/problemlog/internal/revision"
	"github.com/conorfennell/problemlog/internal/tracker"
)

// Report summarizes one import run.
type Report struct {
	Files   int
	Added   int
	Skipped int
	Errors  []error
}

// Importer adds problems found in markdown logs to a tracker.
type Importer struct {
	tracker  *tracker.Tracker
	reposDir string
	progress io.Writer
	logger   *slog.Logger
}

// New returns an Importer that clones git sources under reposDir.
func New(tr *tracker.Tracker, reposDir string, progress io.Writer, logger *slog.Logger) *Importer {
	if progress == nil {
		progress = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{tracker: tr, reposDir: reposDir, progress: progress, logger: logger}
}

// IsGitSource reports whether source looks like a git URL rather than a path.
func IsGitSource(source string) bool {
	return strings.HasSuffix(source, ".git") || strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://")
}

// Run imports every problem under source. Problems whose fingerprint is
// already tracked, or appears earlier in the same run, are skipped.
// Per-file and per-problem failures are collected in the report.
func (im *Importer) Run(ctx context.Context, source string) (Report, error) {
	im.logger.Info("Starting import", "source", source)

	dir := source
	if IsGitSource(source) {
		localPath, err := gitURLToLocalPath(im.reposDir, source)
		if err != nil {
			return Report{}, err
		}
		if err := gitsource.Sync(ctx, source, localPath, im.progress); err != nil {
			return Report{}, err
		}
		dir = localPath
	}

	known := make(map[string]bool)
	for _, p := range im.tracker.Problems() {
		known[knol.Of(p)] = true
	}

	var report Report
	today := im.tracker.Today()

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		report.Files++
		records, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}

		for _, rec := range records {
			fp := knol.Fingerprint(rec.Fields.Name, rec.Fields.Link)
			if known[fp] {
				report.Skipped++
				continue
			}

			fields, err := resolve(rec, today)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("%s:%d: %w", path, rec.Line, err))
				continue
			}
			p, err := im.tracker.Add(ctx, fields)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("%s:%d: %w", path, rec.Line, err))
				if !errors.Is(err, domain.ErrValidation) {
					return err
				}
				continue
			}
			known[fp] = true
			report.Added++
			im.logger.Debug("Imported problem", "id", p.ID, "name", p.Name, "file", path)
		}
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	im.logger.Info("Import complete",
		"source", source,
		"files", report.Files,
		"added", report.Added,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
	return report, nil
}

// resolve turns a parsed record into tracker input. "Revise:" opts in;
// its value may be empty, "yes", a date or an offset like "+3d".
func resolve(rec parser.Record, today domain.Date) (domain.Fields, error) {
	fields := rec.Fields
	if !rec.HasRevise {
		return fields, nil
	}
	switch strings.ToLower(strings.TrimSpace(rec.Revise)) {
	case "no", "false":
		return fields, nil
	case "", "yes", "true":
		fields.NeedsRevision = true
		return fields, nil
	}
	when, err := revision.ParseWhen(rec.Revise, today)
	if err != nil {
		return fields, domain.NewValidationError("revise", err.Error())
	}
	fields.NeedsRevision = true
	fields.RevisionDate = when
	return fields, nil
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		if strings.HasSuffix(repoURL, ".git") {
			// A local bare or working repository path.
			name := strings.TrimSuffix(filepath.Base(repoURL), ".git")
			return filepath.Join(baseDir, "local", name), nil
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
