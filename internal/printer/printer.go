package printer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Job is one document handed to the print surface.
type Job struct {
	Name        string
	ContentType string
	Body        []byte
}

type Printer interface {
	Print(ctx context.Context, job Job) error
}

// ErrNotPrinted is returned by a printer that accepted the job but handed it
// to nothing.
var ErrNotPrinted = errors.New("no print surface configured")

type Discard struct{}

func (Discard) Print(_ context.Context, _ Job) error {
	return ErrNotPrinted
}

const maxSpoolSuffix = 1000

// Spooler drops each job as a file into a directory watched by whatever
// prints for this host (CUPS folder, shared drive, archive).
type Spooler struct {
	dir string
}

func NewSpooler(dir string) (*Spooler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &Spooler{dir: dir}, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Spooler) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := unsafeName.ReplaceAllString(job.Name, "_")
	if name == "" {
		return fmt.Errorf("print job without name")
	}
	ext := extensionFor(job.ContentType)
	base := strings.TrimSuffix(name, ext)

	tmp, err := os.CreateTemp(s.dir, ".spool-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(job.Body); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return s.claim(tmp.Name(), base, ext)
}

// claim links the written temp file under the first free name, base.ext,
// base-1.ext, and so on. An existing spool file is never replaced.
func (s *Spooler) claim(tmpPath string, base string, ext string) error {
	for i := 0; i < maxSpoolSuffix; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		err := os.Link(tmpPath, filepath.Join(s.dir, name))
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return fmt.Errorf("no free spool name for %s%s", base, ext)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "text/html", "text/html; charset=utf-8":
		return ".html"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
