package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
	"github.com/custodia-labs/aipsync/internal/logger"
)

// Ensure the encoder types implement the interfaces.
var (
	_ driven.BundleEncoderFactory = (*Factory)(nil)
	_ driven.BundleEncoder        = (*Encoder)(nil)
)

// ErrNoPages indicates a document without any pages.
var ErrNoPages = errors.New("document has no pages")

func init() {
	// Keep pdfcpu from creating a user configuration directory.
	api.DisableConfigDir()
}

// Factory creates PDF encoders.
type Factory struct{}

// NewFactory creates a PDF encoder factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns a fresh encoder.
func (f *Factory) Create() (driven.BundleEncoder, error) {
	return &Encoder{conf: model.NewDefaultConfiguration()}, nil
}

// document is one appended file.
type document struct {
	path  string
	label string
	pages int
}

// Encoder accumulates documents and writes them as one PDF.
type Encoder struct {
	conf  *model.Configuration
	title string
	docs  []document
}

// SetTitle sets the document-level title.
func (e *Encoder) SetTitle(title string) error {
	e.title = title
	return nil
}

// Append validates the PDF at path and queues it under label.
func (e *Encoder) Append(path, label string) error {
	pages, err := countPages(path)
	if err != nil {
		return err
	}
	if pages == 0 {
		return fmt.Errorf("%s: %w", path, ErrNoPages)
	}
	logger.Debug("Queued %q (%d pages) as %q", path, pages, label)
	e.docs = append(e.docs, document{path: path, label: label, pages: pages})
	return nil
}

// Encode writes the merged document with one bookmark per appended file.
func (e *Encoder) Encode(outputPath string) (err error) {
	if len(e.docs) == 0 {
		return e.encodeEmpty(outputPath)
	}

	work, err := os.MkdirTemp(filepath.Dir(outputPath), ".aipsync-bundle-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode %s: %v", outputPath, r)
		}
	}()

	merged := filepath.Join(work, "merged.pdf")
	if len(e.docs) == 1 {
		err = copyFile(e.docs[0].path, merged)
	} else {
		paths := make([]string, len(e.docs))
		for i, d := range e.docs {
			paths[i] = d.path
		}
		err = api.MergeCreateFile(paths, merged, false, e.conf)
	}
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	outlined := filepath.Join(work, "outlined.pdf")
	if err := api.AddBookmarksFile(merged, outlined, e.bookmarks(), true, e.conf); err != nil {
		return fmt.Errorf("add bookmarks: %w", err)
	}

	if e.title == "" {
		return copyFile(outlined, outputPath)
	}
	props := map[string]string{"Title": e.title}
	if err := api.AddPropertiesFile(outlined, outputPath, props, e.conf); err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	return nil
}

// bookmarks returns one top-level bookmark per document at its first page.
func (e *Encoder) bookmarks() []pdfcpu.Bookmark {
	bms := make([]pdfcpu.Bookmark, 0, len(e.docs))
	first := 1
	for _, d := range e.docs {
		bms = append(bms, pdfcpu.Bookmark{
			Title:    d.label,
			PageFrom: first,
			PageThru: first + d.pages - 1,
		})
		first += d.pages
	}
	return bms
}

// encodeEmpty writes a valid PDF without pages.
func (e *Encoder) encodeEmpty(outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := writeMinimal(f, e.title, 0); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// countPages opens the PDF at path and returns its page count.
// The reader panics on some malformed input, which is reported as an error.
func countPages(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdfreader.Open(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
