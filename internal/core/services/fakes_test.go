package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/aipsync/internal/core/domain"
	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
)

// --- Fakes shared by the service tests ---

// fixedClock returns the same instant on every call.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// newYear2024 is the reference "current date" used throughout the tests.
var newYear2024 = fixedClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

// fakeResource is one document served by fakeTransport.
type fakeResource struct {
	contentType  string
	lastModified time.Time
	body         string
	headErr      error
	getErr       error
	// getDelay slows Get down so concurrent tests can interleave.
	getDelay time.Duration
}

// fakeTransport serves resources from a map keyed by locator.
type fakeTransport struct {
	mu        sync.Mutex
	resources map[string]*fakeResource
	heads     map[string]int
	gets      map[string]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		resources: make(map[string]*fakeResource),
		heads:     make(map[string]int),
		gets:      make(map[string]int),
	}
}

// pdf registers a PDF document at locator.
func (t *fakeTransport) pdf(locator, body string, lastModified time.Time) *fakeResource {
	r := &fakeResource{
		contentType:  domain.DocumentContentType,
		lastModified: lastModified,
		body:         body,
	}
	t.mu.Lock()
	t.resources[locator] = r
	t.mu.Unlock()
	return r
}

func (t *fakeTransport) lookup(locator string) (*fakeResource, error) {
	r, ok := t.resources[locator]
	if !ok {
		return nil, &domain.TransferError{Op: "head", Locator: locator, StatusCode: 404}
	}
	return r, nil
}

func (t *fakeTransport) Head(_ context.Context, locator string) (*domain.ResourceMetadata, error) {
	t.mu.Lock()
	t.heads[locator]++
	r, err := t.lookup(locator)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if r.headErr != nil {
		return nil, r.headErr
	}
	return &domain.ResourceMetadata{ContentType: r.contentType, LastModified: r.lastModified}, nil
}

func (t *fakeTransport) Get(_ context.Context, locator string) (io.ReadCloser, *domain.ResourceMetadata, error) {
	t.mu.Lock()
	t.gets[locator]++
	r, err := t.lookup(locator)
	t.mu.Unlock()
	if err != nil {
		return nil, nil, err
	}
	if r.getDelay > 0 {
		time.Sleep(r.getDelay)
	}
	if r.getErr != nil {
		return nil, nil, r.getErr
	}
	meta := &domain.ResourceMetadata{ContentType: r.contentType, LastModified: r.lastModified}
	return io.NopCloser(strings.NewReader(r.body)), meta, nil
}

func (t *fakeTransport) getCount(locator string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gets[locator]
}

func (t *fakeTransport) totalGets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.gets {
		n += c
	}
	return n
}

// fakeSource lists descriptors per category.
type fakeSource struct {
	mu    sync.Mutex
	descs map[domain.CategoryID][]domain.Descriptor
	errs  map[domain.CategoryID]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		descs: make(map[domain.CategoryID][]domain.Descriptor),
		errs:  make(map[domain.CategoryID]error),
	}
}

func (s *fakeSource) set(id domain.CategoryID, descs ...domain.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descs[id] = descs
}

func (s *fakeSource) List(_ context.Context, cat domain.Category) ([]domain.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[cat.ID]; err != nil {
		return nil, err
	}
	return s.descs[cat.ID], nil
}

// fakeEncoder writes a plain-text table of contents instead of a PDF.
type fakeEncoder struct {
	mu        sync.Mutex
	title     string
	entries   []domain.BundleEntry
	appendErr map[string]error
	encodeErr error
	encoded   int
}

func (e *fakeEncoder) SetTitle(title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.title = title
	return nil
}

func (e *fakeEncoder) Append(path, label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.appendErr[path]; err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	e.entries = append(e.entries, domain.BundleEntry{Path: path, Label: label})
	return nil
}

func (e *fakeEncoder) Encode(outputPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.encoded++
	if e.encodeErr != nil {
		// Leave a partial write behind, as a failing encoder might.
		_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
		return e.encodeErr
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "title=%s\n", e.title)
	for _, entry := range e.entries {
		body, err := os.ReadFile(entry.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%s|%s\n", entry.Label, body)
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o644)
}

// fakeEncoderFactory hands out fakeEncoders and remembers them.
type fakeEncoderFactory struct {
	mu        sync.Mutex
	created   []*fakeEncoder
	appendErr map[string]error
	encodeErr error
	createErr error
}

func (f *fakeEncoderFactory) Create() (driven.BundleEncoder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	enc := &fakeEncoder{appendErr: f.appendErr, encodeErr: f.encodeErr}
	f.created = append(f.created, enc)
	return enc, nil
}

func (f *fakeEncoderFactory) last() *fakeEncoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

// fakePublisher records published paths.
type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, path string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.published = append(p.published, path)
	return "s3://bucket/" + path, nil
}

// fakeMetrics records reports.
type fakeMetrics struct {
	reports []*domain.SyncReport
}

func (m *fakeMetrics) Record(report *domain.SyncReport) error {
	m.reports = append(m.reports, report)
	return nil
}

var errBoom = errors.New("boom")

// Ensure fakes implement interfaces
var (
	_ driven.Clock                = fixedClock{}
	_ driven.Transport            = (*fakeTransport)(nil)
	_ driven.DescriptorSource     = (*fakeSource)(nil)
	_ driven.BundleEncoder        = (*fakeEncoder)(nil)
	_ driven.BundleEncoderFactory = (*fakeEncoderFactory)(nil)
	_ driven.Publisher            = (*fakePublisher)(nil)
	_ driven.MetricsSink          = (*fakeMetrics)(nil)
)
