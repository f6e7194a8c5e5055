package domain

import (
	"fmt"
	"net/url"
	"time"
)

// SupplementOrder selects the order of volatile-category descriptors.
type SupplementOrder string

// Available supplement orders.
const (
	// SupplementOrderSource keeps the order of the category page.
	SupplementOrderSource SupplementOrder = "source"

	// SupplementOrderEffective sorts by effective date, undated last.
	SupplementOrderEffective SupplementOrder = "effective"
)

// IsValid returns true if the order is recognised.
func (o SupplementOrder) IsValid() bool {
	return o == SupplementOrderSource || o == SupplementOrderEffective
}

// Settings is the resolved application configuration.
type Settings struct {
	// BaseURL is the site every locator is resolved against.
	BaseURL string

	// Dest is the default target directory.
	Dest string

	Bundle      BundleSettings
	HTTP        HTTPSettings
	Sync        SyncSettings
	Supplements SupplementSettings
	Schedule    ScheduleSettings
	Metrics     MetricsSettings
	Publish     PublishSettings
	Log         LogSettings
}

// BundleSettings configures the merged output.
type BundleSettings struct {
	// Name is the output file name inside the target directory.
	Name string

	// Title is the document-level title of the bundle.
	Title string

	// IncludeUpToDate bundles documents whose local copy is already current.
	IncludeUpToDate bool
}

// HTTPSettings configures the transport.
type HTTPSettings struct {
	Timeout       time.Duration
	Rate          float64
	UserAgent     string
	RespectRobots bool
}

// SyncSettings configures the category synchroniser.
type SyncSettings struct {
	// Workers bounds concurrent document processing within a category.
	Workers int
}

// SupplementSettings configures the volatile category.
type SupplementSettings struct {
	Order SupplementOrder
}

// ScheduleSettings configures periodic runs.
type ScheduleSettings struct {
	Interval time.Duration
	Cron     string
}

// MetricsSettings configures the Prometheus textfile export.
type MetricsSettings struct {
	// File is the textfile path; empty disables export.
	File string
}

// PublishSettings configures bundle upload.
type PublishSettings struct {
	// S3Bucket is the destination bucket; empty disables publishing.
	S3Bucket string

	// S3Prefix is prepended to the bundle name to form the object key.
	S3Prefix string
}

// LogSettings configures the optional rotating log file.
type LogSettings struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		BaseURL: "https://www.aip.net.nz/",
		Dest:    "AIP",
		Bundle: BundleSettings{
			Name:            DefaultBundleName,
			Title:           DefaultBundleTitle,
			IncludeUpToDate: false,
		},
		HTTP: HTTPSettings{
			Timeout:       60 * time.Second,
			Rate:          2,
			UserAgent:     "aipsync",
			RespectRobots: true,
		},
		Sync:        SyncSettings{Workers: 1},
		Supplements: SupplementSettings{Order: SupplementOrderSource},
		Schedule:    ScheduleSettings{Interval: 24 * time.Hour},
		Log:         LogSettings{MaxSizeMB: 10, MaxBackups: 3},
	}
}

// Validate checks the settings for values the application cannot run with.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute URL", ErrInvalidInput, s.BaseURL)
	}
	if s.Bundle.Name == "" {
		return fmt.Errorf("%w: bundle.name is empty", ErrInvalidInput)
	}
	if s.Sync.Workers < 1 {
		return fmt.Errorf("%w: sync.workers must be at least 1", ErrInvalidInput)
	}
	if s.HTTP.Rate < 0 {
		return fmt.Errorf("%w: http.rate must not be negative", ErrInvalidInput)
	}
	if !s.Supplements.Order.IsValid() {
		return fmt.Errorf("%w: supplements.order %q", ErrInvalidInput, s.Supplements.Order)
	}
	return nil
}
