// Package hive publishes dashboards, and optionally a database dump or an Aura
// connection, to a Hive solutions store.
package hive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tableflip.dev/neodash/pkg/dashboard"
)

var (
	// ErrConnectionRequired is returned when an Aura target is missing any of
	// its connection details.
	ErrConnectionRequired = errors.New("hive: connection details required")
	// ErrDashboardExists is returned when a dashboard with the same title is
	// already published and overwrite was not requested.
	ErrDashboardExists = errors.New("hive: dashboard with the same name already exists")
	// ErrNoDashboard is returned when the request carries no snapshot.
	ErrNoDashboard = errors.New("hive: no dashboard to save")
)

// Target identifies where the database for the dashboard comes from.
type Target string

const (
	// TargetNone publishes only the dashboard.
	TargetNone Target = ""
	// TargetDump uploads a Neo4j .dump file alongside the dashboard.
	TargetDump Target = "dump"
	// TargetAura links the dashboard to an Aura database.
	TargetAura Target = "aura"
)

// ParseTarget maps a panel name to a Target.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TargetNone, nil
	case "dump":
		return TargetDump, nil
	case "aura":
		return TargetAura, nil
	default:
		return TargetNone, fmt.Errorf("hive: unknown target %q", s)
	}
}

// FileDescriptor describes the selected dump file.
type FileDescriptor struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Describe renders the descriptor as shown in the export dialog.
func (f *FileDescriptor) Describe() string {
	if f == nil {
		return ""
	}
	mb := float64(f.Size) / (1024 * 1024)
	return fmt.Sprintf("%s (%.2f MB, last modified: %s)", f.Name, mb, f.ModTime.Format("2006-01-02"))
}

// Stat builds a FileDescriptor for path.
func Stat(path string) (*FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("hive: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("hive: %s is a directory", path)
	}
	return &FileDescriptor{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Request bundles everything gathered by the export dialog.
type Request struct {
	File         *FileDescriptor
	Dashboard    *dashboard.Dashboard
	Timestamp    string
	Username     string
	Overwrite    bool
	Target       Target
	AuraURL      string
	AuraUsername string
	AuraPassword string
}

// Validate checks the request before any upload starts.
func (r Request) Validate() error {
	if r.Dashboard == nil {
		return ErrNoDashboard
	}
	if r.Target == TargetAura {
		if strings.TrimSpace(r.AuraURL) == "" ||
			strings.TrimSpace(r.AuraUsername) == "" ||
			r.AuraPassword == "" {
			return ErrConnectionRequired
		}
	}
	return nil
}

// ProgressFunc receives upload progress in [0, 1].
type ProgressFunc func(float64)

// Saver performs a Hive export.
type Saver interface {
	Save(ctx context.Context, req Request, progress ProgressFunc) error
}

// Record is a published dashboard as kept by the Hive store.
type Record struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Owner     string               `json:"owner"`
	Published string               `json:"published"`
	Target    Target               `json:"target"`
	DumpKey   string               `json:"dumpKey,omitempty"`
	DumpName  string               `json:"dumpName,omitempty"`
	DumpSize  int64                `json:"dumpSize,omitempty"`
	AuraURL   string               `json:"auraUrl,omitempty"`
	AuraUser  string               `json:"auraUser,omitempty"`
	Dashboard *dashboard.Dashboard `json:"dashboard"`
}

// progressReader reports how much of total has been read.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	scale    float64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.progress != nil && p.total > 0 && n > 0 {
		p.progress(p.scale * float64(p.read) / float64(p.total))
	}
	return n, err
}
