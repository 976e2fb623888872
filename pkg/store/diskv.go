package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/neodash/pkg/dashboard"
)

// ErrNotFound is returned when no dashboard matches the request.
var ErrNotFound = errors.New("store: dashboard not found")

const fileExt = ".json"

// Persistence defines the persistence contract for dashboards.
type Persistence interface {
	Save(d *dashboard.Dashboard) error
	Load(id string) (*dashboard.Dashboard, error)
	List(ctx context.Context) []*dashboard.Dashboard
	FindByTitle(ctx context.Context, title string) (*dashboard.Dashboard, error)
	Delete(id string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return Open(cfg.BasePath())
}

// Open creates a Persistence rooted at basePath.
func Open(basePath string) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*dashboard.Dashboard, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	d := &dashboard.Dashboard{}
	if err := json.Unmarshal(val, d); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	if d.UUID == "" {
		d.UUID = key
	}
	if d.Version == "" {
		d.Version = dashboard.CurrentVersion
	}
	return d, nil
}

func (p *persistence) Save(d *dashboard.Dashboard) error {
	if d == nil {
		return errors.New("store: nil dashboard")
	}
	if d.UUID == "" {
		return errors.New("store: dashboard has no uuid")
	}
	if d.Version == "" {
		d.Version = dashboard.CurrentVersion
	}
	if d.Updated.IsZero() {
		d.Updated = time.Now().UTC()
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return p.d.Write(d.UUID, data)
}

func (p *persistence) Load(id string) (*dashboard.Dashboard, error) {
	if id == "" || !p.d.Has(id) {
		return nil, ErrNotFound
	}
	return p.read(id)
}

func (p *persistence) List(ctx context.Context) []*dashboard.Dashboard {
	all := make([]*dashboard.Dashboard, 0)
	for key := range p.d.Keys(ctx.Done()) {
		d, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, d)
	}
	sortDashboards(all)
	return all
}

func (p *persistence) FindByTitle(ctx context.Context, title string) (*dashboard.Dashboard, error) {
	for _, d := range p.List(ctx) {
		if d.Title == title {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (p *persistence) Delete(id string) error {
	if !p.d.Has(id) {
		return ErrNotFound
	}
	return p.d.Erase(id)
}

func sortDashboards(all []*dashboard.Dashboard) {
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Title == all[j].Title {
			return all[i].UUID < all[j].UUID
		}
		return strings.ToLower(all[i].Title) < strings.ToLower(all[j].Title)
	})
}

// keyToPathTransform shards dashboards by the first two characters of their
// id so a single directory never grows unbounded.
func keyToPathTransform(key string) *diskv.PathKey {
	shard := "_"
	if len(key) >= 2 {
		shard = key[:2]
	}
	return &diskv.PathKey{
		Path:     []string{shard},
		FileName: key + fileExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, fileExt)
}

// idForPath derives the dashboard id from a file path under basePath.
func (p *persistence) idForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	name := filepath.Base(rel)
	if !strings.HasSuffix(name, fileExt) {
		return ""
	}
	return strings.TrimSuffix(name, fileExt)
}
