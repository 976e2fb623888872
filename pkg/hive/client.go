package hive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const (
	recordsDir = "records"
	dumpsDir   = "dumps"

	// Dump uploads account for this share of the total progress; the record
	// write and the Aura check cover the rest.
	dumpShare = 0.9
)

// Client is a Saver backed by a local Hive solutions directory.
type Client struct {
	d        *diskv.Diskv
	verifier Verifier
}

// Option customises a Client.
type Option func(*Client)

// WithVerifier overrides how Aura connections are checked.
func WithVerifier(v Verifier) Option {
	return func(c *Client) { c.verifier = v }
}

// NewClient opens the Hive store rooted at basePath.
func NewClient(basePath string, opts ...Option) (*Client, error) {
	if basePath == "" {
		return nil, errors.New("hive: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("hive: ensure base path: %w", err)
	}
	c := &Client{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024,
		}),
		verifier: Neo4jVerifier{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Save publishes req. Progress is reported as the dump streams in and once
// more at 1.0 when the record is written.
func (c *Client) Save(ctx context.Context, req Request, progress ProgressFunc) error {
	if progress == nil {
		progress = func(float64) {}
	}
	if err := req.Validate(); err != nil {
		return err
	}
	progress(0)

	existing, err := c.findByTitle(ctx, req.Dashboard.Title)
	if err != nil {
		return err
	}
	if existing != nil && !req.Overwrite {
		return fmt.Errorf("%w: %q", ErrDashboardExists, req.Dashboard.Title)
	}

	rec := Record{
		ID:        uuid.NewString(),
		Title:     req.Dashboard.Title,
		Owner:     req.Username,
		Published: req.Timestamp,
		Target:    req.Target,
		Dashboard: req.Dashboard,
	}
	if existing != nil {
		rec.ID = existing.ID
	}

	switch req.Target {
	case TargetAura:
		if err := c.verifier.Verify(ctx, req.AuraURL, req.AuraUsername, req.AuraPassword); err != nil {
			return fmt.Errorf("hive: verify aura connection: %w", err)
		}
		rec.AuraURL = req.AuraURL
		rec.AuraUser = req.AuraUsername
	case TargetDump:
		if req.File != nil {
			// Each upload gets its own key so a published dump is never
			// truncated by an overwrite that fails part way.
			key := dumpKey(uuid.NewString())
			if err := c.uploadDump(ctx, key, req.File, progress); err != nil {
				return err
			}
			rec.DumpKey = key
			rec.DumpName = req.File.Name
			rec.DumpSize = req.File.Size
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		c.discard(rec.DumpKey)
		return fmt.Errorf("hive: encode record: %w", err)
	}
	if err := c.d.Write(recordKey(rec.ID), data); err != nil {
		c.discard(rec.DumpKey)
		return fmt.Errorf("hive: write record: %w", err)
	}
	// The old dump is unreferenced only once the new record is on disk.
	if existing != nil && existing.DumpKey != "" && existing.DumpKey != rec.DumpKey {
		c.discard(existing.DumpKey)
	}
	progress(1)
	return nil
}

func (c *Client) uploadDump(ctx context.Context, key string, f *FileDescriptor, progress ProgressFunc) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("hive: open dump: %w", err)
	}
	defer src.Close()

	total := f.Size
	if info, err := src.Stat(); err == nil {
		total = info.Size()
	}
	r := &progressReader{
		r:        &ctxReader{ctx: ctx, r: src},
		total:    total,
		scale:    dumpShare,
		progress: progress,
	}
	if err := c.d.WriteStream(key, r, true); err != nil {
		c.discard(key)
		return fmt.Errorf("hive: upload dump: %w", err)
	}
	return nil
}

func (c *Client) discard(key string) {
	if key == "" || !c.d.Has(key) {
		return
	}
	if err := c.d.Erase(key); err != nil {
		fmt.Fprintf(os.Stderr, "hive: erase %s: %v\n", key, err)
	}
}

// List returns every published record, newest first.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	var out []Record
	for key := range c.d.KeysPrefix(recordsDir+"/", ctx.Done()) {
		rec, err := c.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hive: %s: %v\n", key, err)
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Published > out[j].Published })
	return out, nil
}

// HasDump reports whether the dump for a record was stored.
func (c *Client) HasDump(rec Record) bool {
	return rec.DumpKey != "" && c.d.Has(rec.DumpKey)
}

func (c *Client) read(key string) (Record, error) {
	var rec Record
	b, err := c.d.Read(key)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (c *Client) findByTitle(ctx context.Context, title string) (*Record, error) {
	recs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].Title == title {
			return &recs[i], nil
		}
	}
	return nil, nil
}

func recordKey(id string) string { return recordsDir + "/" + id }
func dumpKey(id string) string   { return dumpsDir + "/" + id }

func keyToPathTransform(key string) *diskv.PathKey {
	dir, name, ok := strings.Cut(key, "/")
	if !ok {
		return &diskv.PathKey{FileName: key}
	}
	ext := ".json"
	if dir == dumpsDir {
		ext = ".dump"
	}
	return &diskv.PathKey{Path: []string{dir}, FileName: name + ext}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(strings.TrimSuffix(pathKey.FileName, ".json"), ".dump")
	if len(pathKey.Path) == 0 {
		return name
	}
	return strings.Join(pathKey.Path, "/") + "/" + name
}

// ctxReader stops a stream once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}
