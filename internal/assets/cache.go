// Package assets caches the decoded status icons found in one directory.
package assets

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/garrettladley/hrcounter/internal/uiloop"
	"github.com/garrettladley/hrcounter/internal/xerrors"
	"github.com/garrettladley/hrcounter/internal/xslog"
)

// Extensions lists the accepted image extensions, compared case-insensitively.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif"}

const refreshKey = "refresh"

var errNoImage = errors.New("decoder returned no image")

// DecodeFunc turns an image file into pixels. It runs off the UI loop.
type DecodeFunc func(r io.Reader) (image.Image, error)

func decodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

type Cache struct {
	dir     string
	loop    *uiloop.Loop
	logger  *slog.Logger
	decode  DecodeFunc
	workers int

	current atomic.Pointer[generation]
	nextID  atomic.Uint64
	group   singleflight.Group

	scans atomic.Uint64
	// committedScan is owned by the UI loop.
	committedScan uint64

	initOnce sync.Once
	ready    chan struct{}
}

type Option func(*Cache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithDecoder(fn DecodeFunc) Option {
	return func(c *Cache) { c.decode = fn }
}

// WithWorkers bounds how many files decode at once.
func WithWorkers(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.workers = n
		}
	}
}

func New(dir string, loop *uiloop.Loop, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		loop:    loop,
		logger:  slog.Default(),
		decode:  decodeImage,
		workers: runtime.GOMAXPROCS(0),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.current.Store(&generation{icons: map[string]*Icon{}})
	return c
}

func (c *Cache) Dir() string { return c.dir }

// Generation is the id of the committed generation; 0 before the first load.
func (c *Cache) Generation() uint64 { return c.current.Load().id }

// Ready is closed once the load started by Initialize has finished.
func (c *Cache) Ready() <-chan struct{} { return c.ready }

// Initialize creates the directory if needed and starts the first load in
// the background.
func (c *Cache) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create icon directory: %w", err)
	}

	c.initOnce.Do(func() {
		go func() {
			defer close(c.ready)
			if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "failed to load icons", xslog.Dir(c.dir), xslog.Error(err))
			}
		}()
	})
	return nil
}

// Lookup returns the icon named name from the committed generation.
func (c *Cache) Lookup(name string) (*Icon, bool) {
	icon, ok := c.current.Load().icons[name]
	return icon, ok
}

// Refresh rescans the directory and swaps in a new generation once every
// file has been decoded. Readers see the old generation until the swap.
// Concurrent calls made off the UI loop share one scan. A call made on the
// loop scans inline and holds the loop until it commits. A scan never
// replaces the result of a scan that started after it.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.loop.OnLoop(ctx) {
		return c.refresh(ctx)
	}
	_, err, _ := c.group.Do(refreshKey, func() (any, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

// ListWithHandles snapshots the committed generation ordered by name,
// refreshing first when asked. ctx must come from the UI loop.
func (c *Cache) ListWithHandles(ctx context.Context, refresh bool) ([]Entry, error) {
	c.loop.MustOnLoop(ctx, "assets.ListWithHandles")

	if refresh {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	gen := c.current.Load()
	entries := make([]Entry, 0, len(gen.icons))
	for name, icon := range gen.icons {
		entries = append(entries, Entry{Name: name, Icon: icon})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Name, b.Name) })
	return entries, nil
}

// Close releases the committed generation on the UI loop, or inline when the
// loop has already stopped.
func (c *Cache) Close(ctx context.Context) error {
	release := func(context.Context) {
		old := c.current.Swap(&generation{id: c.nextID.Add(1), icons: map[string]*Icon{}})
		old.release()
	}
	err := c.loop.Do(ctx, release)
	if errors.Is(err, uiloop.ErrClosed) {
		release(ctx)
		return nil
	}
	return err
}

type decoded struct {
	name string
	img  image.Image
}

func (c *Cache) refresh(ctx context.Context) error {
	scan := c.scans.Add(1)
	c.logger.DebugContext(ctx, "loading icons", xslog.Dir(c.dir))

	images, err := c.load(ctx)
	if err != nil {
		return err
	}

	return c.loop.Do(ctx, func(ctx context.Context) {
		c.commit(ctx, scan, images)
	})
}

// load decodes every accepted file concurrently. Files that fail to decode
// are logged and skipped.
func (c *Cache) load(ctx context.Context) ([]decoded, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !accepted(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	results := make([]decoded, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := c.decodeFile(name)
			if err != nil {
				c.logger.WarnContext(gctx, "skipping icon",
					xslog.File(name),
					xslog.Error(xerrors.AssetDecode(
						xerrors.WithSource(name),
						xerrors.WithMessage("failed to decode image"),
						xerrors.WithCause(err),
					)),
				)
				return nil
			}
			results[i] = decoded{name: name, img: img}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, r := range results {
		if r.img != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Cache) decodeFile(name string) (image.Image, error) {
	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := c.decode(f)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errNoImage
	}
	return img, nil
}

// commit runs on the UI loop: it builds handles, publishes the generation in
// one atomic store and releases the previous one. Results of a scan older
// than the committed one are dropped.
func (c *Cache) commit(ctx context.Context, scan uint64, images []decoded) {
	c.loop.MustOnLoop(ctx, "assets.commit")

	if scan < c.committedScan {
		c.logger.DebugContext(ctx, "discarding outdated icon scan", xslog.Generation(scan))
		return
	}
	c.committedScan = scan

	gen := &generation{
		id:    c.nextID.Add(1),
		icons: make(map[string]*Icon, len(images)),
	}
	for _, d := range images {
		gen.icons[d.name] = &Icon{name: d.name, img: d.img, generation: gen.id}
	}

	old := c.current.Swap(gen)
	old.release()

	c.logger.DebugContext(ctx, "loaded icons",
		xslog.Count(len(gen.icons)),
		xslog.Generation(gen.id),
	)
}

func accepted(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}
