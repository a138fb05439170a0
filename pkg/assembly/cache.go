package assembly

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-intake/pkg/pathway"
)

// TemplateSource fetches raw template bytes by id. Implementations may hit
// disk, an embedded filesystem, or remote storage.
type TemplateSource interface {
	Load(ctx context.Context, id string) ([]byte, error)
}

// FSSource loads templates from a filesystem directory. Ids without an
// extension are tried with .pdf and .docx appended, matching how template
// ids are written in pathway configs.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// Load reads the template file for id.
func (s FSSource) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates := []string{id, id + ".pdf", id + ".docx"}
	for _, name := range candidates {
		full := name
		if s.Dir != "" {
			full = path.Join(s.Dir, name)
		}
		data, err := fs.ReadFile(s.FS, full)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("assembly: template %q not found", id)
}

// TemplateCache memoises template bytes for the lifetime of a wizard
// session. It is constructor-injected rather than a process-wide singleton
// so tests get a fresh cache each run. The cache is append-only during
// normal operation: entries are keyed by template id, writes are
// idempotent, and the only invalidation is a full Clear.
type TemplateCache struct {
	mu        sync.RWMutex
	source    TemplateSource
	templates map[string][]byte
	maxSize   int64
}

// NewTemplateCache builds a cache over the given source. maxSize bounds a
// single template; zero applies the pathway document ceiling.
func NewTemplateCache(source TemplateSource, maxSize int64) *TemplateCache {
	if maxSize <= 0 {
		maxSize = pathway.MaxDocumentSize
	}
	return &TemplateCache{
		source:    source,
		templates: make(map[string][]byte),
		maxSize:   maxSize,
	}
}

// GetOrLoad returns the cached bytes for id, fetching through the source on
// first use.
func (c *TemplateCache) GetOrLoad(ctx context.Context, id string) ([]byte, error) {
	c.mu.RLock()
	if data, ok := c.templates[id]; ok {
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	if c.source == nil {
		return nil, fmt.Errorf("assembly: no template source configured")
	}
	data, err := c.source.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("assembly: template %q exceeds size limit (%dMB)", id, c.maxSize/1024/1024)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.templates[id]; ok {
		return existing, nil
	}
	c.templates[id] = data
	return data, nil
}

// Preload warms the cache for the given template ids concurrently.
func (c *TemplateCache) Preload(ctx context.Context, ids ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			_, err := c.GetOrLoad(ctx, id)
			return err
		})
	}
	return g.Wait()
}

// Clear wipes every cached template. There is no partial invalidation.
func (c *TemplateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = make(map[string][]byte)
}

// Len reports how many templates are cached.
func (c *TemplateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
