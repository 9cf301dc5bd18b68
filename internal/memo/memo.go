// Package memo holds the session-lifetime memoization caches: parsed uploads
// keyed by content hash and export bytes keyed by table fingerprint. Entries
// are never invalidated; the caches die with the process.
package memo

import (
	"log"
	"sync"

	"datalens/domain/core"
	"datalens/domain/summary"
	"datalens/domain/table"
	"datalens/ports"

	"golang.org/x/sync/singleflight"
)

// LoadCache memoizes Loader results per distinct upload so repeated UI
// re-renders do not re-parse. Concurrent identical uploads are collapsed into
// a single parse.
type LoadCache struct {
	loader ports.Loader

	mu     sync.RWMutex
	tables map[core.ContentHash]*table.Table
	group  singleflight.Group
}

// NewLoadCache creates a load cache around the given loader.
func NewLoadCache(loader ports.Loader) *LoadCache {
	return &LoadCache{
		loader: loader,
		tables: make(map[core.ContentHash]*table.Table),
	}
}

// Load parses the upload, returning the cached table when the same bytes
// were seen before. Failed parses are not cached; a retry with the same
// broken file fails again.
func (c *LoadCache) Load(data []byte) (*table.Table, error) {
	key := core.NewContentHash(data)

	c.mu.RLock()
	if t, ok := c.tables[key]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		t, err := c.loader.Load(data)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[key] = t
		c.mu.Unlock()
		log.Printf("[LoadCache] cached parsed upload %s (%d rows)", key.String()[:8], t.NumRows())
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*table.Table), nil
}

// Len returns the number of cached uploads.
func (c *LoadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// ExportCache memoizes spreadsheet-bytes conversions keyed by table
// fingerprint, so re-downloading an unchanged view costs nothing.
type ExportCache struct {
	exporter ports.Exporter

	mu    sync.RWMutex
	bytes map[core.TableFingerprint][]byte
}

// NewExportCache creates an export cache around the given exporter.
func NewExportCache(exporter ports.Exporter) *ExportCache {
	return &ExportCache{
		exporter: exporter,
		bytes:    make(map[core.TableFingerprint][]byte),
	}
}

// TableBytes converts the table to XLSX bytes, reusing a prior conversion of
// an identical table.
func (c *ExportCache) TableBytes(t *table.Table) ([]byte, error) {
	key := t.Fingerprint()

	c.mu.RLock()
	if b, ok := c.bytes[key]; ok {
		c.mu.RUnlock()
		return b, nil
	}
	c.mu.RUnlock()

	b, err := c.exporter.TableBytes(t)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bytes[key] = b
	c.mu.Unlock()
	return b, nil
}

// DistributionBytes converts a distribution to XLSX bytes. Distributions are
// tiny; conversions are not memoized.
func (c *ExportCache) DistributionBytes(d summary.Distribution) ([]byte, error) {
	return c.exporter.DistributionBytes(d)
}
