// Package catalog tracks the variant stores on a device. A JSON manifest
// gives O(1) listing; the store files themselves are ground truth, and a
// filesystem scan rebuilds the manifest when it is missing or stale.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/biovault/biovault/internal/store"
)

const (
	manifestName = "manifest.json"
	storesDir    = "stores"
)

// Catalog lists, registers, and deletes variant stores under a data
// directory.
type Catalog struct {
	dataDir string
	logger  *zap.Logger
}

// New creates a catalog rooted at dataDir.
func New(dataDir string) *Catalog {
	return &Catalog{dataDir: dataDir, logger: zap.NewNop()}
}

// SetLogger sets the logger for scan diagnostics.
func (c *Catalog) SetLogger(l *zap.Logger) {
	c.logger = l
}

// StoresDir returns the directory holding store files.
func (c *Catalog) StoresDir() string {
	return filepath.Join(c.dataDir, storesDir)
}

// StorePath returns the file path for a store id.
func (c *Catalog) StorePath(storeID string) string {
	return filepath.Join(c.StoresDir(), storeID+store.FileExt)
}

// List returns summaries for every store on the device, newest first.
// The manifest is consulted first; if it is missing or empty the stores
// directory is scanned instead. Every entry is refreshed from its store's
// metadata row, entries whose store cannot be opened are dropped, and the
// manifest is rewritten to the deduplicated result. Listing never fails
// on a bad individual store.
func (c *Catalog) List() ([]store.Metadata, error) {
	entries := c.readManifest()
	if len(entries) == 0 {
		entries = c.scanStores()
	}

	seen := make(map[string]bool, len(entries))
	refreshed := make([]store.Metadata, 0, len(entries))
	for _, e := range entries {
		if e.StoreID == "" || seen[e.StoreID] {
			continue
		}
		meta, ok := c.readStoreMetadata(c.StorePath(e.StoreID))
		if !ok {
			continue
		}
		seen[e.StoreID] = true
		refreshed = append(refreshed, meta)
	}

	sort.SliceStable(refreshed, func(i, j int) bool {
		return refreshed[i].IngestedAt.After(refreshed[j].IngestedAt)
	})

	if err := c.writeManifest(refreshed); err != nil {
		// The manifest is a cache; listing still succeeded.
		c.logger.Warn("rewrite manifest", zap.Error(err))
	}
	return refreshed, nil
}

// Register adds a newly built store to the manifest. Called by the
// builder after the store file is in place.
func (c *Catalog) Register(meta store.Metadata) error {
	entries := c.readManifest()
	deduped := make([]store.Metadata, 0, len(entries)+1)
	deduped = append(deduped, meta)
	for _, e := range entries {
		if e.StoreID != meta.StoreID {
			deduped = append(deduped, e)
		}
	}
	return c.writeManifest(deduped)
}

// Delete removes a store file and its manifest entry. Deleting an absent
// store id is not an error.
func (c *Catalog) Delete(storeID string) error {
	if err := os.Remove(c.StorePath(storeID)); err != nil && !os.IsNotExist(err) {
		return err
	}

	entries := c.readManifest()
	kept := entries[:0]
	for _, e := range entries {
		if e.StoreID != storeID {
			kept = append(kept, e)
		}
	}
	return c.writeManifest(kept)
}

// scanStores is the fallback recovery path: walk the stores directory and
// reconstruct manifest entries from the store files themselves. Files
// that cannot be opened or read are skipped.
func (c *Catalog) scanStores() []store.Metadata {
	dirEntries, err := os.ReadDir(c.StoresDir())
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("scan stores directory", zap.Error(err))
		}
		return nil
	}

	var found []store.Metadata
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), store.FileExt) {
			continue
		}
		meta, ok := c.readStoreMetadata(filepath.Join(c.StoresDir(), de.Name()))
		if !ok {
			continue
		}
		found = append(found, meta)
	}
	return found
}

// readStoreMetadata opens a store file and reads its metadata row.
// Failures are logged and reported as not-ok, never propagated: a corrupt
// store must not break listing.
func (c *Catalog) readStoreMetadata(path string) (store.Metadata, bool) {
	if _, err := os.Stat(path); err != nil {
		return store.Metadata{}, false
	}

	s, err := store.Open(path)
	if err != nil {
		c.logger.Warn("open store during scan", zap.String("path", path), zap.Error(err))
		return store.Metadata{}, false
	}
	defer s.Close()

	meta, err := s.Metadata()
	if err != nil {
		c.logger.Warn("read store metadata during scan", zap.String("path", path), zap.Error(err))
		return store.Metadata{}, false
	}
	return meta, true
}
