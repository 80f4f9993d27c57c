package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/biovault/biovault/internal/store"
)

// readManifest loads the manifest, treating a missing, empty, or corrupt
// file as "no entries" so the caller falls back to scanning.
func (c *Catalog) readManifest() []store.Metadata {
	data, err := os.ReadFile(filepath.Join(c.dataDir, manifestName))
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("read manifest", zap.Error(err))
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []store.Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("decode manifest", zap.Error(err))
		return nil
	}
	return entries
}

// writeManifest replaces the manifest as a whole (read-modify-write-all
// on every catalog mutation).
func (c *Catalog) writeManifest(entries []store.Metadata) error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return err
	}
	if entries == nil {
		entries = []store.Metadata{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dataDir, manifestName), data, 0o644)
}
