package output

import (
	"encoding/json"
	"io"

	"github.com/biovault/biovault/internal/analyze"
)

// JSONWriter writes an analysis result as a single JSON document, the
// shape the presentation layer consumes.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSON result writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteResult encodes the whole analysis result.
func (jw *JSONWriter) WriteResult(r *analyze.Result) error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
