package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/matzehuels/coral/pkg/coral"
)

type ndjsonLine struct {
	Index  int          `json:"index"`
	Points [][3]float64 `json:"points"`
}

// Flusher is implemented by writers that buffer, such as http.ResponseWriter.
type Flusher interface {
	Flush()
}

// WriteNDJSON writes one JSON object per strand to w, in iteration order.
// If w implements [Flusher], it is flushed after every line.
func WriteNDJSON(w io.Writer, strands iter.Seq[coral.Strand]) error {
	enc := json.NewEncoder(w)
	flusher, _ := w.(Flusher)

	i := 0
	for s := range strands {
		line := ndjsonLine{Index: i, Points: make([][3]float64, len(s))}
		for j, p := range s {
			line.Points[j] = [3]float64{p.X, p.Y, p.Z}
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encode strand %d: %w", i, err)
		}
		if flusher != nil {
			flusher.Flush()
		}
		i++
	}
	return nil
}
