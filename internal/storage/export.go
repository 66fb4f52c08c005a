package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/wcsim/internal/wilsoncowan"
)

// ExportData is the self-contained JSON form of a run. Rates[i] is the series
// of population i.
type ExportData struct {
	RunMetadata
	Samples int         `json:"samples"`
	Times   []float64   `json:"times"`
	Rates   [][]float64 `json:"rates"`
}

// ExportJSON writes meta and the full trajectory to w. Non-finite samples
// cannot be represented in JSON and make the encoder fail.
func ExportJSON(w io.Writer, meta RunMetadata, tr *wilsoncowan.Trajectory) error {
	data := ExportData{
		RunMetadata: meta,
		Samples:     len(tr.T),
		Times:       tr.T,
		Rates:       make([][]float64, tr.Populations()),
	}
	for i := range data.Rates {
		data.Rates[i] = tr.Population(i)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
