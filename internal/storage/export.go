package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/wavesim/internal/experiment"
)

type ExportProbe struct {
	Name    string    `json:"name"`
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Times   []float64 `json:"times"`
	Samples []float64 `json:"samples"`
}

type ExportData struct {
	Name    string             `json:"name"`
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Frames  int                `json:"frames"`
	Time    float64            `json:"time"`
	Metrics map[string]float64 `json:"metrics"`
	Probes  []ExportProbe      `json:"probes"`
	// Field is the final field, row-major. Only filled in when requested.
	Field []float64 `json:"field,omitempty"`
}

// NewExportData flattens a result for JSON output.
func NewExportData(res *experiment.Result, withField bool) ExportData {
	data := ExportData{
		Name:    res.Name,
		Frames:  res.Frames,
		Time:    res.Time,
		Metrics: sanitize(res.Metrics),
		Probes:  make([]ExportProbe, len(res.Probes)),
	}
	if res.Field != nil {
		data.Width, data.Height = res.Field.Width, res.Field.Height
		if withField && res.Field.IsValid() {
			data.Field = res.Field.Data
		}
	}
	for i, p := range res.Probes {
		data.Probes[i] = ExportProbe{Name: p.Name, X: p.X, Y: p.Y, Times: p.Times, Samples: p.Samples}
	}
	return data
}

// Encode writes d as indented JSON.
func (d ExportData) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

func ExportJSON(w io.Writer, res *experiment.Result, withField bool) error {
	return NewExportData(res, withField).Encode(w)
}

func ExportJSONFile(path string, res *experiment.Result, withField bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(file, res, withField); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
