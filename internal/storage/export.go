package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/framestream/internal/sim"
)

type FrameRecord struct {
	Frame  int   `json:"frame"`
	Bytes  int   `json:"bytes"`
	DrawUs int64 `json:"draw_us"`
	EmitUs int64 `json:"emit_us"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []FrameRecord `json:"frames"`
}

func NewExportData(meta RunMetadata, stats []sim.FrameStat) ExportData {
	data := ExportData{
		Run:    meta,
		Frames: make([]FrameRecord, len(stats)),
	}
	for i, st := range stats {
		data.Frames[i] = FrameRecord{
			Frame:  st.Frame,
			Bytes:  st.Bytes,
			DrawUs: st.Draw.Microseconds(),
			EmitUs: st.Emit.Microseconds(),
		}
	}
	return data
}

// WriteJSON writes a run and its frame statistics as indented JSON.
func WriteJSON(w io.Writer, meta RunMetadata, stats []sim.FrameStat) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, stats))
}

func ExportJSON(path string, meta RunMetadata, stats []sim.FrameStat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, meta, stats); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
