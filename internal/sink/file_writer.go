package sink

import (
	"encoding/json"
	"os"

	"tzvalidate/internal/sample"
)

// FileWriter writes one JSON record per item to a JSONL file.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates (or truncates) path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteZone logs every item of the zone.
func (f *FileWriter) WriteZone(runID, zone string, items []sample.Item) error {
	for _, it := range items {
		if err := f.enc.Encode(NewRecord(runID, zone, it)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (f *FileWriter) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}
