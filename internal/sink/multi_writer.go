package sink

import "tzvalidate/internal/sample"

// MultiWriter fans zones out to multiple writers.
type MultiWriter struct {
	writers []ZoneWriter
}

// NewMultiWriter creates a new MultiWriter. Nil writers are dropped.
func NewMultiWriter(ws ...ZoneWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Len returns the number of writers.
func (mw *MultiWriter) Len() int { return len(mw.writers) }

// WriteZone sends the zone to all writers, stopping at the first error.
func (mw *MultiWriter) WriteZone(runID, zone string, items []sample.Item) error {
	for _, w := range mw.writers {
		if err := w.WriteZone(runID, zone, items); err != nil {
			return err
		}
	}
	return nil
}
