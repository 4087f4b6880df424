package devicesim

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"
)

// RecordingHeader is the column layout of recording files.
var RecordingHeader = []string{
	"Date",
	"Heidenhain Ax", "Heidenhain Ay", "Heidenhain Az",
	"Load Cell Fx", "Load Cell Fy", "Load Cell Fz",
	"Load Cell Tx", "Load Cell Ty", "Load Cell Tz",
}

// RecordingFilename names the file opened by a connect at t.
func RecordingFilename(t time.Time) string {
	return "netbox-data-" + t.Format("02-01-2006-15-04") + ".csv"
}

// Recorder appends samples to ';'-delimited CSV files under a directory.
type Recorder struct {
	mu   sync.Mutex
	dir  string
	file *os.File
	w    *csv.Writer
	rows int64
}

// NewRecorder creates a recorder writing into dir.
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Open closes any current file and opens name for appending. The header is
// written only when the file is new.
func (r *Recorder) Open(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(r.dir, name)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening recording %s: %w", name, err)
	}

	w := csv.NewWriter(f)
	w.Comma = ';'
	if fresh {
		if err := w.Write(RecordingHeader); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing header: %w", err)
		}
	}

	r.file = f
	r.w = w
	return nil
}

// Append writes one sample row and flushes it.
func (r *Recorder) Append(at time.Time, s model.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return fmt.Errorf("recording not open")
	}

	row := []string{
		at.Format("02-01-2006-15:04:05"),
		formatFloat(s.Ax), formatFloat(s.Ay), formatFloat(s.Az),
		formatFloat(s.Fx), formatFloat(s.Fy), formatFloat(s.Fz),
		formatFloat(s.Tx), formatFloat(s.Ty), formatFloat(s.Tz),
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("flushing row: %w", err)
	}
	r.rows++
	return nil
}

// Rows returns how many sample rows were written since start.
func (r *Recorder) Rows() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

// Close flushes and closes the current file, if any.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *Recorder) closeLocked() error {
	if r.file == nil {
		return nil
	}
	r.w.Flush()
	flushErr := r.w.Error()
	closeErr := r.file.Close()
	r.file = nil
	r.w = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
