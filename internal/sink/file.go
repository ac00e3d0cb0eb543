package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/ridesim/internal/models"
)

// File appends records as JSON lines to two files in a directory, one per
// record shape. File names carry a start timestamp so repeated runs never
// clobber each other.
type File struct {
	mu       sync.Mutex
	requests *os.File
	updates  *os.File
	reqEnc   *json.Encoder
	updEnc   *json.Encoder
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")
	reqFile, err := os.Create(filepath.Join(dir, "passenger_requests_"+stamp+".jsonl"))
	if err != nil {
		return nil, err
	}
	updFile, err := os.Create(filepath.Join(dir, "driver_updates_"+stamp+".jsonl"))
	if err != nil {
		reqFile.Close()
		return nil, err
	}
	return &File{
		requests: reqFile,
		updates:  updFile,
		reqEnc:   json.NewEncoder(reqFile),
		updEnc:   json.NewEncoder(updFile),
	}, nil
}

func (f *File) PublishRequest(_ context.Context, rec models.PassengerRequestRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqEnc.Encode(rec)
}

func (f *File) PublishDriverUpdate(_ context.Context, rec models.DriverUpdateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updEnc.Encode(rec)
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.requests.Close()
	if e := f.updates.Close(); err == nil {
		err = e
	}
	return err
}
