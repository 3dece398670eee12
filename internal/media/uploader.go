package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc reports bytes sent for the file at index
type ProgressFunc func(index int, sent, total int64)

// Slot is the outcome of one file of a batch
type Slot struct {
	Name  string     `json:"name"`
	URL   string     `json:"url,omitempty"`
	Sent  int64      `json:"sent"`
	Total int64      `json:"total"`
	Err   *FileError `json:"error,omitempty"`
}

// Uploader sends a batch of images to the object store in parallel
type Uploader struct {
	store       ObjectStore
	maxParallel int
	log         *logger.Logger
}

// NewUploader creates an Uploader. maxParallel <= 0 uploads every file at once.
func NewUploader(store ObjectStore, maxParallel int, log *logger.Logger) *Uploader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Uploader{store: store, maxParallel: maxParallel, log: log}
}

// Upload sends every image and waits for all of them to settle. A failed file
// keeps its slot marked and does not discard the others; the returned error is
// the first failure.
func (u *Uploader) Upload(ctx context.Context, activityID string, images []*Image, progress ProgressFunc) ([]Slot, error) {
	ctx, span := telemetry.StartSpan(ctx, "media.upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("activity_id", activityID),
		attribute.Int("files", len(images)),
	)

	// every key shares the activity segment, so a bad id fails the batch up front
	if _, err := ObjectKey(activityID, "bin"); err != nil {
		span.RecordError(err)
		return nil, err
	}

	slots := make([]Slot, len(images))
	var g errgroup.Group
	if u.maxParallel > 0 {
		g.SetLimit(u.maxParallel)
	}

	for i, img := range images {
		slots[i] = Slot{Name: img.Name, Total: img.Size}
		g.Go(func() error {
			pr := &progressReader{r: bytes.NewReader(img.data), total: img.Size, index: i, fn: progress}
			key, _ := ObjectKey(activityID, img.Ext)
			url, err := u.store.Put(ctx, key, img.ContentType, pr, img.Size)
			slots[i].Sent = pr.sent.Load()
			if err != nil {
				stage := StageUpload
				if errors.Is(err, ErrNetwork) {
					stage = StageNetwork
				}
				ferr := &FileError{Name: img.Name, Stage: stage, Message: err.Error()}
				slots[i].Err = ferr
				u.log.Warn("Image upload failed",
					zap.String("activity_id", activityID),
					zap.String("file", img.Name),
					zap.String("stage", stage),
					zap.Error(err),
				)
				return ferr
			}
			slots[i].URL = url
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		span.RecordError(err)
	}
	return slots, err
}

type progressReader struct {
	r     io.Reader
	sent  atomic.Int64
	total int64
	index int
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		sent := p.sent.Add(int64(n))
		if p.fn != nil {
			p.fn(p.index, sent, p.total)
		}
	}
	return n, err
}
