// Package capture runs the per-frame pipeline: detect, classify, annotate the
// live view and, when the gate allows, persist a redacted snapshot with one
// log record per face.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"camstation/internal/config"
	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/repository"
	"camstation/internal/service/ai"
	"camstation/internal/service/redact"

	"github.com/benbjohnson/clock"
	"github.com/disintegration/imaging"
)

// missLogEvery limits how often consecutive camera read failures are logged.
const missLogEvery = 500

// FrameSource delivers camera frames.
type FrameSource interface {
	Read() (image.Image, error)
}

// FramePublisher receives the annotated live frame of every tick.
type FramePublisher interface {
	PublishFrame(frame image.Image)
}

// ImageWriter persists snapshot images.
type ImageWriter interface {
	Save(img image.Image, index int, at time.Time) (string, error)
	Delete(name string) error
}

// Loop is the frame processing loop. It is the only writer of the session log.
type Loop struct {
	source    FrameSource
	inference ai.Inference
	images    ImageWriter
	store     repository.SessionLogStore
	publisher FramePublisher
	gate      *Gate
	redactor  *redact.Redactor
	clock     clock.Clock
	logger    *logger.Logger

	tickInterval time.Duration
	threshold    float64
	padding      int

	subscribersMu sync.RWMutex
	subscribers   []func(model.CaptureRecord)

	misses   int
	captured atomic.Int64
}

// NewLoop wires a loop. publisher may be nil when nobody watches the live view.
func NewLoop(source FrameSource, inference ai.Inference, images ImageWriter, store repository.SessionLogStore,
	publisher FramePublisher, gate *Gate, redactor *redact.Redactor, clk clock.Clock, cfg *config.Config, logger *logger.Logger) *Loop {
	return &Loop{
		source:       source,
		inference:    inference,
		images:       images,
		store:        store,
		publisher:    publisher,
		gate:         gate,
		redactor:     redactor,
		clock:        clk,
		logger:       logger,
		tickInterval: cfg.TickInterval,
		threshold:    cfg.ConfidenceThreshold,
		padding:      cfg.FacePadding,
	}
}

// OnAppend registers fn to be called with every record appended to the log.
// Callbacks run on the loop goroutine and must not block.
func (l *Loop) OnAppend(fn func(model.CaptureRecord)) {
	l.subscribersMu.Lock()
	defer l.subscribersMu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Captured returns how many records this loop has appended since start.
func (l *Loop) Captured() int64 {
	return l.captured.Load()
}

// Run ticks until ctx is cancelled. A failed tick is logged and the loop
// carries on with the next one.
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clock.Ticker(l.tickInterval)
	defer ticker.Stop()

	l.logger.Info("Frame loop started - tick %s, capture every %s", l.tickInterval, l.gate.Interval())

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Frame loop stopped after %d capture(s)", l.Captured())
			return nil
		case <-ticker.C:
			if err := l.Tick(ctx); err != nil {
				l.logger.Error("Frame processing failed: %v", err)
			}
		}
	}
}

// Tick processes one frame. A missing frame is not an error; inference
// failures and persistence failures are.
func (l *Loop) Tick(ctx context.Context) error {
	frame, err := l.source.Read()
	if err != nil {
		l.misses++
		if l.misses == 1 || l.misses%missLogEvery == 0 {
			l.logger.Warning("No frame from camera (%d in a row): %v", l.misses, err)
		}
		return nil
	}
	l.misses = 0

	faces, err := l.analyze(frame)
	if err != nil {
		return err
	}

	if l.publisher != nil {
		l.publisher.PublishFrame(Annotate(frame, faces))
	}

	if len(faces) == 0 {
		return nil
	}
	now := l.clock.Now()
	if !l.gate.Admit(now) {
		return nil
	}

	// Once started, a capture is finished even if shutdown begins.
	return l.capture(context.WithoutCancel(ctx), frame, faces, now)
}

// analyze detects faces above the confidence threshold and classifies each one.
func (l *Loop) analyze(frame image.Image) ([]model.DetectedFace, error) {
	detections, err := l.inference.DetectFaces(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}

	bounds := frame.Bounds()
	kept := ai.FilterByConfidence(detections, l.threshold)
	faces := make([]model.DetectedFace, 0, len(kept))
	for _, d := range kept {
		region := model.PadBox(d.Box, l.padding, bounds)
		if region.Empty() {
			continue
		}
		crop := imaging.Crop(frame, region)

		age, err := l.inference.ClassifyAge(crop)
		if err != nil {
			return nil, fmt.Errorf("failed to classify age: %w", err)
		}
		gender, err := l.inference.ClassifyGender(crop)
		if err != nil {
			return nil, fmt.Errorf("failed to classify gender: %w", err)
		}

		faces = append(faces, model.DetectedFace{
			Box:        d.Box,
			Confidence: d.Confidence,
			Age:        age,
			Gender:     gender,
		})
	}
	return faces, nil
}

// capture writes one redacted snapshot and one record per face. The image is
// always on disk before its record is appended.
func (l *Loop) capture(ctx context.Context, frame image.Image, faces []model.DetectedFace, now time.Time) error {
	boxes := make([]image.Rectangle, len(faces))
	for i, face := range faces {
		boxes[i] = face.Box
	}
	redacted := l.redactor.Redact(frame, boxes)

	var errs []error
	var appended []model.CaptureRecord
	for i, face := range faces {
		filename, err := l.images.Save(redacted, i, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("face %d: %w", i, err))
			continue
		}

		rec := model.NewCaptureRecord(now, face.Age, face.Gender, filename)
		if err := l.store.Append(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("face %d: failed to append record: %w", i, err))
			if rmErr := l.images.Delete(filename); rmErr != nil {
				l.logger.Error("Failed to remove unlogged image %s: %v", filename, rmErr)
			}
			continue
		}
		appended = append(appended, rec)
	}

	if len(appended) > 0 {
		l.gate.Advance(now)
		l.captured.Add(int64(len(appended)))
		l.logger.Info("Captured %d face(s) at %s", len(appended), now.Format(time.DateTime))
		l.notify(appended)
	}

	return errors.Join(errs...)
}

func (l *Loop) notify(records []model.CaptureRecord) {
	l.subscribersMu.RLock()
	defer l.subscribersMu.RUnlock()

	for _, rec := range records {
		for _, fn := range l.subscribers {
			fn(rec)
		}
	}
}
