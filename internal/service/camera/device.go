// Package camera reads frames from a local capture device.
package camera

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"camstation/internal/config"
	"camstation/internal/logger"

	"gocv.io/x/gocv"
)

// ErrNoFrame is returned when the device delivers no usable frame.
var ErrNoFrame = errors.New("camera returned no frame")

// Device is a frame source backed by an OpenCV VideoCapture.
type Device struct {
	webcam *gocv.VideoCapture
	mat    gocv.Mat
	flip   bool
	mutex  sync.Mutex
	logger *logger.Logger
}

// Open opens the configured device. CameraDevice is the OpenCV device index.
func Open(cfg *config.Config, logger *logger.Logger) (*Device, error) {
	webcam, err := gocv.OpenVideoCapture(cfg.CameraDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", cfg.CameraDevice, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("camera %d is not available", cfg.CameraDevice)
	}

	logger.Info("Camera %d opened (mirror: %t)", cfg.CameraDevice, cfg.CameraFlip)
	return &Device{
		webcam: webcam,
		mat:    gocv.NewMat(),
		flip:   cfg.CameraFlip,
		logger: logger,
	}, nil
}

// Read grabs the next frame, mirrored horizontally when configured.
func (d *Device) Read() (image.Image, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if ok := d.webcam.Read(&d.mat); !ok || d.mat.Empty() {
		return nil, ErrNoFrame
	}

	if d.flip {
		if err := gocv.Flip(d.mat, &d.mat, 1); err != nil {
			return nil, fmt.Errorf("failed to flip frame: %w", err)
		}
	}

	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}

// Close releases the device.
func (d *Device) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.mat.Close()
	return d.webcam.Close()
}
