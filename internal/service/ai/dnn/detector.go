// Package dnn implements ai.Inference with OpenCV deep neural networks.
package dnn

import (
	"fmt"
	"image"
	"os"
	"sync"

	"camstation/internal/config"
	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/service/ai"

	"gocv.io/x/gocv"
)

const (
	FaceModel    = "opencv_face_detector_uint8.pb"
	FaceConfig   = "opencv_face_detector.pbtxt"
	AgeModel     = "age_net.caffemodel"
	AgeConfig    = "age_deploy.prototxt"
	GenderModel  = "gender_net.caffemodel"
	GenderConfig = "gender_deploy.prototxt"
)

var (
	// Input size shared by the detector and both classifiers.
	blobSize = image.Pt(227, 227)
	// Mean subtracted from detector input (BGR).
	faceMean = gocv.NewScalar(104, 117, 123, 0)
	// Mean of the age/gender training set (BGR).
	classifierMean = gocv.NewScalar(78.4263377603, 87.7689143744, 114.895847746, 0)
)

// Service runs the face detector and the age and gender classifiers.
type Service struct {
	faceNet   gocv.Net
	ageNet    gocv.Net
	genderNet gocv.Net
	mutex     sync.Mutex
	logger    *logger.Logger
}

var _ ai.Inference = (*Service)(nil)

// NewService loads the three networks from the configured model directory.
func NewService(cfg *config.Config, logger *logger.Logger) (*Service, error) {
	s := &Service{logger: logger}

	var err error
	if s.faceNet, err = loadNet(cfg.ModelPath(FaceModel), cfg.ModelPath(FaceConfig)); err != nil {
		return nil, fmt.Errorf("face detector: %w", err)
	}
	if s.ageNet, err = loadNet(cfg.ModelPath(AgeModel), cfg.ModelPath(AgeConfig)); err != nil {
		s.faceNet.Close()
		return nil, fmt.Errorf("age classifier: %w", err)
	}
	if s.genderNet, err = loadNet(cfg.ModelPath(GenderModel), cfg.ModelPath(GenderConfig)); err != nil {
		s.faceNet.Close()
		s.ageNet.Close()
		return nil, fmt.Errorf("gender classifier: %w", err)
	}

	s.logger.Info("Face, age and gender networks initialized from %s", cfg.ModelDirectory)
	return s, nil
}

// loadNet reads a network and sets backend/target preferences.
func loadNet(modelPath, configPath string) (gocv.Net, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return gocv.Net{}, fmt.Errorf("model file not found: %s", modelPath)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return gocv.Net{}, fmt.Errorf("config file not found: %s", configPath)
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return gocv.Net{}, fmt.Errorf("failed to load network %s", modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return gocv.Net{}, fmt.Errorf("failed to set preferable backend or target")
	}
	return net, nil
}

// DetectFaces runs the SSD face detector and returns every candidate box in
// frame coordinates, clamped to the frame.
func (s *Service) DetectFaces(frame image.Image) ([]model.Detection, error) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("frame is empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	blob := gocv.BlobFromImage(mat, 1.0, blobSize, faceMean, false, false)
	defer blob.Close()

	s.faceNet.SetInput(blob, "")
	output := s.faceNet.Forward("")
	defer output.Close()

	values, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read detector output: %w", err)
	}
	return ai.DecodeDetections(values, frame.Bounds()), nil
}

// ClassifyAge returns the most likely age bracket of a face crop.
func (s *Service) ClassifyAge(face image.Image) (model.AgeBracket, error) {
	var age model.AgeBracket
	err := s.classify(&s.ageNet, face, func(scores []float32) (err error) {
		age, err = ai.AgeFromScores(scores)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to classify age: %w", err)
	}
	return age, nil
}

// ClassifyGender returns the most likely gender of a face crop.
func (s *Service) ClassifyGender(face image.Image) (model.Gender, error) {
	var gender model.Gender
	err := s.classify(&s.genderNet, face, func(scores []float32) (err error) {
		gender, err = ai.GenderFromScores(scores)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to classify gender: %w", err)
	}
	return gender, nil
}

// classify runs net on face and hands its score vector to decode while the
// output is still alive.
func (s *Service) classify(net *gocv.Net, face image.Image, decode func([]float32) error) error {
	mat, err := gocv.ImageToMatRGB(face)
	if err != nil {
		return fmt.Errorf("failed to convert face crop: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return fmt.Errorf("face crop is empty")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	blob := gocv.BlobFromImage(mat, 1.0, blobSize, classifierMean, false, false)
	defer blob.Close()

	net.SetInput(blob, "")
	output := net.Forward("")
	defer output.Close()

	scores, err := output.DataPtrFloat32()
	if err != nil {
		return fmt.Errorf("failed to read classifier output: %w", err)
	}
	return decode(scores)
}

// Close releases the networks.
func (s *Service) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.faceNet.Close()
	s.ageNet.Close()
	s.genderNet.Close()
	return nil
}
