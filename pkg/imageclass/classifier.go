package imageclass

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/taxonomy"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// SafeLabel is the one class that maps to a safe verdict; every other
// predicted class flags the image.
const SafeLabel = "safe"

// ErrUnavailable marks the local classification capability as absent for the
// rest of the process lifetime. Callers fail open on it.
var ErrUnavailable = errors.New("local image classification unavailable")

// Classifier wraps the local classification capability. The model artifact
// loads at most once per process; a failed load is permanent and every later
// call short-circuits without retrying.
type Classifier struct {
	logger *logrus.Logger
	path   string

	once    sync.Once
	model   *model
	loadErr error
}

func NewClassifier(modelPath string, logger *logrus.Logger) *Classifier {
	return &Classifier{
		logger: logger,
		path:   modelPath,
	}
}

// Classify decodes, preprocesses and classifies one image. It returns
// ErrUnavailable when the capability never loaded, or a decode error for
// payloads that are not images; both are for the caller to map.
func (c *Classifier) Classify(data []byte) (*verdict.Verdict, error) {
	c.once.Do(c.load)
	if c.loadErr != nil {
		return nil, ErrUnavailable
	}

	x, err := c.preprocess(data)
	if err != nil {
		return nil, err
	}

	probs := c.model.predict(x)

	predicted := ""
	best := -1.0
	for label, p := range probs {
		if p > best {
			best = p
			predicted = label
		}
	}

	return buildVerdict(predicted, best, probs), nil
}

func (c *Classifier) load() {
	m, err := loadModel(c.path)
	if err != nil {
		c.loadErr = err
		c.logger.WithError(err).WithField("model_path", c.path).
			Warn("local image classification disabled for this process")
		return
	}
	c.model = m
	c.logger.WithField("model_path", c.path).Info("local image classification model loaded")
}

// preprocess decodes the bytes, resizes to the model's declared input
// dimensions when they differ (Catmull-Rom, to keep quality), and flattens
// to a normalized RGB vector in the model's expected numeric range.
func (c *Classifier) preprocess(data []byte) ([]float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := c.model.spec.InputWidth, c.model.spec.InputHeight
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	}

	scale := c.model.spec.Scale
	x := make([]float64, w*h*3)
	i := 0
	for y := 0; y < h; y++ {
		for px := 0; px < w; px++ {
			r, g, b, _ := rgba.At(px, y).RGBA()
			x[i] = float64(r>>8) / scale
			x[i+1] = float64(g>>8) / scale
			x[i+2] = float64(b>>8) / scale
			i += 3
		}
	}
	return x, nil
}

func buildVerdict(predicted string, p float64, probs map[string]float64) *verdict.Verdict {
	confidence := verdict.ClampConfidence(int(math.Round(p * 100)))

	if predicted == SafeLabel {
		return &verdict.Verdict{
			Safe:          true,
			Title:         "Image is Safe",
			Reason:        "The image was classified as safe.",
			WhatToDo:      "No action needed.",
			Category:      "",
			Confidence:    confidence,
			Class:         predicted,
			Probabilities: probs,
		}
	}

	meta := taxonomy.Lookup(taxonomy.ExplicitContent)
	return &verdict.Verdict{
		Safe:          false,
		Title:         meta.Title,
		Reason:        fmt.Sprintf("The image was classified as %q.", predicted),
		WhatToDo:      meta.Guidance,
		Category:      taxonomy.ExplicitContent,
		Confidence:    confidence,
		Class:         predicted,
		Probabilities: probs,
	}
}
