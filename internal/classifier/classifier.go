// Package classifier decides whether a job posting is a genuine internship.
//
// Three layers degrade gracefully: a rich ML sidecar model, a trained
// bag-of-words classifier, and a deterministic rule scorer. The layer mix
// is decided once at process start: if the sidecar is unreachable the
// classifier runs rule-based for the rest of its lifetime.
package classifier

import (
	"context"
	"sync"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/classifier/mlclient"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
)

// State is the classifier's initialization state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	// StateReady means the rich model and trained classifier are available.
	StateReady State = "ready"
	// StateDegraded means the rich model failed to initialize; only the
	// rule-based path runs for the remainder of the process lifetime.
	StateDegraded State = "degraded"
)

// RichModel is the rich contextual text classification layer. Satisfied by
// *mlclient.Client.
type RichModel interface {
	Classify(ctx context.Context, title, body string) (*mlclient.ClassifyResponse, error)
	Health(ctx context.Context) error
}

// Weights holds the ensemble combination weights and decision threshold.
// These are empirical values; treat them as tunables, not invariants.
type Weights struct {
	RichModel       float64        `yaml:"rich_model"`
	Trained         float64        `yaml:"trained"`
	Feature         float64        `yaml:"feature"`
	TrainedPositive float64        `yaml:"trained_positive"`
	TrainedNegative float64        `yaml:"trained_negative"`
	Threshold       float64        `yaml:"threshold"`
	Features        FeatureWeights `yaml:"features"`
	Rules           RuleWeights    `yaml:"rules"`
}

// DefaultWeights returns the default ensemble weights.
func DefaultWeights() Weights {
	return Weights{
		RichModel:       0.4,
		Trained:         0.3,
		Feature:         0.3,
		TrainedPositive: 0.8,
		TrainedNegative: 0.2,
		Threshold:       0.7,
		Features:        DefaultFeatureWeights(),
		Rules:           DefaultRuleWeights(),
	}
}

// SetDefaults fills unset weights individually, so a config file can
// override one weight without zeroing the rest.
func (w *Weights) SetDefaults() {
	def := DefaultWeights()
	if w.RichModel == 0 {
		w.RichModel = def.RichModel
	}
	if w.Trained == 0 {
		w.Trained = def.Trained
	}
	if w.Feature == 0 {
		w.Feature = def.Feature
	}
	if w.TrainedPositive == 0 {
		w.TrainedPositive = def.TrainedPositive
	}
	if w.TrainedNegative == 0 {
		w.TrainedNegative = def.TrainedNegative
	}
	if w.Threshold == 0 {
		w.Threshold = def.Threshold
	}
	w.Features.SetDefaults()
	w.Rules.SetDefaults()
}

// InternClassifier classifies posting text with graceful degradation.
type InternClassifier struct {
	mu      sync.RWMutex
	state   State
	model   RichModel
	bag     *BagOfWords
	rules   *RuleScorer
	weights Weights
	logger  logger.Logger
}

// New creates an uninitialized classifier. A nil model forces the degraded
// path. Call Init once before classifying.
func New(model RichModel, weights Weights, log logger.Logger) *InternClassifier {
	return &InternClassifier{
		state:   StateUninitialized,
		model:   model,
		bag:     NewBagOfWords(),
		rules:   NewRuleScorer(weights.Rules),
		weights: weights,
		logger:  log,
	}
}

// Init attempts to bring up the rich model and train the statistical
// layer. Best effort: failure never returns an error, it settles the
// classifier into the degraded state.
func (c *InternClassifier) Init(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return
	}
	c.state = StateInitializing
	c.mu.Unlock()

	next := StateDegraded
	if c.model != nil {
		if err := c.model.Health(ctx); err != nil {
			c.logger.Warn("rich model unavailable, classifier degraded to rule-based",
				logger.Error(err))
		} else {
			c.bag.Train()
			next = StateReady
		}
	} else {
		c.logger.Info("rich model disabled, classifier running rule-based")
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.logger.Info("intern classifier initialized", logger.String("state", string(next)))
}

// State returns the classifier's current state.
func (c *InternClassifier) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Classify decides whether the given posting text describes an internship.
// It always returns a decision; any layer failure falls through to the
// rule scorer.
func (c *InternClassifier) Classify(ctx context.Context, text string) *domain.Classification {
	if c.State() != StateReady {
		return c.rules.Score(text)
	}

	title := firstLine(text)
	processed := Preprocess(text)

	modelResp, err := c.model.Classify(ctx, title, text)
	if err != nil {
		c.logger.Warn("rich model call failed, falling back to rule-based",
			logger.Error(err))
		return c.rules.Score(text)
	}

	modelConfidence := modelResp.Confidence
	if !modelResp.IsIntern() {
		modelConfidence = 1 - modelConfidence
	}

	trainedScore := c.weights.TrainedNegative
	trainedLabel, err := c.bag.Classify(processed)
	if err == nil && trainedLabel {
		trainedScore = c.weights.TrainedPositive
	}

	features := ExtractFeatures(processed)
	featureScore := FeatureScore(features, c.weights.Features)

	combined := modelConfidence*c.weights.RichModel +
		trainedScore*c.weights.Trained +
		featureScore*c.weights.Feature

	return &domain.Classification{
		IsIntern:   combined > c.weights.Threshold,
		Confidence: clamp01(combined),
		Method:     domain.MethodEnsemble,
		Features:   features,
	}
}

// ClassifyBatch classifies each text independently, preserving input
// order. One bad item never aborts the batch.
func (c *InternClassifier) ClassifyBatch(ctx context.Context, texts []string) []*domain.Classification {
	results := make([]*domain.Classification, len(texts))
	for i, text := range texts {
		results[i] = c.Classify(ctx, text)
	}
	return results
}
