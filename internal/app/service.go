// Package service owns the serving bundle (schema, encoder, model) and is the
// single entry point the HTTP surfaces call to turn raw inputs into a score.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sarthakkaushal65/predictscore/internal/adapters/artifact"
	"github.com/sarthakkaushal65/predictscore/internal/domain/encoding"
	"github.com/sarthakkaushal65/predictscore/internal/domain/prediction"
	"github.com/sarthakkaushal65/predictscore/internal/domain/schema"
	"github.com/sarthakkaushal65/predictscore/pkg/logger"
	"github.com/sarthakkaushal65/predictscore/pkg/metrics"
)

// bundle is built once by Start and never mutated afterwards.
type bundle struct {
	schema    *schema.Schema
	encoder   *encoding.Encoder
	model     prediction.Regressor
	modelName string
	loadedAt  time.Time
}

// Service implements the dependencies of the HTTP API and the form site.
type Service struct {
	mu sync.Mutex

	// Configuration
	schemaPath       string
	modelPath        string
	artifactMaxBytes int64
	schema           *schema.Schema
	model            prediction.Regressor

	// State
	current atomic.Pointer[bundle]
	started bool

	// Counters
	served   atomic.Int64
	rejected atomic.Int64
	failed   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSchemaPath loads the feature schema from a YAML file. Empty selects the
// built-in schema.
func WithSchemaPath(path string) Option {
	return func(s *Service) {
		s.schemaPath = path
	}
}

// WithModelPath sets the model artifact file.
func WithModelPath(path string) Option {
	return func(s *Service) {
		s.modelPath = path
	}
}

// WithArtifactMaxBytes caps the artifact file size.
func WithArtifactMaxBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.artifactMaxBytes = n
		}
	}
}

// WithSchema uses sc instead of loading one.
func WithSchema(sc *schema.Schema) Option {
	return func(s *Service) {
		s.schema = sc
	}
}

// WithModel uses an already constructed regressor instead of loading an
// artifact. No artifact verification is done.
func WithModel(m prediction.Regressor) Option {
	return func(s *Service) {
		s.model = m
	}
}

// New constructs a Service. Nothing is loaded until Start.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Start loads the schema and the model artifact, checks that they belong
// together and publishes the serving bundle. A failure leaves the service
// unable to predict.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	began := time.Now()
	s.logger.Info(ctx, "starting predictor service...",
		logger.String("schemaPath", s.schemaPath),
		logger.String("modelPath", s.modelPath),
	)

	b, err := s.load(ctx)
	if err != nil {
		metrics.UpdateModelLoaded(false)
		s.logger.Error(ctx, "predictor service failed to start", logger.Error(err))
		return err
	}

	s.current.Store(b)
	s.started = true

	took := time.Since(began)
	metrics.RecordModelLoad(took)
	metrics.UpdateModelLoaded(true)
	metrics.UpdateFeatureCount(b.schema.Len())

	s.logger.Info(ctx, "predictor service started",
		logger.String("schema", b.schema.ID()),
		logger.String("model", b.modelName),
		logger.Int("features", b.schema.Len()),
		logger.Duration("took", took),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (*bundle, error) {
	sc := s.schema
	if sc == nil {
		var err error
		if sc, err = schema.LoadFile(ctx, s.schemaPath); err != nil {
			return nil, err
		}
	} else if err := sc.Validate(); err != nil {
		return nil, err
	}

	model, name := s.model, prediction.ModelName(s.model)
	if model == nil {
		var opts []artifact.Option
		if s.artifactMaxBytes > 0 {
			opts = append(opts, artifact.WithMaxBytes(s.artifactMaxBytes))
		}
		a, err := artifact.Load(ctx, s.modelPath, opts...)
		if err != nil {
			return nil, err
		}
		if err := artifact.Verify(a, sc); err != nil {
			return nil, fmt.Errorf("verify %s: %w", s.modelPath, err)
		}
		model, name = a, a.Name()
	}

	return &bundle{
		schema:    sc,
		encoder:   encoding.New(sc, sc.CategoryMap()),
		model:     model,
		modelName: name,
		loadedAt:  time.Now(),
	}, nil
}

// Stop withdraws the serving bundle. Subsequent predictions report
// ErrModelUnavailable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping predictor service...")
	s.current.Store(nil)
	s.started = false
	metrics.UpdateModelLoaded(false)
	s.logger.Info(context.Background(), "predictor service stopped")
}

// Ready reports whether a bundle is serving.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

func (s *Service) active() (*bundle, error) {
	b := s.current.Load()
	if b == nil {
		return nil, fmt.Errorf("%w: service not started", prediction.ErrModelUnavailable)
	}
	return b, nil
}

// Form describes the input surface of the serving schema.
func (s *Service) Form() (schema.Form, error) {
	b, err := s.active()
	if err != nil {
		return schema.Form{}, err
	}
	return b.schema.Form(), nil
}

// Predict checks raw against the slider domains, encodes it in schema order and
// invokes the model once.
func (s *Service) Predict(ctx context.Context, raw encoding.Inputs) (prediction.Result, error) {
	b, err := s.active()
	if err != nil {
		s.reject(ctx, err)
		return prediction.Result{}, err
	}

	began := time.Now()
	if err := encoding.CheckBounds(raw, b.schema); err != nil {
		s.reject(ctx, err)
		return prediction.Result{}, err
	}
	vec, err := b.encoder.Encode(raw)
	if err != nil {
		s.reject(ctx, err)
		return prediction.Result{}, err
	}

	score, err := prediction.Predict(ctx, vec, b.model)
	if err != nil {
		s.failed.Add(1)
		metrics.RecordPrediction(metrics.OutcomeFailed)
		metrics.RecordInferenceError(b.modelName)
		s.logger.Error(ctx, "prediction failed",
			logger.String("schema", b.schema.ID()),
			logger.String("model", b.modelName),
			logger.Error(err),
		)
		return prediction.Result{}, err
	}

	took := time.Since(began)
	s.served.Add(1)
	metrics.RecordPrediction(metrics.OutcomeServed)
	metrics.RecordPredictionLatency(took)
	metrics.RecordPredictedScore(score)

	res := prediction.NewResult(score, vec, b.schema.ID(), b.modelName)
	s.logger.Debug(ctx, "prediction served",
		logger.String("id", res.ID.String()),
		logger.String("schema", res.Schema),
		logger.String("model", res.Model),
		logger.Float64("score", score),
		logger.Duration("took", took),
	)
	return res, nil
}

func (s *Service) reject(ctx context.Context, err error) {
	kind := ErrorKind(err)
	if kind == KindModelUnavailable {
		s.failed.Add(1)
		metrics.RecordPrediction(metrics.OutcomeFailed)
	} else {
		s.rejected.Add(1)
		metrics.RecordPrediction(metrics.OutcomeRejected)
		metrics.RecordEncodeError(kind)
	}
	s.logger.Warn(ctx, "prediction rejected", logger.String("kind", kind), logger.Error(err))
}

// Info describes the serving bundle.
type Info struct {
	Schema   string    `json:"schema"`
	Version  int       `json:"version"`
	Model    string    `json:"model"`
	Features int       `json:"features"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Info returns the serving bundle description, or false when not started.
func (s *Service) Info() (Info, bool) {
	b := s.current.Load()
	if b == nil {
		return Info{}, false
	}
	return Info{
		Schema:   b.schema.Name,
		Version:  b.schema.Version,
		Model:    b.modelName,
		Features: b.schema.Len(),
		LoadedAt: b.loadedAt,
	}, true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"started":  s.Ready(),
		"served":   s.served.Load(),
		"rejected": s.rejected.Load(),
		"failed":   s.failed.Load(),
	}
	if info, ok := s.Info(); ok {
		stats["schema"] = fmt.Sprintf("%s@v%d", info.Schema, info.Version)
		stats["model"] = info.Model
		stats["features"] = info.Features
		stats["uptimeSeconds"] = int64(time.Since(info.LoadedAt).Seconds())
	}
	return stats
}
