package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/config"
	"github.com/fadilmartias/jobmate-ml-api/internal/ml"
	"github.com/fadilmartias/jobmate-ml-api/internal/model"
)

// Bundle is a complete artifact set whose dimensions agree with each other.
type Bundle struct {
	Unsupervised *ml.TFIDFVectorizer
	Supervised   *ml.TFIDFVectorizer
	Classifier   *ml.LinearClassifier
	Jobs         []model.Job
	Vectors      *ml.CSRMatrix
}

type Loader struct {
	store  BlobStore
	paths  config.ArtifactPaths
	logger *zap.Logger
}

func NewLoader(store BlobStore, paths config.ArtifactPaths, logger *zap.Logger) *Loader {
	return &Loader{store: store, paths: paths, logger: logger}
}

// Load downloads and decodes every artifact, one after another. Any missing,
// corrupt or inconsistent artifact fails the whole load.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	start := time.Now()
	l.logger.Info("loading model artifacts")

	unsupervised, err := l.loadVectorizer(ctx, l.paths.UnsupervisedVectorizer)
	if err != nil {
		return nil, err
	}
	supervised, err := l.loadVectorizer(ctx, l.paths.SupervisedVectorizer)
	if err != nil {
		return nil, err
	}
	classifier, err := l.loadClassifier(ctx, l.paths.Classifier)
	if err != nil {
		return nil, err
	}
	jobs, err := l.loadMetadata(ctx, l.paths.Metadata)
	if err != nil {
		return nil, err
	}
	vectors, err := l.loadVectors(ctx, l.paths.Vectors)
	if err != nil {
		return nil, err
	}

	if unsupervised.Dim() != vectors.Cols() {
		return nil, fmt.Errorf("unsupervised vectorizer has %d features but job vectors have %d columns: %w",
			unsupervised.Dim(), vectors.Cols(), ml.ErrDimensionMismatch)
	}
	if supervised.Dim() != classifier.Dim() {
		return nil, fmt.Errorf("supervised vectorizer has %d features but classifier expects %d: %w",
			supervised.Dim(), classifier.Dim(), ml.ErrDimensionMismatch)
	}
	if vectors.Rows() != len(jobs) {
		return nil, fmt.Errorf("job vectors have %d rows but metadata has %d jobs", vectors.Rows(), len(jobs))
	}

	l.logger.Info("model artifacts loaded",
		zap.Int("jobs", len(jobs)),
		zap.Int("features", unsupervised.Dim()),
		zap.Int("categories", len(classifier.Classes())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Bundle{
		Unsupervised: unsupervised,
		Supervised:   supervised,
		Classifier:   classifier,
		Jobs:         jobs,
		Vectors:      vectors,
	}, nil
}

// fetch downloads path and transparently gunzips ".gz" objects.
func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	l.logger.Info("downloading artifact", zap.String("path", path))

	data, err := l.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	return plain, nil
}

func (l *Loader) loadVectorizer(ctx context.Context, path string) (*ml.TFIDFVectorizer, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(schemaTFIDF, data); err != nil {
		return nil, fmt.Errorf("vectorizer %s: %w", path, err)
	}

	var spec ml.TFIDFSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("vectorizer %s: %w", path, err)
	}
	v, err := ml.NewTFIDFVectorizer(spec)
	if err != nil {
		return nil, fmt.Errorf("vectorizer %s: %w", path, err)
	}
	return v, nil
}

func (l *Loader) loadClassifier(ctx context.Context, path string) (*ml.LinearClassifier, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(schemaLinear, data); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}

	var spec ml.LinearSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	c, err := ml.NewLinearClassifier(spec)
	if err != nil {
		return nil, fmt.Errorf("classifier %s: %w", path, err)
	}
	return c, nil
}

func (l *Loader) loadMetadata(ctx context.Context, path string) ([]model.Job, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	jobs, err := ParseJobMetadata(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("metadata %s: %w", path, err)
	}
	return jobs, nil
}

func (l *Loader) loadVectors(ctx context.Context, path string) (*ml.CSRMatrix, error) {
	data, err := l.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := ml.ReadNPZ(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("job vectors %s: %w", path, err)
	}
	return m, nil
}
