package config

import "time"

const (
	StoreGCS  = "gcs"
	StoreHTTP = "http"
	StoreFile = "file"
)

// StorageConfig selects where model artifacts are downloaded from.
type StorageConfig struct {
	Backend string
	Bucket  string
	BaseURL string
	Dir     string
	Timeout time.Duration
	Retries int
	Paths   ArtifactPaths
}

// ArtifactPaths are object paths inside the bucket.
type ArtifactPaths struct {
	UnsupervisedVectorizer string
	SupervisedVectorizer   string
	Classifier             string
	Metadata               string
	Vectors                string
}

func DefaultArtifactPaths() ArtifactPaths {
	return ArtifactPaths{
		UnsupervisedVectorizer: "models/tfidf_vectorizer.json",
		SupervisedVectorizer:   "models/supervised_vectorizer.json",
		Classifier:             "models/job_classifier.json",
		Metadata:               "models/job_metadata.csv",
		Vectors:                "models/job_vectors.npz",
	}
}
