package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/logger"
	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/storage/mappings"
)

// Default Elasticsearch configuration values.
const (
	defaultESURL         = "http://localhost:9200"
	defaultESIndexPrefix = "internship"
	defaultESMaxRetries  = 3

	rawIndexSuffix = "_raw_postings"
	jobIndexSuffix = "_jobs"
)

// ESConfig holds Elasticsearch configuration.
type ESConfig struct {
	URL         string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Username    string `env:"ELASTICSEARCH_USER"     yaml:"username"`
	Password    string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	IndexPrefix string `env:"ELASTICSEARCH_PREFIX"   yaml:"index_prefix"`
	MaxRetries  int    `yaml:"max_retries"`
}

// SetDefaults applies default values to the config if not set.
func (c *ESConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = defaultESURL
	}
	if c.IndexPrefix == "" {
		c.IndexPrefix = defaultESIndexPrefix
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultESMaxRetries
	}
}

// RawIndex returns the raw capture index name.
func (c *ESConfig) RawIndex() string { return c.IndexPrefix + rawIndexSuffix }

// JobIndex returns the canonical job index name.
func (c *ESConfig) JobIndex() string { return c.IndexPrefix + jobIndexSuffix }

// NewESClient creates an Elasticsearch client from config.
func NewESClient(cfg ESConfig) (*es.Client, error) {
	cfg.SetDefaults()

	clientConfig := es.Config{
		Addresses:  []string{cfg.URL},
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return client, nil
}

// EnsureIndices creates the raw and job indices if they do not exist.
func EnsureIndices(ctx context.Context, client *es.Client, cfg ESConfig, log logger.Logger) error {
	cfg.SetDefaults()

	indices := map[string]map[string]any{
		cfg.RawIndex(): mappings.RawPostings(),
		cfg.JobIndex(): mappings.Jobs(),
	}

	for name, mapping := range indices {
		exists, err := client.Indices.Exists([]string{name}, client.Indices.Exists.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("check index %s: %w", name, err)
		}
		exists.Body.Close()
		if exists.StatusCode == http.StatusOK {
			continue
		}

		body, err := json.Marshal(mapping)
		if err != nil {
			return fmt.Errorf("marshal mapping for %s: %w", name, err)
		}

		res, err := client.Indices.Create(
			name,
			client.Indices.Create.WithContext(ctx),
			client.Indices.Create.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("create index %s: %s", name, res.String())
		}
		log.Info("index created", logger.String("index", name))
	}

	return nil
}

// ESRawStore is the Elasticsearch-backed raw capture store. Documents are
// indexed under a digest of the capture key, so a repeated capture
// replaces the earlier document in place.
type ESRawStore struct {
	client *es.Client
	index  string
}

// NewESRawStore creates the raw capture store.
func NewESRawStore(client *es.Client, cfg ESConfig) *ESRawStore {
	cfg.SetDefaults()
	return &ESRawStore{client: client, index: cfg.RawIndex()}
}

// UpsertByKey inserts or replaces the capture record for key.
func (s *ESRawStore) UpsertByKey(ctx context.Context, key string, raw *domain.RawPosting) error {
	record := *raw
	record.Key = key
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now()
	}

	body, err := json.Marshal(&record)
	if err != nil {
		return fmt.Errorf("marshal raw posting: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(keyDigest(key)),
	)
	if err != nil {
		return fmt.Errorf("index raw posting: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index raw posting: %s", res.String())
	}
	return nil
}

// ESJobStore is the Elasticsearch-backed canonical job store. The document
// ID is derived from the job identity, so upserts are atomic per identity
// and the index response distinguishes created from updated.
type ESJobStore struct {
	client *es.Client
	index  string
}

// NewESJobStore creates the canonical job store.
func NewESJobStore(client *es.Client, cfg ESConfig) *ESJobStore {
	cfg.SetDefaults()
	return &ESJobStore{client: client, index: cfg.JobIndex()}
}

// indexResponse is the subset of the ES index API response we need:
// result is "created" for a first write and "updated" for a refresh.
type indexResponse struct {
	Result string `json:"result"`
}

// UpsertByIdentity inserts or updates the job under its identity.
func (s *ESJobStore) UpsertByIdentity(ctx context.Context, id domain.Identity, job *domain.CanonicalJob) (*UpsertResult, error) {
	stored := *job
	now := time.Now()
	stored.UpdatedAt = now
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	body, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id.DocumentID()),
	)
	if err != nil {
		return nil, fmt.Errorf("index job: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("index job: %s", res.String())
	}

	var parsed indexResponse
	if decodeErr := json.NewDecoder(res.Body).Decode(&parsed); decodeErr != nil {
		return nil, fmt.Errorf("decode index response: %w", decodeErr)
	}

	return &UpsertResult{
		Job:             &stored,
		WasNewlyCreated: parsed.Result == "created",
	}, nil
}

// keyDigest shortens an arbitrary capture key into a fixed-length ES
// document ID.
func keyDigest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
