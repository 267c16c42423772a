package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Index name mode: one shared index for every document type, or one index
// per declared type.
const (
	IndexModeGlobal  = "global"
	IndexModePerType = "per-type"
)

type Config struct {
	Elasticsearch ElasticsearchConfig
	Index         IndexConfig
	Database      DatabaseConfig
	HTTP          HTTPConfig
}

type ElasticsearchConfig struct {
	URL           string
	Username      string
	Password      string
	SkipTLSVerify bool
	Timeout       time.Duration
}

type IndexConfig struct {
	// Mode selects global vs per-type index resolution.
	Mode string
	// GlobalName is the shared index name used in global mode.
	GlobalName string
	// DocType is the document type name for record documents.
	DocType string
	// MinScore is the relevance floor applied to every search.
	MinScore float64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timeout  time.Duration
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

func Load() (*Config, error) {
	esCfg, err := loadElasticsearch()
	if err != nil {
		return nil, err
	}

	idxCfg, err := loadIndex()
	if err != nil {
		return nil, err
	}

	dbCfg, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Elasticsearch: *esCfg,
		Index:         *idxCfg,
		Database:      *dbCfg,
		HTTP: HTTPConfig{
			Addr:              getEnvOrDefault("HTTP_ADDR", ":9400"),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	slog.Info("Configuration loaded",
		"elasticsearch_url", cfg.Elasticsearch.URL,
		"index_mode", cfg.Index.Mode,
		"global_index", cfg.Index.GlobalName,
		"db_host", cfg.Database.Host,
	)

	return cfg, nil
}

func loadElasticsearch() (*ElasticsearchConfig, error) {
	url, err := getEnvRequired("ELASTICSEARCH_URL")
	if err != nil {
		return nil, err
	}
	return &ElasticsearchConfig{
		URL:           url,
		Username:      getEnvOrDefault("ELASTICSEARCH_USERNAME", ""),
		Password:      getEnvOrDefault("ELASTICSEARCH_PASSWORD", ""),
		SkipTLSVerify: getEnvOrDefault("ELASTICSEARCH_SKIP_TLS_VERIFY", "false") == "true",
		Timeout:       15 * time.Second,
	}, nil
}

func loadIndex() (*IndexConfig, error) {
	mode := getEnvOrDefault("SEARCH_INDEX_MODE", IndexModeGlobal)
	if mode != IndexModeGlobal && mode != IndexModePerType {
		return nil, fmt.Errorf("invalid SEARCH_INDEX_MODE %q: must be %q or %q", mode, IndexModeGlobal, IndexModePerType)
	}

	minScore := 0.05
	if v := os.Getenv("SEARCH_MIN_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid SEARCH_MIN_SCORE %q", v)
		}
		minScore = f
	}

	return &IndexConfig{
		Mode:       mode,
		GlobalName: getEnvOrDefault("SEARCH_GLOBAL_INDEX", "records"),
		DocType:    getEnvOrDefault("SEARCH_DOC_TYPE", "record"),
		MinScore:   minScore,
	}, nil
}

func loadDatabase() (*DatabaseConfig, error) {
	host, err := getEnvRequired("DB_HOST")
	if err != nil {
		return nil, err
	}
	name, err := getEnvRequired("DB_NAME")
	if err != nil {
		return nil, err
	}
	user, err := getEnvRequired("SEARCH_ADAPTER_DB_USER")
	if err != nil {
		return nil, err
	}
	password, err := getEnvRequired("SEARCH_ADAPTER_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	return &DatabaseConfig{
		Host:     host,
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     name,
		User:     user,
		Password: password,
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "prefer"),
		Timeout:  10 * time.Second,
	}, nil
}

// ConnectionString assembles the database connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnvRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
