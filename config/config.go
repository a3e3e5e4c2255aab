package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	errorskg "github.com/sweetpotato0/socratiq/errors"
)

// LLM providers.
const (
	ProviderClaude  = "claude"
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Corpus backends.
const (
	BackendFS       = "fs"
	BackendGCS      = "gcs"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Inter-agent transports.
const (
	TransportLocal = "local"
	TransportHTTP  = "http"
	TransportMCP   = "mcp"
)

// Trace exporters.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// AgentNames lists the domain agents in canonical order.
var AgentNames = []string{"VERA", "FINN", "NORA", "CLIA"}

// Config holds all configuration for the service.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Corpus       CorpusConfig       `mapstructure:"corpus"`
	Agents       AgentsConfig       `mapstructure:"agents"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	// MaxInFlight bounds concurrently served requests; 0 disables the limit.
	MaxInFlight  int `mapstructure:"max_in_flight"`
	MaxBodyBytes int `mapstructure:"max_body_bytes"`
}

// LogConfig selects log format and level.
type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

// LLMConfig selects and configures the inference backend.
type LLMConfig struct {
	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Region    string `mapstructure:"region"`
	MaxTokens int    `mapstructure:"max_tokens"`
	// Tokenizer names a tiktoken encoding or model; empty uses the estimator.
	Tokenizer string `mapstructure:"tokenizer"`
}

// CorpusConfig selects the document store and retrieval knobs.
type CorpusConfig struct {
	Backend       string         `mapstructure:"backend"`
	Root          string         `mapstructure:"root"`
	Prefix        string         `mapstructure:"prefix"`
	MaxResults    int            `mapstructure:"max_results"`
	MinScore      float64        `mapstructure:"min_score"`
	ContextTokens int            `mapstructure:"context_tokens"`
	Redis         RedisConfig    `mapstructure:"redis"`
	Postgres      PostgresConfig `mapstructure:"postgres"`
	Mongo         MongoConfig    `mapstructure:"mongo"`
	GCS           GCSConfig      `mapstructure:"gcs"`
}

// RedisConfig configures the Redis corpus backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig configures the PostgreSQL corpus backend.
type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// MongoConfig configures the MongoDB corpus backend.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// GCSConfig configures the Cloud Storage corpus backend.
type GCSConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

// AgentConfig is the per-agent document collection and invocation target.
type AgentConfig struct {
	Collection string `mapstructure:"collection"`
	Target     string `mapstructure:"target"`
}

// AgentsConfig holds one AgentConfig per domain agent.
type AgentsConfig struct {
	VERA AgentConfig `mapstructure:"vera"`
	FINN AgentConfig `mapstructure:"finn"`
	NORA AgentConfig `mapstructure:"nora"`
	CLIA AgentConfig `mapstructure:"clia"`
}

// OrchestratorConfig configures Sophie.
type OrchestratorConfig struct {
	Transport          string        `mapstructure:"transport"`
	AgentTimeout       time.Duration `mapstructure:"agent_timeout"`
	SequentialTriggers []string      `mapstructure:"sequential_triggers"`
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is otlp, stdout or none. Empty picks otlp when an endpoint is
	// set and stdout otherwise.
	Exporter     string  `mapstructure:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// TraceExporter resolves the exporter that tracing should use.
func (t TelemetryConfig) TraceExporter() string {
	switch {
	case !t.Enabled:
		return ExporterNone
	case t.Exporter != "":
		return t.Exporter
	case t.OTLPEndpoint != "":
		return ExporterOTLP
	default:
		return ExporterStdout
	}
}

// For returns the configuration of the named agent.
func (a AgentsConfig) For(name string) AgentConfig {
	switch strings.ToUpper(name) {
	case "VERA":
		return a.VERA
	case "FINN":
		return a.FINN
	case "NORA":
		return a.NORA
	case "CLIA":
		return a.CLIA
	}
	return AgentConfig{}
}

// Set replaces the configuration of the named agent.
func (a *AgentsConfig) Set(name string, cfg AgentConfig) {
	switch strings.ToUpper(name) {
	case "VERA":
		a.VERA = cfg
	case "FINN":
		a.FINN = cfg
	case "NORA":
		a.NORA = cfg
	case "CLIA":
		a.CLIA = cfg
	}
}

// CollectionEnv is the legacy variable naming an agent's document collection.
func CollectionEnv(name string) string { return strings.ToUpper(name) + "_CORPUS_BUCKET" }

// TargetEnv is the legacy variable naming an agent's invocation target.
func TargetEnv(name string) string { return strings.ToUpper(name) + "_LAMBDA_ARN" }

// RequireCollections fails when any named agent lacks a document collection.
func (c *Config) RequireCollections(names ...string) error {
	var missing []string
	for _, name := range names {
		if c.Agents.For(name).Collection == "" {
			missing = append(missing, CollectionEnv(name))
		}
	}
	if len(missing) > 0 {
		return errorskg.MissingConfig(missing...)
	}
	return nil
}

// RequireTargets fails when any agent lacks an invocation target.
func (c *Config) RequireTargets() error {
	var missing []string
	for _, name := range AgentNames {
		if c.Agents.For(name).Target == "" {
			missing = append(missing, TargetEnv(name))
		}
	}
	if len(missing) > 0 {
		return errorskg.MissingConfig(missing...)
	}
	return nil
}

// Targets returns the agent name to target map.
func (c *Config) Targets() map[string]string {
	out := make(map[string]string, len(AgentNames))
	for _, name := range AgentNames {
		out[name] = c.Agents.For(name).Target
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_in_flight", 0)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("log.format", "json")
	v.SetDefault("log.level", "info")

	v.SetDefault("llm.provider", ProviderClaude)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.region", "")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.tokenizer", "")

	v.SetDefault("corpus.backend", BackendFS)
	v.SetDefault("corpus.root", "./corpus")
	v.SetDefault("corpus.prefix", "documents/")
	v.SetDefault("corpus.max_results", 5)
	v.SetDefault("corpus.min_score", 0.1)
	v.SetDefault("corpus.context_tokens", 6000)
	v.SetDefault("corpus.redis.addr", "localhost:6379")
	v.SetDefault("corpus.redis.password", "")
	v.SetDefault("corpus.redis.db", 0)
	v.SetDefault("corpus.postgres.dsn", "")
	v.SetDefault("corpus.postgres.table", "corpus_documents")
	v.SetDefault("corpus.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("corpus.mongo.database", "socratiq")
	v.SetDefault("corpus.gcs.credentials_file", "")

	v.SetDefault("orchestrator.transport", TransportLocal)
	v.SetDefault("orchestrator.agent_timeout", 60*time.Second)
	v.SetDefault("orchestrator.sequential_triggers", []string{"crada", "federal"})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.environment", "development")

	for _, name := range AgentNames {
		lower := strings.ToLower(name)
		v.SetDefault("agents."+lower+".collection", "")
		v.SetDefault("agents."+lower+".target", "")
	}
}

// bindLegacyEnv maps the deployment variable names onto config keys, after the
// prefixed names.
func bindLegacyEnv(v *viper.Viper) error {
	for _, name := range AgentNames {
		lower := strings.ToLower(name)
		upper := strings.ToUpper(name)
		if err := v.BindEnv("agents."+lower+".collection", "SOCRATIQ_AGENTS_"+upper+"_COLLECTION", CollectionEnv(name)); err != nil {
			return err
		}
		if err := v.BindEnv("agents."+lower+".target", "SOCRATIQ_AGENTS_"+upper+"_TARGET", TargetEnv(name)); err != nil {
			return err
		}
	}
	if err := v.BindEnv("llm.api_key", "SOCRATIQ_LLM_API_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("llm.region", "SOCRATIQ_LLM_REGION", "AWS_REGION")
}

// Load reads configuration from defaults, an optional file and the
// environment (SOCRATIQ_ prefix, '.' replaced by '_').
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("SOCRATIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
