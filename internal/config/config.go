package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Rarity      RarityConfig      `yaml:"rarity" mapstructure:"rarity"`
	Merger      MergerConfig      `yaml:"merger" mapstructure:"merger"`
	Feedback    FeedbackConfig    `yaml:"feedback" mapstructure:"feedback"`
	Learner     LearnerConfig     `yaml:"learner" mapstructure:"learner"`
	Extractor   ExtractorConfig   `yaml:"extractor" mapstructure:"extractor"`
	Definitions DefinitionsConfig `yaml:"definitions" mapstructure:"definitions"`
	Dictionary  DictionaryConfig  `yaml:"dictionary" mapstructure:"dictionary"`
	TextExtract TextExtractConfig `yaml:"textextract" mapstructure:"textextract"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// CorpusConfig locates the user's reference-document corpus.
type CorpusConfig struct {
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	CachePath  string   `yaml:"cache_path" mapstructure:"cache_path"`
}

// RarityConfig tunes the BM25 corpus-relative rarity engine. K1, B, and
// ConfidenceDivisor are empirically chosen; they are configuration rather
// than literals because their tuning basis is undocumented.
type RarityConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	MinCorpusDocs     int     `yaml:"min_corpus_docs" mapstructure:"min_corpus_docs"`
	K1                float64 `yaml:"k1" mapstructure:"k1"`
	B                 float64 `yaml:"b" mapstructure:"b"`
	MinScore          float64 `yaml:"min_score" mapstructure:"min_score"`
	ConfidenceDivisor float64 `yaml:"confidence_divisor" mapstructure:"confidence_divisor"`
	MaxCandidates     int     `yaml:"max_candidates" mapstructure:"max_candidates"`
	MinTokenLen       int     `yaml:"min_token_len" mapstructure:"min_token_len"`
}

// MergerConfig sets per-algorithm trust weights for confidence fusion.
type MergerConfig struct {
	Weights map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// FeedbackConfig configures the user-rating store.
type FeedbackConfig struct {
	LogPath string `yaml:"log_path" mapstructure:"log_path"`
}

// LearnerConfig configures meta-learner training and score boosting.
type LearnerConfig struct {
	ModelPath        string  `yaml:"model_path" mapstructure:"model_path"`
	MinTotalRatings  int     `yaml:"min_total_ratings" mapstructure:"min_total_ratings"`
	RetrainEvery     int     `yaml:"retrain_every" mapstructure:"retrain_every"`
	MinClassExamples int     `yaml:"min_class_examples" mapstructure:"min_class_examples"`
	BoostSwing       float64 `yaml:"boost_swing" mapstructure:"boost_swing"`
	LearningRate     float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	Epochs           int     `yaml:"epochs" mapstructure:"epochs"`
}

// ExtractorConfig configures the orchestrating extractor.
type ExtractorConfig struct {
	MaxTextLen       int     `yaml:"max_text_len" mapstructure:"max_text_len"`
	MinOccurrences   int     `yaml:"min_occurrences" mapstructure:"min_occurrences"`
	DocFreqCeiling   float64 `yaml:"doc_freq_ceiling" mapstructure:"doc_freq_ceiling"`
	MaxTerms         int     `yaml:"max_terms" mapstructure:"max_terms"`
	ExclusionsPath   string  `yaml:"exclusions_path" mapstructure:"exclusions_path"`
	RulesPath        string  `yaml:"rules_path" mapstructure:"rules_path"`
	MaxDefinitionLen int     `yaml:"max_definition_len" mapstructure:"max_definition_len"`
	Parallel         bool    `yaml:"parallel" mapstructure:"parallel"`
}

// DefinitionsConfig configures the local glossary store.
type DefinitionsConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
}

// DictionaryConfig configures the fallback HTTP dictionary client.
type DictionaryConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
	Retries     int     `yaml:"retries" mapstructure:"retries"`
}

// TextExtractConfig configures document text extraction.
type TextExtractConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("corpus.dir", "corpus")
	v.SetDefault("corpus.extensions", []string{".txt", ".md", ".pdf"})
	v.SetDefault("corpus.cache_path", "corpus_index.json")
	v.SetDefault("rarity.enabled", true)
	v.SetDefault("rarity.min_corpus_docs", 5)
	v.SetDefault("rarity.k1", 1.2)
	v.SetDefault("rarity.b", 0.75)
	v.SetDefault("rarity.min_score", 1.0)
	v.SetDefault("rarity.confidence_divisor", 15.0)
	v.SetDefault("rarity.max_candidates", 50)
	v.SetDefault("rarity.min_token_len", 2)
	v.SetDefault("feedback.log_path", "feedback.csv")
	v.SetDefault("learner.model_path", "preference_model.json")
	v.SetDefault("learner.min_total_ratings", 20)
	v.SetDefault("learner.retrain_every", 10)
	v.SetDefault("learner.min_class_examples", 3)
	v.SetDefault("learner.boost_swing", 30.0)
	v.SetDefault("learner.learning_rate", 0.1)
	v.SetDefault("learner.epochs", 200)
	v.SetDefault("extractor.max_text_len", 500_000)
	v.SetDefault("extractor.min_occurrences", 1)
	v.SetDefault("extractor.doc_freq_ceiling", 0.5)
	v.SetDefault("extractor.max_terms", 100)
	v.SetDefault("extractor.exclusions_path", "excluded_terms.txt")
	v.SetDefault("extractor.max_definition_len", 200)
	v.SetDefault("extractor.parallel", true)
	v.SetDefault("definitions.database_path", "glossary.db")
	v.SetDefault("dictionary.enabled", false)
	v.SetDefault("dictionary.base_url", "https://api.dictionaryapi.dev/api/v2")
	v.SetDefault("dictionary.timeout_secs", 10)
	v.SetDefault("dictionary.rate_per_sec", 2.0)
	v.SetDefault("dictionary.burst", 4)
	v.SetDefault("dictionary.retries", 2)
	v.SetDefault("textextract.provider", "plain")
	v.SetDefault("textextract.pdftotext_path", "pdftotext")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
