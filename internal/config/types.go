package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level mediarag configuration, corresponding to .mediarag.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	Quality           QualityTier  `yaml:"quality" koanf:"quality"`
	ASRModel          string       `yaml:"asr_model" koanf:"asr_model"`
	VisionModel       string       `yaml:"vision_model" koanf:"vision_model"`
	SourceDir         string       `yaml:"source_dir" koanf:"source_dir"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	WindowSeconds     float64      `yaml:"window_seconds" koanf:"window_seconds"`
	SourceLanguage    string       `yaml:"source_language" koanf:"source_language"`
	TargetLanguage    string       `yaml:"target_language" koanf:"target_language"`
	LayoutServiceURL  string       `yaml:"layout_service_url" koanf:"layout_service_url"`
	AutoSummarize     bool         `yaml:"auto_summarize" koanf:"auto_summarize"`
	AutoImport        bool         `yaml:"auto_import" koanf:"auto_import"`
	SkipExisting      bool         `yaml:"skip_existing" koanf:"skip_existing"`
	RetrievalLimit    int          `yaml:"retrieval_limit" koanf:"retrieval_limit"`
	ServerPort        int          `yaml:"server_port" koanf:"server_port"`
}
