package metrics

// Provider identifies a metric reader backend.
type Provider string

// Supported providers.
const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "otelCollector"
)

// Config holds meter provider configuration.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// ProviderCfg describes one metric reader backend.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// NewOtelCollectorConfig builds a ProviderCfg for an OTLP collector endpoint.
func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

// OptionFn configures the meter provider.
type OptionFn func(config Config) Config

// WithProviderConfig appends a reader backend.
func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, provider)

		return config
	}
}

// WithServiceName sets the service resource attribute.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName

		return config
	}
}

// PromServerConfig holds the scrape server settings.
type PromServerConfig struct {
	port string
}

// PromOptionFn configures the scrape server.
type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort sets the scrape server port.
func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
