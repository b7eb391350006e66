package config

type TelemetryConfig struct {
	Metric MetricConfig `mapstructure:"METRIC" json:"metric" yaml:"metric"`
	Trace  TraceConfig  `mapstructure:"TRACE" json:"trace" yaml:"trace"`
}

type MetricConfig struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// request duration histogram buckets（秒），留空用 prometheus.DefBuckets
	Buckets []float64 `mapstructure:"BUCKETS" json:"buckets" yaml:"buckets"`
}

type TraceConfig struct {
	Enabled     bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	EndpointUrl string `mapstructure:"ENDPOINT_URL" json:"endpointUrl" yaml:"endpointUrl"`
	// 0 < ratio < 1 時依 traceID 取樣，其餘值一律全取
	SampleRatio float64 `mapstructure:"SAMPLE_RATIO" json:"sampleRatio" yaml:"sampleRatio"`
	// collector 走 https 時設 false
	Insecure bool `mapstructure:"INSECURE" json:"insecure" yaml:"insecure"`
}
