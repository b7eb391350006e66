package config

type Fluentd struct {
	Enabled bool   `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port    int    `mapstructure:"PORT" json:"port" yaml:"port"`
	// tag 前綴，預設 scoreboard；request/response/audit 分別接在後面
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	Timeout   int64  `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"` // ms
	// 同步送出時 Post 會等 fluentd 回應；audit 需要確定送達時可關掉 async
	Sync       bool `mapstructure:"SYNC" json:"sync" yaml:"sync"`
	BufferSize int  `mapstructure:"BUFFER_SIZE" json:"bufferSize" yaml:"bufferSize"`
}
