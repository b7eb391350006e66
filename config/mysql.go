package config

type MySQL struct {
	DSN          string `mapstructure:"DSN" json:"dsn" yaml:"dsn"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" json:"maxIdleConns" yaml:"maxIdleConns"`
}
