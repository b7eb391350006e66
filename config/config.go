package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Storage   Storage         `mapstructure:"STORAGE" json:"storage" yaml:"storage"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	MongoDB   MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	MySQL     MySQL           `mapstructure:"MYSQL" json:"mysql" yaml:"mysql"`
	Platform  Platform        `mapstructure:"PLATFORM" json:"platform" yaml:"platform"`
	Admin     Admin           `mapstructure:"ADMIN" json:"admin" yaml:"admin"`
	Sms       Sms             `mapstructure:"SMS" json:"sms" yaml:"sms"`
	Backup    Backup          `mapstructure:"BACKUP" json:"backup" yaml:"backup"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
}
