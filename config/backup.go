package config

type Backup struct {
	// cron 表示式（含秒），留空則不排程
	Spec string `mapstructure:"SPEC" json:"spec" yaml:"spec"`
	// 本機備份目錄，預設 <root>/backups
	Dir   string `mapstructure:"DIR" json:"dir" yaml:"dir"`
	Minio Minio  `mapstructure:"MINIO" json:"minio" yaml:"minio"`
}

type Minio struct {
	Endpoint  string `mapstructure:"ENDPOINT" json:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"ACCESS_KEY" json:"accessKey" yaml:"accessKey"`
	SecretKey string `mapstructure:"SECRET_KEY" json:"secretKey" yaml:"secretKey"`
	Bucket    string `mapstructure:"BUCKET" json:"bucket" yaml:"bucket"`
	Region    string `mapstructure:"REGION" json:"region" yaml:"region"`
	UseSSL    bool   `mapstructure:"USE_SSL" json:"useSsl" yaml:"useSsl"`
}
