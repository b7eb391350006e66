package config

type App struct {
	// development / test / production
	Env  string `mapstructure:"ENV" json:"env" yaml:"env"`
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 未設定時以編譯時 -ldflags 帶入的版本為準
	Version string `mapstructure:"VERSION" json:"version" yaml:"version"`
	// 管理後台 JWT 簽章 key，同時用於 request log 的 client hash
	SecretKey      string `mapstructure:"SECRET_KEY" json:"secret_key" yaml:"secret_key"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
}
