package config

type Admin struct {
	// bcrypt hash，優先於 Password
	PasswordHash string `mapstructure:"PASSWORD_HASH" json:"passwordHash" yaml:"passwordHash"`
	Password     string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	// JWT 有效時間（分鐘），預設 120
	TokenTTL int `mapstructure:"TOKEN_TTL" json:"tokenTtl" yaml:"tokenTtl"`
}
