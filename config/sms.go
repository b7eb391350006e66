package config

type Sms struct {
	// 同一手機號碼兩次發送間隔（秒），預設 60
	Cooldown int `mapstructure:"COOLDOWN" json:"cooldown" yaml:"cooldown"`
}
