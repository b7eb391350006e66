package config

// Platform 為上游學校平台設定
type Platform struct {
	// passport / platform API，預設 https://api.sxw.cn
	APIBaseURL string `mapstructure:"API_BASE_URL" json:"apiBaseUrl" yaml:"apiBaseUrl"`
	// sxt-h5 gateway，預設 https://portal.sxw.cn
	PortalBaseURL string `mapstructure:"PORTAL_BASE_URL" json:"portalBaseUrl" yaml:"portalBaseUrl"`
	// 登入密碼加密用 AES key（16/24/32 bytes）
	AESKey string `mapstructure:"AES_KEY" json:"aesKey" yaml:"aesKey"`
	// 單次請求逾時（秒）
	Timeout int `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}
