package config

// Storage 決定 registry snapshot 寫到哪裡
type Storage struct {
	// file / redis / mongo / mysql / memory，預設 file
	Driver string `mapstructure:"DRIVER" json:"driver" yaml:"driver"`
	// snapshot key，預設 userDataStorage
	Key string `mapstructure:"KEY" json:"key" yaml:"key"`
	// file driver 的目錄，預設 <root>/data
	Dir string `mapstructure:"DIR" json:"dir" yaml:"dir"`
}
