package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"scoreboard/config"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 環境變數與檔案都沒給時的值
var configDefaults = map[string]any{
	"APP__ENV":          "development",
	"APP__PORT":         3000,
	"APP__NAME":         "scoreboard",
	"LOG__LEVEL":        "info",
	"STORAGE__DRIVER":   "file",
	"STORAGE__KEY":      "userDataStorage",
	"SMS__COOLDOWN":     60,
	"PLATFORM__TIMEOUT": 15,
}

// loadConfig 依序：--env 檔、--config yaml、或專案根目錄 .env 併入行程環境變數
func loadConfig(rootPath, envPath, yamlPath, buildVersion string) (*config.Configuration, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter("__"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	file, fileType := configFile(rootPath, envPath, yamlPath)
	if file == "" {
		dotenv := filepath.Join(rootPath, ".env")
		if _, err := os.Stat(dotenv); err == nil {
			// 不覆寫既有環境變數
			if err := godotenv.Load(dotenv); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotenv, err)
			}
		}
	}

	conf := &config.Configuration{}
	if file != "" {
		fmt.Printf("load %s config: %s\n", fileType, file)
		v.SetConfigFile(file)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
		v.OnConfigChange(func(in fsnotify.Event) {
			fmt.Println("config file changed:", in.Name)
			if err := v.Unmarshal(conf); err != nil {
				fmt.Println("unmarshal on change failed:", err)
			}
		})
		v.WatchConfig()
	}

	bindEnvs(v, reflect.TypeOf(config.Configuration{}))
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	if conf.App.Version == "" {
		conf.App.Version = buildVersion
	}
	return conf, nil
}

// configFile --env 優先於 --config；相對路徑以專案根目錄為準
func configFile(rootPath, envPath, yamlPath string) (string, string) {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(rootPath, p)
	}
	switch {
	case envPath != "":
		if yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		return abs(envPath), "env"
	case yamlPath != "":
		return abs(yamlPath), "yaml"
	}
	return "", ""
}

// bindEnvs 讓巢狀欄位都能只靠環境變數設定（APP__PORT、BACKUP__MINIO__BUCKET…）
func bindEnvs(v *viper.Viper, t reflect.Type, path ...string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			tag = field.Name
		}
		keyPath := append(append([]string{}, path...), tag)
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			bindEnvs(v, ft, keyPath...)
			continue
		}
		_ = v.BindEnv(strings.Join(keyPath, "__"))
	}
}
