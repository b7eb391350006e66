package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 傳回專案根目錄的絕對路徑。
// 優先使用 SCOREBOARD_ROOT；否則從工作目錄往上找 go.mod，最後退回原始碼位置。
func RootPath() string {
	if root := os.Getenv("SCOREBOARD_ROOT"); root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			return abs
		}
	}
	if wd, err := os.Getwd(); err == nil {
		if root, ok := findUp(wd, "go.mod"); ok {
			return root
		}
		if ok, _ := Exists(filepath.Join(wd, "config.yaml")); ok {
			return wd
		}
	}
	// /project/utils/path/path.go → /project
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("❌ 無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// DataDir 回傳 <root>/<name>，用於 snapshot 與備份的預設目錄
func DataDir(name string) string {
	return filepath.Join(RootPath(), name)
}

// Exists 路径是否存在
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func findUp(dir, marker string) (string, bool) {
	for {
		if ok, _ := Exists(filepath.Join(dir, marker)); ok {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
