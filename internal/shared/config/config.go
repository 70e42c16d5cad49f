package config

import (
	"os"
	"path/filepath"
)

const DefaultConfigRelPath = "configs/conf.yml"

// Resolve 把配置文件名解析成绝对路径。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir, DefaultConfigRelPath)
}

func findConfigUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{Rel: rel, From: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	Rel  string
	From string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + e.Rel + " from: " + e.From
}
