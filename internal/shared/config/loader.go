package config

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load 读取 yaml 配置并解码到 out（mapstructure tag）。
// 时间类字段支持 "30s"/"1m" 这样的写法。
func Load(configPath string, out any) error {
	_, err := read(configPath, out)
	return err
}

// Watch 读取配置后监听文件变更，每次变更重新解码到一个新值并回调 onChange。
//
// 注意：回调拿到的是新解码出来的值，调用方自己决定哪些字段允许热更新
// （例如只调整日志级别，数值平衡表不允许运行期变化）。
func Watch(configPath string, newValue func() any, onChange func(v any, err error)) error {
	v, err := read(configPath, newValue())
	if err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next := newValue()
		onChange(next, v.Unmarshal(next, decodeHook()))
	})
	v.WatchConfig()
	return nil
}

func read(configPath string, out any) (*viper.Viper, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", configPath, err)
	}
	if err := v.Unmarshal(out, decodeHook()); err != nil {
		return nil, fmt.Errorf("viper unmarshal config %q: %w", configPath, err)
	}
	return v, nil
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
