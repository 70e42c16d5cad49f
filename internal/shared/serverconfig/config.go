package serverconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/mungus451/starlight-v2-sub001/internal/shared/config"
)

const envPrefix = "STARLIGHT_"

// Load 读取服务配置：yaml 为主，环境变量（STARLIGHT_ 前缀）覆盖敏感项。
// 返回值由调用方持有并显式注入，不再使用包级全局配置。
func Load(cfgName string) (*Config, string, error) {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return nil, "", err
	}
	conf := Default()
	if err := config.Load(path, conf); err != nil {
		return nil, "", err
	}
	if err := env.ParseWithOptions(conf, env.Options{Prefix: envPrefix}); err != nil {
		return nil, "", fmt.Errorf("parse env overrides: %w", err)
	}
	return conf, path, nil
}

// Default 返回带默认值的配置，yaml 中未出现的字段保留这些值。
func Default() *Config {
	return &Config{
		HTTPServer: HTTPServerConfig{Host: "0.0.0.0", Port: 8080},
		Engine: EngineConfig{
			Store:           "mysql",
			TickConcurrency: 4,
			EventBuffer:     1024,
			NodeID:          1,
		},
		MongoDB: MongoDBConfig{ConnectTimeoutS: 3},
		Log:     LogConfig{Level: "info", MaxSize: 100},
	}
}
