package serverconfig

import "time"

type Config struct {
	MySQL       MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	SQLite      SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	MongoDB     MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer  HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Engine      EngineConfig     `yaml:"engine" mapstructure:"engine"`
	Log         LogConfig        `yaml:"log" mapstructure:"log"`
	BalanceFile string           `yaml:"balance_file" mapstructure:"balance_file"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password" env:"MYSQL_PASSWORD"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type SQLiteConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn" env:"SQLITE_DSN"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri" env:"MONGODB_URI"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// EngineConfig 结算引擎运行参数。
type EngineConfig struct {
	// Store 选择状态存储：mysql / sqlite。
	Store string `yaml:"store" mapstructure:"store" env:"ENGINE_STORE"`
	// TickInterval 回合间隔；调度器每个间隔恰好触发一次全量回合结算。
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	// TickConcurrency 回合结算时并行处理账号的 worker 数，<=1 表示串行。
	TickConcurrency int `yaml:"tick_concurrency" mapstructure:"tick_concurrency"`
	// Seed 随机源种子，0 表示启动时用 crypto/rand 生成。
	Seed int64 `yaml:"seed" mapstructure:"seed" env:"ENGINE_SEED"`
	// EventBuffer 事件总线 mailbox 容量。
	EventBuffer int `yaml:"event_buffer" mapstructure:"event_buffer"`
	// NodeID 雪花 id 节点号。
	NodeID int64 `yaml:"node_id" mapstructure:"node_id" env:"SNOWFLAKE_NODE_ID"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level" env:"LOG_LEVEL"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
