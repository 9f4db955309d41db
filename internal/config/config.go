// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Roster   RosterConfig   `mapstructure:"roster"`
	// Hierarchy 保存引擎选项的原始键值（例如 bigNumber），由 hierarchy.MergeOptions 合并到默认值之上。
	Hierarchy map[string]interface{} `mapstructure:"hierarchy"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。
// EventTopic 接收成员移除/恢复事件；CommandTopic 为空时不启动命令消费者。
type KafkaConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Brokers      string `mapstructure:"brokers"`
	EventTopic   string `mapstructure:"event_topic"`
	CommandTopic string `mapstructure:"command_topic"`
	GroupID      string `mapstructure:"group_id"`
	MaxAttempts  int    `mapstructure:"max_attempts"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// RosterConfig 描述启动时从哪里批量导入成员名册。
// Source 取值 file / mysql / redis / minio / none。
type RosterConfig struct {
	Source    string `mapstructure:"source"`
	Path      string `mapstructure:"path"`
	RedisKey  string `mapstructure:"redis_key"`
	ObjectKey string `mapstructure:"object_key"`
	Table     string `mapstructure:"table"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8081")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("jwt.access_token_expire_hours", 24)
	v.SetDefault("kafka.event_topic", "succession-events")
	v.SetDefault("kafka.group_id", "succession-go-consumer")
	v.SetDefault("kafka.max_attempts", 3)
	v.SetDefault("roster.source", "file")
	v.SetDefault("roster.path", "configs/seed/members.json")
	v.SetDefault("roster.redis_key", "succession:roster")
	v.SetDefault("roster.object_key", "roster/members.json")
	v.SetDefault("roster.table", "members")
	v.SetDefault("hierarchy.bigNumber", 50)
}

// Load 从指定路径读取 YAML 配置文件，环境变量（前缀 SUCCESSION_）可覆盖文件中的值。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SUCCESSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return &cfg, nil
}

// Init 加载配置并写入全局变量 Conf，失败时直接 panic。
func Init(configPath string) {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *cfg
}
