package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是全局配置实例，在LoadConfig成功后可用。
var Cfg *Config

// Config 与config.yaml的结构一一对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig 定义了HTTP服务器相关的配置。
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置。
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了实时存储(Redis)和归档库(SQL)的配置。
type DatabaseConfig struct {
	Redis   RedisConfig   `mapstructure:"redis"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// RedisConfig 定义了Redis的连接参数。
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ArchiveConfig 定义了归档数据库的配置。
// Dialect 可选 "sqlite" 或 "postgres"。
type ArchiveConfig struct {
	Dialect     string `mapstructure:"dialect"`
	SqlitePath  string `mapstructure:"sqlitePath"`
	PostgresDSN string `mapstructure:"postgresDSN"`
}

// AppConfig 定义了专注搭子应用本身的业务配置。
type AppConfig struct {
	// CharacterA/CharacterB 是两位固定参与者的标识。
	CharacterA string `mapstructure:"characterA"`
	CharacterB string `mapstructure:"characterB"`

	// CycleOffsetHours 是周期日边界相对UTC零点的偏移小时数。
	CycleOffsetHours int `mapstructure:"cycleOffsetHours"`

	// VoiceMaxSeconds 是语音奖励的最大时长(秒)。
	VoiceMaxSeconds int `mapstructure:"voiceMaxSeconds"`
	// VoiceMaxBytes 是语音data URI的最大字节数。
	VoiceMaxBytes int `mapstructure:"voiceMaxBytes"`

	// 通知的自动消失时长(秒)。
	JoinedNoticeSeconds  int `mapstructure:"joinedNoticeSeconds"`
	OnlineNoticeSeconds  int `mapstructure:"onlineNoticeSeconds"`
	OfflineNoticeSeconds int `mapstructure:"offlineNoticeSeconds"`
}

// CycleOffset 把配置的偏移小时数转换为Duration。
func (a AppConfig) CycleOffset() time.Duration {
	return time.Duration(a.CycleOffsetHours) * time.Hour
}

// Characters 返回两位角色的标识列表。
func (a AppConfig) Characters() []string {
	return []string{a.CharacterA, a.CharacterB}
}

// PartnerOf 返回给定角色的搭档；未知角色返回错误。
func (a AppConfig) PartnerOf(character string) (string, error) {
	switch character {
	case a.CharacterA:
		return a.CharacterB, nil
	case a.CharacterB:
		return a.CharacterA, nil
	}
	return "", fmt.Errorf("未知的角色: %s", character)
}

// IsCharacter 判断一个标识是否是合法角色。
func (a AppConfig) IsCharacter(character string) bool {
	return character == a.CharacterA || character == a.CharacterB
}

// LoadConfig 查找、加载并解析配置文件，同时允许环境变量覆盖。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 允许 SERVER_ADDRESS / APP_CHARACTERA 这类环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 业务配置的默认值
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.archive.dialect", "sqlite")
	v.SetDefault("database.archive.sqlitePath", "focusduo.db")
	v.SetDefault("app.characterA", "mio")
	v.SetDefault("app.characterB", "yuki")
	v.SetDefault("app.cycleOffsetHours", 5)
	v.SetDefault("app.voiceMaxSeconds", 120)
	v.SetDefault("app.voiceMaxBytes", 2*1024*1024)
	v.SetDefault("app.joinedNoticeSeconds", 4)
	v.SetDefault("app.onlineNoticeSeconds", 15)
	v.SetDefault("app.offlineNoticeSeconds", 4)

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时完全依赖默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.CharacterA == cfg.App.CharacterB {
		return nil, fmt.Errorf("两位角色的标识不能相同: %s", cfg.App.CharacterA)
	}

	Cfg = &cfg
	return Cfg, nil
}
