package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vera-byte/eauth-console/internal/session"
	"github.com/vera-byte/eauth-console/pkg/client"
)

// Config 应用配置结构
type Config struct {
	Backend BackendConfig `mapstructure:"backend" json:"backend"`
	Session SessionConfig `mapstructure:"session" json:"session"`
	Console ConsoleConfig `mapstructure:"console" json:"console"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
}

// BackendConfig 后端服务配置
type BackendConfig struct {
	Domain     string        `mapstructure:"domain" json:"domain"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	AuthScheme string        `mapstructure:"auth_scheme" json:"auth_scheme"` // Bearer 或 raw
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Store     string        `mapstructure:"store" json:"store"` // memory, file 或 redis
	Dir       string        `mapstructure:"dir" json:"dir"`
	RedisAddr string        `mapstructure:"redis_addr" json:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db" json:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl" json:"ttl"`
}

// ConsoleConfig 控制台服务配置
type ConsoleConfig struct {
	Host        string        `mapstructure:"host" json:"host"`
	Port        string        `mapstructure:"port" json:"port"`
	LoginRate   int           `mapstructure:"login_rate" json:"login_rate"`     // 窗口内允许的登录次数
	LoginWindow time.Duration `mapstructure:"login_window" json:"login_window"` // 登录限流窗口
	// CORSOrigins 允许跨域访问的来源, 为空时只允许同源
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	// TrustedProxies 可信反向代理, 为空时忽略X-Forwarded-For等转发头
	TrustedProxies []string `mapstructure:"trusted_proxies" json:"trusted_proxies"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json 或 console
	Output     string `mapstructure:"output"` // stderr, file 或 both
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // 天
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend.domain", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.auth_scheme", client.DefaultAuthScheme)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.dir", "")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("console.host", "127.0.0.1")
	v.SetDefault("console.port", "8080")
	v.SetDefault("console.login_rate", 5)
	v.SetDefault("console.login_window", time.Minute)
	v.SetDefault("console.cors_origins", []string{})
	v.SetDefault("console.trusted_proxies", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file", "logs/eauth-console.log")
	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", true)
}

// Load 加载配置文件
// 返回值: *Config 配置对象, error 错误信息
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom 从指定viper实例加载配置
// 参数: v viper实例, 命令行参数应已绑定
// 返回值: *Config 配置对象, error 错误信息
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	SetDefaults(v)

	// 读取环境变量, 如 EAUTH_SESSION_STORE
	v.SetEnvPrefix("EAUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 后端地址由部署时的 EAUTH_DOMAIN 提供
	if err := v.BindEnv("backend.domain", "EAUTH_DOMAIN", "VITE_EAUTH_DOMAIN"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// 如果配置文件不存在，使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ClientConfig 转换为客户端配置
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Domain:     c.Backend.Domain,
		Timeout:    c.Backend.Timeout,
		AuthScheme: c.Backend.AuthScheme,
	}
}

// StoreConfig 转换为会话仓库配置
func (c *Config) StoreConfig() session.StoreConfig {
	return session.StoreConfig{
		Backend:   c.Session.Store,
		Dir:       c.Session.Dir,
		RedisAddr: c.Session.RedisAddr,
		RedisDB:   c.Session.RedisDB,
		TTL:       c.Session.TTL,
	}
}
