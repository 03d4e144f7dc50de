package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// Config 房间客户端配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Profile ProfileConfig `yaml:"profile"`
	Redis   RedisConfig   `yaml:"redis"`
	Debug   DebugConfig   `yaml:"debug"`
	Log     LogConfig     `yaml:"log"`
	Sound   SoundConfig   `yaml:"sound"`
}

// ServerConfig 房间服务器配置
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	Path             string `yaml:"path"`
	Passcode         uint32 `yaml:"passcode"`
	HandshakeTimeout int    `yaml:"handshake_timeout"` // 握手超时（秒）
	ClientID         uint32 `yaml:"client_id"`
	Token            string `yaml:"token"` // base64
}

// SessionConfig 会话配置
type SessionConfig struct {
	LocalPlayers int `yaml:"local_players"`
	TickRate     int `yaml:"tick_rate"` // 每秒 tick 次数
}

// ProfileConfig 本地玩家资料
type ProfileConfig struct {
	Key             string            `yaml:"key"`  // Redis 中保存房间设置的键
	Miis            []string          `yaml:"miis"` // base64 编码的 Mii，每个本地座位一个
	Location        uint32            `yaml:"location"`
	Latitude        uint16            `yaml:"latitude"`
	Longitude       uint16            `yaml:"longitude"`
	RegionLineColor uint32            `yaml:"region_line_color"`
	Settings        map[string]string `yaml:"settings"` // 设置名 -> 取值或标签
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DebugConfig 调试接口配置，Addr 为空时不启动
type DebugConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig 日志配置
type LogConfig struct {
	Dir string `yaml:"dir"`
}

// SoundConfig 音效配置
type SoundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// 默认值
const (
	defaultServerAddr       = "localhost:21330"
	defaultServerPath       = "/room"
	defaultHandshakeTimeout = 10
	defaultLocalPlayers     = 1
	defaultTickRate         = 60
	defaultProfileKey       = "default"
	defaultRedisAddr        = "localhost:6379"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// URL 返回房间服务器的 WebSocket 地址
func (c *ServerConfig) URL() string {
	u := url.URL{Scheme: "ws", Host: c.Addr, Path: c.Path}
	return u.String()
}

// LoginInfo 返回加入房间时携带的账号信息，未配置时为 nil
func (c *ServerConfig) LoginInfo() (*protocol.LoginInfo, error) {
	if c.ClientID == 0 && c.Token == "" {
		return nil, nil
	}
	token, err := base64.StdEncoding.DecodeString(c.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: server.token: %w", ErrInvalid, err)
	}
	return &protocol.LoginInfo{ClientID: c.ClientID, Token: token}, nil
}

// HandshakeTimeoutDuration 返回握手超时时长
func (c *ServerConfig) HandshakeTimeoutDuration() time.Duration {
	return time.Duration(c.HandshakeTimeout) * time.Second
}

// TickInterval 返回两次 tick 的间隔
func (c *SessionConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// 设置默认值
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	if c.Server.Path == "" {
		c.Server.Path = defaultServerPath
	}
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = defaultHandshakeTimeout
	}
	if c.Session.LocalPlayers == 0 {
		c.Session.LocalPlayers = defaultLocalPlayers
	}
	if c.Session.TickRate == 0 {
		c.Session.TickRate = defaultTickRate
	}
	if c.Profile.Key == "" {
		c.Profile.Key = defaultProfileKey
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ApplyEnv 使用环境变量覆盖配置
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROOM_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ROOM_PASSCODE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("ROOM_PASSCODE: %w", err)
		}
		c.Server.Passcode = uint32(n)
	}
	if v := os.Getenv("ROOM_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("ROOM_DEBUG_ADDR"); v != "" {
		c.Debug.Addr = v
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is empty")
	}
	if c.Server.HandshakeTimeout < 0 {
		problems = append(problems, "server.handshake_timeout is negative")
	}
	if c.Session.LocalPlayers < 1 || c.Session.LocalPlayers > 4 {
		problems = append(problems, fmt.Sprintf("session.local_players must be 1..4, got %d", c.Session.LocalPlayers))
	}
	if c.Session.TickRate < 1 || c.Session.TickRate > 240 {
		problems = append(problems, fmt.Sprintf("session.tick_rate must be 1..240, got %d", c.Session.TickRate))
	}
	if len(c.Profile.Miis) != 0 && len(c.Profile.Miis) < c.Session.LocalPlayers {
		problems = append(problems, fmt.Sprintf("profile.miis has %d entries for %d local players",
			len(c.Profile.Miis), c.Session.LocalPlayers))
	}
	if c.Redis.DB < 0 {
		problems = append(problems, "redis.db is negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
