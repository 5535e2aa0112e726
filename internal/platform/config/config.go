package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageDriver は永続化の実装種別です。
type StorageDriver string

const (
	StorageDriverPostgres StorageDriver = "postgres"
	StorageDriverMemory   StorageDriver = "memory"
)

const (
	defaultShutdownTimeout     = 10 * time.Second
	defaultHealthCheckInterval = 15 * time.Second
	defaultCacheTTL            = 24 * time.Hour
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
	localTimezone              = "Local"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig は gRPC / HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr             string        `yaml:"listen_addr"`
	HTTPListenAddr         string        `yaml:"http_listen_addr"`
	ShutdownTimeout        time.Duration `yaml:"-"`
	ShutdownTimeoutRaw     string        `yaml:"shutdown_timeout"`
	HealthCheckInterval    time.Duration `yaml:"-"`
	HealthCheckIntervalRaw string        `yaml:"health_check_interval"`
}

// StorageConfig は永続化ドライバの設定です。
type StorageConfig struct {
	Driver StorageDriver `yaml:"driver"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// RedisConfig は最終打刻キャッシュ用 Redis の設定です。URL が空の場合は無効です。
type RedisConfig struct {
	URL         string        `yaml:"url"`
	PoolSize    int           `yaml:"pool_size"`
	CacheTTL    time.Duration `yaml:"-"`
	CacheTTLRaw string        `yaml:"cache_ttl"`
}

// Enabled は Redis が設定されているかを返します。
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// KafkaConfig は打刻イベント配信用 Kafka の設定です。Brokers が空の場合は無効です。
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

// Enabled は Kafka が設定されているかを返します。
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// AttendanceConfig は打刻ユースケースの設定です。
type AttendanceConfig struct {
	Timezone string         `yaml:"timezone"`
	Location *time.Location `yaml:"-"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Server.validateAndNormalize(); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = StorageDriverPostgres
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: storage.driver %q is not supported", c.Storage.Driver)
	}

	if c.Storage.Driver == StorageDriverPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if err := c.Redis.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Kafka.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Attendance.validateAndNormalize(); err != nil {
		return err
	}

	return c.Log.validateAndNormalize()
}

func (s *ServerConfig) validateAndNormalize() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}
	if s.HTTPListenAddr == "" {
		return fmt.Errorf("config: server.http_listen_addr must be set")
	}

	timeout, err := parseDurationAllowEmpty(s.ShutdownTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}
	s.ShutdownTimeout = timeout

	interval, err := parseDurationAllowEmpty(s.HealthCheckIntervalRaw)
	if err != nil {
		return fmt.Errorf("config: server.health_check_interval: %w", err)
	}
	if interval == 0 {
		interval = defaultHealthCheckInterval
	}
	s.HealthCheckInterval = interval

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (r *RedisConfig) validateAndNormalize() error {
	if !r.Enabled() {
		return nil
	}
	if _, err := url.Parse(r.URL); err != nil {
		return fmt.Errorf("config: redis.url: %w", err)
	}

	ttl, err := parseDurationAllowEmpty(r.CacheTTLRaw)
	if err != nil {
		return fmt.Errorf("config: redis.cache_ttl: %w", err)
	}
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	r.CacheTTL = ttl

	return nil
}

func (k *KafkaConfig) validateAndNormalize() error {
	if !k.Enabled() {
		return nil
	}
	for _, broker := range k.Brokers {
		if _, _, err := net.SplitHostPort(broker); err != nil {
			return fmt.Errorf("config: kafka.brokers: %w", err)
		}
	}
	if strings.TrimSpace(k.Topic) == "" {
		return fmt.Errorf("config: kafka.topic must be set when brokers are configured")
	}
	return nil
}

func (a *AttendanceConfig) validateAndNormalize() error {
	if a.Timezone == "" {
		a.Timezone = localTimezone
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fmt.Errorf("config: attendance.timezone: %w", err)
	}
	a.Location = loc
	return nil
}

func (l *LogConfig) validateAndNormalize() error {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}

	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is not supported", l.Level)
	}

	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("config: log.format %q is not supported", l.Format)
	}

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
