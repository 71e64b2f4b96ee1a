// Package config loads the node and command-server settings with viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the whole configuration tree.
type Config struct {
	Log     LogConfig
	DB      DBConfig
	WiFi    WiFiConfig
	Server  ServerConfig
	Node    NodeConfig
	Power   PowerConfig
	API     APIConfig
	MQTT    MQTTConfig
	Metrics MetricsConfig
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Path string
}

// WiFiConfig holds the association credentials handed to the connectivity provider.
type WiFiConfig struct {
	SSID           string
	Passphrase     string
	InterfaceCIDR  string
	ConnectTimeout time.Duration
}

// ServerConfig addresses the command server the node polls.
type ServerConfig struct {
	Host      string
	Port      int
	Path      string
	UserAgent string
	IOTimeout time.Duration
}

type NodeConfig struct {
	DefaultSleepMinutes uint32
	BufferSize          int
	// Ports maps port index i+1 to GPIO Ports[i].
	Ports []int
	// Minute is the wall-clock length of one command minute; shortened for bench runs.
	Minute time.Duration
}

type PowerConfig struct {
	Mode string
}

// APIConfig configures `controllerboard serve`.
type APIConfig struct {
	Port       string
	BoardPorts int
}

// MQTTConfig mirrors node events to a broker. An empty Broker disables it.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// MetricsConfig exposes Prometheus metrics from `run`. An empty Listen disables
// it; `serve` always exposes /metrics on the API port.
type MetricsConfig struct {
	Listen string
}

const envPrefix = "controllerboard"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "data/controllerboard.db")
	v.SetDefault("wifi.connect_timeout", time.Minute)
	v.SetDefault("server.host", "wasser.borgsdorf.krasch.io")
	v.SetDefault("server.port", 80)
	v.SetDefault("server.path", "/actions/eightport/")
	v.SetDefault("server.user_agent", "controllerboard/1.0")
	v.SetDefault("server.io_timeout", 30*time.Second)
	v.SetDefault("node.default_sleep_minutes", 1)
	v.SetDefault("node.buffer_size", 1024)
	v.SetDefault("node.ports", []int{22, 23, 19, 21, 5, 18, 16, 17})
	v.SetDefault("node.minute", time.Minute)
	v.SetDefault("power.mode", "sleep")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.board_ports", 8)
	v.SetDefault("mqtt.client_id", "controllerboard")
	v.SetDefault("mqtt.topic_prefix", "controllerboard/eightport")
}

// Load reads .env (if present), then configs/config.yml, then environment
// overrides such as CONTROLLERBOARD_WIFI_PASSPHRASE. A missing config file is
// not an error: defaults apply.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("configs")
		v.AddConfigPath("/etc/controllerboard")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Log: LogConfig{Level: v.GetString("log.level")},
		DB:  DBConfig{Path: v.GetString("db.path")},
		WiFi: WiFiConfig{
			SSID:           v.GetString("wifi.ssid"),
			Passphrase:     v.GetString("wifi.passphrase"),
			InterfaceCIDR:  v.GetString("wifi.interface_cidr"),
			ConnectTimeout: v.GetDuration("wifi.connect_timeout"),
		},
		Server: ServerConfig{
			Host:      v.GetString("server.host"),
			Port:      v.GetInt("server.port"),
			Path:      v.GetString("server.path"),
			UserAgent: v.GetString("server.user_agent"),
			IOTimeout: v.GetDuration("server.io_timeout"),
		},
		Node: NodeConfig{
			DefaultSleepMinutes: v.GetUint32("node.default_sleep_minutes"),
			BufferSize:          v.GetInt("node.buffer_size"),
			Ports:               v.GetIntSlice("node.ports"),
			Minute:              v.GetDuration("node.minute"),
		},
		Power: PowerConfig{Mode: v.GetString("power.mode")},
		API: APIConfig{
			Port:       v.GetString("api.port"),
			BoardPorts: v.GetInt("api.board_ports"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("mqtt.broker"),
			ClientID:    v.GetString("mqtt.client_id"),
			Username:    v.GetString("mqtt.username"),
			Password:    v.GetString("mqtt.password"),
			TopicPrefix: v.GetString("mqtt.topic_prefix"),
		},
		Metrics: MetricsConfig{Listen: v.GetString("metrics.listen")},
	}
}

// Validate rejects settings the wake cycle cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Host == "":
		return errors.New("config: server.host is required")
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	case !strings.HasPrefix(c.Server.Path, "/"):
		return fmt.Errorf("config: server.path %q must start with /", c.Server.Path)
	case c.Node.BufferSize < 64:
		return fmt.Errorf("config: node.buffer_size %d is too small", c.Node.BufferSize)
	case len(c.Node.Ports) == 0:
		return errors.New("config: node.ports must list at least one gpio")
	case c.Node.Minute <= 0:
		return errors.New("config: node.minute must be positive")
	case c.WiFi.ConnectTimeout <= 0:
		return errors.New("config: wifi.connect_timeout must be positive")
	}
	if c.WiFi.InterfaceCIDR != "" {
		if _, _, err := net.ParseCIDR(c.WiFi.InterfaceCIDR); err != nil {
			return fmt.Errorf("config: wifi.interface_cidr: %w", err)
		}
	}
	seen := make(map[int]bool, len(c.Node.Ports))
	for _, p := range c.Node.Ports {
		if seen[p] {
			return fmt.Errorf("config: gpio %d mapped twice in node.ports", p)
		}
		seen[p] = true
	}
	return nil
}

// URL is the absolute request target sent in the GET line.
func (s ServerConfig) URL() string {
	if s.Port == 80 {
		return "http://" + s.Host + s.Path
	}
	return fmt.Sprintf("http://%s:%d%s", s.Host, s.Port, s.Path)
}
