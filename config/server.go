package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultService = "console-rpc"

// Server configures cmd/console-server. Values come from YAML first, then
// from the environment.
type Server struct {
	HTTP      HTTP      `yaml:"http"`
	IPC       IPC       `yaml:"ipc"`
	Registry  Registry  `yaml:"registry"`
	RateLimit RateLimit `yaml:"ratelimit"`
	Log       Log       `yaml:"log"`
	Metrics   bool      `yaml:"metrics" env:"CONSOLE_METRICS"`
}

type HTTP struct {
	Address string `yaml:"address" env:"CONSOLE_HTTP_ADDRESS"`
	Path    string `yaml:"path" env:"CONSOLE_RPC_PATH"`
}

// IPC enables the desktop host socket when Address is set.
type IPC struct {
	Address  string `yaml:"address" env:"CONSOLE_HOST_SOCKET"`
	MaxConns int    `yaml:"max_conns" env:"CONSOLE_IPC_MAX_CONNS"`
}

// Registry enables etcd registration when Endpoints is set.
type Registry struct {
	Endpoints string `yaml:"endpoints" env:"CONSOLE_ETCD_ENDPOINTS"`
	Service   string `yaml:"service" env:"CONSOLE_RPC_SERVICE"`
	// Advertise is the address other processes reach this server at
	Advertise string `yaml:"advertise" env:"CONSOLE_ADVERTISE"`
	Group     string `yaml:"group" env:"CONSOLE_GROUP"`
	Weight    uint32 `yaml:"weight" env:"CONSOLE_WEIGHT"`
}

func (r Registry) EndpointList() []string {
	return splitList(r.Endpoints)
}

const (
	LimitNone  = ""
	LimitToken = "token"
	LimitFixed = "fixed"
	LimitSlide = "slide"
	LimitRedis = "redis"
)

type RateLimit struct {
	Kind string `yaml:"kind" env:"CONSOLE_RATELIMIT"`
	// calls per Interval, or tokens a second for the token bucket
	Rate     int           `yaml:"rate" env:"CONSOLE_RATELIMIT_RATE"`
	Burst    int           `yaml:"burst" env:"CONSOLE_RATELIMIT_BURST"`
	Interval time.Duration `yaml:"interval" env:"CONSOLE_RATELIMIT_INTERVAL"`
	Redis    string        `yaml:"redis" env:"CONSOLE_REDIS_ADDR"`
}

type Log struct {
	Level       string `yaml:"level" env:"CONSOLE_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"CONSOLE_LOG_DEVELOPMENT"`
}

func DefaultServer() Server {
	return Server{
		HTTP: HTTP{
			Address: ":8080",
			Path:    "/rpc",
		},
		IPC: IPC{MaxConns: 64},
		Registry: Registry{
			Service: DefaultService,
			Weight:  10,
		},
		RateLimit: RateLimit{
			Rate:     100,
			Burst:    200,
			Interval: time.Second,
		},
		Log:     Log{Level: "info"},
		Metrics: true,
	}
}

// LoadServer applies path (optional) and then the environment on top of
// DefaultServer.
func LoadServer(path string, envFiles ...string) (Server, error) {
	cfg := DefaultServer()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Server{}, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Server{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := loadEnvFiles(envFiles...); err != nil {
		return Server{}, err
	}
	if err := decodeEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, cfg.Validate()
}

func (s Server) Validate() error {
	if s.HTTP.Address == "" {
		return fmt.Errorf("config: http.address is required")
	}
	switch s.RateLimit.Kind {
	case LimitNone, LimitToken, LimitFixed, LimitSlide:
	case LimitRedis:
		if s.RateLimit.Redis == "" {
			return fmt.Errorf("config: ratelimit.redis is required for the redis limiter")
		}
	default:
		return fmt.Errorf("config: unknown ratelimit.kind %q", s.RateLimit.Kind)
	}
	if s.RateLimit.Kind != LimitNone && s.RateLimit.Rate <= 0 {
		return fmt.Errorf("config: ratelimit.rate must be positive")
	}
	if len(s.Registry.EndpointList()) > 0 && s.Registry.Advertise == "" {
		return fmt.Errorf("config: registry.advertise is required with registry.endpoints")
	}
	return nil
}
