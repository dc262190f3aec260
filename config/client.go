package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Client is what a bridge consumer needs to reach either side.
type Client struct {
	// web side
	Origin string `env:"CONSOLE_RPC_ORIGIN"`
	Path   string `env:"CONSOLE_RPC_PATH"`
	// discovery, used when Origin is empty
	EtcdEndpoints string `env:"CONSOLE_ETCD_ENDPOINTS"`
	Service       string `env:"CONSOLE_RPC_SERVICE"`

	// desktop side, set by the embedded host
	HostSocket string `env:"CONSOLE_HOST_SOCKET"`
	Compressor string `env:"CONSOLE_IPC_COMPRESSOR"`
	Serializer string `env:"CONSOLE_IPC_SERIALIZER"`
}

// Endpoints splits EtcdEndpoints on commas.
func (c Client) Endpoints() []string {
	return splitList(c.EtcdEndpoints)
}

// LoadClient reads the process environment after loading envFiles, .env by
// default. Missing files are skipped and never override variables already set.
func LoadClient(envFiles ...string) (Client, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return Client{}, err
	}
	var c Client
	if err := decodeEnv(&c); err != nil {
		return Client{}, err
	}
	if c.Path == "" {
		c.Path = "/rpc"
	}
	if c.Service == "" {
		c.Service = DefaultService
	}
	return c, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func decodeEnv(target any) error {
	err := envdecode.Decode(target)
	if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil
	}
	return err
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
