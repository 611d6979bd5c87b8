package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	hConfig "github.com/michaelyusak/go-helper/config"
	"github.com/michaelyusak/go-helper/entity"
	appEntity "github.com/milkeg/CryptoBot/entity"
)

const (
	DefaultPath    = "./config/config.json"
	DefaultTimeout = 10 * time.Second
)

type ExchangeClientConfig struct {
	Enabled    bool            `json:"enabled"`
	BaseUrl    string          `json:"base_url"`
	PublicKey  string          `json:"public_key"`
	SecretKey  string          `json:"secret_key"`
	Timeout    entity.Duration `json:"timeout"`
	NumberMode string          `json:"number_mode"`
}

// TimeoutOrDefault falls back to DefaultTimeout when none is configured.
func (c ExchangeClientConfig) TimeoutOrDefault() time.Duration {
	if d := time.Duration(c.Timeout); d > 0 {
		return d
	}
	return DefaultTimeout
}

type ExchangeConfig struct {
	Bittrex  ExchangeClientConfig `json:"bittrex"`
	Gatecoin ExchangeClientConfig `json:"gatecoin"`
	Liqui    ExchangeClientConfig `json:"liqui"`
}

type PollConfig struct {
	IntervalSeconds uint64 `json:"interval_seconds"`
}

type ServerConfig struct {
	Port string `json:"port"`
}

type AppConfig struct {
	Identity string                   `json:"identity"`
	LogDir   string                   `json:"log_dir"`
	LogLevel string                   `json:"log_level"`
	Exchange ExchangeConfig           `json:"exchange"`
	Pairs    []appEntity.CurrencyPair `json:"pairs"`
	Poll     PollConfig               `json:"poll"`
	Server   ServerConfig             `json:"server"`
}

func Init(path string, conf *AppConfig) error {
	if path == "" {
		path = DefaultPath
	}

	c, err := hConfig.InitFromJson[AppConfig](path)
	if err != nil {
		return fmt.Errorf("[config][Init][hConfig.InitFromJson] Error: %w", err)
	}

	applyDefaults(&c)

	*conf = c

	return nil
}

func applyDefaults(c *AppConfig) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Poll.IntervalSeconds == 0 {
		c.Poll.IntervalSeconds = 30
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	for _, ex := range []*ExchangeClientConfig{&c.Exchange.Bittrex, &c.Exchange.Gatecoin, &c.Exchange.Liqui} {
		if ex.NumberMode == "" {
			ex.NumberMode = "decimal"
		}
	}
}

// LoadEnv overlays API keys from the environment, after loading files (a
// missing file is skipped). Keys set in the environment win over the JSON.
func LoadEnv(conf *AppConfig, files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("[config][LoadEnv][godotenv.Load] Error: %w", err)
		}
	}

	overlay := func(c *ExchangeClientConfig, prefix string) {
		if v := os.Getenv(prefix + "_PUBLIC_KEY"); v != "" {
			c.PublicKey = v
		}
		if v := os.Getenv(prefix + "_SECRET_KEY"); v != "" {
			c.SecretKey = v
		}
	}

	overlay(&conf.Exchange.Bittrex, "BITTREX")
	overlay(&conf.Exchange.Gatecoin, "GATECOIN")
	overlay(&conf.Exchange.Liqui, "LIQUI")

	return nil
}
