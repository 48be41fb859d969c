package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/bookwise/library-service/library/internal/notify"
	"github.com/bookwise/library-service/library/internal/service"
	"github.com/bookwise/library-service/pkg/auth0"
	"github.com/bookwise/library-service/pkg/kafka"
	"github.com/bookwise/library-service/pkg/logger"
	"github.com/bookwise/library-service/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8060"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type Jobs struct {
	ReengageInterval time.Duration `yaml:"reengageInterval" envconfig:"REENGAGE_INTERVAL" default:"720h"`
}

type Config struct {
	Server   HTTPServer     `yaml:"server"`
	Database postgres.DB    `yaml:"db"`
	Kafka    kafka.Config   `yaml:"kafka"`
	Auth0    auth0.Config   `yaml:"auth0"`
	Policy   service.Policy `yaml:"policy"`
	Notify   notify.Config  `yaml:"notify"`
	Jobs     Jobs           `yaml:"jobs"`
	Log      logger.Log     `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
