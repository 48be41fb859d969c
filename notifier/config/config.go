package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/bookwise/library-service/pkg/kafka"
	"github.com/bookwise/library-service/pkg/logger"
)

type Mailer struct {
	// Endpoint receives {email, subject, message} as JSON. Empty means log only.
	Endpoint string        `yaml:"endpoint" envconfig:"MAILER_ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"MAILER_TIMEOUT" default:"10s"`
}

type Config struct {
	Kafka  kafka.Config `yaml:"kafka"`
	Mailer Mailer       `yaml:"mailer"`
	Log    logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

func NewConfig() *Config {
	once.Do(func() {
		var config Config
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
		fmt.Println(string(jscfg))
	})
	return cfg
}
