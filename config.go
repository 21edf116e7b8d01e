package main

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

// ConfigFile is read from the working directory unless --config says otherwise.
const ConfigFile = "homonym.yaml"

type Config struct {
	Prompt   string   `yaml:"prompt"`
	EchoTree bool     `yaml:"echo_tree"`
	Preload  []string `yaml:"preload,omitempty"`
	LogLevel string   `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:   ">>> ",
		LogLevel: "NOTICE",
	}
}

// LoadConfig reads the config at path. A missing file yields the defaults, and
// fields the file leaves out keep their default values.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return conf, tracerr.Wrap(err)
	}

	if err := yaml.UnmarshalStrict(data, &conf); err != nil {
		return conf, tracerr.Wrap(err)
	}
	if _, err := conf.Level(); err != nil {
		return conf, tracerr.Wrap(err)
	}
	return conf, nil
}

func (c Config) Level() (capnslog.LogLevel, error) {
	return capnslog.ParseLevel(strings.ToUpper(c.LogLevel))
}

// WriteConfig writes c to path, refusing to overwrite an existing file.
func WriteConfig(path string, c Config) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return tracerr.Wrap(err)
	}

	fi, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer fi.Close()

	_, err = fi.Write(out)
	return tracerr.Wrap(err)
}
