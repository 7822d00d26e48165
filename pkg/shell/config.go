package shell

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the optional websh.yaml startup file consulted before
// .profile.
type Config struct {
	Prompt    string `yaml:"prompt"`
	HistSize  int    `yaml:"hist_size"`
	Autostart string `yaml:"autostart"`
}

// ParseConfig unmarshals websh.yaml content read from the vfs. Callers
// that found no such file just skip calling this and run with defaults.
func ParseConfig(data string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply seeds the shell's environment and prompt from cfg, run once at
// startup before reading .profile.
func (s *Shell) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Prompt != "" {
		s.Proc.Prompt = cfg.Prompt
	}
	if cfg.HistSize > 0 {
		s.Proc.Variables()["HIST_SIZE"] = strconv.Itoa(cfg.HistSize)
	}
}
