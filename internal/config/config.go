// Package config loads cistat's YAML configuration and resolves
// credentials from the environment. Credentials never live in the file:
// Jenkins and SMTP secrets come only from JENKINS_USER, JENKINS_TOKEN,
// EMAIL_USER and EMAIL_PASS.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no -config flag is given.
const DefaultPath = ".cistat.yaml"

// Defaults.
const (
	DefaultBuilds   = 10
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 465
	DefaultTheme    = "default"
)

// Email holds report delivery settings.
type Email struct {
	Recipients []string `yaml:"recipients"`
	CC         []string `yaml:"cc"`
	SMTPHost   string   `yaml:"smtp_host"`
	SMTPPort   int      `yaml:"smtp_port"`
}

// Config is the application configuration: the YAML file layered over
// defaults, with environment credentials on top.
type Config struct {
	JobURL string `yaml:"job_url"`
	Builds int    `yaml:"builds"`
	OutDir string `yaml:"out_dir"`
	Theme  string `yaml:"theme"`
	Email  Email  `yaml:"email"`

	JenkinsUser  string `yaml:"-"`
	JenkinsToken string `yaml:"-"`
	EmailUser    string `yaml:"-"`
	EmailPass    string `yaml:"-"`
}

// Load reads the YAML config at path and layers environment credentials
// on top. A missing file is not an error — defaults plus flags and
// environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Builds: DefaultBuilds,
		OutDir: ".",
		Theme:  DefaultTheme,
		Email: Email{
			SMTPHost: DefaultSMTPHost,
			SMTPPort: DefaultSMTPPort,
		},
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg.JenkinsUser = os.Getenv("JENKINS_USER")
	cfg.JenkinsToken = os.Getenv("JENKINS_TOKEN")
	cfg.EmailUser = os.Getenv("EMAIL_USER")
	cfg.EmailPass = os.Getenv("EMAIL_PASS")
	return cfg, nil
}

// Validate checks the settings required to reach Jenkins at all. Email
// settings are deliberately not validated here — a run without email is
// still a useful run.
func (c *Config) Validate() error {
	if c.JobURL == "" {
		return fmt.Errorf("job_url is required (config file or -job flag)")
	}
	if c.JenkinsUser == "" || c.JenkinsToken == "" {
		return fmt.Errorf("missing Jenkins credentials: set JENKINS_USER and JENKINS_TOKEN")
	}
	if c.Builds <= 0 {
		return fmt.Errorf("builds must be positive, got %d", c.Builds)
	}
	return nil
}

// EmailConfigured reports whether enough is present to send the report
// email: SMTP credentials and at least one recipient.
func (c *Config) EmailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != "" && len(c.Email.Recipients) > 0
}
