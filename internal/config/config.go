package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port      int     `yaml:"port"`
		APIKey    string  `yaml:"api_key"`
		RateLimit float64 `yaml:"rate_limit"` // requests per second per client
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		MinAdvanceMinutes  int  `yaml:"min_advance_minutes"`
		MaxAdvanceDays     int  `yaml:"max_advance_days"`
		LockWaitSeconds    int  `yaml:"lock_wait_seconds"`
		LenientTransitions bool `yaml:"lenient_transitions"`
	} `yaml:"booking"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Reminders struct {
		Enabled     bool `yaml:"enabled"`
		LeadHours   int  `yaml:"lead_hours"`
		ScanMinutes int  `yaml:"scan_minutes"`
	} `yaml:"reminders"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/bookings.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) BookingMinAdvance() time.Duration {
	if c.Booking.MinAdvanceMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Booking.MinAdvanceMinutes) * time.Minute
}

func (c *Config) BookingMaxAdvance() time.Duration {
	if c.Booking.MaxAdvanceDays <= 0 {
		return 0
	}
	return time.Duration(c.Booking.MaxAdvanceDays) * 24 * time.Hour
}

func (c *Config) LockWait() time.Duration {
	if c.Booking.LockWaitSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Booking.LockWaitSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 0
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

func (c *Config) ReminderLead() time.Duration {
	if c.Reminders.LeadHours <= 0 {
		return 0
	}
	return time.Duration(c.Reminders.LeadHours) * time.Hour
}

func (c *Config) ReminderScanInterval() time.Duration {
	if c.Reminders.ScanMinutes <= 0 {
		return 0
	}
	return time.Duration(c.Reminders.ScanMinutes) * time.Minute
}
