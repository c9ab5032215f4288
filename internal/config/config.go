package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr           string  `env:"LISTEN_ADDR"`
	Port                 string  `env:"PORT" envDefault:"8080"`
	DatabasePath         string  `env:"DATABASE_PATH" envDefault:"sitepress.db"`
	SessionSecret        string  `env:"SESSION_SECRET" envDefault:"sitepress-dev-secret"`
	GinMode              string  `env:"GIN_MODE" envDefault:"release"`
	UploadDir            string  `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadURLPath        string  `env:"UPLOAD_URL_PATH" envDefault:"/static/uploads"`
	UploadMaxBytes       int64   `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	AdminEmail           string  `env:"ADMIN_EMAIL"`
	AdminPassword        string  `env:"ADMIN_PASSWORD"`
	AllowSignup          bool    `env:"ALLOW_SIGNUP" envDefault:"false"`
	ContactRatePerMinute float64 `env:"CONTACT_RATE_PER_MINUTE" envDefault:"5"`
	ContactBurst         int     `env:"CONTACT_BURST" envDefault:"3"`
	SignInRatePerMinute  float64 `env:"SIGNIN_RATE_PER_MINUTE" envDefault:"10"`
	SignInBurst          int     `env:"SIGNIN_BURST" envDefault:"5"`
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	cfg.AdminEmail = strings.TrimSpace(cfg.AdminEmail)
	cfg.AdminPassword = strings.TrimSpace(cfg.AdminPassword)
	if cfg.ContactRatePerMinute <= 0 {
		cfg.ContactRatePerMinute = 5
	}
	if cfg.ContactBurst <= 0 {
		cfg.ContactBurst = 1
	}
	if cfg.SignInRatePerMinute <= 0 {
		cfg.SignInRatePerMinute = 10
	}
	if cfg.SignInBurst <= 0 {
		cfg.SignInBurst = 1
	}

	return cfg, nil
}
