package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default) | TEST | QA | PROD
	Build    string

	AppName          string
	SecretKey        []byte
	FrontendBaseURL  string
	DefaultFromEmail mail.Address

	SendgridAPIKey string
	RollbarToken   string

	PasswordResetTimeoutDelta time.Duration

	Server struct {
		Host                      string
		Addr                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	Database struct {
		Path string
	}

	Model struct {
		Path string
	}
}

// NewConfig loads the app configuration from the environment,
// optionally seeded by a `config/.env.<env>` file under workDir.
func NewConfig(workDir string) (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "EduTrack")
	conf.SetDefault("secretKey", "w7r#drm-1z&bq)58daprg5m6ej&-p)1b8q0+e^%fk2+y6-u#x$")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("databasePath", "edutrack.db")
	conf.SetDefault("modelPath", "model.gob")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	cfg := &Config{
		Debug:                     conf.GetBool("debug"),
		TestMode:                  conf.GetBool("testMode"),
		Env:                       env,
		Build:                     conf.GetString("build"),
		AppName:                   conf.GetString("appName"),
		SecretKey:                 []byte(conf.GetString("secretKey")),
		FrontendBaseURL:           conf.GetString("frontendBaseURL"),
		DefaultFromEmail:          mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SendgridAPIKey:            conf.GetString("sendgridApiKey"),
		RollbarToken:              conf.GetString("rollbarToken"),
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
	}
	cfg.Server.Host = conf.GetString("serverHost")
	cfg.Server.Addr = conf.GetString("serverAddr")
	cfg.Server.JWTExpirationDelta = conf.GetDuration("jwtExpirationDelta")
	cfg.Server.JWTRefreshExpirationDelta = conf.GetDuration("jwtRefreshExpirationDelta")
	cfg.Database.Path = conf.GetString("databasePath")
	cfg.Model.Path = conf.GetString("modelPath")
	return cfg, nil
}
