package globals

import (
	"fmt"
	"gfa-backend/internal/components/config"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/db"
	"gfa-backend/internal/notify"
	"gfa-backend/internal/scrapers/farligtavfall"
	"os"
	"path/filepath"
)

type SourceConfig struct {
	BaseURL          string `json:"base_url"`
	LandingPath      string `json:"landing_path"`
	PagingPath       string `json:"paging_path"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

func (c SourceConfig) ClientOptions() farligtavfall.ClientOptions {
	return farligtavfall.ClientOptions{
		BaseURL:          c.BaseURL,
		LandingPath:      c.LandingPath,
		PagingPath:       c.PagingPath,
		CloudflareBypass: c.CloudflareBypass,
	}
}

type NatsConfig struct {
	URL     string `json:"url"`
	Subject string `json:"subject"`
}

type SmtpConfig struct {
	Server         string `json:"server"`
	Port           int    `json:"port"`
	EmailAddress   string `json:"email_address"`
	Password       string `json:"password"`
	UnsubscribeURL string `json:"unsubscribe_url"`
}

func (c SmtpConfig) Mailer() notify.SMTPMailer {
	return notify.NewSMTPMailer(notify.SmtpConfig{
		Server:       c.Server,
		Port:         c.Port,
		EmailAddress: c.EmailAddress,
		Password:     c.Password,
	})
}

type ScheduleConfig struct {
	Scrape string `json:"scrape"`
	Notify string `json:"notify"`
}

type Config struct {
	Source      SourceConfig         `json:"source"`
	Database    db.Config            `json:"database"`
	Nats        NatsConfig           `json:"nats"`
	Smtp        SmtpConfig           `json:"smtp"`
	Schedule    ScheduleConfig       `json:"schedule"`
	WindowWeeks int                  `json:"window_weeks"`
	Otlp        telemetry.OtlpConfig `json:"otlp"`
}

func defaultConfig() Config {
	return Config{
		Source: SourceConfig{
			BaseURL:     farligtavfall.DefaultBaseURL,
			LandingPath: farligtavfall.DefaultLandingPath,
		},
		Database: db.Config{File: "gfa.db"},
		Smtp:     SmtpConfig{Port: 587},
		Schedule: ScheduleConfig{
			Scrape: "0 5 * * *",
			Notify: "0 7 * * *",
		},
	}
}

// LoadConfig reads path (and its .local override) over the defaults, a
// missing file leaves the defaults alone. A relative path is looked up from
// the working directory upwards. Secrets in the environment win over the
// file.
func LoadConfig(path string) (Config, error) {
	out := defaultConfig()

	err := config.LoadEnv()
	if err != nil {
		return out, err
	}

	var fromFile Config
	if filepath.IsAbs(path) {
		fromFile, err = config.ReadConfig[Config](path)
	} else {
		fromFile, err = config.ReadRecursively[Config](path)
	}
	if err != nil && !os.IsNotExist(err) {
		return out, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		err = config.Merge(&out, fromFile)
		if err != nil {
			return out, fmt.Errorf("merge config: %w", err)
		}
	}

	config.OverrideFromEnv(&out.Smtp.Password, "GFA_SMTP_PASSWORD")
	config.OverrideFromEnv(&out.Nats.URL, "GFA_NATS_URL")
	config.OverrideFromEnv(&out.Database.LibsqlURL, "GFA_LIBSQL_URL")
	config.OverrideFromEnv(&out.Database.AuthToken, "GFA_LIBSQL_AUTH_TOKEN")
	return out, nil
}
