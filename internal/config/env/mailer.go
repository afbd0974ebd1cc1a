package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type mailerEnv struct {
	Endpoint   string        `env:"MAILER_ENDPOINT" envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string        `env:"MAILER_SERVICE_ID"`
	TemplateID string        `env:"MAILER_TEMPLATE_ID"`
	PublicKey  string        `env:"MAILER_PUBLIC_KEY"`
	Timeout    time.Duration `env:"MAILER_TIMEOUT" envDefault:"10s"`
}

type mailer struct {
	raw mailerEnv
}

func NewMailerConfig() (*mailer, error) {
	var raw mailerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &mailer{raw: raw}, nil
}

func (cfg *mailer) Endpoint() string       { return cfg.raw.Endpoint }
func (cfg *mailer) ServiceID() string      { return cfg.raw.ServiceID }
func (cfg *mailer) TemplateID() string     { return cfg.raw.TemplateID }
func (cfg *mailer) PublicKey() string      { return cfg.raw.PublicKey }
func (cfg *mailer) Timeout() time.Duration { return cfg.raw.Timeout }
