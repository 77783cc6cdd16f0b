package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DB struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
	Name string `yaml:"database"`
}

type MQ struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  int    `yaml:"token_ttl_minutes"`
}

type Billing struct {
	TaxPercentage string `yaml:"tax_percentage"`
}

type Sweeper struct {
	// cron specs; defaults match the hourly / 15-minute cadence
	TableSweepSpec    string `yaml:"table_sweep_spec"`
	BillAlertSpec     string `yaml:"bill_alert_spec"`
	AbandonedAfterMin int    `yaml:"abandoned_after_minutes"`
	BillAlertAfterMin int    `yaml:"bill_alert_after_minutes"`
}

type SMTP struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"password"`
}

type Notifications struct {
	From         string `yaml:"from"`
	KitchenEmail string `yaml:"kitchen_email"`
	ManagerEmail string `yaml:"manager_email"`
	SMTP         SMTP   `yaml:"smtp"`
}

type App struct {
	Server        Server        `yaml:"server"`
	Database      DB            `yaml:"database"`
	Rabbit        MQ            `yaml:"rabbitmq"`
	Auth          Auth          `yaml:"auth"`
	Billing       Billing       `yaml:"billing"`
	Sweeper       Sweeper       `yaml:"sweeper"`
	Notifications Notifications `yaml:"notifications"`
}

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config: %w", err)
	}
	a := defaults()
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&a)
	if a.Database.Host == "" || a.Rabbit.Host == "" {
		return App{}, errors.New("invalid config: missing database/rabbitmq host")
	}
	if a.Auth.JWTSecret == "" {
		return App{}, errors.New("invalid config: missing auth.jwt_secret")
	}
	return a, nil
}

func defaults() App {
	return App{
		Server:  Server{Port: 3000},
		Billing: Billing{TaxPercentage: "5.00"},
		Auth:    Auth{TokenTTL: 480},
		Sweeper: Sweeper{
			TableSweepSpec:    "0 * * * *",
			BillAlertSpec:     "*/15 * * * *",
			AbandonedAfterMin: 180,
			BillAlertAfterMin: 30,
		},
		Notifications: Notifications{
			From:         "noreply@restaurant.local",
			KitchenEmail: "kitchen@restaurant.local",
			ManagerEmail: "manager@restaurant.local",
		},
	}
}

// applyEnv lets secrets come from the environment instead of the file.
func applyEnv(a *App) {
	if v := os.Getenv("TABLESIDE_DB_PASSWORD"); v != "" {
		a.Database.Pass = v
	}
	if v := os.Getenv("TABLESIDE_RABBITMQ_PASSWORD"); v != "" {
		a.Rabbit.Pass = v
	}
	if v := os.Getenv("TABLESIDE_JWT_SECRET"); v != "" {
		a.Auth.JWTSecret = v
	}
	if v := os.Getenv("TABLESIDE_SMTP_PASSWORD"); v != "" {
		a.Notifications.SMTP.Pass = v
	}
}

func (a App) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		a.Database.User, a.Database.Pass, a.Database.Host, a.Database.Port, a.Database.Name)
}

func (a App) RabbitURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		a.Rabbit.User, a.Rabbit.Pass, a.Rabbit.Host, a.Rabbit.Port)
}

func (a App) TokenTTL() time.Duration {
	return time.Duration(a.Auth.TokenTTL) * time.Minute
}

func (a App) AbandonedAfter() time.Duration {
	return time.Duration(a.Sweeper.AbandonedAfterMin) * time.Minute
}

func (a App) BillAlertAfter() time.Duration {
	return time.Duration(a.Sweeper.BillAlertAfterMin) * time.Minute
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
