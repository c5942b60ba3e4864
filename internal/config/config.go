package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Redis    *Redisconfig
	Sms      *Smsconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	Migrations string
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Redisconfig struct {
	Host     string
	Port     int
	Password string
}

type Smsconfig struct {
	Enabled    bool
	GatewayURL string
	APIKey     string
	Sender     string
}

type Serviceconfig struct {
	AuthServicePort     string
	DispatchServicePort string
	DriverServicePort   string
	AdminServicePort    string
}

type Appconfig struct {
	JwtSecret string
	TokenTTL  int // hours
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	_ = godotenv.Load(".env")

	getEnv := func(key string, def any) any {
		if val, exists := os.LookupEnv(key); exists {
			return val
		}
		return def
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:       cast.ToString(getEnv("DB_HOST", "localhost")),
			Port:       cast.ToInt(getEnv("DB_PORT", 5432)),
			User:       cast.ToString(getEnv("DB_USER", "safri_user")),
			Password:   cast.ToString(getEnv("DB_PASSWORD", "safri_pass")),
			Database:   cast.ToString(getEnv("DB_NAME", "safri_db")),
			Migrations: cast.ToString(getEnv("DB_MIGRATIONS", "migrations")),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     cast.ToString(getEnv("RABBITMQ_HOST", "localhost")),
			Port:     cast.ToInt(getEnv("RABBITMQ_PORT", 5672)),
			User:     cast.ToString(getEnv("RABBITMQ_USER", "guest")),
			Password: cast.ToString(getEnv("RABBITMQ_PASSWORD", "guest")),
			VHost:    cast.ToString(getEnv("RABBITMQ_VHOST", "")),
		},
		Redis: &Redisconfig{
			Host:     cast.ToString(getEnv("REDIS_HOST", "localhost")),
			Port:     cast.ToInt(getEnv("REDIS_PORT", 6379)),
			Password: cast.ToString(getEnv("REDIS_PASSWORD", "")),
		},
		Sms: &Smsconfig{
			Enabled:    cast.ToBool(getEnv("SMS_ENABLED", true)),
			GatewayURL: cast.ToString(getEnv("SMS_GATEWAY_URL", "http://localhost:9090/send")),
			APIKey:     cast.ToString(getEnv("SMS_API_KEY", "")),
			Sender:     cast.ToString(getEnv("SMS_SENDER", "Safri360")),
		},
		Srv: &Serviceconfig{
			AuthServicePort:     cast.ToString(getEnv("AUTH_SERVICE_PORT", "3000")),
			DispatchServicePort: cast.ToString(getEnv("DISPATCH_SERVICE_PORT", "3001")),
			DriverServicePort:   cast.ToString(getEnv("DRIVER_SERVICE_PORT", "3002")),
			AdminServicePort:    cast.ToString(getEnv("ADMIN_SERVICE_PORT", "3004")),
		},
		App: &Appconfig{
			JwtSecret: cast.ToString(getEnv("JWT_SECRET", "safri-dev-secret")),
			TokenTTL:  cast.ToInt(getEnv("TOKEN_TTL_HOURS", 24)),
		},
		Log: &Loggerconfig{
			Level: cast.ToString(getEnv("LOG_LEVEL", "INFO")),
		},
	}

	return cnf, nil
}
