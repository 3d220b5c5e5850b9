package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Auth struct {
		// 令牌由外部身份提供方签发，本服务只负责用同一个密钥验证
		JWTSecret string `env:"JWT_SECRET,required"`
	} `envPrefix:"AUTH_"`
	Payment struct {
		BaseURL        string `env:"BASE_URL,required"`
		APIKey         string `env:"API_KEY,required"`
		SuccessURL     string `env:"SUCCESS_URL,required"`
		CancelURL      string `env:"CANCEL_URL,required"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"10"`
	} `envPrefix:"PAYMENT_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		LockExpiration int    `env:"LOCK_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Seed struct {
		EmployeeNumber int `env:"EMPLOYEE_NUMBER" envDefault:"20"`
		AssetNumber    int `env:"ASSET_NUMBER" envDefault:"10"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
