package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Order    OrderConfig
	Poll     PollConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type OrderConfig struct {
	DeliveryFee float64
}

// PollConfig holds observer refresh cadences. Restaurant and delivery
// views share the same staleness bound; customer tracking refreshes
// order data less often.
type PollConfig struct {
	RestaurantInterval time.Duration
	DeliveryInterval   time.Duration
	TrackingInterval   time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "platefast")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "platefast")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("ORDER_DELIVERY_FEE", 2.99)
	viper.SetDefault("POLL_RESTAURANT_INTERVAL", "10s")
	viper.SetDefault("POLL_DELIVERY_INTERVAL", "10s")
	viper.SetDefault("POLL_TRACKING_INTERVAL", "15s")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	restaurantInterval, err := time.ParseDuration(viper.GetString("POLL_RESTAURANT_INTERVAL"))
	if err != nil {
		return nil, err
	}

	deliveryInterval, err := time.ParseDuration(viper.GetString("POLL_DELIVERY_INTERVAL"))
	if err != nil {
		return nil, err
	}

	trackingInterval, err := time.ParseDuration(viper.GetString("POLL_TRACKING_INTERVAL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Order: OrderConfig{
			DeliveryFee: viper.GetFloat64("ORDER_DELIVERY_FEE"),
		},
		Poll: PollConfig{
			RestaurantInterval: restaurantInterval,
			DeliveryInterval:   deliveryInterval,
			TrackingInterval:   trackingInterval,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
