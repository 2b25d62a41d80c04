package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Session   SessionConfigs   `toml:"session"`
	Giveaway  GiveawayConfigs  `toml:"giveaway"`
	Storage   S3Configs        `toml:"storage"`
	File      FileConfigs      `toml:"file"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Search    SearchConfigs    `toml:"search"`
	Log       LogConfigs       `toml:"log"`
}

type DatabaseConfigs struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.Port, d.User, d.Password, d.Database)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	}
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

type APIServerConfigs struct {
	ServerConfigs

	AllowedOrigins []string `toml:"allowed_origins"`
	MaxLimit       int      `toml:"max_limit"`
	DefaultLimit   int      `toml:"default_limit"`
}

type SessionConfigs struct {
	Secret string `toml:"secret"`
	Name   string `toml:"name"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`

	OAuth2 OAuth2Config `toml:"oauth2"`
}

type OAuth2Config struct {
	Name         string `toml:"name"`
	Issuer       string `toml:"issuer"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	IDField      string `toml:"id_field"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type GiveawayConfigs struct {
	StartingBalance    int64         `toml:"starting_balance"`
	DefaultTicketPrice int64         `toml:"default_ticket_price"`
	RecentWinnersLimit int           `toml:"recent_winners_limit"`
	RecentWinnersTTL   time.Duration `toml:"recent_winners_ttl"`
	EventTopic         string        `toml:"event_topic"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
	Bucket         string `toml:"bucket"`
}

type FileConfigs struct {
	MaxSize int `toml:"max_size"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr     string `toml:"addr"`
	ClientID string `toml:"client_id"`
}

type SearchConfigs struct {
	IndexDir string `toml:"index_dir"`
}

type LogConfigs struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}
