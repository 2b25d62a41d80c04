package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver:   "sqlite",
			Database: "giveaway.db",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Port: "8080"},
			AllowedOrigins: []string{"*"},
			MaxLimit:       50,
			DefaultLimit:   10,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 7 * 24 * time.Hour,
			},
			OAuth2: OAuth2Config{
				Name:    "oidc",
				IDField: "sub",
			},
		},
		Session: SessionConfigs{
			Name: "giveaway_session",
		},
		Giveaway: GiveawayConfigs{
			StartingBalance:    1000,
			DefaultTicketPrice: 100,
			RecentWinnersLimit: 5,
			RecentWinnersTTL:   time.Minute,
			EventTopic:         "giveaway",
		},
		File: FileConfigs{
			MaxSize: 2,
		},
		Kafka: KafkaConfigs{
			ClientID: "giveaway",
		},
		Log: LogConfigs{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configs from the defaults, then the TOML file if path is not
// empty, then the environment. Dotenv files are loaded into the environment
// first, a missing file is ignored.
func Load(path string, envFiles ...string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return Configs{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func (cfg *Configs) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"APP_ENV":              &cfg.Env,
		"DB_DRIVER":            &cfg.Database.Driver,
		"DB_HOST":              &cfg.Database.Host,
		"DB_PORT":              &cfg.Database.Port,
		"DB_NAME":              &cfg.Database.Database,
		"DB_USER":              &cfg.Database.User,
		"DB_PASSWORD":          &cfg.Database.Password,
		"API_HOST":             &cfg.ApiServer.Host,
		"API_PORT":             &cfg.ApiServer.Port,
		"TOKEN_SECRET":         &cfg.Auth.TokenSecret,
		"SESSION_SECRET":       &cfg.Session.Secret,
		"OAUTH2_NAME":          &cfg.Auth.OAuth2.Name,
		"OAUTH2_ISSUER":        &cfg.Auth.OAuth2.Issuer,
		"OAUTH2_CLIENT_ID":     &cfg.Auth.OAuth2.ClientID,
		"OAUTH2_CLIENT_SECRET": &cfg.Auth.OAuth2.ClientSecret,
		"STORAGE_REGION":       &cfg.Storage.Region,
		"STORAGE_ENDPOINT":     &cfg.Storage.Endpoint,
		"STORAGE_PUBLIC_URL":   &cfg.Storage.PublicEndpoint,
		"STORAGE_ACCESS_KEY":   &cfg.Storage.AccessKey,
		"STORAGE_SECRET_KEY":   &cfg.Storage.SecretKey,
		"STORAGE_BUCKET":       &cfg.Storage.Bucket,
		"REDIS_ADDR":           &cfg.Redis.Addr,
		"KAFKA_ADDR":           &cfg.Kafka.Addr,
		"SEARCH_INDEX_DIR":     &cfg.Search.IndexDir,
		"LOG_LEVEL":            &cfg.Log.Level,
		"LOG_FORMAT":           &cfg.Log.Format,
	}

	for key, p := range strs {
		if v, ok := lookup(key); ok {
			*p = v
		}
	}

	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.ApiServer.AllowedOrigins = strings.Split(v, ",")
	}

	ints := map[string]*int64{
		"STARTING_BALANCE":     &cfg.Giveaway.StartingBalance,
		"DEFAULT_TICKET_PRICE": &cfg.Giveaway.DefaultTicketPrice,
	}

	for key, p := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}

		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*p = n
	}

	if v, ok := lookup("TOKEN_EXPIRATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.Auth.AccessToken.Expiration = d
	}

	return nil
}
