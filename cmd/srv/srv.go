package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/questx-lab/giveaway/config"
	"github.com/questx-lab/giveaway/internal/domain"
	"github.com/questx-lab/giveaway/internal/domain/search"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/authenticator"
	"github.com/questx-lab/giveaway/pkg/crypto"
	"github.com/questx-lab/giveaway/pkg/kafka"
	"github.com/questx-lab/giveaway/pkg/logger"
	"github.com/questx-lab/giveaway/pkg/pubsub"
	"github.com/questx-lab/giveaway/pkg/router"
	"github.com/questx-lab/giveaway/pkg/storage"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/questx-lab/giveaway/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs

	userRepo        repository.UserRepository
	giveawayRepo    repository.GiveawayRepository
	entryRepo       repository.EntryRepository
	transactionRepo repository.TransactionRepository

	authDomain     domain.AuthDomain
	userDomain     domain.UserDomain
	giveawayDomain domain.GiveawayDomain
	adminDomain    domain.AdminDomain

	publisher     pubsub.Publisher
	redisClient   xredis.Client
	storage       storage.Storage
	indexer       search.Indexer
	oauth2Service authenticator.IOAuth2Service
	stoppers      []func(context.Context) error

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"), ".env")
	if err != nil {
		return err
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	return nil
}

func (s *srv) loadLogger() {
	l := logger.NewLoggerWithOptions(
		logger.ParseLevel(s.configs.Log.Level), s.configs.Log.Format, os.Stderr)
	s.ctx = xcontext.WithLogger(s.ctx, l)
}

func (s *srv) loadDatabase() error {
	var dialector gorm.Dialector
	dsn := s.configs.Database.ConnectionString()
	switch s.configs.Database.Driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver %s", s.configs.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(parseGormLogLevel(s.configs.Database.LogLevel)),
	})
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) loadAuth() error {
	if s.configs.Auth.TokenSecret == "" {
		return fmt.Errorf("token secret is required")
	}

	if s.configs.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(s.configs.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(s.configs.Session.Secret)))

	oauth2Service, err := authenticator.NewOAuth2Service(s.ctx, s.configs.Auth.OAuth2)
	if err != nil {
		return err
	}
	s.oauth2Service = oauth2Service

	return nil
}

// loadServices connects the optional infrastructure. A service without address
// falls back to a no-op implementation.
func (s *srv) loadServices() error {
	s.publisher = pubsub.Discard
	if addr := s.configs.Kafka.Addr; addr != "" {
		publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, strings.Split(addr, ","))
		if err != nil {
			return err
		}
		s.publisher = publisher
		s.stoppers = append(s.stoppers, publisher.Stop)
	}

	s.redisClient = xredis.Noop
	if addr := s.configs.Redis.Addr; addr != "" {
		redisClient, err := xredis.NewClient(s.ctx, addr)
		if err != nil {
			return err
		}
		s.redisClient = redisClient
		s.stoppers = append(s.stoppers, func(context.Context) error {
			return redisClient.Close()
		})
	}

	if s.configs.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(s.configs.Storage)
		if err != nil {
			return err
		}
		s.storage = s3Storage
	} else {
		xcontext.Logger(s.ctx).Warnf("No storage bucket is configured, prize image upload is disabled")
		s.storage = storage.Unavailable
	}

	s.indexer = search.NewBleveIndex(s.ctx)
	s.stoppers = append(s.stoppers, func(context.Context) error {
		s.indexer.Close()
		return nil
	})

	return nil
}

// stopServices releases what loadServices connected, in reverse order. A
// failing service does not prevent the others from stopping.
func (s *srv) stopServices() {
	for i := len(s.stoppers) - 1; i >= 0; i-- {
		if err := s.stoppers[i](s.ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop service: %v", err)
		}
	}
	s.stoppers = nil
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.giveawayRepo = repository.NewGiveawayRepository()
	s.entryRepo = repository.NewEntryRepository()
	s.transactionRepo = repository.NewTransactionRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.transactionRepo, s.oauth2Service)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.giveawayRepo, s.entryRepo, s.transactionRepo)
	s.giveawayDomain = domain.NewGiveawayDomain(
		s.giveawayRepo, s.entryRepo, s.userRepo, s.transactionRepo,
		s.publisher, s.redisClient, s.indexer,
	)
	s.adminDomain = domain.NewAdminDomain(
		s.giveawayRepo, s.entryRepo, s.userRepo, s.transactionRepo,
		s.publisher, s.redisClient, s.indexer, s.storage, crypto.Reader{},
	)
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}
