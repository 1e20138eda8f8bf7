package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/waratahblog/waratah/internal/common"
	"github.com/waratahblog/waratah/internal/directoryservice"
	"github.com/waratahblog/waratah/internal/mailservice"
	"github.com/waratahblog/waratah/internal/postservice"
	"github.com/waratahblog/waratah/internal/settingsservice"
	"github.com/waratahblog/waratah/internal/taxonomyservice"
	"github.com/waratahblog/waratah/internal/userservice"
)

type application struct {
	config           *Config
	logger           *slog.Logger
	db               *sql.DB
	postService      *postservice.PostService
	taxonomyService  *taxonomyservice.TaxonomyService
	userService      *userservice.UserService
	settingsService  *settingsservice.SettingsService
	directoryService *directoryservice.DirectoryService
	mailService      *mailservice.MailService
	broker           *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupUserExchange(broker)
	if err != nil {
		logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		postService:      postservice.NewPostService(db, cache),
		taxonomyService:  taxonomyservice.NewTaxonomyService(db),
		userService:      userservice.NewUserService(db, broker),
		settingsService:  settingsservice.NewSettingsService(db, cache),
		directoryService: directoryservice.NewDirectoryService(db),
		mailService:      mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:           broker,
	}
	defer app.mailService.Close()

	go app.mailService.SendWelcomeEmail()

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
