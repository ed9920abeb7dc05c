package main

import (
	"ProgJulia/bot"
	"ProgJulia/bot/admin"
	"ProgJulia/bot/admin/commands"
	"ProgJulia/impl/core"
	"ProgJulia/internal/config"
	"ProgJulia/internal/database"
	"ProgJulia/internal/http-server/api"
	"ProgJulia/internal/lib/keylock"
	"ProgJulia/internal/lib/logger"
	"ProgJulia/internal/lib/sl"
	"ProgJulia/internal/service/account"
	"ProgJulia/internal/service/certificate"
	"ProgJulia/internal/service/course"
	"ProgJulia/internal/service/sheets"
	"ProgJulia/internal/service/shortener"
	"context"
	"flag"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)
	ctx := context.Background()

	var adminBot *bot.AdminBot
	if conf.Telegram.Enabled {
		var err error
		adminBot, err = bot.NewAdminBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, conf.Admin.MaxFileSize, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, adminBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting prog-julia", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db == nil {
		lg.Error("mongo storage is required, check the mongo section of the config")
		return
	}
	if err = db.EnsureIndexes(ctx); err != nil {
		lg.With(sl.Err(err)).Error("mongo indexes")
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("user", conf.Mongo.User),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	accounts := account.NewService(lg)
	accounts.SetRepository(db)

	credentials := sheets.NewCredentials(db, conf.Google.RedirectURL, lg)
	if err = credentials.Load(ctx); err != nil {
		lg.With(sl.Err(err)).Error("google credentials")
	}
	handler.SetGoogleAuthorizer(credentials)

	courses := course.NewService(lg)
	courses.SetRepository(db)
	courses.SetReader(sheets.NewReader(credentials, conf.Google.CourseRange, conf.Google.AnswersRange, lg))

	certificates := certificate.NewService(lg)
	certificates.SetRepository(db)

	var locker admin.Locker = keylock.NewMemory()
	if conf.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(conf.Redis.Host, conf.Redis.Port),
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err = client.Ping(ctx).Err(); err != nil {
			lg.With(sl.Err(err)).Error("redis ping, falling back to local locks")
		} else {
			locker = keylock.NewRedis(client, conf.Redis.Prefix, conf.Admin.UploadTimeout, lg)
			lg.With(
				slog.String("host", conf.Redis.Host),
				slog.String("port", conf.Redis.Port),
			).Info("redis locks initialized")
		}
	}

	if adminBot != nil {
		registry := commands.NewRegistry(commands.Options{
			FrontendURL:       conf.Admin.FrontendURL,
			BroadcastPageSize: conf.Admin.BroadcastPageSize,
			InviteDays:        conf.Admin.InviteDays,
			MaxFileSize:       conf.Admin.MaxFileSize,
			UploadTimeout:     conf.Admin.UploadTimeout,
			Shortener:         shortener.NewTinyURL(lg),
		})

		executor := admin.NewExecutor(registry, admin.NewMemorySessionStore(), adminBot.Messenger(), admin.Services{
			Users:        accounts,
			Groups:       accounts,
			Invites:      accounts,
			Courses:      courses,
			Certificates: certificates,
			Credentials:  credentials,
			Locker:       locker,
		}, lg)
		executor.SetSessionTimeout(conf.Admin.SessionTimeout)
		go executor.Run(ctx, conf.Admin.CleanupInterval)

		handler.SetSessionManager(executor)
		handler.SetMessageService(adminBot)

		adminBot.SetAccountService(accounts)
		adminBot.SetExecutor(executor)

		go func() {
			if err := adminBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
