package main

import (
	"context"
	"fmt"
	"os"
	"time"

	config "github.com/anjiri1684/social_messages/configs"
	"github.com/anjiri1684/social_messages/database"
	"github.com/anjiri1684/social_messages/jobs"
	"github.com/anjiri1684/social_messages/routes"
	"github.com/anjiri1684/social_messages/services"
	"github.com/anjiri1684/social_messages/store"
	"github.com/anjiri1684/social_messages/store/gormstore"
	"github.com/anjiri1684/social_messages/store/mongostore"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal("failed to open store", "datastore", cfg.Datastore, "err", err)
	}
	defer closeStore()

	var images services.ImageHost
	if cfg.CloudinaryURL != "" {
		host, err := services.NewCloudinaryHost(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatal("failed to initialize image hosting", "err", err)
		}
		images = host
	} else {
		log.Warn("CLOUDINARY_URL not set, image messages will be rejected")
	}

	messenger := services.NewMessenger(st, images, services.WithLocation(cfg.Location()))

	scheduler, err := jobs.Schedule(cfg.UnreadSweepSchedule, &jobs.UnreadBacklog{Store: st})
	if err != nil {
		log.Fatal("failed to schedule unread backlog job", "spec", cfg.UnreadSweepSchedule, "err", err)
	}
	defer scheduler.Stop()
	log.Info("unread backlog job scheduled", "spec", cfg.UnreadSweepSchedule)

	app := fiber.New(fiber.Config{
		AppName:       "Social Messages",
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     5 * 1024 * 1024,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Error("unhandled error", "err", err, "path", c.Path(), "method", c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.DisplayTimeZone,
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.Register(app, routes.Deps{
		Store:     st,
		Messenger: messenger,
		JWTSecret: cfg.JWTSecret,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("server starting", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.Datastore == config.DatastoreMongo {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ms, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return ms, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ms.Close(ctx)
		}, nil
	}

	db, err := database.Connect(cfg.Datastore, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, err
	}
	return gormstore.New(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}, nil
}
