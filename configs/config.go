package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DatastorePostgres = "postgres"
	DatastoreSQLite   = "sqlite"
	DatastoreMongo    = "mongo"
)

type Config struct {
	Port                int
	Datastore           string
	DatabaseURL         string
	MongoURI            string
	MongoDatabase       string
	JWTSecret           string
	CloudinaryURL       string
	CloudinaryFolder    string
	DisplayTimeZone     string
	AllowOrigins        string
	UnreadSweepSchedule string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Warn("env file not found, reading from system environment variables", "file", envFile)
	}

	cfg := &Config{
		Port:                8080,
		Datastore:           strings.ToLower(getenv("DATASTORE", DatastorePostgres)),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDatabase:       getenv("MONGO_DATABASE", "social"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder:    getenv("CLOUDINARY_FOLDER", "social_messages"),
		DisplayTimeZone:     getenv("DISPLAY_TIMEZONE", "UTC"),
		AllowOrigins:        getenv("CORS_ORIGINS", "http://localhost:3000"),
		UnreadSweepSchedule: getenv("UNREAD_SWEEP_SCHEDULE", "*/30 * * * *"),
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("PORT must be a number")
		}
		cfg.Port = p
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Datastore {
	case DatastorePostgres, DatastoreSQLite:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set")
		}
	case DatastoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI must be set")
		}
	default:
		return errors.New("DATASTORE must be one of postgres, sqlite, mongo")
	}
	if _, err := time.LoadLocation(c.DisplayTimeZone); err != nil {
		return errors.New("DISPLAY_TIMEZONE is not a valid IANA zone")
	}
	return nil
}

// Location returns the zone used for transcript dates and times.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
