package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	MongoURI       string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase  string `env:"MONGODB_DATABASE" envDefault:"realestate"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	StripeKey      string `env:"STRIPE_SECRET_KEY"`
	CORSOrigin     string `env:"CORS_ORIGIN" envDefault:"*"`
}

// Load reads .env when present, then parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

var db *mongo.Database

func ConnectDB(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}

	db = client.Database(cfg.MongoDatabase)
	return nil
}

func GetCollection(name string) *mongo.Collection {
	return db.Collection(name)
}
