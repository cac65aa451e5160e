package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v82"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/config"
	"github.com/Iftekhar-007/real-estate-server/handlers"
	"github.com/Iftekhar-007/real-estate-server/routes"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	if err := config.ConnectDB(context.Background(), cfg); err != nil {
		slog.Error("connect database", "err", err)
		os.Exit(1)
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		slog.Error("configure token manager", "err", err)
		os.Exit(1)
	}

	utils.InitRedis(cfg.RedisAddr, cfg.RedisPassword)
	stripe.Key = cfg.StripeKey

	users := store.NewMongoUserStore(config.GetCollection("users"))
	properties := store.NewMongoPropertyStore(config.GetCollection("properties"))
	offers := store.NewMongoOfferStore(config.GetCollection("offers"))
	wishlist := store.NewMongoWishlistStore(config.GetCollection("wishlist"))
	reviews := store.NewMongoReviewStore(config.GetCollection("reviews"))

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	routes.RegisterRoutes(e, users, tokens, routes.Controllers{
		Users:      handlers.NewUserController(users, properties, tokens),
		Properties: handlers.NewPropertyController(properties, offers, users),
		Offers:     handlers.NewOfferController(properties, offers),
		Payments:   handlers.NewPaymentController(properties, offers, handlers.StripeAuthorizer{}),
		Wishlist:   handlers.NewWishlistController(wishlist, properties, users),
		Reviews:    handlers.NewReviewController(reviews, properties),
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
