package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"paygate/database"
	"paygate/jobs"
	"paygate/logger"
	_ "paygate/providers"
	"paygate/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Log.Warn("no .env file found, using process environment")
	}

	database.Connect()
	database.ConnectRedis()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app)
	jobs.StartReconciler()

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Log.WithField("addr", addr).Info("server running")

	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Log.WithError(err).Panic("failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Log.Info("gracefully shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Log.WithError(err).Fatal("server forced to shutdown")
	}
	logger.Log.Info("server exited cleanly")
}
