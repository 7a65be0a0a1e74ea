package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/akarshgkumar/shoecart-sub000/internal/app"
	"github.com/akarshgkumar/shoecart-sub000/internal/config"
	"github.com/akarshgkumar/shoecart-sub000/internal/logger"
)

func main() {
	// .env нужен только для локальной разработки, его отсутствие - не ошибка.
	_ = godotenv.Load()

	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout, conf.LogLevel)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		panic(err)
	}
}
