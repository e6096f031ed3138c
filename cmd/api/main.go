package main

import (
	"context"
	"deadlineMate/internal/app"
	"deadlineMate/internal/config"
	"deadlineMate/internal/logger"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yml", "путь к файлу конфигурации")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	defer a.Shutdown()

	if err := a.Init(ctx); err != nil {
		return fmt.Errorf("инициализация приложения: %w", err)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("Сервер остановлен с ошибкой", err)
		return err
	}

	logger.Info("Сервер остановлен")
	return nil
}
