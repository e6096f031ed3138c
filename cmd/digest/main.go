package main

import (
	"context"
	"deadlineMate/internal/digest"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	baseURL := pflag.StringP("url", "u", "http://localhost:8080", "адрес API DeadlineMate")
	timeout := pflag.Duration("timeout", 10*time.Second, "таймаут запроса")
	noColor := pflag.Bool("no-color", false, "вывод без цветов")
	pflag.Parse()

	if err := run(*baseURL, *timeout, !*noColor); err != nil {
		fmt.Fprintln(os.Stderr, "digest:", err)
		os.Exit(1)
	}
}

func run(baseURL string, timeout time.Duration, colored bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := digest.NewClient(baseURL, timeout)

	banner, err := client.Notifications(ctx)
	if err != nil {
		return err
	}
	dashboard, err := client.Dashboard(ctx)
	if err != nil {
		return err
	}

	r := digest.NewRenderer(colored)
	r.Banner(os.Stdout, banner)
	fmt.Fprintln(os.Stdout)
	r.Agenda(os.Stdout, dashboard)
	return nil
}
