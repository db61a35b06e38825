package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/avoronov/sudoku-server/internal/app"
	"github.com/avoronov/sudoku-server/internal/logging"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	log, err := logging.New()
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	a := app.New(log, migrations)

	if err := a.Start(ctx); err != nil {
		log.Fatal("server exited: ", err)
	}
}
