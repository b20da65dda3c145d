package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/ycomp/cli"
	"github.com/ardnew/ycomp/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error("compose failed", slog.Any("error", err))
		os.Exit(1)
	}
}
