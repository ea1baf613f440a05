package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tributary-sql/tributary/cmd"
	"github.com/tributary-sql/tributary/logs"
)

func main() {
	logs.InitializeFileLogger()
	defer logs.CloseLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
