package main

import (
	"context"
	"destinystats/cmd/destinystats/commands"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	commands.ExecuteContext(ctx)
}
