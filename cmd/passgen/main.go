package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vaultpass/passgen-go/internal/cli"
	"github.com/vaultpass/passgen-go/internal/crypto"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, crypto.CryptoSource{})
	stop()
	os.Exit(code)
}
