package main

import (
	"context"
	"os"

	"clinic-billing/internal/app"
)

func main() {
	cmd := app.NewCommand("billing", "Subscription billing desk", app.NewBillingDesk)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
