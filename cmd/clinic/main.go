package main

import (
	"context"
	"os"

	"clinic-billing/internal/app"
)

func main() {
	cmd := app.NewCommand("clinic", "Clinic appointments, consultations and billing desk", app.NewClinicDesk)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
