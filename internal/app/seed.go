// internal/app/seed.go
package app

import (
	"context"
	"fmt"
	"time"

	clinicUsecase "clinic-billing/internal/service/clinic"

	"go.uber.org/zap"
)

// seedClinic installs two patients, two doctors and a completed visit from yesterday
// at 10:00 so a consultation can be recorded straight away.
func seedClinic(ctx context.Context, svc *clinicUsecase.ClinicService, now time.Time, logger *zap.Logger) error {
	ramesh, err := svc.AddPatient(ctx, "Ramesh", "9876543210")
	if err != nil {
		return err
	}
	if _, err := svc.AddPatient(ctx, "Sita", "9123456780"); err != nil {
		return err
	}
	anand, err := svc.AddDoctor(ctx, "Dr. Anand", "General", "")
	if err != nil {
		return err
	}
	if _, err := svc.AddDoctor(ctx, "Dr. Kavya", "ENT", ""); err != nil {
		return err
	}

	y := now.AddDate(0, 0, -1)
	slot := time.Date(y.Year(), y.Month(), y.Day(), 10, 0, 0, 0, now.Location())
	appt, err := svc.ScheduleAppointment(ctx, ramesh.ID, anand.ID, slot)
	if err != nil {
		return fmt.Errorf("failed to schedule sample appointment: %w", err)
	}
	if _, err := svc.CompleteAppointment(ctx, appt.ID); err != nil {
		return fmt.Errorf("failed to complete sample appointment: %w", err)
	}

	logger.Info("sample clinic data seeded", zap.Int64("completed_appointment_id", appt.ID))
	return nil
}
