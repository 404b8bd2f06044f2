// internal/domain/clinic/entity.go
package clinic

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

type Patient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Patient) String() string {
	return fmt.Sprintf("Patient[id=%d,name=%s,contact=%s]", p.ID, p.Name, p.Contact)
}

type Doctor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (d Doctor) String() string {
	return fmt.Sprintf("Doctor[id=%d,name=%s,specialty=%s]", d.ID, d.Name, d.Specialty)
}

// Appointment references its patient and doctor by id.
type Appointment struct {
	ID        int64             `json:"id"`
	PatientID int64             `json:"patient_id"`
	DoctorID  int64             `json:"doctor_id"`
	Slot      time.Time         `json:"slot"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Occupies reports whether a holds doctorID's slot. Only SCHEDULED appointments block a slot.
func (a Appointment) Occupies(doctorID int64, slot time.Time) bool {
	return a.Status == AppointmentScheduled && a.DoctorID == doctorID && a.Slot.Equal(slot)
}

// Transition moves a SCHEDULED appointment to COMPLETED or CANCELLED.
func (a *Appointment) Transition(to AppointmentStatus, at time.Time) error {
	if a.Status != AppointmentScheduled || (to != AppointmentCompleted && to != AppointmentCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	a.Status = to
	a.UpdatedAt = at
	return nil
}

// AppointmentDetail resolves the ids of an appointment for display.
type AppointmentDetail struct {
	Appointment
	Patient Patient `json:"patient"`
	Doctor  Doctor  `json:"doctor"`
}

func (d AppointmentDetail) String() string {
	return fmt.Sprintf("Appointment[id=%d, patient=%s, doctor=%s, at=%s, status=%s]",
		d.ID, d.Patient.Name, d.Doctor.Name, d.Slot.Format("2006-01-02 15:04"), d.Status)
}
