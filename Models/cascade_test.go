package Models

import (
	"errors"
	"testing"
)

func TestDeleteDoctorCascades(t *testing.T) {
	setupTestDB(t)
	doctor := mustCreateDoctor(t, "drsmith", "Dr. Smith")
	patient := mustCreatePatient(t, "alice", "Alice")

	slot, _ := AddAvailability(doctor.ID, "2024-06-01", "10:00", "10:30")
	appointment, err := BookSlot(slot.ID, patient.ID, "")
	if err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}
	if _, err := AddTreatment(appointment.ID, "Flu", "Rest"); err != nil {
		t.Fatalf("AddTreatment failed: %v", err)
	}
	// A spare unbooked slot on the same doctor.
	AddAvailability(doctor.ID, "2024-06-02", "09:00", "09:30")

	if err := DeleteDoctor(doctor.ID); err != nil {
		t.Fatalf("DeleteDoctor failed: %v", err)
	}

	var slotCount, appointmentCount, treatmentCount, userCount int64
	DB.Model(&Availability{}).Where("doctor_id = ?", doctor.ID).Count(&slotCount)
	DB.Model(&Appointment{}).Where("doctor_id = ?", doctor.ID).Count(&appointmentCount)
	DB.Model(&Treatment{}).Count(&treatmentCount)
	DB.Model(&User{}).Where("id = ?", doctor.UserID).Count(&userCount)

	if slotCount != 0 || appointmentCount != 0 || treatmentCount != 0 || userCount != 0 {
		t.Fatalf("cascade incomplete: slots=%d appointments=%d treatments=%d user=%d",
			slotCount, appointmentCount, treatmentCount, userCount)
	}

	// The patient side is untouched.
	if _, err := GetPatientByID(patient.ID); err != nil {
		t.Fatalf("patient removed by doctor cascade: %v", err)
	}
}

func TestDeletePatientCascades(t *testing.T) {
	setupTestDB(t)
	doctor := mustCreateDoctor(t, "drsmith", "Dr. Smith")
	patient := mustCreatePatient(t, "alice", "Alice")

	slot, _ := AddAvailability(doctor.ID, "2024-06-01", "10:00", "10:30")
	appointment, err := BookSlot(slot.ID, patient.ID, "")
	if err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}
	if _, err := AddTreatment(appointment.ID, "Flu", "Rest"); err != nil {
		t.Fatalf("AddTreatment failed: %v", err)
	}

	if err := DeletePatient(patient.ID); err != nil {
		t.Fatalf("DeletePatient failed: %v", err)
	}

	var appointmentCount, treatmentCount, userCount int64
	DB.Model(&Appointment{}).Where("patient_id = ?", patient.ID).Count(&appointmentCount)
	DB.Model(&Treatment{}).Count(&treatmentCount)
	DB.Model(&User{}).Where("id = ?", patient.UserID).Count(&userCount)

	if appointmentCount != 0 || treatmentCount != 0 || userCount != 0 {
		t.Fatalf("cascade incomplete: appointments=%d treatments=%d user=%d",
			appointmentCount, treatmentCount, userCount)
	}

	// The doctor and its slots survive.
	if _, err := GetDoctorByID(doctor.ID); err != nil {
		t.Fatalf("doctor removed by patient cascade: %v", err)
	}
}

func TestDeleteDoctorNotFound(t *testing.T) {
	setupTestDB(t)
	if err := DeleteDoctor(1); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
	if err := DeletePatient(1); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}
