package Models

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func seedAppointment(t *testing.T, doctorID, patientID uint, date, timeOfDay, status, diagnosis string) {
	t.Helper()
	appointment := Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		Time:      timeOfDay,
		Status:    status,
	}
	if err := DB.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment failed: %v", err)
	}
	if diagnosis != "" {
		treatment := Treatment{AppointmentID: appointment.ID, Diagnosis: diagnosis}
		if err := DB.Create(&treatment).Error; err != nil {
			t.Fatalf("seed treatment failed: %v", err)
		}
	}
}

func TestBuildMonthlyReportStats(t *testing.T) {
	setupTestDB(t)
	doctor := mustCreateDoctor(t, "drsmith", "Dr. Smith")
	patient := mustCreatePatient(t, "alice", "Alice")

	month := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	seedAppointment(t, doctor.ID, patient.ID, "2024-05-02", "10:00", StatusCompleted, "Flu")
	seedAppointment(t, doctor.ID, patient.ID, "2024-05-10", "11:00", StatusCompleted, "Flu")
	seedAppointment(t, doctor.ID, patient.ID, "2024-05-20", "09:00", StatusCompleted, "Migraine")
	seedAppointment(t, doctor.ID, patient.ID, "2024-05-25", "14:00", StatusCancelled, "")

	// Outside the month: must not count.
	seedAppointment(t, doctor.ID, patient.ID, "2024-04-30", "10:00", StatusCompleted, "Cold")
	seedAppointment(t, doctor.ID, patient.ID, "2024-06-01", "10:00", StatusBooked, "")

	report, err := BuildMonthlyReport(doctor.ID, month)
	if err != nil {
		t.Fatalf("BuildMonthlyReport failed: %v", err)
	}

	if report.Total != 4 || report.Completed != 3 || report.Cancelled != 1 {
		t.Fatalf("expected total:4 completed:3 cancelled:1, got total:%d completed:%d cancelled:%d",
			report.Total, report.Completed, report.Cancelled)
	}
	if report.Month != "May 2024" {
		t.Fatalf("unexpected month label %q", report.Month)
	}
	if report.DoctorName != "Dr. Smith" {
		t.Fatalf("unexpected doctor name %q", report.DoctorName)
	}
}

func TestBuildMonthlyReportTopDiagnoses(t *testing.T) {
	setupTestDB(t)
	doctor := mustCreateDoctor(t, "drsmith", "Dr. Smith")
	patient := mustCreatePatient(t, "alice", "Alice")

	month := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	diagnoses := []string{"Flu", "Flu", "Flu", "Migraine", "Migraine", "Cold", "Asthma", "Allergy", "Anemia"}
	for i, diagnosis := range diagnoses {
		seedAppointment(t, doctor.ID, patient.ID,
			fmt.Sprintf("2024-05-%02d", i+1), "10:00", StatusCompleted, diagnosis)
	}

	report, err := BuildMonthlyReport(doctor.ID, month)
	if err != nil {
		t.Fatalf("BuildMonthlyReport failed: %v", err)
	}

	if len(report.TopDiagnoses) != 5 {
		t.Fatalf("expected top 5 diagnoses, got %d", len(report.TopDiagnoses))
	}
	if report.TopDiagnoses[0].Name != "Flu" || report.TopDiagnoses[0].Count != 3 {
		t.Fatalf("expected Flu x3 first, got %+v", report.TopDiagnoses[0])
	}
	if report.TopDiagnoses[1].Name != "Migraine" || report.TopDiagnoses[1].Count != 2 {
		t.Fatalf("expected Migraine x2 second, got %+v", report.TopDiagnoses[1])
	}
}

func TestBuildMonthlyReportTableTruncation(t *testing.T) {
	setupTestDB(t)
	doctor := mustCreateDoctor(t, "drsmith", "Dr. Smith")
	patient := mustCreatePatient(t, "alice", "Alice")

	month := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		seedAppointment(t, doctor.ID, patient.ID,
			fmt.Sprintf("2024-05-%02d", i%28+1), "10:00", StatusBooked, "")
	}

	report, err := BuildMonthlyReport(doctor.ID, month)
	if err != nil {
		t.Fatalf("BuildMonthlyReport failed: %v", err)
	}

	if report.Total != 25 {
		t.Fatalf("expected 25 total, got %d", report.Total)
	}
	if len(report.Appointments) != 20 {
		t.Fatalf("expected table truncated to 20 rows, got %d", len(report.Appointments))
	}
	if report.Appointments[0].Patient != "Alice" {
		t.Fatalf("expected patient name resolved, got %q", report.Appointments[0].Patient)
	}
	if report.Appointments[0].Diagnosis != "N/A" {
		t.Fatalf("expected N/A diagnosis for untreated appointment, got %q", report.Appointments[0].Diagnosis)
	}
}

func TestBuildMonthlyReportUnknownDoctor(t *testing.T) {
	setupTestDB(t)
	if _, err := BuildMonthlyReport(42, time.Now()); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}
