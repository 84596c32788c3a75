package Tasks

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Aryan1411/hms/Mail"
	"github.com/Aryan1411/hms/Models"

	"gorm.io/gorm"
)

// Runner owns the notification and export jobs. The mail sender and the
// export directory are injected so nothing here depends on process-wide
// state.
type Runner struct {
	DB        *gorm.DB
	Mail      Mail.Sender
	Manager   *Manager
	ExportDir string
}

func NewRunner(db *gorm.DB, mail Mail.Sender, manager *Manager, exportDir string) *Runner {
	if exportDir == "" {
		exportDir = "./exports"
	}
	return &Runner{DB: db, Mail: mail, Manager: manager, ExportDir: exportDir}
}

// EnqueueBookingConfirmation fires the confirmation email for a fresh
// booking and returns the task handle.
func (r *Runner) EnqueueBookingConfirmation(appointmentID uint) string {
	return r.Manager.Enqueue("send_booking_confirmation", func() (map[string]interface{}, error) {
		return r.sendBookingConfirmation(appointmentID)
	})
}

func (r *Runner) sendBookingConfirmation(appointmentID uint) (map[string]interface{}, error) {
	var appointment Models.Appointment
	if err := r.DB.First(&appointment, appointmentID).Error; err != nil {
		return nil, Models.ErrAppointmentNotFound
	}

	patient, err := Models.GetPatientByID(appointment.PatientID)
	if err != nil {
		return nil, err
	}
	doctor, err := Models.GetDoctorByID(appointment.DoctorID)
	if err != nil {
		return nil, err
	}

	var user Models.User
	if err := r.DB.First(&user, patient.UserID).Error; err != nil || user.Email == "" {
		return nil, fmt.Errorf("patient email not found")
	}

	reason := appointment.Reason
	if reason == "" {
		reason = "General Consultation"
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with %s has been confirmed.\n\nDate: %s\nTime: %s\nReason: %s\n\nPlease arrive 10 minutes early.",
		patient.Name, doctor.Name, appointment.Date, appointment.Time, reason,
	)

	if err := r.Mail.Send(user.Email, "Appointment Confirmation", body); err != nil {
		return nil, err
	}

	return map[string]interface{}{"sent_to": user.Email}, nil
}

// SendDailyReminders emails every patient with a Booked appointment
// dated today. Individual failures are logged and skipped.
func (r *Runner) SendDailyReminders() error {
	today := time.Now().Format(Models.DateLayout)

	var appointments []Models.Appointment
	if err := r.DB.Where("date = ? AND status = ?", today, Models.StatusBooked).
		Find(&appointments).Error; err != nil {
		return fmt.Errorf("failed to query today's appointments: %w", err)
	}

	sent := 0
	for _, appointment := range appointments {
		patient, err := Models.GetPatientByID(appointment.PatientID)
		if err != nil {
			log.Printf("Failed to find patient for appointment ID %d: %v", appointment.ID, err)
			continue
		}

		var user Models.User
		if err := r.DB.First(&user, patient.UserID).Error; err != nil || user.Email == "" {
			continue
		}

		doctor, err := Models.GetDoctorByID(appointment.DoctorID)
		if err != nil {
			continue
		}

		body := fmt.Sprintf(
			"Reminder: You have an appointment with %s today at %s. Please arrive 10 minutes early. If you need to reschedule, please contact us.",
			doctor.Name, appointment.Time,
		)
		if err := r.Mail.Send(user.Email, "Appointment Reminder - Today", body); err != nil {
			log.Printf("Failed to send reminder to patient %s: %v", patient.Name, err)
			continue
		}
		sent++
	}

	log.Printf("Sent %d reminders for %d appointments", sent, len(appointments))
	return nil
}

// SendMonthlyReports emails every doctor a prior-month activity report.
// Doctors with no appointments in the month are skipped.
func (r *Runner) SendMonthlyReports() error {
	priorMonth := time.Now().AddDate(0, 0, -time.Now().Day())

	var doctors []Models.Doctor
	if err := r.DB.Find(&doctors).Error; err != nil {
		return err
	}

	sent := 0
	for _, doctor := range doctors {
		if err := r.sendMonthlyReport(doctor.ID, priorMonth); err != nil {
			if err != errEmptyReport {
				log.Printf("Error sending report to %s: %v", doctor.Name, err)
			}
			continue
		}
		sent++
	}

	log.Printf("Sent %d monthly reports to doctors", sent)
	return nil
}

// EnqueueMonthlyReport runs the prior-month report for one doctor on
// demand and returns the task handle.
func (r *Runner) EnqueueMonthlyReport(doctorID uint) string {
	return r.Manager.Enqueue("send_monthly_report", func() (map[string]interface{}, error) {
		priorMonth := time.Now().AddDate(0, 0, -time.Now().Day())
		if err := r.sendMonthlyReport(doctorID, priorMonth); err != nil {
			return nil, err
		}
		return map[string]interface{}{"doctor_id": doctorID}, nil
	})
}

var errEmptyReport = fmt.Errorf("no appointments in report month")

func (r *Runner) sendMonthlyReport(doctorID uint, month time.Time) error {
	report, err := Models.BuildMonthlyReport(doctorID, month)
	if err != nil {
		return err
	}
	if report.Total == 0 {
		return errEmptyReport
	}

	doctor, err := Models.GetDoctorByID(doctorID)
	if err != nil {
		return err
	}
	var user Models.User
	if err := r.DB.First(&user, doctor.UserID).Error; err != nil || user.Email == "" {
		return fmt.Errorf("doctor email not found")
	}

	if err := r.Mail.Send(user.Email,
		fmt.Sprintf("Monthly Activity Report - %s", report.Month),
		formatReportBody(report)); err != nil {
		return err
	}
	return nil
}

func formatReportBody(report *Models.MonthlyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nYour activity report for %s:\n\n", report.DoctorName, report.Month)
	fmt.Fprintf(&b, "Total appointments: %d\nCompleted: %d\nCancelled: %d\n", report.Total, report.Completed, report.Cancelled)

	if len(report.TopDiagnoses) > 0 {
		b.WriteString("\nTop diagnoses:\n")
		for _, diagnosis := range report.TopDiagnoses {
			fmt.Fprintf(&b, "  %s: %d\n", diagnosis.Name, diagnosis.Count)
		}
	}

	if len(report.Appointments) > 0 {
		b.WriteString("\nAppointments:\n")
		for _, row := range report.Appointments {
			fmt.Fprintf(&b, "  %s  %-20s  %-20s  %s\n", row.Date, row.Patient, row.Diagnosis, row.Status)
		}
	}

	fmt.Fprintf(&b, "\nGenerated on %s\n", time.Now().Format("January 2, 2006"))
	return b.String()
}

// EnqueueTreatmentExport produces the patient's full treatment history
// as a CSV file and returns the task handle. The result payload carries
// the filename for the download endpoint.
func (r *Runner) EnqueueTreatmentExport(patientID uint) string {
	return r.Manager.Enqueue("export_patient_treatments", func() (map[string]interface{}, error) {
		return r.exportPatientTreatments(patientID)
	})
}

func (r *Runner) exportPatientTreatments(patientID uint) (map[string]interface{}, error) {
	patient, err := Models.GetPatientByID(patientID)
	if err != nil {
		return nil, err
	}

	var treatments []Models.Treatment
	if err := r.DB.Joins("JOIN appointments ON appointments.id = treatments.appointment_id").
		Where("appointments.patient_id = ?", patientID).
		Find(&treatments).Error; err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.ExportDir, 0o755); err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("patient_%d_treatments_%s.csv", patientID, timestamp)
	fullPath := filepath.Join(r.ExportDir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"Patient ID", "Patient Name", "Doctor Name",
		"Appointment Date", "Appointment Time", "Diagnosis",
		"Prescription", "Notes",
	}); err != nil {
		return nil, err
	}

	for _, treatment := range treatments {
		var appointment Models.Appointment
		doctorName := "N/A"
		date, timeOfDay := "N/A", "N/A"
		if err := r.DB.First(&appointment, treatment.AppointmentID).Error; err == nil {
			date = appointment.Date
			timeOfDay = appointment.Time
			if doctor, err := Models.GetDoctorByID(appointment.DoctorID); err == nil {
				doctorName = doctor.Name
			}
		}

		if err := writer.Write([]string{
			fmt.Sprintf("%d", patient.ID),
			patient.Name,
			doctorName,
			date,
			timeOfDay,
			treatment.Diagnosis,
			treatment.Prescription,
			treatment.Notes,
		}); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"filename":     filename,
		"record_count": len(treatments),
	}, nil
}
