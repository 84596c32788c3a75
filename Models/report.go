package Models

import (
	"sort"
	"time"
)

const reportTableLimit = 20

type DiagnosisCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ReportRow struct {
	Date      string `json:"date"`
	Patient   string `json:"patient"`
	Diagnosis string `json:"diagnosis"`
	Status    string `json:"status"`
}

// MonthlyReport holds one doctor's appointment statistics for a single
// calendar month.
type MonthlyReport struct {
	DoctorID     uint             `json:"doctor_id"`
	DoctorName   string           `json:"doctor_name"`
	Month        string           `json:"month"`
	Total        int              `json:"total"`
	Completed    int              `json:"completed"`
	Cancelled    int              `json:"cancelled"`
	TopDiagnoses []DiagnosisCount `json:"top_diagnoses"`
	Appointments []ReportRow      `json:"appointments"`
}

// BuildMonthlyReport computes the statistics for the calendar month
// containing ref: total/completed/cancelled counts, the five most
// frequent diagnoses and a table truncated to the first 20 rows.
func BuildMonthlyReport(doctorID uint, ref time.Time) (*MonthlyReport, error) {
	doctor, err := GetDoctorByID(doctorID)
	if err != nil {
		return nil, err
	}

	firstDay := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	lastDay := firstDay.AddDate(0, 1, -1)

	var appointments []Appointment
	if err := DB.Where("doctor_id = ? AND date >= ? AND date <= ?",
		doctorID, firstDay.Format(DateLayout), lastDay.Format(DateLayout)).
		Order("date, time").Find(&appointments).Error; err != nil {
		return nil, err
	}

	report := MonthlyReport{
		DoctorID:   doctorID,
		DoctorName: doctor.Name,
		Month:      firstDay.Format("January 2006"),
	}

	report.Total = len(appointments)
	for _, appointment := range appointments {
		switch appointment.Status {
		case StatusCompleted:
			report.Completed++
		case StatusCancelled:
			report.Cancelled++
		}
	}

	diagnosisByAppointment := map[uint]string{}
	if len(appointments) > 0 {
		ids := make([]uint, 0, len(appointments))
		for _, appointment := range appointments {
			ids = append(ids, appointment.ID)
		}
		var treatments []Treatment
		if err := DB.Where("appointment_id IN ?", ids).Find(&treatments).Error; err != nil {
			return nil, err
		}
		for _, treatment := range treatments {
			diagnosisByAppointment[treatment.AppointmentID] = treatment.Diagnosis
		}
	}

	counts := map[string]int{}
	for _, diagnosis := range diagnosisByAppointment {
		if diagnosis != "" {
			counts[diagnosis]++
		}
	}
	for name, count := range counts {
		report.TopDiagnoses = append(report.TopDiagnoses, DiagnosisCount{Name: name, Count: count})
	}
	sort.Slice(report.TopDiagnoses, func(i, j int) bool {
		if report.TopDiagnoses[i].Count != report.TopDiagnoses[j].Count {
			return report.TopDiagnoses[i].Count > report.TopDiagnoses[j].Count
		}
		return report.TopDiagnoses[i].Name < report.TopDiagnoses[j].Name
	})
	if len(report.TopDiagnoses) > 5 {
		report.TopDiagnoses = report.TopDiagnoses[:5]
	}

	patientNames := map[uint]string{}
	for _, appointment := range appointments {
		if len(report.Appointments) >= reportTableLimit {
			break
		}
		name, ok := patientNames[appointment.PatientID]
		if !ok {
			patient, err := GetPatientByID(appointment.PatientID)
			if err == nil {
				name = patient.Name
			}
			patientNames[appointment.PatientID] = name
		}
		diagnosis := diagnosisByAppointment[appointment.ID]
		if diagnosis == "" {
			diagnosis = "N/A"
		}
		report.Appointments = append(report.Appointments, ReportRow{
			Date:      appointment.Date,
			Patient:   name,
			Diagnosis: diagnosis,
			Status:    appointment.Status,
		})
	}

	return &report, nil
}
