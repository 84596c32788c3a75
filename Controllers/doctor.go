package Controllers

import (
	"net/http"
	"strconv"

	"github.com/Aryan1411/hms/Models"
	"github.com/Aryan1411/hms/Tasks"

	"github.com/gin-gonic/gin"
)

type DoctorController struct {
	Runner *Tasks.Runner
}

func NewDoctorController(runner *Tasks.Runner) *DoctorController {
	return &DoctorController{Runner: runner}
}

// GetAppointments lists the doctor's Booked appointments ordered by
// date.
func (dc *DoctorController) GetAppointments(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("doctor_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	var appointments []Models.Appointment
	if err := Models.DB.Where("doctor_id = ? AND status = ?", uint(doctorID), Models.StatusBooked).
		Order("date, time").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(appointments))
	for _, appointment := range appointments {
		patient, _ := Models.GetPatientByID(appointment.PatientID)
		reason := appointment.Reason
		if reason == "" {
			reason = "Not specified"
		}
		output = append(output, gin.H{
			"id":      appointment.ID,
			"patient": patient.Name,
			"date":    appointment.Date,
			"time":    appointment.Time,
			"reason":  reason,
		})
	}
	c.JSON(http.StatusOK, output)
}

// GetAssignedPatients lists patients with at least one appointment with
// this doctor.
func (dc *DoctorController) GetAssignedPatients(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("doctor_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	var patientIDs []uint
	if err := Models.DB.Model(&Models.Appointment{}).Where("doctor_id = ?", uint(doctorID)).
		Distinct("patient_id").Pluck("patient_id", &patientIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var patients []Models.Patient
	if len(patientIDs) > 0 {
		if err := Models.DB.Where("id IN ?", patientIDs).Find(&patients).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	output := make([]gin.H, 0, len(patients))
	for _, patient := range patients {
		output = append(output, gin.H{"id": patient.ID, "name": patient.Name})
	}
	c.JSON(http.StatusOK, output)
}

// GetPatientHistory returns the completed appointments of a patient
// together with their treatment records.
func (dc *DoctorController) GetPatientHistory(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("patient_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	var appointments []Models.Appointment
	if err := Models.DB.Where("patient_id = ? AND status = ?", uint(patientID), Models.StatusCompleted).
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	history := make([]gin.H, 0, len(appointments))
	for _, appointment := range appointments {
		var treatment Models.Treatment
		if err := Models.DB.Where("appointment_id = ?", appointment.ID).First(&treatment).Error; err != nil {
			continue
		}
		doctor, _ := Models.GetDoctorByID(appointment.DoctorID)
		history = append(history, gin.H{
			"id":             treatment.ID,
			"appointment_id": appointment.ID,
			"date":           appointment.Date,
			"doctor":         doctor.Name,
			"diagnosis":      treatment.Diagnosis,
			"prescription":   treatment.Prescription,
			"notes":          treatment.Notes,
		})
	}
	c.JSON(http.StatusOK, history)
}

type AvailabilityInput struct {
	DoctorID  uint   `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (dc *DoctorController) AddAvailability(c *gin.Context) {
	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := Models.AddAvailability(input.DoctorID, input.Date, input.StartTime, input.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Availability added", "slot_id": slot.ID})
}

func (dc *DoctorController) RemoveAvailability(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("doctor_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	if err := Models.RemoveAvailability(uint(doctorID), c.Param("date"), c.Param("time")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability removed"})
}

func (dc *DoctorController) CancelAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	if _, err := Models.CancelAppointment(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled and slot freed"})
}

type TreatmentInput struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	Diagnosis     string `json:"diagnosis"`
	Prescription  string `json:"prescription"`
}

func (dc *DoctorController) AddTreatment(c *gin.Context) {
	var input TreatmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	treatment, err := Models.AddTreatment(input.AppointmentID, input.Diagnosis, input.Prescription)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Treatment added", "treatment_id": treatment.ID})
}

func (dc *DoctorController) UpdateTreatment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("treatment_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid treatment id"})
		return
	}

	var input struct {
		Diagnosis    *string `json:"diagnosis"`
		Prescription *string `json:"prescription"`
		Notes        *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := Models.UpdateTreatment(uint(id), input.Diagnosis, input.Prescription, input.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Treatment updated successfully"})
}

// TriggerMonthlyReport runs the prior-month report for one doctor on
// demand as a background task.
func (dc *DoctorController) TriggerMonthlyReport(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("doctor_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	if _, err := Models.GetDoctorByID(uint(doctorID)); err != nil {
		respondError(c, err)
		return
	}

	taskID := dc.Runner.EnqueueMonthlyReport(uint(doctorID))
	c.JSON(http.StatusAccepted, gin.H{"message": "Report started", "task_id": taskID})
}
