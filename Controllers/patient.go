package Controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Aryan1411/hms/Models"
	"github.com/Aryan1411/hms/Tasks"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	Runner *Tasks.Runner
}

func NewPatientController(runner *Tasks.Runner) *PatientController {
	return &PatientController{Runner: runner}
}

func (pc *PatientController) GetDepartments(c *gin.Context) {
	var departments []string
	if err := Models.DB.Model(&Models.Doctor{}).Where("department <> ''").
		Distinct("department").Pluck("department", &departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, departments)
}

// SearchDoctors matches doctors on name, department or specialization.
func (pc *PatientController) SearchDoctors(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	pattern := "%" + query + "%"

	var doctors []Models.Doctor
	if err := Models.DB.Where("name LIKE ? OR department LIKE ? OR specialization LIKE ?",
		pattern, pattern, pattern).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		output = append(output, gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"specialization": doctor.Specialization,
			"department":     doctor.Department,
		})
	}
	c.JSON(http.StatusOK, output)
}

func (pc *PatientController) GetDoctorsByDepartment(c *gin.Context) {
	var doctors []Models.Doctor
	if err := Models.DB.Where("department = ?", c.Param("department")).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		output = append(output, gin.H{"id": doctor.ID, "name": doctor.Name, "specialization": doctor.Specialization})
	}
	c.JSON(http.StatusOK, output)
}

func (pc *PatientController) GetDoctors(c *gin.Context) {
	var doctors []Models.Doctor
	if err := Models.DB.Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		output = append(output, gin.H{"id": doctor.ID, "name": doctor.Name, "specialization": doctor.Specialization})
	}
	c.JSON(http.StatusOK, output)
}

func (pc *PatientController) GetDoctorAvailability(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("doctor_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	slots, err := Models.ListAvailability(uint(doctorID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(slots))
	for _, slot := range slots {
		output = append(output, gin.H{
			"id":         slot.ID,
			"date":       slot.Date,
			"start_time": slot.StartTime,
			"end_time":   slot.EndTime,
			"is_booked":  slot.IsBooked,
		})
	}
	c.JSON(http.StatusOK, output)
}

type BookSlotInput struct {
	SlotID    uint   `json:"slot_id" binding:"required"`
	PatientID uint   `json:"patient_id" binding:"required"`
	Reason    string `json:"reason"`
}

// BookSlot books an availability slot into an appointment and fires the
// confirmation email in the background.
func (pc *PatientController) BookSlot(c *gin.Context) {
	var input BookSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointment, err := Models.BookSlot(input.SlotID, input.PatientID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	taskID := pc.Runner.EnqueueBookingConfirmation(appointment.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Appointment booked successfully",
		"appointment_id": appointment.ID,
		"task_id":        taskID,
	})
}

func (pc *PatientController) GetAppointments(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("patient_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	var appointments []Models.Appointment
	if err := Models.DB.Where("patient_id = ?", uint(patientID)).
		Order("date DESC").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(appointments))
	for _, appointment := range appointments {
		doctor, _ := Models.GetDoctorByID(appointment.DoctorID)
		output = append(output, gin.H{
			"id":             appointment.ID,
			"doctor":         doctor.Name,
			"specialization": doctor.Specialization,
			"date":           appointment.Date,
			"time":           appointment.Time,
			"status":         appointment.Status,
		})
	}
	c.JSON(http.StatusOK, output)
}

func (pc *PatientController) CancelAppointment(c *gin.Context) {
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

func (pc *PatientController) RescheduleAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	var input struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := Models.RescheduleAppointment(uint(id), input.Date, input.Time); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment rescheduled successfully"})
}

func (pc *PatientController) GetHistory(c *gin.Context) {
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
			"date":         appointment.Date,
			"doctor":       doctor.Name,
			"diagnosis":    treatment.Diagnosis,
			"prescription": treatment.Prescription,
		})
	}
	c.JSON(http.StatusOK, history)
}

func (pc *PatientController) GetProfile(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("patient_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	patient, err := Models.GetPatientByID(uint(patientID))
	if err != nil {
		respondError(c, err)
		return
	}

	var user Models.User
	Models.DB.First(&user, patient.UserID)

	c.JSON(http.StatusOK, gin.H{
		"id":      patient.ID,
		"name":    patient.Name,
		"dob":     patient.DOB,
		"contact": patient.Contact,
		"email":   user.Email,
	})
}

func (pc *PatientController) UpdateProfile(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("patient_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	patient, err := Models.GetPatientByID(uint(patientID))
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Name    *string `json:"name"`
		DOB     *string `json:"dob"`
		Contact *string `json:"contact"`
		Email   *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		patient.Name = *input.Name
	}
	if input.DOB != nil {
		patient.DOB = *input.DOB
	}
	if input.Contact != nil {
		patient.Contact = *input.Contact
	}
	if err := Models.DB.Save(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if input.Email != nil {
		if err := Models.DB.Model(&Models.User{}).Where("id = ?", patient.UserID).
			Update("email", *input.Email).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// TriggerExport starts the asynchronous CSV export of the patient's
// treatment history.
func (pc *PatientController) TriggerExport(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("patient_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	if _, err := Models.GetPatientByID(uint(patientID)); err != nil {
		respondError(c, err)
		return
	}

	taskID := pc.Runner.EnqueueTreatmentExport(uint(patientID))
	c.JSON(http.StatusAccepted, gin.H{"message": "Export started", "task_id": taskID})
}

// ExportStatus polls a background task handle.
func (pc *PatientController) ExportStatus(c *gin.Context) {
	status, ok := pc.Runner.Manager.Status(c.Param("task_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	response := gin.H{"state": status.State}
	if status.Result != nil {
		response["result"] = status.Result
	} else {
		response["status"] = status.Status
	}
	c.JSON(http.StatusOK, response)
}

// DownloadExport serves a previously produced CSV file by filename.
func (pc *PatientController) DownloadExport(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))

	fullPath := filepath.Join(pc.Runner.ExportDir, filename)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.FileAttachment(fullPath, filename)
}
