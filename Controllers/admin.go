package Controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/Aryan1411/hms/Models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
)

// Search matches doctors on name or department and patients on name.
func Search(c *gin.Context) {
	query := "%" + c.Query("q") + "%"

	var doctors []Models.Doctor
	if err := Models.DB.Where("name LIKE ? OR department LIKE ?", query, query).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var patients []Models.Patient
	if err := Models.DB.Where("name LIKE ?", query).Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doctorResults := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		doctorResults = append(doctorResults, gin.H{"id": doctor.ID, "name": doctor.Name, "department": doctor.Department})
	}
	patientResults := make([]gin.H, 0, len(patients))
	for _, patient := range patients {
		patientResults = append(patientResults, gin.H{"id": patient.ID, "name": patient.Name})
	}

	c.JSON(http.StatusOK, gin.H{"doctors": doctorResults, "patients": patientResults})
}

func ToggleBlacklist(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := Models.ToggleBlacklist(uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}

	status := "active"
	if user.IsBlacklisted {
		status = "blacklisted"
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + status})
}

func GetDoctors(c *gin.Context) {
	var doctors []Models.Doctor
	if err := Models.DB.Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(doctors))
	for _, doctor := range doctors {
		var user Models.User
		Models.DB.First(&user, doctor.UserID)
		output = append(output, gin.H{
			"id":             doctor.ID,
			"name":           doctor.Name,
			"specialization": doctor.Specialization,
			"department":     doctor.Department,
			"user_id":        doctor.UserID,
			"is_blacklisted": user.IsBlacklisted,
		})
	}
	c.JSON(http.StatusOK, output)
}

type AddDoctorInput struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Email          string `json:"email"`
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
}

func AddDoctor(c *gin.Context) {
	var input AddDoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctor, err := Models.CreateDoctor(input.Username, input.Password, input.Email, input.Name, input.Specialization, input.Department)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Doctor added", "doctor_id": doctor.ID})
}

func UpdateDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	doctor, err := Models.GetDoctorByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Name           *string `json:"name"`
		Specialization *string `json:"specialization"`
		Department     *string `json:"department"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		doctor.Name = *input.Name
	}
	if input.Specialization != nil {
		doctor.Specialization = *input.Specialization
	}
	if input.Department != nil {
		doctor.Department = *input.Department
	}

	if err := Models.DB.Save(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor updated"})
}

func DeleteDoctor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor id"})
		return
	}

	if err := Models.DeleteDoctor(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Doctor deleted successfully"})
}

func GetPatients(c *gin.Context) {
	var patients []Models.Patient
	if err := Models.DB.Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(patients))
	for _, patient := range patients {
		var user Models.User
		Models.DB.First(&user, patient.UserID)
		output = append(output, gin.H{
			"id":             patient.ID,
			"name":           patient.Name,
			"dob":            patient.DOB,
			"contact":        patient.Contact,
			"user_id":        patient.UserID,
			"is_blacklisted": user.IsBlacklisted,
		})
	}
	c.JSON(http.StatusOK, output)
}

type AddPatientInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Name     string `json:"name" binding:"required"`
	DOB      string `json:"dob"`
	Contact  string `json:"contact"`
}

func AddPatient(c *gin.Context) {
	var input AddPatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, err := Models.CreatePatient(input.Username, input.Password, input.Email, input.Name, input.DOB, input.Contact)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Patient added", "patient_id": patient.ID})
}

func UpdatePatient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	patient, err := Models.GetPatientByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Name    *string `json:"name"`
		DOB     *string `json:"dob"`
		Contact *string `json:"contact"`
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
	c.JSON(http.StatusOK, gin.H{"message": "Patient updated"})
}

func DeletePatient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient id"})
		return
	}

	if err := Models.DeletePatient(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

func GetAllAppointments(c *gin.Context) {
	var appointments []Models.Appointment
	if err := Models.DB.Order("date, time").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	output := make([]gin.H, 0, len(appointments))
	for _, appointment := range appointments {
		doctor, _ := Models.GetDoctorByID(appointment.DoctorID)
		patient, _ := Models.GetPatientByID(appointment.PatientID)
		reason := appointment.Reason
		if reason == "" {
			reason = "Not specified"
		}
		output = append(output, gin.H{
			"id":      appointment.ID,
			"doctor":  doctor.Name,
			"patient": patient.Name,
			"date":    appointment.Date,
			"time":    appointment.Time,
			"status":  appointment.Status,
			"reason":  reason,
		})
	}
	c.JSON(http.StatusOK, output)
}

func CancelAppointmentAdmin(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	if _, err := Models.CancelAppointment(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// ExportAppointmentsExcel writes the full appointment table to an xlsx
// worksheet and serves the file.
func ExportAppointmentsExcel(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appointments []Models.Appointment
	query := Models.DB.Order("date, time")
	if input.DateFrom != "" && input.DateTo != "" {
		query = query.Where("date BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}
	if err := query.Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Time",
		"C1": "Doctor",
		"D1": "Patient",
		"E1": "Status",
		"F1": "Reason",
	}
	file := excelize.NewFile()
	sheet := "Appointments"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i, appointment := range appointments {
		doctor, _ := Models.GetDoctorByID(appointment.DoctorID)
		patient, _ := Models.GetPatientByID(appointment.PatientID)
		row := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%v", row), appointment.Date)
		file.SetCellValue(sheet, fmt.Sprintf("B%v", row), appointment.Time)
		file.SetCellValue(sheet, fmt.Sprintf("C%v", row), doctor.Name)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", row), patient.Name)
		file.SetCellValue(sheet, fmt.Sprintf("E%v", row), appointment.Status)
		file.SetCellValue(sheet, fmt.Sprintf("F%v", row), appointment.Reason)
	}

	filename := "./Appointments.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export"})
		return
	}
	c.File(filename)
}
