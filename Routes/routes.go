package Routes

import (
	"github.com/Aryan1411/hms/Controllers"
	"github.com/Aryan1411/hms/Middleware"
	"github.com/Aryan1411/hms/Models"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine, doctorCtl *Controllers.DoctorController, patientCtl *Controllers.PatientController) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", Controllers.Register)
		auth.POST("/login", Controllers.Login)
		auth.GET("/verify", Controllers.Verify)
	}

	authorized := router.Group("/api/auth")
	authorized.Use(Middleware.JwtAuthMiddleware())
	{
		authorized.GET("/user", Controllers.CurrentUser)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(Middleware.JwtAuthMiddleware())
	admin.Use(Middleware.RequireRole(Models.RoleAdmin))
	{
		admin.GET("/search", Controllers.Search)
		admin.PUT("/blacklist/:user_id", Controllers.ToggleBlacklist)

		admin.GET("/doctors", Controllers.GetDoctors)
		admin.POST("/doctors", Controllers.AddDoctor)
		admin.PUT("/doctors/:id", Controllers.UpdateDoctor)
		admin.DELETE("/doctors/:id", Controllers.DeleteDoctor)

		admin.GET("/patients", Controllers.GetPatients)
		admin.POST("/patients", Controllers.AddPatient)
		admin.PUT("/patients/:id", Controllers.UpdatePatient)
		admin.DELETE("/patients/:id", Controllers.DeletePatient)

		admin.GET("/appointments", Controllers.GetAllAppointments)
		admin.PUT("/appointments/:id/cancel", Controllers.CancelAppointmentAdmin)
		admin.POST("/appointments/export", Controllers.ExportAppointmentsExcel)
	}

	// Doctor routes
	doctor := router.Group("/api/doctor")
	doctor.Use(Middleware.JwtAuthMiddleware())
	doctor.Use(Middleware.RequireRole(Models.RoleDoctor))
	{
		doctor.GET("/appointments/:doctor_id", doctorCtl.GetAppointments)
		doctor.GET("/assigned_patients/:doctor_id", doctorCtl.GetAssignedPatients)
		doctor.GET("/patient_history/:patient_id", doctorCtl.GetPatientHistory)

		doctor.POST("/availability", doctorCtl.AddAvailability)
		doctor.DELETE("/availability/:doctor_id/:date/:time", doctorCtl.RemoveAvailability)

		doctor.PUT("/appointments/:id/cancel", doctorCtl.CancelAppointment)

		doctor.POST("/treatment", doctorCtl.AddTreatment)
		doctor.PUT("/treatment/:treatment_id", doctorCtl.UpdateTreatment)

		doctor.POST("/report/:doctor_id", doctorCtl.TriggerMonthlyReport)
	}

	// Patient routes
	patient := router.Group("/api/patient")
	patient.Use(Middleware.JwtAuthMiddleware())
	patient.Use(Middleware.RequireRole(Models.RolePatient))
	{
		patient.GET("/departments", patientCtl.GetDepartments)
		patient.GET("/search", patientCtl.SearchDoctors)
		patient.GET("/department/:department/doctors", patientCtl.GetDoctorsByDepartment)
		patient.GET("/doctors", patientCtl.GetDoctors)
		patient.GET("/doctor/:doctor_id/availability", patientCtl.GetDoctorAvailability)

		patient.POST("/book_slot", patientCtl.BookSlot)
		patient.GET("/appointments/:patient_id", patientCtl.GetAppointments)
		patient.PUT("/appointments/:id/cancel", patientCtl.CancelAppointment)
		patient.PUT("/appointments/:id/reschedule", patientCtl.RescheduleAppointment)
		patient.GET("/history/:patient_id", patientCtl.GetHistory)

		patient.GET("/profile/:patient_id", patientCtl.GetProfile)
		patient.PUT("/profile/:patient_id", patientCtl.UpdateProfile)

		patient.POST("/export-treatments/:patient_id", patientCtl.TriggerExport)
		patient.GET("/export-status/:task_id", patientCtl.ExportStatus)
		patient.GET("/download-export/:filename", patientCtl.DownloadExport)
	}
}
