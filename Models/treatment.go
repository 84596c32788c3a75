package Models

import (
	"errors"

	"gorm.io/gorm"
)

// Treatment is the clinical outcome record attached to a completed
// appointment, 1:1.
type Treatment struct {
	gorm.Model
	AppointmentID uint   `gorm:"uniqueIndex" json:"appointment_id"`
	Diagnosis     string `json:"diagnosis"`
	Prescription  string `json:"prescription"`
	Notes         string `json:"notes"`
}

// AddTreatment creates the treatment row and transitions the
// appointment to Completed in one transaction. The appointment must
// still be in Booked state.
func AddTreatment(appointmentID uint, diagnosis, prescription string) (*Treatment, error) {
	tx := DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var appointment Appointment
	if err := tx.First(&appointment, appointmentID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if appointment.Status != StatusBooked {
		tx.Rollback()
		return nil, ErrAppointmentNotBooked
	}

	treatment := Treatment{
		AppointmentID: appointmentID,
		Diagnosis:     diagnosis,
		Prescription:  prescription,
	}
	if err := tx.Create(&treatment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&appointment).Update("status", StatusCompleted).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &treatment, nil
}

// UpdateTreatment applies a partial update of diagnosis, prescription
// and notes. Nil fields are left untouched.
func UpdateTreatment(id uint, diagnosis, prescription, notes *string) (*Treatment, error) {
	var treatment Treatment
	if err := DB.First(&treatment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTreatmentNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if diagnosis != nil {
		updates["diagnosis"] = *diagnosis
		treatment.Diagnosis = *diagnosis
	}
	if prescription != nil {
		updates["prescription"] = *prescription
		treatment.Prescription = *prescription
	}
	if notes != nil {
		updates["notes"] = *notes
		treatment.Notes = *notes
	}

	if len(updates) > 0 {
		if err := DB.Model(&treatment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &treatment, nil
}
