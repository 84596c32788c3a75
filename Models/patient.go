package Models

import (
	"errors"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Contact string `json:"contact"`
}

func GetPatientByID(id uint) (Patient, error) {
	var patient Patient
	if err := DB.First(&patient, id).Error; err != nil {
		return patient, ErrEntityNotFound
	}
	return patient, nil
}

func GetPatientByUserID(userID uint) (Patient, error) {
	var patient Patient
	if err := DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return patient, ErrEntityNotFound
	}
	return patient, nil
}

// CreatePatient provisions the patient's user account together with the
// profile. Fails with ErrDuplicateUsername if the username is taken.
func CreatePatient(username, password, email, name, dob, contact string) (*Patient, error) {
	user := User{
		Username: username,
		Password: password,
		Email:    email,
		Role:     RolePatient,
		IsActive: true,
	}
	if _, err := user.SaveUser(); err != nil {
		return nil, err
	}

	patient := Patient{
		UserID:  user.ID,
		Name:    name,
		DOB:     dob,
		Contact: contact,
	}
	if err := DB.Create(&patient).Error; err != nil {
		return nil, err
	}

	return &patient, nil
}

// DeletePatient removes the patient together with its appointments,
// their treatments and the backing user account, in one transaction.
func DeletePatient(id uint) error {
	var patient Patient
	if err := DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntityNotFound
		}
		return err
	}

	tx := DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var appointmentIDs []uint
	if err := tx.Model(&Appointment{}).Where("patient_id = ?", id).Pluck("id", &appointmentIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(appointmentIDs) > 0 {
		if err := tx.Unscoped().Where("appointment_id IN ?", appointmentIDs).Delete(&Treatment{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Unscoped().Where("patient_id = ?", id).Delete(&Appointment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&patient).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&User{}, patient.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
