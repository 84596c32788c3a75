package Models

import (
	"errors"

	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	UserID         uint   `json:"user_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
}

func GetDoctorByID(id uint) (Doctor, error) {
	var doctor Doctor
	if err := DB.First(&doctor, id).Error; err != nil {
		return doctor, ErrEntityNotFound
	}
	return doctor, nil
}

func GetDoctorByUserID(userID uint) (Doctor, error) {
	var doctor Doctor
	if err := DB.Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		return doctor, ErrEntityNotFound
	}
	return doctor, nil
}

// CreateDoctor provisions the doctor's user account together with the
// profile. Fails with ErrDuplicateUsername if the username is taken.
func CreateDoctor(username, password, email, name, specialization, department string) (*Doctor, error) {
	user := User{
		Username: username,
		Password: password,
		Email:    email,
		Role:     RoleDoctor,
		IsActive: true,
	}
	if _, err := user.SaveUser(); err != nil {
		return nil, err
	}

	doctor := Doctor{
		UserID:         user.ID,
		Name:           name,
		Specialization: specialization,
		Department:     department,
	}
	if err := DB.Create(&doctor).Error; err != nil {
		return nil, err
	}

	return &doctor, nil
}

// DeleteDoctor removes the doctor together with everything it owns:
// treatments of its appointments, the appointments, the availability
// slots and the backing user account, in one transaction.
func DeleteDoctor(id uint) error {
	var doctor Doctor
	if err := DB.First(&doctor, id).Error; err != nil {
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
	if err := tx.Model(&Appointment{}).Where("doctor_id = ?", id).Pluck("id", &appointmentIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(appointmentIDs) > 0 {
		if err := tx.Unscoped().Where("appointment_id IN ?", appointmentIDs).Delete(&Treatment{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Unscoped().Where("doctor_id = ?", id).Delete(&Appointment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Where("doctor_id = ?", id).Delete(&Availability{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&doctor).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&User{}, doctor.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
