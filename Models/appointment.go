package Models

import (
	"errors"

	"gorm.io/gorm"
)

const (
	StatusBooked    = "Booked"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type Appointment struct {
	gorm.Model
	DoctorID  uint   `json:"doctor_id"`
	PatientID uint   `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `gorm:"size:20;default:Booked" json:"status"`
	Reason    string `json:"reason"`
}

// BookSlot reserves the slot and creates the appointment as one atomic
// unit. The slot mutation is a conditional update on is_booked, so two
// concurrent bookings of the same slot cannot both succeed: the loser's
// update matches zero rows and the transaction rolls back.
func BookSlot(slotID, patientID uint, reason string) (*Appointment, error) {
	tx := DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var slot Availability
	if err := tx.First(&slot, slotID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if slot.IsBooked {
		tx.Rollback()
		return nil, ErrSlotAlreadyBooked
	}

	res := tx.Model(&Availability{}).
		Where("id = ? AND is_booked = ?", slot.ID, false).
		Update("is_booked", true)
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent booking.
		tx.Rollback()
		return nil, ErrSlotAlreadyBooked
	}

	appointment := Appointment{
		DoctorID:  slot.DoctorID,
		PatientID: patientID,
		Date:      slot.Date,
		Time:      slot.StartTime,
		Status:    StatusBooked,
		Reason:    reason,
	}
	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &appointment, nil
}

// CancelAppointment sets the status to Cancelled and, if a matching
// booked slot still exists, frees it. Cancelling twice is harmless: on
// the second call the slot lookup no longer matches a booked slot.
func CancelAppointment(id uint) (*Appointment, error) {
	tx := DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var appointment Appointment
	if err := tx.First(&appointment, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if err := tx.Model(&Availability{}).
		Where("doctor_id = ? AND date = ? AND start_time = ? AND is_booked = ?",
			appointment.DoctorID, appointment.Date, appointment.Time, true).
		Update("is_booked", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	appointment.Status = StatusCancelled
	if err := tx.Model(&appointment).Update("status", StatusCancelled).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &appointment, nil
}

// RescheduleAppointment mutates date and time in place. The new time is
// not re-validated against availability and no slot is re-linked,
// matching current system behavior.
func RescheduleAppointment(id uint, newDate, newTime string) (*Appointment, error) {
	var appointment Appointment
	if err := DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if newDate != "" {
		updates["date"] = newDate
		appointment.Date = newDate
	}
	if newTime != "" {
		updates["time"] = newTime
		appointment.Time = newTime
	}

	if len(updates) > 0 {
		if err := DB.Model(&appointment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &appointment, nil
}
