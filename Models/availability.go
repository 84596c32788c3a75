package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Availability is a bookable slot owned by a doctor. At most one
// appointment may reference a (doctor, date, start_time) while
// IsBooked is set.
type Availability struct {
	gorm.Model
	DoctorID  uint   `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

// AddAvailability creates an unbooked slot. Overlap with existing slots
// of the same doctor is not checked, matching current system behavior.
func AddAvailability(doctorID uint, date, startTime, endTime string) (*Availability, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, err
	}
	if _, err := time.Parse(TimeLayout, startTime); err != nil {
		return nil, err
	}
	if _, err := time.Parse(TimeLayout, endTime); err != nil {
		return nil, err
	}

	slot := Availability{
		DoctorID:  doctorID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		IsBooked:  false,
	}
	if err := DB.Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// RemoveAvailability deletes the slot only while it is unbooked.
func RemoveAvailability(doctorID uint, date, startTime string) error {
	res := DB.Where("doctor_id = ? AND date = ? AND start_time = ? AND is_booked = ?",
		doctorID, date, startTime, false).Delete(&Availability{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotBookedOrMissing
	}
	return nil
}

func ListAvailability(doctorID uint) ([]Availability, error) {
	var slots []Availability
	if err := DB.Where("doctor_id = ?", doctorID).Order("date, start_time").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}
