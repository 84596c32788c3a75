package Models

import "errors"

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlacklisted = errors.New("account is blacklisted")
	ErrAccountInactive    = errors.New("account is inactive")

	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotAlreadyBooked = errors.New("slot already booked")
	// Returned by RemoveAvailability: the slot is either booked or does
	// not exist, and the two cases are not distinguished.
	ErrSlotBookedOrMissing = errors.New("slot not found or already booked")

	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotBooked = errors.New("appointment is not in booked state")
	ErrTreatmentNotFound    = errors.New("treatment not found")

	ErrEntityNotFound = errors.New("record not found")
)
