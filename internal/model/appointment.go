package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
)

// Appointment links one patient profile and one doctor profile to a time
// slot and an opaque call-session handle.
type Appointment struct {
	Base          `bson:",inline"`
	PatientID     primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	DoctorID      primitive.ObjectID `json:"doctor_id" bson:"doctor_id"`
	StartTime     time.Time          `json:"start_time" bson:"start_time"`
	EndTime       time.Time          `json:"end_time" bson:"end_time"`
	Status        AppointmentStatus  `json:"status" bson:"status"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CancelReason  string             `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	CallSessionID string             `json:"call_session_id,omitempty" bson:"call_session_id,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID string    `json:"patient_id" binding:"required,objectid"`
	DoctorID  string    `json:"doctor_id" binding:"required,objectid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// AppointmentFilters narrows appointment listings.
type AppointmentFilters struct {
	PatientID primitive.ObjectID
	DoctorID  primitive.ObjectID
	Status    AppointmentStatus
}
