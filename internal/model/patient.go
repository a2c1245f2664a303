package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient mirrors the Doctor profile for the patient role.
type Patient struct {
	Base              `bson:",inline"`
	UserID            primitive.ObjectID `json:"user_id" bson:"user_id"`
	FirstName         string             `json:"first_name" bson:"first_name"`
	LastName          string             `json:"last_name" bson:"last_name"`
	Age               int                `json:"age" bson:"age"`
	Address           string             `json:"address" bson:"address"`
	Telephone         string             `json:"telephone" bson:"telephone"`
	Occupation        string             `json:"occupation" bson:"occupation"`
	MaritalStatus     MaritalStatus      `json:"marital_status" bson:"marital_status"`
	MedicalIssues     []string           `json:"medical_issues" bson:"medical_issues"`
	Prescriptions     []string           `json:"prescriptions" bson:"prescriptions"`
	PharmacyTelephone string             `json:"pharmacy_telephone" bson:"pharmacy_telephone"`
	ImageURL          string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ImageObject       string             `json:"-" bson:"image_object,omitempty"`
}

// EditPatientRequest carries the attribute subset ordinary edits may touch.
// The user reference is deliberately absent.
type EditPatientRequest struct {
	FirstName         *string        `json:"first_name"`
	LastName          *string        `json:"last_name"`
	Age               *int           `json:"age" binding:"omitempty,gte=0,lte=130"`
	Address           *string        `json:"address"`
	Telephone         *string        `json:"telephone"`
	Occupation        *string        `json:"occupation"`
	MaritalStatus     *MaritalStatus `json:"marital_status" binding:"omitempty,oneof=single married divorced widowed"`
	MedicalIssues     []string       `json:"medical_issues"`
	Prescriptions     []string       `json:"prescriptions"`
	PharmacyTelephone *string        `json:"pharmacy_telephone"`
}
