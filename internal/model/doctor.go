package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

type DoctorHierarchy string

const (
	HierarchyMedicalStudent DoctorHierarchy = "medical_student"
	HierarchyIntern         DoctorHierarchy = "intern"
	HierarchyResident       DoctorHierarchy = "resident"
	HierarchySpecialist     DoctorHierarchy = "specialist"
	HierarchyConsultant     DoctorHierarchy = "consultant"
)

// DoctorReference is a denormalized pointer to another doctor profile.
type DoctorReference struct {
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
}

// Doctor is a per-role profile document. UserID is set once from the
// registration event payload and is never reassigned by edit operations.
type Doctor struct {
	Base              `bson:",inline"`
	UserID            primitive.ObjectID   `json:"user_id" bson:"user_id"`
	FirstName         string               `json:"first_name" bson:"first_name"`
	LastName          string               `json:"last_name" bson:"last_name"`
	Age               int                  `json:"age" bson:"age"`
	Address           string               `json:"address" bson:"address"`
	Telephone         string               `json:"telephone" bson:"telephone"`
	Occupation        string               `json:"occupation" bson:"occupation"`
	MaritalStatus     MaritalStatus        `json:"marital_status" bson:"marital_status"`
	Specialties       []string             `json:"specialties" bson:"specialties"`
	Certificates      []string             `json:"certificates" bson:"certificates"`
	Hierarchy         DoctorHierarchy      `json:"hierarchy" bson:"hierarchy"`
	YearsOfExperience int                  `json:"years_of_experience" bson:"years_of_experience"`
	Languages         []string             `json:"languages" bson:"languages"`
	Department        string               `json:"department" bson:"department"`
	DirectingDoctor   *DoctorReference     `json:"directing_doctor,omitempty" bson:"directing_doctor,omitempty"`
	SubordinateDocs   []primitive.ObjectID `json:"subordinate_doctors" bson:"subordinate_doctors"`
	AssignedPatients  []primitive.ObjectID `json:"assigned_patients" bson:"assigned_patients"`
	ImageURL          string               `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ImageObject       string               `json:"-" bson:"image_object,omitempty"`
}

// EditDoctorRequest carries the fixed attribute subset ordinary edits may
// touch. The user reference, hierarchy, department and occupation are
// deliberately absent.
type EditDoctorRequest struct {
	FirstName         *string        `json:"first_name"`
	LastName          *string        `json:"last_name"`
	Age               *int           `json:"age" binding:"omitempty,gte=0,lte=130"`
	Address           *string        `json:"address"`
	Telephone         *string        `json:"telephone"`
	MaritalStatus     *MaritalStatus `json:"marital_status" binding:"omitempty,oneof=single married divorced widowed"`
	Specialties       []string       `json:"specialties"`
	Certificates      []string       `json:"certificates"`
	YearsOfExperience *int           `json:"years_of_experience" binding:"omitempty,gte=0"`
	Languages         []string       `json:"languages"`
}

// AssignDepartmentRequest is the admin-only department assignment payload.
type AssignDepartmentRequest struct {
	Department string `json:"department" binding:"required"`
}
