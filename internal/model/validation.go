package model

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDValidation backs the "objectid" binding tag: the field must be a
// valid ObjectID hex string.
func ObjectIDValidation(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

// RegisterValidations installs custom binding validations on the engine.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("objectid", ObjectIDValidation)
}
