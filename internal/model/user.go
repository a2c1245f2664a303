package model

// Role constants. Registration endpoints are role-tagged variants of the
// same operation; the role decides which profile consumer reacts.
type Role string

const (
	RoleUser    Role = "user"
	RolePatient Role = "patient"
	RoleMedic   Role = "medic"
	RoleAdmin   Role = "admin"
)

// User represents an account identity. Profiles are separate top-level
// documents joined to a user by reference, not composition.
type User struct {
	Base         `bson:",inline"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         Role   `json:"role" bson:"role"`
	OAuthSubject string `json:"-" bson:"oauth_subject,omitempty"`
}

// RegisterRequest represents role-tagged registration parameters
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents login parameters
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
