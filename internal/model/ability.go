package model

// Action is a permission verb.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage" // any action
)

// Subject names a resource type rules apply to.
type Subject string

const (
	SubjectAll         Subject = "all"
	SubjectUser        Subject = "user"
	SubjectDoctor      Subject = "doctor"
	SubjectPatient     Subject = "patient"
	SubjectAppointment Subject = "appointment"
)

// Rule is a permission statement (action, subject, condition). Rules are
// derived per request from the requester's role and never persisted. A nil
// Condition matches any resource instance.
type Rule struct {
	Action    Action
	Subject   Subject
	Condition func(actor *User, resource interface{}) bool
}
