package ability

import (
	"github.com/medadmin/hospital-api/internal/model"
)

// Ability is the ordered rule set derived for one request. Evaluation is
// first-match-wins; condition predicates run against the live resource.
type Ability struct {
	actor *model.User
	rules []model.Rule
}

// BuildForUser derives the rule set for the user's role.
func BuildForUser(user *model.User) *Ability {
	a := &Ability{actor: user}

	switch user.Role {
	case model.RoleAdmin:
		a.rules = append(a.rules, model.Rule{Action: model.ActionManage, Subject: model.SubjectAll})

	case model.RoleMedic:
		a.rules = append(a.rules,
			model.Rule{Action: model.ActionRead, Subject: model.SubjectAll},
			model.Rule{Action: model.ActionUpdate, Subject: model.SubjectDoctor, Condition: ownsProfile},
			model.Rule{Action: model.ActionCreate, Subject: model.SubjectAppointment},
			model.Rule{Action: model.ActionUpdate, Subject: model.SubjectAppointment},
		)

	case model.RolePatient:
		a.rules = append(a.rules,
			model.Rule{Action: model.ActionRead, Subject: model.SubjectAll},
			model.Rule{Action: model.ActionUpdate, Subject: model.SubjectPatient, Condition: ownsProfile},
			model.Rule{Action: model.ActionCreate, Subject: model.SubjectAppointment},
			model.Rule{Action: model.ActionUpdate, Subject: model.SubjectAppointment},
		)

	default:
		a.rules = append(a.rules, model.Rule{Action: model.ActionRead, Subject: model.SubjectAll})
	}

	return a
}

// Can reports whether any rule allows the action on the resource.
func (a *Ability) Can(action model.Action, subject model.Subject, resource interface{}) bool {
	for _, rule := range a.rules {
		if rule.Action != action && rule.Action != model.ActionManage {
			continue
		}
		if rule.Subject != subject && rule.Subject != model.SubjectAll {
			continue
		}
		if rule.Condition != nil && !rule.Condition(a.actor, resource) {
			continue
		}
		return true
	}
	return false
}

// ownsProfile matches profiles whose user reference points at the actor.
func ownsProfile(actor *model.User, resource interface{}) bool {
	switch p := resource.(type) {
	case *model.Doctor:
		return p.UserID == actor.ID
	case *model.Patient:
		return p.UserID == actor.ID
	}
	return false
}
