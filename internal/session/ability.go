package session

import "slices"

const (
	ActionManage = "manage"
	SubjectAll   = "all"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Ability answers permission questions from a rule list. Later rules take
// precedence over earlier ones; an inverted rule denies. No match means deny.
type Ability struct {
	rules []Rule
}

func NewAbility(rules []Rule) Ability {
	return Ability{rules: slices.Clone(rules)}
}

func (a Ability) Can(action string, subject string) bool {
	for i := len(a.rules) - 1; i >= 0; i-- {
		rule := a.rules[i]
		if rule.matches(action, subject) {
			return !rule.Inverted
		}
	}
	return false
}

func (a Ability) Cannot(action string, subject string) bool {
	return !a.Can(action, subject)
}

// Rules returns a copy of the rules the ability was built from.
func (a Ability) Rules() []Rule {
	return slices.Clone(a.rules)
}

func (r Rule) matches(action string, subject string) bool {
	actionOK := r.Action == action || r.Action == ActionManage
	subjectOK := r.Subject == subject || r.Subject == SubjectAll
	return actionOK && subjectOK
}
