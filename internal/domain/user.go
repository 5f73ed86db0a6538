package domain

// Plan is the subscription tier that sizes a user's credit allotment.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ParsePlan maps a provider plan claim ("pro", "u:pro", "free_user") to a Plan; anything unrecognised is free.
func ParsePlan(s string) Plan {
	switch s {
	case "pro", "u:pro", "pro_user":
		return PlanPro
	default:
		return PlanFree
	}
}

// DisplayName returns the plan name shown to users.
func (p Plan) DisplayName() string {
	if p == PlanPro {
		return "Pro"
	}
	return "Free"
}

// Identity is the caller as asserted by the identity provider (web session) or an extension token.
// Users are not persisted locally; UserID is the provider's opaque id.
type Identity struct {
	UserID       string
	Email        string
	Name         string
	ProfileImage string
	Plan         Plan
}
