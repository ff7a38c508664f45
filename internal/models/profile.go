package models

import "fmt"

// SubscriptionStatus is the local premium flag
type SubscriptionStatus string

const (
	SubscriptionFree    SubscriptionStatus = "free"
	SubscriptionPremium SubscriptionStatus = "premium"
)

func (s SubscriptionStatus) IsValid() bool {
	return s == SubscriptionFree || s == SubscriptionPremium
}

// UserProfile holds the user's display preferences and goal overrides
type UserProfile struct {
	Name               string                `json:"name"`
	Goals              map[HabitCategory]int `json:"goals"` // partial; missing categories use the catalog default
	Theme              string                `json:"theme"`
	Language           string                `json:"language"`
	SubscriptionStatus SubscriptionStatus    `json:"subscriptionStatus"`
}

// ProfilePatch carries the fields to change. Nil fields keep their prior value.
type ProfilePatch struct {
	Name               *string
	Goals              map[HabitCategory]int
	Theme              *string
	Language           *string
	SubscriptionStatus *SubscriptionStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && len(p.Goals) == 0 && p.Theme == nil && p.Language == nil && p.SubscriptionStatus == nil
}

// Clone returns a deep copy.
func (u UserProfile) Clone() UserProfile {
	out := u
	out.Goals = make(map[HabitCategory]int, len(u.Goals))
	for k, v := range u.Goals {
		out.Goals[k] = v
	}
	return out
}

// Apply merges the patch into a copy of the profile. Goal overrides are merged
// per category.
func (u UserProfile) Apply(p ProfilePatch) (UserProfile, error) {
	out := u.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	for c, g := range p.Goals {
		if !c.IsValid() {
			return u, fmt.Errorf("invalid habit category: %q", c)
		}
		if g <= 0 {
			return u, fmt.Errorf("goal for %s must be positive, got %d", c, g)
		}
		out.Goals[c] = g
	}
	if p.Theme != nil {
		out.Theme = *p.Theme
	}
	if p.Language != nil {
		out.Language = *p.Language
	}
	if p.SubscriptionStatus != nil {
		if !p.SubscriptionStatus.IsValid() {
			return u, fmt.Errorf("invalid subscription status: %q", *p.SubscriptionStatus)
		}
		out.SubscriptionStatus = *p.SubscriptionStatus
	}
	return out, nil
}
