package auth

import "github.com/komiteplus/committee-backend/internal/models"

// RouteConfig is the per-route guard configuration. RequiresAdmin and
// RequiresSpecial may both be set; admin implies special, so the pair
// is redundant but not contradictory.
type RouteConfig struct {
	RequiresAdmin    bool
	RequiresSpecial  bool
	SkipProfileCheck bool
}

// Decision is the route-guard outcome.
type Decision int

const (
	// DecisionLoading blocks rendering while auth state is unresolved.
	DecisionLoading Decision = iota
	// DecisionRender allows the route.
	DecisionRender
	// DecisionRedirectLogin sends the visitor to the login flow.
	DecisionRedirectLogin
	// DecisionRedirectCompleteProfile sends the member to onboarding.
	DecisionRedirectCompleteProfile
	// DecisionRedirectUnauthorized denies the route.
	DecisionRedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectCompleteProfile:
		return "redirect-complete-profile"
	case DecisionRedirectUnauthorized:
		return "redirect-unauthorized"
	}
	return "unknown"
}

// GuardState is the auth snapshot a guard decision is made against.
// It is assembled fresh for every evaluation so role and profile
// changes take effect immediately.
type GuardState struct {
	Loading   bool
	SignedIn  bool
	Profile   *models.Profile
	Bootstrap Bootstrap
}

// Decide runs the guard decision ladder; the first matching rule
// wins.
func Decide(st GuardState, route RouteConfig) Decision {
	if st.Loading {
		return DecisionLoading
	}
	if !st.SignedIn {
		return DecisionRedirectLogin
	}
	// Superadmins bypass every further check, including profile
	// completeness.
	if IsSuperAdmin(st.Profile, st.Bootstrap) {
		return DecisionRender
	}
	if !route.SkipProfileCheck && !st.Profile.Complete() {
		return DecisionRedirectCompleteProfile
	}
	if route.RequiresAdmin && !IsAdmin(st.Profile, st.Bootstrap) {
		return DecisionRedirectUnauthorized
	}
	if route.RequiresSpecial && !IsSpecial(st.Profile, st.Bootstrap) {
		return DecisionRedirectUnauthorized
	}
	return DecisionRender
}
