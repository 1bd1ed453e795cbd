package auth

import (
	"testing"

	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDecideNoSessionAlwaysRedirectsToLogin(t *testing.T) {
	for _, route := range []RouteConfig{
		{},
		{RequiresAdmin: true},
		{RequiresSpecial: true},
		{SkipProfileCheck: true},
		{RequiresAdmin: true, RequiresSpecial: true, SkipProfileCheck: true},
	} {
		st := GuardState{SignedIn: false, Bootstrap: testBootstrap}
		assert.Equal(t, DecisionRedirectLogin, Decide(st, route), "route %+v", route)
	}
}

func TestDecideLoadingBlocksEverything(t *testing.T) {
	st := GuardState{Loading: true, SignedIn: true, Profile: profileWith("admin"), Bootstrap: testBootstrap}
	assert.Equal(t, DecisionLoading, Decide(st, RouteConfig{RequiresAdmin: true}))
}

func TestDecideSuperadminBypassesEverything(t *testing.T) {
	// Incomplete profile and an admin requirement at the same time.
	incomplete := &models.Profile{Email: "x@example.org", Role: "superadmin"}
	st := GuardState{SignedIn: true, Profile: incomplete, Bootstrap: testBootstrap}
	assert.Equal(t, DecisionRender, Decide(st, RouteConfig{RequiresAdmin: true}))
}

func TestDecideProfileCompleteness(t *testing.T) {
	incomplete := &models.Profile{Email: "x@example.org", FirstName: "Deniz", Role: "admin"}

	st := GuardState{SignedIn: true, Profile: incomplete, Bootstrap: testBootstrap}
	assert.Equal(t, DecisionRedirectCompleteProfile, Decide(st, RouteConfig{}))
	assert.Equal(t, DecisionRender, Decide(st, RouteConfig{SkipProfileCheck: true}))
}

// A session without any profile row counts as incomplete; the nil
// check must not panic.
func TestDecideMissingProfileRedirectsToCompleteProfile(t *testing.T) {
	st := GuardState{SignedIn: true, Profile: nil, Bootstrap: testBootstrap}
	assert.Equal(t, DecisionRedirectCompleteProfile, Decide(st, RouteConfig{}))
	assert.Equal(t, DecisionRedirectUnauthorized, Decide(st, RouteConfig{SkipProfileCheck: true, RequiresAdmin: true}))
}

func TestDecideRoleRequirements(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		route RouteConfig
		want  Decision
	}{
		{"viewer on plain route", "viewer", RouteConfig{}, DecisionRender},
		{"viewer on special route", "viewer", RouteConfig{RequiresSpecial: true}, DecisionRedirectUnauthorized},
		{"viewer on admin route", "viewer", RouteConfig{RequiresAdmin: true}, DecisionRedirectUnauthorized},
		{"special on special route", "special", RouteConfig{RequiresSpecial: true}, DecisionRender},
		{"special on admin route", "special", RouteConfig{RequiresAdmin: true}, DecisionRedirectUnauthorized},
		{"admin on admin route", "admin", RouteConfig{RequiresAdmin: true}, DecisionRender},
		{"admin on redundant route", "admin", RouteConfig{RequiresAdmin: true, RequiresSpecial: true}, DecisionRender},
		{"special on redundant route", "special", RouteConfig{RequiresAdmin: true, RequiresSpecial: true}, DecisionRedirectUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := GuardState{SignedIn: true, Profile: profileWith(tt.role), Bootstrap: testBootstrap}
			assert.Equal(t, tt.want, Decide(st, tt.route))
		})
	}
}
