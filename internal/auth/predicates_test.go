package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/permissions"
	"github.com/stretchr/testify/assert"
)

var testBootstrap = Bootstrap{
	Email:     "chair@example.org",
	FirstName: "Ayse",
	LastName:  "Kaya",
}

func profileWith(role string) *models.Profile {
	return &models.Profile{
		ID:        uuid.New(),
		Email:     "member@example.org",
		FirstName: "Deniz",
		LastName:  "Yildiz",
		Role:      role,
	}
}

func TestIsSuperAdminDisjuncts(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.Profile
		want    bool
	}{
		{"role column alone", profileWith("superadmin"), true},
		{"email match alone", &models.Profile{Email: "CHAIR@example.org", Role: "viewer"}, true},
		{"name match alone", &models.Profile{Email: "other@example.org", FirstName: "Ayse", LastName: "Kaya", Role: "viewer"}, true},
		{"no disjunct", profileWith("admin"), false},
		{"partial name match", &models.Profile{FirstName: "Ayse", LastName: "Demir", Role: "viewer"}, false},
		{"nil profile", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuperAdmin(tt.profile, testBootstrap))
		})
	}
}

// An unset bootstrap identity must never match, in particular not a
// profile with empty names.
func TestEmptyBootstrapNeverMatches(t *testing.T) {
	empty := Bootstrap{}
	blank := &models.Profile{Role: "viewer"}
	assert.False(t, IsSuperAdmin(blank, empty))
	assert.False(t, IsSuperAdmin(&models.Profile{Email: ""}, empty))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(profileWith("admin"), testBootstrap))
	assert.True(t, IsAdmin(profileWith("superadmin"), testBootstrap))
	assert.True(t, IsAdmin(&models.Profile{Email: "chair@example.org", Role: "viewer"}, testBootstrap))
	assert.False(t, IsAdmin(profileWith("special"), testBootstrap))
	assert.False(t, IsAdmin(profileWith("viewer"), testBootstrap))
	assert.False(t, IsAdmin(nil, testBootstrap))
}

func TestIsSpecial(t *testing.T) {
	assert.True(t, IsSpecial(profileWith("special"), testBootstrap))
	assert.True(t, IsSpecial(profileWith("admin"), testBootstrap))
	assert.True(t, IsSpecial(profileWith("superadmin"), testBootstrap))
	assert.False(t, IsSpecial(profileWith("viewer"), testBootstrap))
	assert.False(t, IsSpecial(nil, testBootstrap))
}

func TestUnknownRoleFailsClosedEverywhere(t *testing.T) {
	p := profileWith("owner")
	assert.False(t, IsAdmin(p, testBootstrap))
	assert.False(t, IsSpecial(p, testBootstrap))
	for _, page := range permissions.Pages() {
		assert.False(t, CanViewPage(p, testBootstrap, page), "view %s", page)
		assert.False(t, CanEditPage(p, testBootstrap, page), "edit %s", page)
	}
}

func TestCanViewPage(t *testing.T) {
	assert.False(t, CanViewPage(profileWith("viewer"), testBootstrap, permissions.PageTasks))
	assert.False(t, CanEditPage(profileWith("viewer"), testBootstrap, permissions.PageTasks))
	assert.True(t, CanViewPage(profileWith("admin"), testBootstrap, permissions.PageBudget))
	assert.True(t, CanEditPage(profileWith("admin"), testBootstrap, permissions.PageBudget))
	assert.False(t, CanViewPage(nil, testBootstrap, permissions.PageDashboard))
}

func TestSuperadminBypassesTable(t *testing.T) {
	// Superadmin is not in any table entry; the bypass must grant
	// every page anyway, including unknown role values elsewhere.
	sa := profileWith("superadmin")
	for _, page := range permissions.Pages() {
		assert.True(t, CanViewPage(sa, testBootstrap, page), "view %s", page)
		assert.True(t, CanEditPage(sa, testBootstrap, page), "edit %s", page)
	}
}

func TestUnknownPageFailsClosed(t *testing.T) {
	assert.False(t, CanViewPage(profileWith("admin"), testBootstrap, permissions.Page("reports")))
	assert.False(t, CanEditPage(profileWith("admin"), testBootstrap, permissions.Page("reports")))
}

func TestViewableAndEditablePages(t *testing.T) {
	assert.Equal(t, permissions.Pages(), ViewablePages(profileWith("superadmin"), testBootstrap))
	assert.Equal(t, permissions.Pages(), EditablePages(profileWith("superadmin"), testBootstrap))

	viewer := ViewablePages(profileWith("viewer"), testBootstrap)
	assert.Contains(t, viewer, permissions.PageDashboard)
	assert.NotContains(t, viewer, permissions.PageTasks)

	assert.Nil(t, ViewablePages(nil, testBootstrap))
}
