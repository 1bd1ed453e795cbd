package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownPageFailsClosed(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleSpecial, RoleAdmin, RoleSuperadmin, Role(""), Role("owner")} {
		assert.False(t, CanView(role, Page("reports")), "view %s", role)
		assert.False(t, CanEdit(role, Page("reports")), "edit %s", role)
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, p := range Pages() {
		assert.False(t, CanView(Role("manager"), p), "view %s", p)
		assert.False(t, CanView(Role(""), p), "empty role view %s", p)
		assert.False(t, CanEdit(Role("manager"), p), "edit %s", p)
	}
}

func TestViewerCannotAccessTasks(t *testing.T) {
	assert.False(t, CanView(RoleViewer, PageTasks))
	assert.False(t, CanEdit(RoleViewer, PageTasks))
}

func TestAdminBudgetAccess(t *testing.T) {
	assert.True(t, CanView(RoleAdmin, PageBudget))
	assert.True(t, CanEdit(RoleAdmin, PageBudget))
}

func TestTableMatrix(t *testing.T) {
	tests := []struct {
		role Role
		page Page
		view bool
		edit bool
	}{
		{RoleViewer, PageDashboard, true, false},
		{RoleViewer, PageBudget, false, false},
		{RoleViewer, PageForum, true, true},
		{RoleViewer, PageUsers, false, false},
		{RoleSpecial, PageTasks, true, true},
		{RoleSpecial, PageBudget, true, false},
		{RoleSpecial, PageRisks, true, false},
		{RoleSpecial, PageUsers, false, false},
		{RoleAdmin, PageTasks, true, true},
		{RoleAdmin, PageUsers, true, true},
		{RoleAdmin, PageSettings, true, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.view, CanView(tt.role, tt.page), "view %s/%s", tt.role, tt.page)
		assert.Equal(t, tt.edit, CanEdit(tt.role, tt.page), "edit %s/%s", tt.role, tt.page)
	}
}

// Admin must be able to do whatever special can, and special whatever
// viewer can, except where a page is explicitly scoped higher.
func TestHierarchyIsMonotonic(t *testing.T) {
	for _, p := range Pages() {
		if CanView(RoleViewer, p) {
			assert.True(t, CanView(RoleSpecial, p), "special loses viewer page %s", p)
		}
		if CanView(RoleSpecial, p) {
			assert.True(t, CanView(RoleAdmin, p), "admin loses special page %s", p)
		}
		if CanEdit(RoleSpecial, p) {
			assert.True(t, CanEdit(RoleAdmin, p), "admin loses special edit %s", p)
		}
	}
}

func TestSuperadminDerivedQueriesReturnFullSet(t *testing.T) {
	assert.Equal(t, Pages(), ViewablePages(RoleSuperadmin))
	assert.Equal(t, Pages(), EditablePages(RoleSuperadmin))
}

func TestViewablePagesFiltersByMembership(t *testing.T) {
	pages := ViewablePages(RoleViewer)
	assert.Contains(t, pages, PageDashboard)
	assert.Contains(t, pages, PageForum)
	assert.NotContains(t, pages, PageTasks)
	assert.NotContains(t, pages, PageUsers)

	assert.Empty(t, ViewablePages(Role("intern")))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleViewer))
	assert.True(t, ValidRole(RoleSuperadmin))
	assert.False(t, ValidRole(Role("")))
	assert.False(t, ValidRole(Role("Viewer")))
}
