// Package permissions holds the static page-permission table for the
// committee dashboard. The table is defined at startup and never
// mutated; every check is a pure lookup that fails closed on unknown
// roles and pages.
//
// Superadmin is deliberately absent from the table. Callers are
// expected to short-circuit superadmins to "allowed" before consulting
// it (see internal/auth).
package permissions

import "sort"

type Role string

const (
	RoleViewer     Role = "viewer"
	RoleSpecial    Role = "special"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ValidRole reports whether r belongs to the closed role set. Any
// other value is treated as "no role" for permission purposes.
func ValidRole(r Role) bool {
	switch r {
	case RoleViewer, RoleSpecial, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

type Page string

const (
	PageDashboard     Page = "dashboard"
	PageTasks         Page = "tasks"
	PageBudget        Page = "budget"
	PageRisks         Page = "risks"
	PageDocuments     Page = "documents"
	PageMeetings      Page = "meetings"
	PageForum         Page = "forum"
	PageNotifications Page = "notifications"
	PageUsers         Page = "users"
	PageSettings      Page = "settings"
)

type access struct {
	view map[Role]bool
	edit map[Role]bool
}

func roles(rs ...Role) map[Role]bool {
	m := make(map[Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

// table maps each page to the roles allowed to view and edit it.
// Tasks is scoped above viewer on purpose; users and settings are
// admin territory.
var table = map[Page]access{
	PageDashboard:     {view: roles(RoleViewer, RoleSpecial, RoleAdmin), edit: roles(RoleAdmin)},
	PageTasks:         {view: roles(RoleSpecial, RoleAdmin), edit: roles(RoleSpecial, RoleAdmin)},
	PageBudget:        {view: roles(RoleSpecial, RoleAdmin), edit: roles(RoleAdmin)},
	PageRisks:         {view: roles(RoleSpecial, RoleAdmin), edit: roles(RoleAdmin)},
	PageDocuments:     {view: roles(RoleViewer, RoleSpecial, RoleAdmin), edit: roles(RoleSpecial, RoleAdmin)},
	PageMeetings:      {view: roles(RoleViewer, RoleSpecial, RoleAdmin), edit: roles(RoleSpecial, RoleAdmin)},
	PageForum:         {view: roles(RoleViewer, RoleSpecial, RoleAdmin), edit: roles(RoleViewer, RoleSpecial, RoleAdmin)},
	PageNotifications: {view: roles(RoleViewer, RoleSpecial, RoleAdmin), edit: roles(RoleViewer, RoleSpecial, RoleAdmin)},
	PageUsers:         {view: roles(RoleAdmin), edit: roles(RoleAdmin)},
	PageSettings:      {view: roles(RoleAdmin), edit: roles(RoleAdmin)},
}

// KnownPage reports whether p has a table entry.
func KnownPage(p Page) bool {
	_, ok := table[p]
	return ok
}

// CanView answers whether role may view page. Unknown page or role
// returns false.
func CanView(role Role, page Page) bool {
	entry, ok := table[page]
	if !ok {
		return false
	}
	return entry.view[role]
}

// CanEdit answers whether role may edit page. Unknown page or role
// returns false.
func CanEdit(role Role, page Page) bool {
	entry, ok := table[page]
	if !ok {
		return false
	}
	return entry.edit[role]
}

// Pages returns the full page key set in stable order.
func Pages() []Page {
	out := make([]Page, 0, len(table))
	for p := range table {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ViewablePages lists every page role may view. Superadmin gets the
// full key set.
func ViewablePages(role Role) []Page {
	if role == RoleSuperadmin {
		return Pages()
	}
	out := make([]Page, 0)
	for _, p := range Pages() {
		if CanView(role, p) {
			out = append(out, p)
		}
	}
	return out
}

// EditablePages lists every page role may edit. Superadmin gets the
// full key set.
func EditablePages(role Role) []Page {
	if role == RoleSuperadmin {
		return Pages()
	}
	out := make([]Page, 0)
	for _, p := range Pages() {
		if CanEdit(role, p) {
			out = append(out, p)
		}
	}
	return out
}
