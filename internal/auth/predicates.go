package auth

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/models"
	"github.com/komiteplus/committee-backend/internal/permissions"
)

// Bootstrap is the configured first-operator identity. Matching it
// grants superadmin independent of the role column so a fresh install
// can be administered before any roles are assigned. Empty fields
// never match.
type Bootstrap struct {
	Email     string
	FirstName string
	LastName  string
}

// IsSuperAdmin is an OR of three independent conditions: the role
// column, a case-insensitive email match, or an exact first+last name
// match against the bootstrap identity.
func IsSuperAdmin(p *models.Profile, b Bootstrap) bool {
	if p == nil {
		return false
	}
	if permissions.Role(p.Role) == permissions.RoleSuperadmin {
		return true
	}
	if b.Email != "" && strings.EqualFold(p.Email, b.Email) {
		return true
	}
	if b.FirstName != "" && b.LastName != "" &&
		p.FirstName == b.FirstName && p.LastName == b.LastName {
		return true
	}
	return false
}

func IsAdmin(p *models.Profile, b Bootstrap) bool {
	if IsSuperAdmin(p, b) {
		return true
	}
	return p != nil && permissions.Role(p.Role) == permissions.RoleAdmin
}

func IsSpecial(p *models.Profile, b Bootstrap) bool {
	if IsAdmin(p, b) {
		return true
	}
	return p != nil && permissions.Role(p.Role) == permissions.RoleSpecial
}

// CanViewPage short-circuits superadmins past the table, then fails
// closed: an unknown page, a missing profile, or a panic inside the
// lookup all resolve to false.
func CanViewPage(p *models.Profile, b Bootstrap, page permissions.Page) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("permission check panicked, denying access",
				"error", &autherrors.PermissionCheckError{Page: string(page), Err: fmt.Errorf("%v", r)})
			allowed = false
		}
	}()

	if IsSuperAdmin(p, b) {
		return true
	}
	if p == nil {
		return false
	}
	return permissions.CanView(permissions.Role(p.Role), page)
}

// CanEditPage mirrors CanViewPage for edit access.
func CanEditPage(p *models.Profile, b Bootstrap, page permissions.Page) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("permission check panicked, denying access",
				"error", &autherrors.PermissionCheckError{Page: string(page), Err: fmt.Errorf("%v", r)})
			allowed = false
		}
	}()

	if IsSuperAdmin(p, b) {
		return true
	}
	if p == nil {
		return false
	}
	return permissions.CanEdit(permissions.Role(p.Role), page)
}

// ViewablePages lists the pages the profile may view; superadmins get
// the full key set.
func ViewablePages(p *models.Profile, b Bootstrap) []permissions.Page {
	if IsSuperAdmin(p, b) {
		return permissions.Pages()
	}
	if p == nil {
		return nil
	}
	return permissions.ViewablePages(permissions.Role(p.Role))
}

// EditablePages lists the pages the profile may edit; superadmins get
// the full key set.
func EditablePages(p *models.Profile, b Bootstrap) []permissions.Page {
	if IsSuperAdmin(p, b) {
		return permissions.Pages()
	}
	if p == nil {
		return nil
	}
	return permissions.EditablePages(permissions.Role(p.Role))
}
