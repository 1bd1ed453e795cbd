package dto

import "github.com/komiteplus/committee-backend/internal/permissions"

type PermissionsResponse struct {
	Role          string             `json:"role"`
	SuperAdmin    bool               `json:"super_admin"`
	ViewablePages []permissions.Page `json:"viewable_pages"`
	EditablePages []permissions.Page `json:"editable_pages"`
}

type PageAccessResponse struct {
	Page    permissions.Page `json:"page"`
	CanView bool             `json:"can_view"`
	CanEdit bool             `json:"can_edit"`
}
