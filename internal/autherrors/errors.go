// Package autherrors defines tagged error variants for the auth and
// notification subsystems. Classification happens at the throw site so
// no caller ever has to match on message substrings.
package autherrors

import "fmt"

// AuthError covers failures of explicit user actions: invalid
// credentials, expired tokens, network failure during sign-in. It is
// the only variant that propagates to the caller as a rejected
// operation.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProfileLookupError marks a failed profile fetch. It is logged and
// absorbed; the caller treats the profile as absent.
type ProfileLookupError struct {
	Subject string
	Err     error
}

func (e *ProfileLookupError) Error() string {
	return fmt.Sprintf("profile lookup for %s: %v", e.Subject, e.Err)
}

func (e *ProfileLookupError) Unwrap() error { return e.Err }

// PermissionCheckError marks a panic inside a permission predicate.
// It is logged and resolved to "not allowed".
type PermissionCheckError struct {
	Page string
	Err  error
}

func (e *PermissionCheckError) Error() string {
	return fmt.Sprintf("permission check for page %q: %v", e.Page, e.Err)
}

func (e *PermissionCheckError) Unwrap() error { return e.Err }

// NotificationSyncError marks a failed notification fetch or update.
// Local channel state is left untouched when one is returned.
type NotificationSyncError struct {
	Op  string
	Err error
}

func (e *NotificationSyncError) Error() string {
	return fmt.Sprintf("notification sync: %s: %v", e.Op, e.Err)
}

func (e *NotificationSyncError) Unwrap() error { return e.Err }
