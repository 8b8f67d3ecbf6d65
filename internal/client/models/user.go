// Package models contains client-side data types for authkeeper.
package models

// UserProfile is the server-defined user object. The set of fields is owned
// by the backend, so the profile is kept as an opaque mapping and only the
// fields needed for authorization gating are read through accessors.
type UserProfile map[string]any

// Clone returns a shallow copy of the profile. A nil profile clones to nil.
func (u UserProfile) Clone() UserProfile {
	if u == nil {
		return nil
	}
	c := make(UserProfile, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// Merge returns a copy of the profile with the fields of patch overlaid on
// top. Fields absent from patch keep their current values. Merging into a
// nil profile yields a clone of patch.
func (u UserProfile) Merge(patch UserProfile) UserProfile {
	if u == nil {
		return patch.Clone()
	}
	m := u.Clone()
	for k, v := range patch {
		m[k] = v
	}
	return m
}

func (u UserProfile) str(key string) string {
	if u == nil {
		return ""
	}
	s, _ := u[key].(string)
	return s
}

// Email returns the profile's email address, if present.
func (u UserProfile) Email() string { return u.str("email") }

// Username returns the profile's username, if present.
func (u UserProfile) Username() string { return u.str("username") }

// Role returns the profile's role string, if present.
func (u UserProfile) Role() string { return u.str("role") }

// IsVerified reports whether the profile's email is verified.
func (u UserProfile) IsVerified() bool {
	if u == nil {
		return false
	}
	v, _ := u["is_verified"].(bool)
	return v
}
