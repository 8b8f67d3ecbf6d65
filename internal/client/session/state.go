// Package session holds the application-wide authentication state. The state
// is owned by a single reducer-style Store; everything else requests named
// transitions and observes snapshots, never mutating the state directly.
package session

import "github.com/dmitrijs2005/authkeeper/internal/client/models"

// State is an immutable snapshot of the session.
//
// Invariants:
//   - IsAuthenticated is true exactly when User is non-nil.
//   - Error is cleared by every new login/registration attempt.
//   - IsLoading is true only while a login or registration is in flight
//     (and initially, until the persisted session has been loaded).
type State struct {
	User            models.UserProfile
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// IsAdmin reports whether the current user has the admin role.
func (s State) IsAdmin() bool { return s.User.Role() == "admin" }

// IsModerator reports whether the current user has the moderator role.
func (s State) IsModerator() bool { return s.User.Role() == "moderator" }

// IsVerified reports whether the current user's email is verified.
func (s State) IsVerified() bool { return s.User.IsVerified() }

// ActionType names a session transition.
type ActionType string

const (
	LoginStart      ActionType = "LOGIN_START"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginFailure    ActionType = "LOGIN_FAILURE"
	RegisterStart   ActionType = "REGISTER_START"
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterFailure ActionType = "REGISTER_FAILURE"
	Logout          ActionType = "LOGOUT"
	LoadUser        ActionType = "LOAD_USER"
	UpdateUser      ActionType = "UPDATE_USER"
	ClearErrors     ActionType = "CLEAR_ERRORS"
)

// Action is a requested transition. User carries the payload for success,
// load and update transitions; Error carries the message for failures.
type Action struct {
	Type  ActionType
	User  models.UserProfile
	Error string
}

// reduce maps the current state and an action to the next state. Every
// transition replaces the whole state; only UpdateUser merges into the
// existing user.
func reduce(s State, a Action) State {
	switch a.Type {
	case LoginStart, RegisterStart:
		s.IsLoading = true
		s.Error = ""
		return s

	case LoginSuccess, RegisterSuccess:
		return State{User: a.User, IsAuthenticated: a.User != nil}

	case LoginFailure, RegisterFailure:
		return State{Error: a.Error}

	case Logout:
		return State{}

	case LoadUser:
		return State{User: a.User, IsAuthenticated: a.User != nil}

	case UpdateUser:
		s.User = s.User.Merge(a.User)
		s.IsAuthenticated = s.User != nil
		return s

	case ClearErrors:
		s.Error = ""
		return s

	default:
		return s
	}
}
