package session

import (
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkInvariant(t *testing.T, st State) {
	t.Helper()
	assert.Equal(t, st.User != nil, st.IsAuthenticated,
		"IsAuthenticated must equal (User != nil)")
}

func TestNewStore_InitialState(t *testing.T) {
	st := NewStore().State()

	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthenticated)
	assert.True(t, st.IsLoading)
	assert.Empty(t, st.Error)
	checkInvariant(t, st)
}

func TestTransitions(t *testing.T) {
	user := models.UserProfile{"id": float64(1), "email": "a@b.com"}

	tests := []struct {
		name    string
		actions []Action
		want    State
	}{
		{
			name:    "login start sets loading and clears error",
			actions: []Action{{Type: LoginFailure, Error: "nope"}, {Type: LoginStart}},
			want:    State{IsLoading: true},
		},
		{
			name:    "login success",
			actions: []Action{{Type: LoginStart}, {Type: LoginSuccess, User: user}},
			want:    State{User: user, IsAuthenticated: true},
		},
		{
			name:    "register success",
			actions: []Action{{Type: RegisterStart}, {Type: RegisterSuccess, User: user}},
			want:    State{User: user, IsAuthenticated: true},
		},
		{
			name: "login failure drops user and records message",
			actions: []Action{
				{Type: LoginSuccess, User: user},
				{Type: LoginStart},
				{Type: LoginFailure, Error: "Invalid email or password."},
			},
			want: State{Error: "Invalid email or password."},
		},
		{
			name:    "logout resets everything",
			actions: []Action{{Type: LoginSuccess, User: user}, {Type: Logout}},
			want:    State{},
		},
		{
			name:    "load user with payload",
			actions: []Action{{Type: LoadUser, User: user}},
			want:    State{User: user, IsAuthenticated: true},
		},
		{
			name:    "load user without payload finishes loading unauthenticated",
			actions: []Action{{Type: LoadUser}},
			want:    State{},
		},
		{
			name: "clear errors only clears the error",
			actions: []Action{
				{Type: LoginStart},
				{Type: LoginFailure, Error: "nope"},
				{Type: ClearErrors},
			},
			want: State{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, a := range tt.actions {
				s.Dispatch(a)
				checkInvariant(t, s.State())
			}
			got := s.State()
			assert.Equal(t, tt.want.IsAuthenticated, got.IsAuthenticated)
			assert.Equal(t, tt.want.IsLoading, got.IsLoading)
			assert.Equal(t, tt.want.Error, got.Error)
			assert.Equal(t, tt.want.User, got.User)
		})
	}
}

func TestUpdateUser_ShallowMerge(t *testing.T) {
	s := NewStore()
	s.Dispatch(Action{Type: LoginSuccess, User: models.UserProfile{
		"id": float64(1), "email": "a@b.com", "first_name": "Ann",
	}})

	s.Dispatch(Action{Type: UpdateUser, User: models.UserProfile{"first_name": "Anna", "phone": "555"}})

	got := s.State()
	assert.Equal(t, "a@b.com", got.User.Email())
	assert.Equal(t, "Anna", got.User["first_name"])
	assert.Equal(t, "555", got.User["phone"])
	assert.True(t, got.IsAuthenticated)
	checkInvariant(t, got)
}

func TestState_RoleHelpers(t *testing.T) {
	s := NewStore()
	s.Dispatch(Action{Type: LoginSuccess, User: models.UserProfile{
		"role": "admin", "is_verified": true,
	}})

	st := s.State()
	assert.True(t, st.IsAdmin())
	assert.False(t, st.IsModerator())
	assert.True(t, st.IsVerified())
}

func TestState_SnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	s.Dispatch(Action{Type: LoginSuccess, User: models.UserProfile{"email": "a@b.com"}})

	st := s.State()
	st.User["email"] = "mutated"

	assert.Equal(t, "a@b.com", s.State().User.Email())
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	s := NewStore()

	var got []State
	unsub := s.Subscribe(func(st State) { got = append(got, st) })

	s.Dispatch(Action{Type: LoginStart})
	require.Len(t, got, 1)
	assert.True(t, got[0].IsLoading)

	unsub()
	s.Dispatch(Action{Type: Logout})
	assert.Len(t, got, 1)
}

func TestDispatchIf_DropsStaleResults(t *testing.T) {
	s := NewStore()
	user := models.UserProfile{"id": float64(1)}

	epoch := s.Epoch()
	s.Dispatch(Action{Type: LoginStart})

	// a logout fires while the login is still in flight
	s.Dispatch(Action{Type: Logout})

	applied := s.DispatchIf(epoch, Action{Type: LoginSuccess, User: user})
	assert.False(t, applied)

	got := s.State()
	assert.False(t, got.IsAuthenticated)
	assert.Nil(t, got.User)
	checkInvariant(t, got)
}

func TestDispatchIf_AppliesWhenEpochMatches(t *testing.T) {
	s := NewStore()
	user := models.UserProfile{"id": float64(1)}

	epoch := s.Epoch()
	s.Dispatch(Action{Type: LoginStart})

	applied := s.DispatchIf(epoch, Action{Type: LoginSuccess, User: user})
	assert.True(t, applied)
	assert.True(t, s.State().IsAuthenticated)
}
