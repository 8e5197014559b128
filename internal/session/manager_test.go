package session

import (
	"testing"

	"github.com/hemantapkh/NcellBot/internal/domain"
	"github.com/hemantapkh/NcellBot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func accounts(ids ...int64) []domain.LinkedAccount {
	out := make([]domain.LinkedAccount, 0, len(ids))
	for _, id := range ids {
		out = append(out, testutil.NewTestAccount(id, 1, "98140000", "token"))
	}
	return out
}

func TestManager_DefaultAccount(t *testing.T) {
	tests := []struct {
		name      string
		defaultID *int64
		account   *domain.LinkedAccount
		wantNil   bool
	}{
		{
			name:      "pointer set",
			defaultID: ptr(int64(5)),
			account:   &domain.LinkedAccount{ID: 5, UserID: 1},
		},
		{
			name:      "pointer unset",
			defaultID: nil,
			wantNil:   true,
		},
		{
			name:      "pointer dangling",
			defaultID: ptr(int64(9)),
			account:   nil,
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockAccountRepository)
			repo.On("DefaultID", int64(1)).Return(tt.defaultID, nil)
			if tt.defaultID != nil {
				repo.On("Get", int64(1), *tt.defaultID).Return(tt.account, nil)
			}

			m := NewManager(repo, testutil.NewTestLogger())
			acc, err := m.DefaultAccount(1)

			assert.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, acc)
			} else {
				assert.Equal(t, tt.account, acc)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestManager_SelectDefault_AlreadyDefault(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(ptr(int64(3)), nil)

	m := NewManager(repo, testutil.NewTestLogger())
	err := m.SelectDefault(1, 3)

	assert.ErrorIs(t, err, ErrAlreadyDefault)
	repo.AssertNotCalled(t, "SetDefault")
}

func TestManager_SelectDefault_Reassigns(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(ptr(int64(3)), nil)
	repo.On("SetDefault", int64(1), ptr(int64(7))).Return(nil)

	m := NewManager(repo, testutil.NewTestLogger())

	assert.NoError(t, m.SelectDefault(1, 7))
	repo.AssertExpectations(t)
}

func TestManager_CycleDefault(t *testing.T) {
	tests := []struct {
		name    string
		list    []domain.LinkedAccount
		current *int64
		want    int64
	}{
		{
			name:    "no default selects first",
			list:    accounts(10, 20, 30),
			current: nil,
			want:    10,
		},
		{
			name:    "advances to next",
			list:    accounts(10, 20, 30),
			current: ptr(int64(10)),
			want:    20,
		},
		{
			name:    "wraps after last",
			list:    accounts(10, 20, 30),
			current: ptr(int64(30)),
			want:    10,
		},
		{
			name:    "single account cycles to itself",
			list:    accounts(10),
			current: ptr(int64(10)),
			want:    10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockAccountRepository)
			repo.On("List", int64(1)).Return(tt.list, nil)
			repo.On("DefaultID", int64(1)).Return(tt.current, nil)
			repo.On("SetDefault", int64(1), ptr(tt.want)).Return(nil)

			m := NewManager(repo, testutil.NewTestLogger())
			next, err := m.CycleDefault(1)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, next.ID)
			repo.AssertExpectations(t)
		})
	}
}

// Cycling as many times as there are accounts must come back to the start.
func TestManager_CycleDefault_FullRoundIsIdentity(t *testing.T) {
	list := accounts(10, 20, 30)

	repo := new(testutil.MockAccountRepository)
	repo.On("List", int64(1)).Return(list, nil)
	repo.On("DefaultID", int64(1)).Return(ptr(int64(10)), nil).Once()
	repo.On("SetDefault", int64(1), ptr(int64(20))).Return(nil).Once()
	repo.On("DefaultID", int64(1)).Return(ptr(int64(20)), nil).Once()
	repo.On("SetDefault", int64(1), ptr(int64(30))).Return(nil).Once()
	repo.On("DefaultID", int64(1)).Return(ptr(int64(30)), nil).Once()
	repo.On("SetDefault", int64(1), ptr(int64(10))).Return(nil).Once()

	m := NewManager(repo, testutil.NewTestLogger())

	var last int64
	for i := 0; i < len(list); i++ {
		next, err := m.CycleDefault(1)
		assert.NoError(t, err)
		last = next.ID
	}

	assert.Equal(t, int64(10), last)
	repo.AssertExpectations(t)
}

func TestManager_CycleDefault_NoAccounts(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("List", int64(1)).Return([]domain.LinkedAccount{}, nil)

	m := NewManager(repo, testutil.NewTestLogger())
	_, err := m.CycleDefault(1)

	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestManager_InvalidateSession(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(ptr(int64(4)), nil)
	repo.On("Delete", int64(1), int64(4)).Return(nil)
	repo.On("SetDefault", int64(1), (*int64)(nil)).Return(nil)

	m := NewManager(repo, testutil.NewTestLogger())

	assert.NoError(t, m.InvalidateSession(1, "LGN2004"))
	repo.AssertExpectations(t)
}

// Invalidating twice must not fail: the second call sees no default and
// does nothing.
func TestManager_InvalidateSession_Idempotent(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(nil, nil)

	m := NewManager(repo, testutil.NewTestLogger())

	assert.NoError(t, m.InvalidateSession(1, "LGN2004"))
	repo.AssertNotCalled(t, "Delete")
	repo.AssertNotCalled(t, "SetDefault")
}

func TestManager_RemoveAccount(t *testing.T) {
	tests := []struct {
		name      string
		current   *int64
		remove    int64
		remaining []domain.LinkedAccount
	}{
		{
			name:    "non-default removal keeps pointer",
			current: ptr(int64(10)),
			remove:  20,
		},
		{
			name:      "default removal moves pointer to first remaining",
			current:   ptr(int64(10)),
			remove:    10,
			remaining: accounts(20, 30),
		},
		{
			name:      "last account removal unsets pointer",
			current:   ptr(int64(10)),
			remove:    10,
			remaining: []domain.LinkedAccount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockAccountRepository)
			repo.On("DefaultID", int64(1)).Return(tt.current, nil)
			repo.On("Delete", int64(1), tt.remove).Return(nil)

			if tt.current != nil && *tt.current == tt.remove {
				repo.On("List", int64(1)).Return(tt.remaining, nil)
				if len(tt.remaining) == 0 {
					repo.On("SetDefault", int64(1), (*int64)(nil)).Return(nil)
				} else {
					repo.On("SetDefault", int64(1), ptr(tt.remaining[0].ID)).Return(nil)
				}
			}

			m := NewManager(repo, testutil.NewTestLogger())

			assert.NoError(t, m.RemoveAccount(1, tt.remove))
			repo.AssertExpectations(t)
		})
	}
}

func TestManager_UpdateToken(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(ptr(int64(2)), nil)
	repo.On("UpdateToken", int64(1), int64(2), "fresh").Return(nil)

	m := NewManager(repo, testutil.NewTestLogger())

	assert.NoError(t, m.UpdateToken(1, "fresh"))
	repo.AssertExpectations(t)
}

func TestManager_UpdateToken_NoDefault(t *testing.T) {
	repo := new(testutil.MockAccountRepository)
	repo.On("DefaultID", int64(1)).Return(nil, nil)

	m := NewManager(repo, testutil.NewTestLogger())

	assert.ErrorIs(t, m.UpdateToken(1, "fresh"), ErrNoAccounts)
}

func ptr[T any](v T) *T { return &v }
