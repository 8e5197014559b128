package flow

import (
	"testing"

	"github.com/hemantapkh/NcellBot/internal/domain"
	"github.com/hemantapkh/NcellBot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitch_RendersAccountsShortcut(t *testing.T) {
	e := newEnv(t)

	first := testutil.NewTestAccount(5, 1, "9814012345", "t1")
	second := testutil.NewTestAccount(6, 1, "9824012345", "t2")
	e.accounts.On("List", int64(1)).Return([]domain.LinkedAccount{first, second}, nil)
	e.accounts.On("DefaultID", int64(1)).Return(ptr(int64(5)), nil)
	e.accounts.On("SetDefault", int64(1), ptr(int64(6))).Return(nil)

	require.NoError(t, e.flow.Switch(e.event(1)))

	assert.Equal(t, e.msgs.Get("loggedinAs", "9824012345"), e.lastText())
	require.Len(t, e.rendered, 1)
	require.Len(t, e.rendered[0].Buttons, 1)
	assert.Equal(t, "accounts", e.rendered[0].Buttons[0][0].Token)
}

func TestAccountsButtonRendersList(t *testing.T) {
	e := newEnv(t)

	acc := testutil.NewTestAccount(5, 1, "9814012345", "t1")
	e.accounts.On("List", int64(1)).Return([]domain.LinkedAccount{acc}, nil)
	e.accounts.On("DefaultID", int64(1)).Return(ptr(int64(5)), nil)

	require.NoError(t, e.flow.HandleAction(e.event(1), "accounts"))

	assert.Equal(t, e.msgs.Get("accounts"), e.lastText())
	require.Len(t, e.rendered, 1)
	require.Len(t, e.rendered[0].Buttons, 1)
	assert.Equal(t, "✅ 9814012345", e.rendered[0].Buttons[0][0].Label)
}
