package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfRechargeShortcut(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.flow.SelfRecharge(e.event(1)))

	assert.Equal(t, e.msgs.Get("rechargeMethod"), e.lastText())
	require.Len(t, e.rendered, 1)
	require.Len(t, e.rendered[0].Buttons, 2)
	assert.Equal(t, "rechargeMethod:self:pin", e.rendered[0].Buttons[0][0].Token)
	assert.Equal(t, "rechargeMethod:self:online", e.rendered[0].Buttons[0][1].Token)
}

func TestRechargeOthersShortcut(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.flow.RechargeOthers(e.event(1)))

	require.Len(t, e.rendered, 1)
	require.Len(t, e.rendered[0].Buttons, 2)
	assert.Equal(t, "rechargeMethod:others:pin", e.rendered[0].Buttons[0][0].Token)
	assert.Equal(t, "rechargeMethod:others:online", e.rendered[0].Buttons[0][1].Token)
}
