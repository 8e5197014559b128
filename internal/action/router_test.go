package action

import (
	"context"
	"testing"

	"github.com/hemantapkh/NcellBot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newTestRouter() *Router {
	r := NewRouter(testutil.NewTestLogger())
	nop := func(Request) error { return nil }
	r.Handle("cancel", 0, nop)
	r.Handle("accounts", 1, nop)
	r.Handle("selectAccount", 2, nop)
	r.Handle("productInfo", 3, nop)
	return r
}

func TestRouter_Decode(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantCmd    Command
		wantParams []string
		wantErr    bool
	}{
		{
			name:    "zero arity exact match",
			token:   "cancel",
			wantCmd: "cancel",
		},
		{
			name:       "single parameter",
			token:      "accounts:list",
			wantCmd:    "accounts",
			wantParams: []string{"list"},
		},
		{
			name:       "final parameter keeps delimiters",
			token:      "selectAccount:123:+977:9814012345",
			wantCmd:    "selectAccount",
			wantParams: []string{"123", "+977:9814012345"},
		},
		{
			name:       "three parameters",
			token:      "productInfo:42:data:34",
			wantCmd:    "productInfo",
			wantParams: []string{"42", "data", "34"},
		},
		{
			name:       "empty trailing parameter",
			token:      "selectAccount:123:",
			wantCmd:    "selectAccount",
			wantParams: []string{"123", ""},
		},
		{
			name:    "under-supplied parameters",
			token:   "selectAccount:123",
			wantCmd: "selectAccount",
			wantErr: true,
		},
		{
			name:    "unknown command",
			token:   "nonsense:1",
			wantErr: true,
		},
		{
			name:    "zero arity does not prefix-match",
			token:   "cancel:extra",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			cmd, params, err := r.Decode(tt.token)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

// Commands that are prefixes of longer commands must not shadow them.
func TestRouter_DecodeLongestPrefixWins(t *testing.T) {
	r := NewRouter(testutil.NewTestLogger())
	nop := func(Request) error { return nil }
	r.Handle("plans", 2, nop)
	r.Handle("plansExtra", 1, nop)

	cmd, params, err := r.Decode("plansExtra:x")
	assert.NoError(t, err)
	assert.Equal(t, Command("plansExtra"), cmd)
	assert.Equal(t, []string{"x"}, params)

	cmd, params, err = r.Decode("plans:data:34")
	assert.NoError(t, err)
	assert.Equal(t, Command("plans"), cmd)
	assert.Equal(t, []string{"data", "34"}, params)
}

func TestRouter_DispatchRunsHandler(t *testing.T) {
	r := NewRouter(testutil.NewTestLogger())

	var got []string
	r.Handle("selectAccount", 2, func(req Request) error {
		got = req.Params
		return nil
	})

	err := r.Dispatch(context.Background(), 1, "selectAccount:9:98140", nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"9", "98140"}, got)
}

func TestRouter_DispatchIgnoresStaleTokens(t *testing.T) {
	r := newTestRouter()

	err := r.Dispatch(context.Background(), 1, "removedFeature:1", nil)
	assert.NoError(t, err)
}

func TestToken(t *testing.T) {
	assert.Equal(t, "cancel", Token("cancel"))
	assert.Equal(t, "accounts:list", Token("accounts", "list"))
	assert.Equal(t, "productInfo:42:data:34", Token("productInfo", "42", "data", "34"))
	assert.Equal(t, "plans:voice:", Token("plans", "voice", ""))
}

// Decode(Token(...)) must round-trip for every arity.
func TestTokenDecodeRoundTrip(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		cmd    Command
		params []string
	}{
		{"cancel", nil},
		{"accounts", []string{"list"}},
		{"selectAccount", []string{"7", "9814012345"}},
		{"productInfo", []string{"42", "data", "34"}},
	}

	for _, tt := range tests {
		cmd, params, err := r.Decode(Token(tt.cmd, tt.params...))
		assert.NoError(t, err)
		assert.Equal(t, tt.cmd, cmd)
		assert.Equal(t, tt.params, params)
	}
}
