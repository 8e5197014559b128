// Package action decodes the compact tokens embedded in inline buttons and
// dispatches them to their handlers.
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hemantapkh/NcellBot/internal/render"

	"go.uber.org/zap"
)

// Delimiter separates the command from its parameters and the parameters
// from each other.
const Delimiter = ":"

// Command identifies one button action in the static dispatch table.
type Command string

// Request carries one decoded button press into its handler.
type Request struct {
	Ctx    context.Context
	UserID int64
	Params []string
	Render render.Func
}

// HandlerFunc handles one decoded button press.
type HandlerFunc func(req Request) error

// ErrUnknownCommand is returned by Decode for tokens no registered command
// matches. Dispatch swallows it: stale buttons on old messages are expected.
var ErrUnknownCommand = errors.New("unknown action command")

type binding struct {
	arity   int
	handler HandlerFunc
}

// Router resolves action tokens by longest-prefix match and splits the
// remainder by the command's declared arity, so the final parameter may
// itself contain the delimiter (phone numbers do).
type Router struct {
	logger   *zap.Logger
	commands map[Command]binding
	ordered  []Command // longest first, rebuilt on Handle
}

// NewRouter creates an empty dispatch table.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		logger:   logger,
		commands: make(map[Command]binding),
	}
}

// Handle registers a command with a fixed parameter count. Registration
// happens once at startup; the table is read-only afterwards.
func (r *Router) Handle(cmd Command, arity int, h HandlerFunc) {
	r.commands[cmd] = binding{arity: arity, handler: h}
	r.ordered = append(r.ordered, cmd)
	sort.Slice(r.ordered, func(i, j int) bool {
		return len(r.ordered[i]) > len(r.ordered[j])
	})
}

// Decode resolves a token into its command and parameters.
func (r *Router) Decode(token string) (Command, []string, error) {
	for _, cmd := range r.ordered {
		b := r.commands[cmd]
		if b.arity == 0 {
			if token == string(cmd) {
				return cmd, nil, nil
			}
			continue
		}
		prefix := string(cmd) + Delimiter
		if !strings.HasPrefix(token, prefix) {
			continue
		}
		params := strings.SplitN(token[len(prefix):], Delimiter, b.arity)
		if len(params) < b.arity {
			return cmd, nil, fmt.Errorf("token %q: want %d parameters, got %d", token, b.arity, len(params))
		}
		return cmd, params, nil
	}
	return "", nil, ErrUnknownCommand
}

// Dispatch decodes and runs the token's handler. Unknown commands are a
// silent no-op so previously rendered messages keep working after a deploy
// removes a button.
func (r *Router) Dispatch(ctx context.Context, userID int64, token string, render render.Func) error {
	cmd, params, err := r.Decode(token)
	if errors.Is(err, ErrUnknownCommand) {
		r.logger.Debug("Ignoring stale action token",
			zap.String("token", token),
			zap.Int64("user_id", userID),
		)
		return nil
	}
	if err != nil {
		return err
	}
	return r.commands[cmd].handler(Request{Ctx: ctx, UserID: userID, Params: params, Render: render})
}

// Token builds an action token for rendering into a button.
func Token(cmd Command, params ...string) string {
	if len(params) == 0 {
		return string(cmd)
	}
	return string(cmd) + Delimiter + strings.Join(params, Delimiter)
}
