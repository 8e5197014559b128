package handler

import (
	"context"

	"github.com/hemantapkh/NcellBot/internal/flow"
	"github.com/hemantapkh/NcellBot/internal/messages"
	"github.com/hemantapkh/NcellBot/internal/repository"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	flow     *flow.Flow
	users    repository.UserRepository
	accounts repository.AccountRepository
	msgs     *messages.Catalog
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	f *flow.Flow,
	users repository.UserRepository,
	accounts repository.AccountRepository,
	msgs *messages.Catalog,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:      bot,
		flow:     f,
		users:    users,
		accounts: accounts,
		msgs:     msgs,
		logger:   logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/ping", h.handlePing)
	h.bot.Handle("/register", h.run(h.flow.StartRegister))
	h.bot.Handle("/accounts", h.run(func(e flow.Event) error { return h.flow.AccountsList(e, false) }))
	h.bot.Handle("/switch", h.run(h.flow.Switch))
	h.bot.Handle("/balance", h.run(func(e flow.Event) error { return h.flow.Balance(e, false) }))
	h.bot.Handle("/loan", h.run(func(e flow.Event) error { return h.flow.ConfirmLoan(e, false) }))
	h.bot.Handle("/profile", h.run(h.flow.Profile))
	h.bot.Handle("/plans", h.run(func(e flow.Event) error { return h.flow.PlansMenu(e, false) }))
	h.bot.Handle("/sms", h.run(h.flow.SMSMenu))
	h.bot.Handle("/freesms", h.run(func(e flow.Event) error { return h.flow.StartSMS(e, true, false) }))
	h.bot.Handle("/paidsms", h.run(func(e flow.Event) error { return h.flow.StartSMS(e, false, false) }))
	h.bot.Handle("/recharge", h.run(func(e flow.Event) error { return h.flow.RechargeMenu(e, false) }))
	h.bot.Handle("/selfrecharge", h.run(h.flow.SelfRecharge))
	h.bot.Handle("/rechargeothers", h.run(h.flow.RechargeOthers))
	h.bot.Handle("/cancel", h.run(h.flow.Cancel))
	h.bot.Handle("/help", h.static("helpMenu"))
	h.bot.Handle("/support", h.static("supportUsMenu"))
	h.bot.Handle("/settings", h.static("settingsMenu"))

	h.bot.Handle(tele.OnText, h.handleText)
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// event resolves the sender to an internal user and binds a renderer for
// the reply.
func (h *Handler) event(c tele.Context) (flow.Event, error) {
	user, err := h.users.GetOrCreate(c.Sender().ID)
	if err != nil {
		return flow.Event{}, err
	}
	return flow.Event{
		Ctx:    context.Background(),
		UserID: user.ID,
		Render: h.renderer(c),
	}, nil
}

// run wraps a flow entry point into a telebot handler with uniform error
// fallout. Entry points run serialized against any wizard step in flight
// for the same user.
func (h *Handler) run(fn func(flow.Event) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		e, err := h.event(c)
		if err != nil {
			return h.fallout(c, err)
		}
		if err := h.flow.Serialize(e, fn); err != nil {
			return h.fallout(c, err)
		}
		return nil
	}
}

func (h *Handler) static(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Send(h.msgs.Get(key))
	}
}

func (h *Handler) handleStart(c tele.Context) error {
	e, err := h.event(c)
	if err != nil {
		return h.fallout(c, err)
	}
	name := c.Sender().FirstName
	if err := h.flow.Serialize(e, func(e flow.Event) error { return h.flow.Greet(e, name) }); err != nil {
		return h.fallout(c, err)
	}
	return nil
}

func (h *Handler) handlePing(c tele.Context) error {
	return c.Send(h.msgs.Get("ping"))
}

// handleText feeds pending wizards first, then falls back to the reply
// keyboard labels.
func (h *Handler) handleText(c tele.Context) error {
	e, err := h.event(c)
	if err != nil {
		return h.fallout(c, err)
	}

	handled, err := h.flow.HandleText(e, c.Text())
	if err != nil {
		return h.fallout(c, err)
	}
	if handled {
		return nil
	}

	var fn func(flow.Event) error
	switch c.Text() {
	case labelBalance:
		fn = func(e flow.Event) error { return h.flow.Balance(e, false) }
	case labelRecharge:
		fn = func(e flow.Event) error { return h.flow.RechargeMenu(e, false) }
	case labelSMS:
		fn = h.flow.SMSMenu
	case labelPlans:
		fn = func(e flow.Event) error { return h.flow.PlansMenu(e, false) }
	case labelProfile:
		fn = h.flow.Profile
	case labelSwitch:
		fn = h.flow.Switch
	case labelAccounts:
		fn = func(e flow.Event) error { return h.flow.AccountsList(e, false) }
	case labelRegister:
		fn = h.flow.StartRegister
	case labelCancel:
		fn = h.flow.Cancel
	case labelHelp:
		return c.Send(h.msgs.Get("helpMenu"))
	case labelSupport:
		return c.Send(h.msgs.Get("supportUsMenu"))
	case labelSettings:
		return c.Send(h.msgs.Get("settingsMenu"))
	default:
		return nil
	}

	if err := h.flow.Serialize(e, fn); err != nil {
		return h.fallout(c, err)
	}
	return nil
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	token := callback.Unique
	if token == "" {
		token = cleanCallbackData(callback.Data)
	}
	h.logger.Debug("Processing callback",
		zap.String("token", token),
		zap.String("id", callback.ID),
		zap.Int64("user_id", c.Sender().ID),
	)

	e, err := h.event(c)
	if err != nil {
		return h.fallout(c, err)
	}
	if err := h.flow.HandleAction(e, token); err != nil {
		return h.fallout(c, err)
	}
	return c.Respond()
}

// fallout logs a handler failure and tells the user something went wrong.
func (h *Handler) fallout(c tele.Context, err error) error {
	h.logger.Error("Handler failed",
		zap.Error(err),
		zap.Int64("user_id", c.Sender().ID),
		zap.String("text", c.Text()),
	)
	return c.Send(h.msgs.Get("somethingWrong"))
}
