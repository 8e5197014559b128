package handler

import (
	"strings"
	"unicode"

	"github.com/hemantapkh/NcellBot/internal/render"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Reply-keyboard labels. These double as text commands: pressing a reply
// button sends its label back as a plain message.
const (
	labelBalance  = "💰 Balance"
	labelRecharge = "💳 Recharge"
	labelSMS      = "💬 SMS"
	labelPlans    = "📦 Plans"
	labelProfile  = "👤 Profile"
	labelSwitch   = "🔄 Switch Account"
	labelAccounts = "👥 Accounts"
	labelRegister = "➕ Register"
	labelHelp     = "⁉️ Help"
	labelSupport  = "🎁 Support Us"
	labelSettings = "⚙️ Settings"
	labelCancel   = "❌ Cancel"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// renderer adapts a telebot context to the render.Func the flows emit
// through. Alerts become callback popups; edits fall back to a fresh
// message when the original can no longer be edited.
func (h *Handler) renderer(c tele.Context) render.Func {
	return func(req render.Request) error {
		if req.Alert {
			return c.Respond(&tele.CallbackResponse{Text: req.Text, ShowAlert: true})
		}

		markup := h.markupFor(c, req)
		if req.Edit && c.Callback() != nil {
			err := h.handleEditError(c.Edit(req.Text, markup), c)
			if err == nil {
				return nil
			}
		}
		return c.Send(req.Text, markup)
	}
}

// markupFor builds the keyboard for one outgoing message: inline buttons
// when the request carries any, otherwise the requested reply menu.
func (h *Handler) markupFor(c tele.Context, req render.Request) *tele.ReplyMarkup {
	if len(req.Buttons) > 0 {
		return inlineMarkup(req.Buttons)
	}

	switch req.Menu {
	case render.MenuMain:
		return h.mainMenuMarkup(c.Sender().ID)
	case render.MenuCancel:
		return cancelMenuMarkup()
	default:
		return nil
	}
}

func inlineMarkup(rows [][]render.Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	teleRows := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		teleRow := make(tele.Row, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				teleRow = append(teleRow, markup.URL(b.Label, b.URL))
				continue
			}
			teleRow = append(teleRow, markup.Data(b.Label, b.Token))
		}
		teleRows = append(teleRows, teleRow)
	}
	markup.Inline(teleRows...)
	return markup
}

// mainMenuMarkup returns the persistent reply keyboard. Users without a
// linked account get the register-first variant.
func (h *Handler) mainMenuMarkup(telegramID int64) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}

	registered := false
	if user, err := h.users.GetOrCreate(telegramID); err == nil {
		accounts, err := h.accounts.List(user.ID)
		registered = err == nil && len(accounts) > 0
	}

	if !registered {
		menu.Reply(
			menu.Row(menu.Text(labelRegister)),
			menu.Row(menu.Text(labelHelp), menu.Text(labelSupport)),
		)
		return menu
	}

	menu.Reply(
		menu.Row(menu.Text(labelBalance), menu.Text(labelRecharge)),
		menu.Row(menu.Text(labelSMS), menu.Text(labelPlans)),
		menu.Row(menu.Text(labelProfile), menu.Text(labelSwitch)),
		menu.Row(menu.Text(labelAccounts), menu.Text(labelHelp)),
	)
	return menu
}

func cancelMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(labelCancel)))
	return menu
}

// handleEditError handles errors from c.Edit() - if message is not modified,
// just acknowledge callback. Otherwise, acknowledge callback and return the
// error so the caller can send a new message.
func (h *Handler) handleEditError(err error, c tele.Context) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", c.Sender().ID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}
