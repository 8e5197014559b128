package flow

import (
	"errors"
	"strconv"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/render"
	"github.com/hemantapkh/NcellBot/internal/session"
)

// AccountsList renders the linked accounts with select and logout buttons.
// The default account carries a check mark.
func (f *Flow) AccountsList(e Event, edit bool) error {
	accounts, err := f.Accounts.List(e.UserID)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return e.Render(render.Request{Text: f.Messages.Get("noAccounts"), Menu: render.MenuMain, Edit: edit})
	}

	defaultID, err := f.Accounts.DefaultID(e.UserID)
	if err != nil {
		return err
	}

	var rows [][]render.Button
	for _, a := range accounts {
		id := strconv.FormatInt(a.ID, 10)
		label := a.MSISDN
		if defaultID != nil && *defaultID == a.ID {
			label = "✅ " + label
		}
		rows = append(rows, render.Row(
			render.Button{Label: label, Token: action.Token(CmdSelectAccount, id, a.MSISDN)},
			render.Button{Label: "🚪 Logout", Token: action.Token(CmdRemoveAccount, id, a.MSISDN)},
		))
	}

	return e.Render(render.Request{Text: f.Messages.Get("accounts"), Buttons: rows, Edit: edit})
}

// Switch moves the default pointer to the next linked account.
func (f *Flow) Switch(e Event) error {
	next, err := f.Sessions.CycleDefault(e.UserID)
	if errors.Is(err, session.ErrNoAccounts) {
		return f.StartRegister(e)
	}
	if err != nil {
		return err
	}
	return e.Render(render.Request{
		Text: f.Messages.Get("loggedinAs", next.MSISDN),
		Buttons: render.Rows(render.Row(
			render.Button{Label: "👥 Accounts", Token: action.Token(CmdAccounts)},
		)),
	})
}

func (f *Flow) actAccounts(req action.Request) error {
	return f.AccountsList(evOfAction(req), true)
}

func (f *Flow) actSelectAccount(req action.Request) error {
	e := evOfAction(req)
	accountID, err := strconv.ParseInt(req.Params[0], 10, 64)
	if err != nil {
		return err
	}
	msisdn := req.Params[1]

	switch err := f.Sessions.SelectDefault(e.UserID, accountID); {
	case errors.Is(err, session.ErrAlreadyDefault):
		return e.Render(render.Request{Text: f.Messages.Get("alreadyLoggedin", msisdn), Alert: true})
	case err != nil:
		return err
	}

	if err := e.Render(render.Request{Text: f.Messages.Get("loggedinAs", msisdn), Alert: true}); err != nil {
		return err
	}
	return f.AccountsList(e, true)
}

func (f *Flow) actRemoveAccount(req action.Request) error {
	e := evOfAction(req)
	accountID, err := strconv.ParseInt(req.Params[0], 10, 64)
	if err != nil {
		return err
	}
	msisdn := req.Params[1]

	if err := f.Sessions.RemoveAccount(e.UserID, accountID); err != nil {
		return err
	}
	if err := e.Render(render.Request{Text: f.Messages.Get("successfullyLoggedout", msisdn), Alert: true}); err != nil {
		return err
	}
	return f.AccountsList(e, true)
}
