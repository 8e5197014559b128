package flow

import (
	"strings"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/dialog"
	"github.com/hemantapkh/NcellBot/internal/render"
)

const (
	smsFree = "free"
	smsPaid = "paid"
)

// SMSMenu asks whether to send a free or a paid SMS.
func (f *Flow) SMSMenu(e Event) error {
	return e.Render(render.Request{
		Text: f.Messages.Get("sms"),
		Buttons: render.Rows(
			render.Row(
				render.Button{Label: "🆓 Free SMS", Token: action.Token(CmdFreeSms)},
				render.Button{Label: "💰 Paid SMS", Token: action.Token(CmdPaidSms)},
			),
			render.Row(cancelButton()),
		),
	})
}

// StartSMS begins the send-SMS wizard in free or paid mode.
func (f *Flow) StartSMS(e Event, free, edit bool) error {
	if err := e.Render(render.Request{Text: f.Messages.Get("enterDestinationMsisdn"), Menu: render.MenuCancel, Edit: edit}); err != nil {
		return err
	}
	mode := smsPaid
	if free {
		mode = smsFree
	}
	f.Dialog.Begin(e.UserID, StepSMSDest, mode)
	return nil
}

func (f *Flow) actSMS(free bool) action.HandlerFunc {
	return func(req action.Request) error {
		return f.StartSMS(evOfAction(req), free, true)
	}
}

func (f *Flow) stepSMSDest(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	dest := strings.TrimSpace(req.Input)
	if err := f.Temp.Put(e.UserID, tempSMSDest, dest); err != nil {
		return dialog.Done(), err
	}
	err := e.Render(render.Request{Text: f.Messages.Get("enterText"), Menu: render.MenuCancel})
	return dialog.Next(StepSMSText, req.Prior), err
}

func (f *Flow) stepSMSText(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return dialog.Done(), err
	}
	dest, err := f.Temp.Get(e.UserID, tempSMSDest)
	if err != nil {
		return dialog.Done(), err
	}

	free := req.Prior == smsFree
	resp, err := f.api(e.UserID, acc).SendSMS(e.Ctx, dest, req.Input, free)
	if err != nil {
		return dialog.Done(), err
	}

	out := classify.Classify(classify.OpSMS, resp)
	switch {
	case out.OK():
		if err := f.Temp.Delete(e.UserID, tempSMSDest); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{
			Text: f.Messages.Get("smsSentSuccessfully", req.Input, dest),
			Menu: render.MenuMain,
		})
		return dialog.Done(), err

	case out.Failure == classify.FailureOffnetSMS:
		// Free SMS only reach on-net numbers; ask for another destination.
		err := e.Render(render.Request{Text: f.Messages.Get("offnetNumberSmsError"), Menu: render.MenuCancel})
		return dialog.Next(StepSMSDest, req.Prior), err

	default:
		return dialog.Done(), f.fail(e, out)
	}
}
