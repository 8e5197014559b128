package flow

import (
	"strings"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/dialog"
	"github.com/hemantapkh/NcellBot/internal/render"
)

// StartRegister begins the registration wizard: ask for the number, then
// the OTP, then exchange it for a session token.
func (f *Flow) StartRegister(e Event) error {
	if err := e.Render(render.Request{Text: f.Messages.Get("enterNumber"), Menu: render.MenuCancel}); err != nil {
		return err
	}
	f.Dialog.Begin(e.UserID, StepRegisterNumber, "")
	return nil
}

func (f *Flow) stepRegisterNumber(req dialog.Request) (dialog.Result, error) {
	return f.sendOTP(evOf(req), strings.TrimSpace(req.Input), false)
}

// sendOTP requests an OTP for msisdn and arms the code step. edit is set
// when the prompt should replace the message whose button triggered it.
func (f *Flow) sendOTP(e Event, msisdn string, edit bool) (dialog.Result, error) {
	resp, err := f.Carrier.SendOTP(e.Ctx, msisdn)
	if err != nil {
		return dialog.Done(), err
	}

	out := classify.Classify(classify.OpOTPSend, resp)
	switch {
	case out.OK():
		if err := f.Temp.Put(e.UserID, tempRegisterMSISDN, msisdn); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{
			Text:    f.Messages.Get("enterOtp"),
			Buttons: otpButtons(false),
			Edit:    edit,
		})
		return dialog.Next(StepRegisterOTP, msisdn), err

	case out.Failure == classify.FailureOTPSendExceeded:
		// The number is burned for now; start over from the number prompt.
		if err := f.Temp.Delete(e.UserID, tempRegisterMSISDN); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{Text: f.Messages.Get("otpSendExceed"), Menu: render.MenuCancel, Edit: edit})
		return dialog.Next(StepRegisterNumber, ""), err

	case out.Failure == classify.FailureInvalidNumber:
		err := e.Render(render.Msg(f.Messages.Get("invalidNumber")))
		return dialog.Next(StepRegisterNumber, ""), err

	default:
		return dialog.Done(), f.fail(e, out)
	}
}

func (f *Flow) stepRegisterOTP(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)

	msisdn := req.Prior
	if msisdn == "" {
		// Resumed from a button press; the number lives in the scratch
		// store.
		var err error
		if msisdn, err = f.Temp.Get(e.UserID, tempRegisterMSISDN); err != nil {
			return dialog.Done(), err
		}
	}

	resp, token, err := f.Carrier.ExchangeOTP(e.Ctx, msisdn, strings.TrimSpace(req.Input))
	if err != nil {
		return dialog.Done(), err
	}

	out := classify.Classify(classify.OpOTPExchange, resp)
	switch {
	case out.OK():
		if err := f.linkAccount(e, msisdn, token); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{
			Text: f.Messages.Get("registeredSuccessfully", msisdn),
			Menu: render.MenuMain,
		})
		return dialog.Done(), err

	case out.Failure == classify.FailureOTPAttemptsExceeded:
		err := e.Render(render.Request{Text: f.Messages.Get("otpAttemptExceed"), Buttons: otpButtons(false)})
		return dialog.Next(StepRegisterOTP, msisdn), err

	case out.Failure == classify.FailureInvalidOTP:
		err := e.Render(render.Request{Text: f.Messages.Get("invalidOtp"), Buttons: otpButtons(true)})
		return dialog.Next(StepRegisterOTP, msisdn), err

	case out.Failure == classify.FailureOTPExpired:
		err := e.Render(render.Request{Text: f.Messages.Get("otpExpired"), Buttons: otpButtons(true)})
		return dialog.Next(StepRegisterOTP, msisdn), err

	default:
		return dialog.Done(), f.fail(e, out)
	}
}

// linkAccount stores the newly registered account and points the default
// pointer at it when the user had none.
func (f *Flow) linkAccount(e Event, msisdn, token string) error {
	acc, err := f.Accounts.Create(e.UserID, msisdn, token)
	if err != nil {
		return err
	}
	if err := f.Temp.Delete(e.UserID, tempRegisterMSISDN); err != nil {
		return err
	}

	defaultID, err := f.Accounts.DefaultID(e.UserID)
	if err != nil {
		return err
	}
	if defaultID == nil {
		return f.Accounts.SetDefault(e.UserID, &acc.ID)
	}
	return nil
}

// otpButtons is the keyboard offered after an unsuccessful OTP attempt.
func otpButtons(reEnter bool) [][]render.Button {
	rows := [][]render.Button{}
	if reEnter {
		rows = append(rows, render.Row(
			render.Button{Label: "Re-Enter OTP", Token: action.Token(CmdReEnterOtp)},
		))
	}
	return append(rows, render.Row(
		render.Button{Label: "Re-send OTP", Token: action.Token(CmdReSendOtp)},
		render.Button{Label: "Change Number", Token: action.Token(CmdChangeNumber)},
	))
}

func (f *Flow) actRegister(req action.Request) error {
	return f.StartRegister(evOfAction(req))
}

func (f *Flow) actReEnterOtp(req action.Request) error {
	e := evOfAction(req)
	msisdn, err := f.Temp.Get(e.UserID, tempRegisterMSISDN)
	if err != nil {
		return err
	}
	if err := e.Render(render.Request{Text: f.Messages.Get("enterOtp"), Edit: true}); err != nil {
		return err
	}
	f.Dialog.Begin(e.UserID, StepRegisterOTP, msisdn)
	return nil
}

func (f *Flow) actReSendOtp(req action.Request) error {
	e := evOfAction(req)
	msisdn, err := f.Temp.Get(e.UserID, tempRegisterMSISDN)
	if err != nil {
		return err
	}
	res, err := f.sendOTP(e, msisdn, true)
	f.Dialog.Apply(e.UserID, res)
	return err
}

func (f *Flow) actChangeNumber(req action.Request) error {
	e := evOfAction(req)
	if err := e.Render(render.Request{Text: f.Messages.Get("enterNumber"), Edit: true}); err != nil {
		return err
	}
	f.Dialog.Begin(e.UserID, StepRegisterNumber, "")
	return nil
}
