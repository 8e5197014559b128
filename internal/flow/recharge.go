package flow

import (
	"strings"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/dialog"
	"github.com/hemantapkh/NcellBot/internal/render"
)

const (
	targetSelf   = "self"
	targetOthers = "others"
	methodPin    = "pin"
	methodOnline = "online"
)

// RechargeMenu asks whose account to recharge.
func (f *Flow) RechargeMenu(e Event, edit bool) error {
	return e.Render(render.Request{
		Text: f.Messages.Get("rechargeTo"),
		Buttons: render.Rows(
			render.Row(
				render.Button{Label: "📱 My Account", Token: action.Token(CmdRechargeTarget, targetSelf)},
				render.Button{Label: "👥 Other Account", Token: action.Token(CmdRechargeTarget, targetOthers)},
			),
			render.Row(cancelButton()),
		),
		Edit: edit,
	})
}

// RechargeMethods asks how to recharge the chosen target account.
func (f *Flow) RechargeMethods(e Event, target string, edit bool) error {
	return e.Render(render.Request{
		Text: f.Messages.Get("rechargeMethod"),
		Buttons: render.Rows(
			render.Row(
				render.Button{Label: "🔢 Recharge Pin", Token: action.Token(CmdRechargeMethod, target, methodPin)},
				render.Button{Label: "🌐 Online", Token: action.Token(CmdRechargeMethod, target, methodOnline)},
			),
			render.Row(backButton(action.Token(CmdBackToRecharge))),
		),
		Edit: edit,
	})
}

// SelfRecharge jumps straight to the method menu for the user's own
// account.
func (f *Flow) SelfRecharge(e Event) error {
	return f.RechargeMethods(e, targetSelf, false)
}

// RechargeOthers jumps straight to the method menu for another account.
func (f *Flow) RechargeOthers(e Event) error {
	return f.RechargeMethods(e, targetOthers, false)
}

func (f *Flow) actRechargeTarget(req action.Request) error {
	return f.RechargeMethods(evOfAction(req), req.Params[0], true)
}

// actRechargeMethod arms the wizard matching the chosen target and method.
func (f *Flow) actRechargeMethod(req action.Request) error {
	e := evOfAction(req)
	target, method := req.Params[0], req.Params[1]

	var step dialog.StepID
	var prompt string
	switch {
	case target == targetSelf && method == methodPin:
		step, prompt = StepRechargeSelfPin, "enterRechargePin"
	case target == targetSelf && method == methodOnline:
		step, prompt = StepRechargeSelfAmount, "enterRechargeAmount"
	case method == methodPin:
		step, prompt = StepRechargeOthersDestPin, "enterDestinationMsisdn"
	default:
		step, prompt = StepRechargeOthersDestOnline, "enterDestinationMsisdn"
	}

	if err := e.Render(render.Request{Text: f.Messages.Get(prompt), Menu: render.MenuCancel, Edit: true}); err != nil {
		return err
	}
	f.Dialog.Begin(e.UserID, step, "")
	return nil
}

func (f *Flow) actBackToRecharge(req action.Request) error {
	return f.RechargeMenu(evOfAction(req), true)
}

func (f *Flow) stepSelfPin(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return dialog.Done(), err
	}

	resp, err := f.api(e.UserID, acc).SelfRecharge(e.Ctx, strings.TrimSpace(req.Input))
	if err != nil {
		return dialog.Done(), err
	}
	return f.pinRechargeResult(e, classify.Classify(classify.OpRecharge, resp), dialog.Next(StepRechargeSelfPin, ""))
}

func (f *Flow) stepSelfAmount(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return dialog.Done(), err
	}

	resp, err := f.api(e.UserID, acc).OnlineRecharge(e.Ctx, strings.TrimSpace(req.Input), acc.MSISDN)
	if err != nil {
		return dialog.Done(), err
	}
	return f.onlineRechargeResult(e, classify.Classify(classify.OpRecharge, resp), dialog.Next(StepRechargeSelfAmount, ""))
}

// stepOthersDest builds the destination-number step shared by the pin and
// online variants; it stores the destination and arms the given next step.
func (f *Flow) stepOthersDest(next dialog.StepID, promptKey string) dialog.Handler {
	return func(req dialog.Request) (dialog.Result, error) {
		e := evOf(req)
		dest := strings.TrimSpace(req.Input)
		if err := f.Temp.Put(e.UserID, tempRechargeTo, dest); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{Text: f.Messages.Get(promptKey), Menu: render.MenuCancel})
		return dialog.Next(next, dest), err
	}
}

func (f *Flow) stepOthersPin(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return dialog.Done(), err
	}
	dest, err := f.rechargeDest(e, req.Prior)
	if err != nil {
		return dialog.Done(), err
	}

	resp, err := f.api(e.UserID, acc).Recharge(e.Ctx, dest, strings.TrimSpace(req.Input))
	if err != nil {
		return dialog.Done(), err
	}
	return f.pinRechargeResult(e, classify.Classify(classify.OpRecharge, resp), dialog.Next(StepRechargeOthersPin, dest))
}

func (f *Flow) stepOthersAmount(req dialog.Request) (dialog.Result, error) {
	e := evOf(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return dialog.Done(), err
	}
	dest, err := f.rechargeDest(e, req.Prior)
	if err != nil {
		return dialog.Done(), err
	}

	resp, err := f.api(e.UserID, acc).OnlineRecharge(e.Ctx, strings.TrimSpace(req.Input), dest)
	if err != nil {
		return dialog.Done(), err
	}
	return f.onlineRechargeResult(e, classify.Classify(classify.OpRecharge, resp), dialog.Next(StepRechargeOthersAmount, dest))
}

// rechargeDest recovers the destination number from the step context,
// falling back to the scratch store.
func (f *Flow) rechargeDest(e Event, prior string) (string, error) {
	if prior != "" {
		return prior, nil
	}
	return f.Temp.Get(e.UserID, tempRechargeTo)
}

// pinRechargeResult finishes a pin recharge. An incorrect pin re-prompts at
// the same step; everything else either succeeds or ends the wizard.
func (f *Flow) pinRechargeResult(e Event, out classify.Outcome, stay dialog.Result) (dialog.Result, error) {
	switch {
	case out.OK():
		if err := f.Temp.Delete(e.UserID, tempRechargeTo); err != nil {
			return dialog.Done(), err
		}
		err := e.Render(render.Request{Text: f.Messages.Get("rechargeSuccess"), Menu: render.MenuMain})
		return dialog.Done(), err

	case out.Failure == classify.FailureIncorrectPin:
		err := e.Render(render.Request{Text: f.Messages.Get("incorrectRpin"), Menu: render.MenuCancel})
		return stay, err

	default:
		return dialog.Done(), f.fail(e, out)
	}
}

// onlineRechargeResult finishes an online recharge by handing out the
// payment link. Amount validation failures re-prompt at the same step.
func (f *Flow) onlineRechargeResult(e Event, out classify.Outcome, stay dialog.Result) (dialog.Result, error) {
	switch {
	case out.OK():
		if err := f.Temp.Delete(e.UserID, tempRechargeTo); err != nil {
			return dialog.Done(), err
		}
		link := str(out.Payload, "url")
		err := e.Render(render.Request{Text: f.Messages.Get("onlineRechargeLink", link), Menu: render.MenuMain})
		return dialog.Done(), err

	case out.Failure == classify.FailureAmountBelowMinimum:
		err := e.Render(render.Request{Text: f.Messages.Get("amountLessThanZeroError"), Menu: render.MenuCancel})
		return stay, err

	case out.Failure == classify.FailureAmountAboveLimit:
		err := e.Render(render.Request{Text: f.Messages.Get("amountMoreThan5000Error"), Menu: render.MenuCancel})
		return stay, err

	default:
		return dialog.Done(), f.fail(e, out)
	}
}
