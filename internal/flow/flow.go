// Package flow implements the conversational flows: registration, balance,
// recharge, SMS, plans, loans and account management. It is transport-free;
// everything user-visible leaves through render.Func.
package flow

import (
	"context"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/carrier"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/dialog"
	"github.com/hemantapkh/NcellBot/internal/domain"
	"github.com/hemantapkh/NcellBot/internal/messages"
	"github.com/hemantapkh/NcellBot/internal/render"
	"github.com/hemantapkh/NcellBot/internal/repository"
	"github.com/hemantapkh/NcellBot/internal/session"

	"go.uber.org/zap"
)

// Wizard step ids.
const (
	StepRegisterNumber           dialog.StepID = "register.number"
	StepRegisterOTP              dialog.StepID = "register.otp"
	StepRechargeSelfPin          dialog.StepID = "recharge.self.pin"
	StepRechargeSelfAmount       dialog.StepID = "recharge.self.amount"
	StepRechargeOthersDestPin    dialog.StepID = "recharge.others.dest.pin"
	StepRechargeOthersPin        dialog.StepID = "recharge.others.pin"
	StepRechargeOthersDestOnline dialog.StepID = "recharge.others.dest.online"
	StepRechargeOthersAmount     dialog.StepID = "recharge.others.amount"
	StepSMSDest                  dialog.StepID = "sms.dest"
	StepSMSText                  dialog.StepID = "sms.text"
)

// Scratch-store keys. Key names are part of the store contract.
const (
	tempRegisterMSISDN = "registerMsisdn"
	tempSMSDest        = "sendSmsTo"
	tempRechargeTo     = "rechargeTo"
	tempResponseData   = "responseData"
)

// Button commands.
const (
	CmdCancel                action.Command = "cancel"
	CmdRegister              action.Command = "register"
	CmdReEnterOtp            action.Command = "reEnterOtp"
	CmdReSendOtp             action.Command = "reSendOtp"
	CmdChangeNumber          action.Command = "changeNumber"
	CmdAccounts              action.Command = "accounts"
	CmdSelectAccount         action.Command = "selectAccount"
	CmdRemoveAccount         action.Command = "removeAccount"
	CmdRechargeTarget        action.Command = "rechargeTarget"
	CmdRechargeMethod        action.Command = "rechargeMethod"
	CmdBackToRecharge        action.Command = "backToRecharge"
	CmdFreeSms               action.Command = "freeSms"
	CmdPaidSms               action.Command = "paidSms"
	CmdConfirmLoan           action.Command = "confirmLoan"
	CmdTakeLoan              action.Command = "takeLoan"
	CmdBackToBalance         action.Command = "backToBalance"
	CmdPlans                 action.Command = "plans"
	CmdDataPlans             action.Command = "dataPlans"
	CmdSubscribedPlans       action.Command = "subscribedPlans"
	CmdBackToPlans           action.Command = "backToPlans"
	CmdProductInfo           action.Command = "productInfo"
	CmdSubscribedProductInfo action.Command = "subscribedProductInfo"
	CmdActivatePlan          action.Command = "activatePlan"
	CmdDeactivatePlan        action.Command = "deactivatePlan"
	CmdNoBalanceForPlan      action.Command = "noBalanceForPlan"
	CmdDeactivationNA        action.Command = "deactivationNotAllowed"
)

// Deps are the collaborators every flow needs.
type Deps struct {
	Logger   *zap.Logger
	Users    repository.UserRepository
	Accounts repository.AccountRepository
	Temp     repository.TempRepository
	Carrier  carrier.Client
	Sessions *session.Manager
	Dialog   *dialog.Engine
	Actions  *action.Router
	Messages *messages.Catalog
}

// Flow wires the wizard steps and button commands into the dialog engine
// and action router.
type Flow struct {
	Deps
}

// Event is the per-request context: the user an inbound event belongs to
// and the renderer delivering responses for it.
type Event struct {
	Ctx    context.Context
	UserID int64
	Render render.Func
}

func evOf(req dialog.Request) Event {
	return Event{Ctx: req.Ctx, UserID: req.UserID, Render: req.Render}
}

func evOfAction(req action.Request) Event {
	return Event{Ctx: req.Ctx, UserID: req.UserID, Render: req.Render}
}

// New builds the flow layer and registers every step and command.
func New(d Deps) *Flow {
	f := &Flow{Deps: d}

	f.Dialog.Register(StepRegisterNumber, f.stepRegisterNumber)
	f.Dialog.Register(StepRegisterOTP, f.stepRegisterOTP)
	f.Dialog.Register(StepRechargeSelfPin, f.stepSelfPin)
	f.Dialog.Register(StepRechargeSelfAmount, f.stepSelfAmount)
	f.Dialog.Register(StepRechargeOthersDestPin, f.stepOthersDest(StepRechargeOthersPin, "enterRechargePin"))
	f.Dialog.Register(StepRechargeOthersPin, f.stepOthersPin)
	f.Dialog.Register(StepRechargeOthersDestOnline, f.stepOthersDest(StepRechargeOthersAmount, "enterRechargeAmount"))
	f.Dialog.Register(StepRechargeOthersAmount, f.stepOthersAmount)
	f.Dialog.Register(StepSMSDest, f.stepSMSDest)
	f.Dialog.Register(StepSMSText, f.stepSMSText)
	f.Dialog.OnCancel(f.cancelNotice)

	f.Actions.Handle(CmdCancel, 0, f.actCancel)
	f.Actions.Handle(CmdRegister, 0, f.actRegister)
	f.Actions.Handle(CmdReEnterOtp, 0, f.actReEnterOtp)
	f.Actions.Handle(CmdReSendOtp, 0, f.actReSendOtp)
	f.Actions.Handle(CmdChangeNumber, 0, f.actChangeNumber)
	f.Actions.Handle(CmdAccounts, 0, f.actAccounts)
	f.Actions.Handle(CmdSelectAccount, 2, f.actSelectAccount)
	f.Actions.Handle(CmdRemoveAccount, 2, f.actRemoveAccount)
	f.Actions.Handle(CmdRechargeTarget, 1, f.actRechargeTarget)
	f.Actions.Handle(CmdRechargeMethod, 2, f.actRechargeMethod)
	f.Actions.Handle(CmdBackToRecharge, 0, f.actBackToRecharge)
	f.Actions.Handle(CmdFreeSms, 0, f.actSMS(true))
	f.Actions.Handle(CmdPaidSms, 0, f.actSMS(false))
	f.Actions.Handle(CmdConfirmLoan, 0, f.actConfirmLoan)
	f.Actions.Handle(CmdTakeLoan, 0, f.actTakeLoan)
	f.Actions.Handle(CmdBackToBalance, 0, f.actBackToBalance)
	f.Actions.Handle(CmdPlans, 2, f.actPlans)
	f.Actions.Handle(CmdDataPlans, 0, f.actDataPlans)
	f.Actions.Handle(CmdSubscribedPlans, 0, f.actSubscribedPlans)
	f.Actions.Handle(CmdBackToPlans, 0, f.actBackToPlans)
	f.Actions.Handle(CmdProductInfo, 3, f.actProductInfo)
	f.Actions.Handle(CmdSubscribedProductInfo, 1, f.actSubscribedProductInfo)
	f.Actions.Handle(CmdActivatePlan, 1, f.actActivatePlan)
	f.Actions.Handle(CmdDeactivatePlan, 1, f.actDeactivatePlan)
	f.Actions.Handle(CmdNoBalanceForPlan, 0, f.alert("noEnoughBalanceToSub"))
	f.Actions.Handle(CmdDeactivationNA, 0, f.alert("deactivationNotAllowed"))

	return f
}

// HandleText feeds an inbound text to the pending wizard step, if any.
// Returns false when the caller should fall through to its own command
// dispatch.
func (f *Flow) HandleText(e Event, text string) (bool, error) {
	return f.Dialog.Advance(e.Ctx, e.UserID, text, e.Render)
}

// HandleAction dispatches a decoded button press, serialized against any
// concurrent wizard advance for the same user.
func (f *Flow) HandleAction(e Event, token string) error {
	return f.Dialog.Serialize(e.UserID, func() error {
		return f.Actions.Dispatch(e.Ctx, e.UserID, token, e.Render)
	})
}

// Serialize runs a command entry point under the same per-user lock the
// wizard steps and button presses take, so a command never races a step
// still in flight for the same user.
func (f *Flow) Serialize(e Event, fn func(Event) error) error {
	return f.Dialog.Serialize(e.UserID, func() error { return fn(e) })
}

// Cancel aborts any pending wizard and confirms to the user.
func (f *Flow) Cancel(e Event) error {
	f.Dialog.Clear(e.UserID)
	return e.Render(render.Request{Text: f.Messages.Get("cancelled"), Menu: render.MenuMain})
}

func (f *Flow) cancelNotice(req dialog.Request) error {
	return req.Render(render.Request{Text: f.Messages.Get("cancelled"), Menu: render.MenuMain})
}

func (f *Flow) actCancel(req action.Request) error {
	f.Dialog.Clear(req.UserID)
	return req.Render(render.Request{Text: f.Messages.Get("cancelled"), Edit: true})
}

// alert returns a handler that answers a button press with a popup message.
func (f *Flow) alert(key string) action.HandlerFunc {
	return func(req action.Request) error {
		return req.Render(render.Request{Text: f.Messages.Get(key), Alert: true})
	}
}

// Greet welcomes the user; the wording differs for users without a single
// linked account yet.
func (f *Flow) Greet(e Event, firstName string) error {
	accounts, err := f.Accounts.List(e.UserID)
	if err != nil {
		return err
	}
	key := "greet"
	if len(accounts) == 0 {
		key = "greetFirstTime"
	}
	return e.Render(render.Request{Text: f.Messages.Get(key, firstName), Menu: render.MenuMain})
}

// api opens the carrier session for a linked account. Refreshed tokens are
// persisted immediately so the next call starts from the new credential.
func (f *Flow) api(userID int64, acc *domain.LinkedAccount) carrier.AccountAPI {
	return f.Carrier.Account(acc.Token, func(token string) {
		if err := f.Sessions.UpdateToken(userID, token); err != nil {
			f.Logger.Error("Failed to persist refreshed token",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
		}
	})
}

// defaultAccount resolves the user's default account. When none is linked
// the registration wizard is started and (nil, nil) is returned; the caller
// just stops.
func (f *Flow) defaultAccount(e Event) (*domain.LinkedAccount, error) {
	acc, err := f.Sessions.DefaultAccount(e.UserID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, f.StartRegister(e)
	}
	return acc, nil
}

// failureMessages maps domain failures to catalog keys.
var failureMessages = map[classify.Failure]string{
	classify.FailureInvalidNumber:       "invalidNumber",
	classify.FailureOTPSendExceeded:     "otpSendExceed",
	classify.FailureOTPAttemptsExceeded: "otpAttemptExceed",
	classify.FailureInvalidOTP:          "invalidOtp",
	classify.FailureOTPExpired:          "otpExpired",
	classify.FailureIncorrectPin:        "incorrectRpin",
	classify.FailureBlacklisted:         "rechargeBlackListed",
	classify.FailureAmountBelowMinimum:  "amountLessThanZeroError",
	classify.FailureAmountAboveLimit:    "amountMoreThan5000Error",
	classify.FailureFreeSMSExceeded:     "freeSmsExceed",
	classify.FailureOffnetSMS:           "offnetNumberSmsError",
	classify.FailureInsufficientBalance: "smsErrorInsufficientBalance",
	classify.FailureSMSRejected:         "smsError",
	classify.FailureAlreadySubscribed:   "alreadyActivated",
	classify.FailureAlreadyUnsubscribed: "alreadyDeactivated",
	classify.FailureLoanRefused:         "loanFailed",
}

// fail renders the standard fallout for a non-success outcome. Session
// expiry always routes through the session manager before the user is told
// to re-register; unknown carrier responses are logged with the verbatim
// code and surfaced with it for support.
func (f *Flow) fail(e Event, out classify.Outcome) error {
	return f.failWith(e, out, false)
}

// failAlert is fail for button presses, answering with popups where a
// message would orphan the inline keyboard.
func (f *Flow) failAlert(e Event, out classify.Outcome) error {
	return f.failWith(e, out, true)
}

func (f *Flow) failWith(e Event, out classify.Outcome, alert bool) error {
	switch {
	case out.Expired():
		if err := f.Sessions.InvalidateSession(e.UserID, out.Code); err != nil {
			return err
		}
		key := "sessionExpired"
		if out.Code == carrier.CodeNewLoginFound {
			key = "newLoginFound"
		}
		return e.Render(render.Request{Text: f.Messages.Get(key), Menu: render.MenuMain})

	case out.Kind == classify.DomainFailure:
		key := failureMessages[out.Failure]
		if !f.Messages.Has(key) {
			key = "somethingWrong"
		}
		return e.Render(render.Request{Text: f.Messages.Get(key), Menu: render.MenuMain, Alert: alert})

	default:
		f.Logger.Error("Unrecognized carrier response",
			zap.String("code", out.Code),
			zap.String("description", out.Description),
			zap.Int("status_code", out.StatusCode),
			zap.Int64("user_id", e.UserID),
		)
		text := f.Messages.Get("unknownError", out.Description, out.Code)
		return e.Render(render.Request{Text: text, Menu: render.MenuMain, Alert: alert})
	}
}

func cancelButton() render.Button {
	return render.Button{Label: "❌ Cancel", Token: action.Token(CmdCancel)}
}

func backButton(token string) render.Button {
	return render.Button{Label: "⬅️ Back", Token: token}
}
