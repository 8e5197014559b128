package flow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/render"
)

// Balance fetches and renders the full balance sheet of the default
// account: credit, SMS, data and voice buckets plus any outstanding loan.
func (f *Flow) Balance(e Event, edit bool) error {
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}

	resp, err := f.api(e.UserID, acc).ViewBalance(e.Ctx)
	if err != nil {
		return err
	}
	out := classify.Classify(classify.OpBalance, resp)
	if !out.OK() {
		return f.fail(e, out)
	}

	var buttons [][]render.Button
	if loanOffered(out.Payload) {
		buttons = render.Rows(render.Row(
			render.Button{Label: "💸 Take Loan", Token: action.Token(CmdConfirmLoan)},
		))
	}
	return e.Render(render.Request{
		Text:    f.formatBalance(out.Payload),
		Buttons: buttons,
		Edit:    edit,
	})
}

// loanOffered reports whether the loan button applies: credit down to
// Rs. 5 or less and no loan outstanding yet.
func loanOffered(payload map[string]any) bool {
	body := subMap(payload, "queryBalanceResponse")
	if len(subMap(body, "loanDetail")) != 0 {
		return false
	}
	credit := subMap(body, "creditBalanceDetail")
	balance, err := strconv.ParseFloat(fmt.Sprint(credit["balance"]), 64)
	return err == nil && balance <= 5
}

// formatBalance flattens the carrier's queryBalanceResponse into the
// message shown to the user.
func (f *Flow) formatBalance(payload map[string]any) string {
	body := subMap(payload, "queryBalanceResponse")
	var b strings.Builder

	credit := subMap(body, "creditBalanceDetail")
	b.WriteString(f.Messages.Get("balanceTitle", credit["balance"], credit["lastRechargeDate"]))
	b.WriteString("\n")

	appendBuckets(&b, f.Messages.Get("smsBalanceTitle"), subList(body, "smsBalanceList"))
	appendBuckets(&b, f.Messages.Get("dataBalanceTitle"), subList(body, "dataBalanceList"))
	appendBuckets(&b, f.Messages.Get("voiceBalanceTitle"), subList(body, "voiceBalanceList"))

	if loan := subMap(body, "loanDetail"); loan != nil {
		b.WriteString("\n")
		b.WriteString(f.Messages.Get("loanBalance", loan["loanAmount"], loan["lastLoanTakenDate"]))
		b.WriteString("\n")
	}
	return b.String()
}

// appendBuckets writes one titled section per non-empty balance list.
func appendBuckets(b *strings.Builder, title string, items []any) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n\n", title)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(b, "%v: %v (expires %v)\n", item["name"], item["balance"], item["expiryDate"])
	}
}

// ConfirmLoan asks before the loan is actually taken.
func (f *Flow) ConfirmLoan(e Event, edit bool) error {
	return e.Render(render.Request{
		Text: f.Messages.Get("confirmLoan"),
		Buttons: render.Rows(render.Row(
			render.Button{Label: "✔️ Confirm", Token: action.Token(CmdTakeLoan)},
			backButton(action.Token(CmdBackToBalance)),
		)),
		Edit: edit,
	})
}

func (f *Flow) actConfirmLoan(req action.Request) error {
	return f.ConfirmLoan(evOfAction(req), true)
}

func (f *Flow) actTakeLoan(req action.Request) error {
	e := evOfAction(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}

	resp, err := f.api(e.UserID, acc).TakeLoan(e.Ctx)
	if err != nil {
		return err
	}
	out := classify.Classify(classify.OpLoan, resp)
	if !out.OK() {
		return f.failAlert(e, out)
	}
	return e.Render(render.Request{Text: f.Messages.Get("loanGranted"), Edit: true})
}

func (f *Flow) actBackToBalance(req action.Request) error {
	return f.Balance(evOfAction(req), true)
}
