package flow

import (
	"fmt"
	"strings"

	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/render"
)

// Profile renders the subscriber profile of the default account.
func (f *Flow) Profile(e Event) error {
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}

	resp, err := f.api(e.UserID, acc).ViewProfile(e.Ctx)
	if err != nil {
		return err
	}
	out := classify.Classify(classify.OpProfile, resp)
	if !out.OK() {
		return f.fail(e, out)
	}

	profile := subMap(out.Payload, "querySubscriberProfileResponse")
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n\n", f.Messages.Get("profileTitle"))
	for _, field := range [...]struct{ label, key string }{
		{"Name", "customerName"},
		{"Number", "msisdn"},
		{"Status", "subscriberStatus"},
		{"Plan", "currentPlanName"},
		{"Activated On", "activationDate"},
	} {
		if v := str(profile, field.key); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", field.label, v)
		}
	}

	return e.Render(render.Request{Text: b.String(), Menu: render.MenuMain})
}
