package flow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hemantapkh/NcellBot/internal/action"
	"github.com/hemantapkh/NcellBot/internal/carrier"
	"github.com/hemantapkh/NcellBot/internal/classify"
	"github.com/hemantapkh/NcellBot/internal/render"
)

const (
	planTypeData  = "data"
	planTypeVoice = "voice"
	planTypeVAS   = "vas"
)

// dataCategories are the carrier's browsable data-pack categories.
var dataCategories = []struct{ label, id string }{
	{"Social Packs", "34"},
	{"Night Data Pack", "20"},
	{"Popular Data Services", "23"},
	{"Non Stop Offers", "21"},
	{"Get More On 4G", "19"},
	{"Always On Data Packs", "11"},
}

// productNameShortener keeps button labels within Telegram's limits.
var productNameShortener = strings.NewReplacer(
	"Facebook", "FB",
	"YouTube", "YT",
	"TikTok", "TT",
)

// PlansMenu shows the top-level plan categories.
func (f *Flow) PlansMenu(e Event, edit bool) error {
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}
	return e.Render(render.Request{
		Text: f.Messages.Get("selectPlanType"),
		Buttons: render.Rows(
			render.Row(
				render.Button{Label: "Subscribed Plans", Token: action.Token(CmdSubscribedPlans)},
				render.Button{Label: "Data Plans", Token: action.Token(CmdDataPlans)},
			),
			render.Row(
				render.Button{Label: "Voice and Sms", Token: action.Token(CmdPlans, planTypeVoice, "")},
				render.Button{Label: "VA Services", Token: action.Token(CmdPlans, planTypeVAS, "")},
			),
			render.Row(cancelButton()),
		),
		Edit: edit,
	})
}

func (f *Flow) actBackToPlans(req action.Request) error {
	return f.PlansMenu(evOfAction(req), true)
}

func (f *Flow) actDataPlans(req action.Request) error {
	var rows [][]render.Button
	for _, c := range dataCategories {
		rows = append(rows, render.Row(
			render.Button{Label: c.label, Token: action.Token(CmdPlans, planTypeData, c.id)},
		))
	}
	rows = append(rows, render.Row(backButton(action.Token(CmdBackToPlans)), cancelButton()))

	return req.Render(render.Request{
		Text:    f.Messages.Get("selectPlanType"),
		Buttons: rows,
		Edit:    true,
	})
}

// actPlans lists the products of one plan category. The raw product list is
// cached in the scratch store so a later product-info press can resolve the
// product without another carrier round trip.
func (f *Flow) actPlans(req action.Request) error {
	e := evOfAction(req)
	planType, categoryID := req.Params[0], req.Params[1]

	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}

	resp, err := f.api(e.UserID, acc).Plans(e.Ctx, planType, categoryID)
	if err != nil {
		return err
	}
	out := classify.Classify(classify.OpPlanList, resp)
	if !out.OK() {
		return f.failAlert(e, out)
	}

	packages := subList(out.Payload, "availablePackages")
	if err := f.cacheProducts(e.UserID, "availablePackages", packages); err != nil {
		return err
	}

	var rows [][]render.Button
	for _, raw := range packages {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := productNameShortener.Replace(str(subMap(item, "displayInfo"), "displayName"))
		price := strings.SplitN(str(subMap(item, "productOfferingPrice"), "price"), ".", 2)[0]
		rows = append(rows, render.Row(render.Button{
			Label: fmt.Sprintf("%s (Rs. %s)", name, price),
			Token: action.Token(CmdProductInfo, str(item, "id"), planType, categoryID),
		}))
	}

	back := action.Token(CmdBackToPlans)
	if planType == planTypeData {
		back = action.Token(CmdDataPlans)
	}
	rows = append(rows, render.Row(backButton(back), cancelButton()))

	return e.Render(render.Request{Text: f.Messages.Get("selectProduct"), Buttons: rows, Edit: true})
}

func (f *Flow) actSubscribedPlans(req action.Request) error {
	e := evOfAction(req)
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}

	resp, err := f.api(e.UserID, acc).SubscribedProducts(e.Ctx)
	if err != nil {
		return err
	}
	out := classify.Classify(classify.OpPlanList, resp)
	if !out.OK() {
		return f.failAlert(e, out)
	}

	products := subList(subMap(out.Payload, "queryAllProductsResponse"), "productList")
	if err := f.cacheProducts(e.UserID, "productList", products); err != nil {
		return err
	}

	var rows [][]render.Button
	for _, raw := range products {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, render.Row(render.Button{
			Label: str(item, "name"),
			Token: action.Token(CmdSubscribedProductInfo, str(item, "id")),
		}))
	}
	rows = append(rows, render.Row(backButton(action.Token(CmdBackToPlans)), cancelButton()))

	return e.Render(render.Request{Text: f.Messages.Get("subscribedPlans"), Buttons: rows, Edit: true})
}

// actProductInfo shows one available product with an activate button. The
// product comes from the cached list, keyed by the id in the button token.
func (f *Flow) actProductInfo(req action.Request) error {
	e := evOfAction(req)
	productID, planType, categoryID := req.Params[0], req.Params[1], req.Params[2]

	product, err := f.cachedProduct(e.UserID, "availablePackages", productID)
	if err != nil {
		return err
	}
	if product == nil {
		return e.Render(render.Request{Text: f.Messages.Get("somethingWrong"), Alert: true})
	}

	activate := render.Button{
		Label: "Activate",
		Token: action.Token(CmdActivatePlan, str(subMap(product, "techInfo"), "subscriptionCode")),
	}
	if !flag(product, "isBalanceSufficient") {
		activate = render.Button{Label: "⛔ Activate", Token: action.Token(CmdNoBalanceForPlan)}
	}

	display := subMap(product, "displayInfo")
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", str(display, "displayName"), str(display, "description"))
	if accounts := subList(product, "accounts"); len(accounts) > 0 {
		b.WriteString("\nSummary:\n")
		for _, raw := range accounts {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "👉 %s %s %s valid for %s%s\n",
				str(item, "name"), str(item, "amount"), str(item, "amountUom"),
				str(item, "validity"), str(item, "validityUom"))
		}
	}
	price := subMap(product, "productOfferingPrice")
	if str(price, "priceUom") == "FREE" {
		b.WriteString("\n💰 FREE")
	} else {
		fmt.Fprintf(&b, "\n💰 %s %s %s", str(price, "priceUom"), str(price, "price"), str(price, "priceType"))
	}

	return e.Render(render.Request{
		Text: b.String(),
		Buttons: render.Rows(
			render.Row(activate),
			render.Row(backButton(action.Token(CmdPlans, planType, categoryID)), cancelButton()),
		),
		Edit: true,
	})
}

// actSubscribedProductInfo shows one subscribed product with a deactivate
// button when the carrier allows deactivating it.
func (f *Flow) actSubscribedProductInfo(req action.Request) error {
	e := evOfAction(req)
	productID := req.Params[0]

	product, err := f.cachedProduct(e.UserID, "productList", productID)
	if err != nil {
		return err
	}
	if product == nil {
		return e.Render(render.Request{Text: f.Messages.Get("somethingWrong"), Alert: true})
	}

	deactivate := render.Button{
		Label: "Deactivate",
		Token: action.Token(CmdDeactivatePlan, str(product, "subscriptionCode")),
	}
	if !flag(product, "isDeactivationAllowed") {
		deactivate = render.Button{Label: "⛔ Deactivate", Token: action.Token(CmdDeactivationNA)}
	}

	text := fmt.Sprintf("%s\n\n%s\n\n%s", str(product, "name"), str(product, "description"),
		f.Messages.Get("productSummary", str(product, "subscriptionDate"), str(product, "expiryDate")))

	return e.Render(render.Request{
		Text: text,
		Buttons: render.Rows(
			render.Row(deactivate),
			render.Row(backButton(action.Token(CmdSubscribedPlans)), cancelButton()),
		),
		Edit: true,
	})
}

func (f *Flow) actActivatePlan(req action.Request) error {
	return f.togglePlan(evOfAction(req), req.Params[0], classify.OpSubscribe, "activationSuccessful")
}

func (f *Flow) actDeactivatePlan(req action.Request) error {
	return f.togglePlan(evOfAction(req), req.Params[0], classify.OpUnsubscribe, "deactivationSuccessful")
}

func (f *Flow) togglePlan(e Event, code string, op classify.Operation, successKey string) error {
	acc, err := f.defaultAccount(e)
	if err != nil || acc == nil {
		return err
	}
	api := f.api(e.UserID, acc)

	var resp carrier.Response
	if op == classify.OpSubscribe {
		resp, err = api.Subscribe(e.Ctx, code)
	} else {
		resp, err = api.Unsubscribe(e.Ctx, code)
	}
	if err != nil {
		return err
	}

	out := classify.Classify(op, resp)
	if !out.OK() {
		return f.failAlert(e, out)
	}
	return e.Render(render.Request{Text: f.Messages.Get(successKey), Alert: true})
}

// cacheProducts stores a product list in the scratch store as JSON under
// the given key.
func (f *Flow) cacheProducts(userID int64, key string, products []any) error {
	blob, err := json.Marshal(map[string]any{key: products})
	if err != nil {
		return err
	}
	return f.Temp.Put(userID, tempResponseData, string(blob))
}

// cachedProduct resolves a product by id from the cached list. Returns nil
// when the cache is gone or the id is not in it.
func (f *Flow) cachedProduct(userID int64, key, productID string) (map[string]any, error) {
	raw, err := f.Temp.Get(userID, tempResponseData)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	for _, item := range subList(data, key) {
		product, ok := item.(map[string]any)
		if ok && str(product, "id") == productID {
			return product, nil
		}
	}
	return nil, nil
}
