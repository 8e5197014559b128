// Package render defines the outbound surface of the conversation core. The
// core never talks to the chat transport; it emits Requests which the
// transport binding turns into messages, edits and popups.
package render

// Menu selects which reply keyboard accompanies a message.
type Menu int

const (
	// MenuKeep leaves the current reply keyboard untouched.
	MenuKeep Menu = iota
	// MenuMain attaches the main menu keyboard.
	MenuMain
	// MenuCancel attaches the single-button cancel keyboard shown during
	// wizards.
	MenuCancel
)

// Button is one interactive choice. Token carries the action-router token
// delivered back when the button is pressed; URL buttons open a link
// instead.
type Button struct {
	Label string
	Token string
	URL   string
}

// Request is one outbound rendering instruction.
type Request struct {
	Text    string
	Buttons [][]Button
	Menu    Menu
	// Edit replaces the message the triggering button lives on instead of
	// sending a new one.
	Edit bool
	// Alert shows the text as a transient popup on the triggering button
	// instead of a message.
	Alert bool
}

// Func delivers a Request to the user the current event belongs to. The
// transport binding supplies one per inbound event.
type Func func(Request) error

// Msg is a plain text request.
func Msg(text string) Request {
	return Request{Text: text}
}

// Rows builds a button grid from rows of buttons.
func Rows(rows ...[]Button) [][]Button {
	return rows
}

// Row builds one row of buttons.
func Row(buttons ...Button) []Button {
	return buttons
}
