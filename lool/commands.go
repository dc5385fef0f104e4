package lool

import (
	"strings"

	"github.com/lool/ws-contract-tests/servicedef"
)

// LoadCommand builds "load url=<url>[ password=<p>][ options=<json>]".
func LoadCommand(params servicedef.LoadParams) string {
	var b strings.Builder
	b.WriteString(servicedef.CommandLoad)
	b.WriteString(" url=")
	b.WriteString(params.URL)
	if params.Password.IsDefined() {
		b.WriteString(" password=")
		b.WriteString(params.Password.StringValue())
	}
	if !params.Options.IsNull() {
		b.WriteString(" options=")
		b.WriteString(params.Options.JSONString())
	}
	return b.String()
}

func StatusCommand() string {
	return servicedef.CommandStatus
}

// UnoCommand builds a command that dispatches a UNO action such as ".uno:SelectAll".
func UnoCommand(action string) string {
	return servicedef.CommandUno + " " + action
}

// PasteCommand builds a paste command. The body follows the first line and may itself
// contain line terminators; the whole command is sent as one frame.
func PasteCommand(mimeType, body string) string {
	return servicedef.CommandPaste + " mimetype=" + mimeType + string(lineTerminator) + body
}

func GetTextSelectionCommand(mimeType string) string {
	return servicedef.CommandGetTextSelection + " mimetype=" + mimeType
}
