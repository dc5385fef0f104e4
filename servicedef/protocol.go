// Package servicedef defines the vocabulary of the document service's WebSocket protocol:
// command names, the keywords that start each kind of response, and well-known values.
package servicedef

const (
	CommandLoad             = "load"
	CommandStatus           = "status"
	CommandUno              = "uno"
	CommandPaste            = "paste"
	CommandGetTextSelection = "gettextselection"
)

// Response keywords. A response's first line starts with the keyword followed by a colon.
const (
	ResponseStatus                = "status"
	ResponseStatusIndicatorStart  = "statusindicatorstart"
	ResponseStatusIndicatorValue  = "statusindicatorvalue"
	ResponseStatusIndicatorFinish = "statusindicatorfinish"
	ResponseError                 = "error"
	ResponseTextSelectionContent  = "textselectioncontent"
	ResponsePartsCountChanged     = "partscountchanged"
)

// Error kinds reported in "error: cmd=<name> kind=<kind>" responses.
const (
	ErrorKindPasswordRequiredToView = "passwordrequired:to-view"
	ErrorKindPasswordRequiredToEdit = "passwordrequired:to-modify"
	ErrorKindWrongPassword          = "wrongpassword"
)

// Actions reported in the JSON body of a partscountchanged response.
const (
	PartInserted = "PartInserted"
	PartDeleted  = "PartDeleted"
)

const (
	MimeTypeTextPlainUTF8 = "text/plain;charset=utf-8"
	MimeTypeTextHTML      = "text/html"
)

const (
	UnoSelectAll  = ".uno:SelectAll"
	UnoDelete     = ".uno:Delete"
	UnoInsertPage = ".uno:InsertPage"
	UnoDeletePage = ".uno:DeletePage"
	UnoUndo       = ".uno:Undo"
	UnoRedo       = ".uno:Redo"

	RenderingHideWhitespace = ".uno:HideWhitespace"
)
