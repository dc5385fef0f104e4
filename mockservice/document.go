package mockservice

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/lool/ws-contract-tests/servicedef"
)

const (
	protectedDocumentPrefix = "password-protected"
	documentPassword        = "1"

	pageWidth                  = 12808
	textHeight                 = 32532
	textHeightHiddenWhitespace = 16706
	initialText                = "Hello world"
)

type partChange struct {
	inserted bool
}

type documentSession struct {
	service  *Service
	conn     *websocket.Conn
	loaded   bool
	docType  string
	text     string
	selected bool
	parts    int
	height   int
	undo     []partChange
	redo     []partChange
}

func newDocumentSession(service *Service, conn *websocket.Conn) *documentSession {
	return &documentSession{service: service, conn: conn}
}

// handle processes one command. It returns false if the connection should be dropped.
func (d *documentSession) handle(data []byte) bool {
	firstLine, body, _ := strings.Cut(string(data), "\n")
	tokens := strings.Fields(firstLine)
	if len(tokens) == 0 {
		return true
	}
	name := tokens[0]
	opts := d.service.options

	if opts.HangUpOn != "" && name == opts.HangUpOn {
		d.service.logger.Printf("Hanging up on %q command", name)
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "hanging up on "+name)
		_ = d.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
		return false
	}
	if opts.Silent {
		return true
	}
	if opts.Latency > 0 {
		time.Sleep(opts.Latency)
	}
	for i := 0; i < opts.Noise; i++ {
		d.send("invalidatecursor: 0, 0, 0, 0")
	}

	switch name {
	case servicedef.CommandLoad:
		d.load(tokens[1:])
	case servicedef.CommandStatus:
		d.status()
	case servicedef.CommandUno:
		if len(tokens) < 2 {
			d.sendError(name, "syntax")
			return true
		}
		d.uno(tokens[1])
	case servicedef.CommandPaste:
		d.paste(tokenValue(tokens[1:], "mimetype"), body)
	case servicedef.CommandGetTextSelection:
		d.textSelection()
	default:
		d.sendError(name, "unknown")
	}
	return true
}

func (d *documentSession) send(message string) {
	d.service.logger.Printf("<< sending: %s", message)
	_ = d.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (d *documentSession) sendError(cmd, kind string) {
	d.send(fmt.Sprintf("%s: cmd=%s kind=%s", servicedef.ResponseError, cmd, kind))
}

func (d *documentSession) load(args []string) {
	docURL := tokenValue(args, "url")
	if docURL == "" {
		d.sendError(servicedef.CommandLoad, "syntax")
		return
	}
	name := documentName(docURL)
	if strings.HasPrefix(name, protectedDocumentPrefix) {
		password, hasPassword := lookupToken(args, "password")
		switch {
		case !hasPassword:
			d.sendError(servicedef.CommandLoad, servicedef.ErrorKindPasswordRequiredToView)
			return
		case password != documentPassword:
			d.sendError(servicedef.CommandLoad, servicedef.ErrorKindWrongPassword)
			return
		}
	}

	d.docType = documentType(name)
	d.text = initialText
	d.selected = false
	d.parts = 1
	d.height = textHeight
	if hideWhitespace(tokenValue(args, "options")) {
		d.height = textHeightHiddenWhitespace
	}
	d.loaded = true

	d.send(servicedef.ResponseStatusIndicatorStart + ":")
	d.send(servicedef.ResponseStatusIndicatorValue + ": 50")
	d.send(servicedef.ResponseStatusIndicatorFinish + ":")
}

func (d *documentSession) status() {
	if !d.loaded {
		d.sendError(servicedef.CommandStatus, "nodocloaded")
		return
	}
	d.send(fmt.Sprintf("%s: type=%s parts=%d current=0 width=%d height=%d",
		servicedef.ResponseStatus, d.docType, d.parts, pageWidth, d.height))
}

func (d *documentSession) uno(action string) {
	if !d.loaded {
		d.sendError(servicedef.CommandUno, "nodocloaded")
		return
	}
	switch action {
	case servicedef.UnoSelectAll:
		d.selected = true
		d.send("textselection: 0, 0, 12808, 1142")
	case servicedef.UnoDelete:
		if d.selected {
			d.text = ""
			d.selected = false
		}
		d.send("invalidatetiles: EMPTY")
	case servicedef.UnoInsertPage:
		d.applyPartChange(partChange{inserted: true})
		d.undo = append(d.undo, partChange{inserted: true})
		d.redo = nil
	case servicedef.UnoDeletePage:
		if d.parts <= 1 {
			return
		}
		d.applyPartChange(partChange{inserted: false})
		d.undo = append(d.undo, partChange{inserted: false})
		d.redo = nil
	case servicedef.UnoUndo:
		if len(d.undo) == 0 {
			return
		}
		last := d.undo[len(d.undo)-1]
		d.undo = d.undo[:len(d.undo)-1]
		d.redo = append(d.redo, last)
		d.applyPartChange(partChange{inserted: !last.inserted})
	case servicedef.UnoRedo:
		if len(d.redo) == 0 {
			return
		}
		last := d.redo[len(d.redo)-1]
		d.redo = d.redo[:len(d.redo)-1]
		d.undo = append(d.undo, last)
		d.applyPartChange(last)
	default:
		d.send("invalidatetiles: EMPTY")
	}
}

func (d *documentSession) applyPartChange(change partChange) {
	action := servicedef.PartDeleted
	if change.inserted {
		d.parts++
		action = servicedef.PartInserted
	} else {
		d.parts--
	}
	body := ldvalue.ObjectBuild().
		Set("action", ldvalue.String(action)).
		Set("parts", ldvalue.Int(d.parts)).
		Build()
	d.send(servicedef.ResponsePartsCountChanged + ": " + body.JSONString())
}

func (d *documentSession) paste(mimeType, body string) {
	if !d.loaded {
		d.sendError(servicedef.CommandPaste, "nodocloaded")
		return
	}
	if mimeType == "" {
		d.sendError(servicedef.CommandPaste, "syntax")
		return
	}
	if strings.HasPrefix(mimeType, "text/plain") {
		if d.selected {
			d.text = body
		} else {
			d.text += body
		}
	}
	d.selected = false
	d.send("invalidatetiles: part=0 x=0 y=0 width=12808 height=1142")
}

func (d *documentSession) textSelection() {
	content := ""
	if d.selected {
		content = d.text
	}
	d.send(servicedef.ResponseTextSelectionContent + ": " + content)
}

func lookupToken(tokens []string, name string) (string, bool) {
	for _, t := range tokens {
		if strings.HasPrefix(t, name+"=") {
			return t[len(name)+1:], true
		}
	}
	return "", false
}

func tokenValue(tokens []string, name string) string {
	value, _ := lookupToken(tokens, name)
	return value
}

func documentName(docURL string) string {
	if u, err := url.Parse(docURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(docURL)
}

func documentType(name string) string {
	switch path.Ext(name) {
	case ".ods":
		return "spreadsheet"
	case ".odp":
		return "presentation"
	case ".odg":
		return "drawing"
	default:
		return "text"
	}
}

func hideWhitespace(options string) bool {
	if options == "" {
		return false
	}
	value := ldvalue.Parse([]byte(options)).
		GetByKey("rendering").
		GetByKey(servicedef.RenderingHideWhitespace).
		GetByKey("value")
	return value.StringValue() == "true"
}
