package lool

import (
	"strings"

	"github.com/lool/ws-contract-tests/servicedef"
)

// Kind identifies the type of a message from the service, based on its leading keyword.
type Kind int

const (
	KindUnknown Kind = iota
	KindStatus
	KindStatusIndicatorStart
	KindStatusIndicatorValue
	KindStatusIndicatorFinish
	KindError
	KindTextSelectionContent
	KindPartsCountChanged
	// KindInvalidate covers the invalidatetiles:, invalidatecursor: etc. notifications.
	KindInvalidate
)

var kindsByKeyword = map[string]Kind{
	servicedef.ResponseStatus:                KindStatus,
	servicedef.ResponseStatusIndicatorStart:  KindStatusIndicatorStart,
	servicedef.ResponseStatusIndicatorValue:  KindStatusIndicatorValue,
	servicedef.ResponseStatusIndicatorFinish: KindStatusIndicatorFinish,
	servicedef.ResponseError:                 KindError,
	servicedef.ResponseTextSelectionContent:  KindTextSelectionContent,
	servicedef.ResponsePartsCountChanged:     KindPartsCountChanged,
}

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindStatus:                servicedef.ResponseStatus,
	KindStatusIndicatorStart:  servicedef.ResponseStatusIndicatorStart,
	KindStatusIndicatorValue:  servicedef.ResponseStatusIndicatorValue,
	KindStatusIndicatorFinish: servicedef.ResponseStatusIndicatorFinish,
	KindError:                 servicedef.ResponseError,
	KindTextSelectionContent:  servicedef.ResponseTextSelectionContent,
	KindPartsCountChanged:     servicedef.ResponsePartsCountChanged,
	KindInvalidate:            "invalidate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// hasFields is true for kinds whose body is a list of key=value tokens.
func (k Kind) hasFields() bool {
	return k == KindStatus || k == KindError
}

// spansPayload is true for kinds whose body may continue past the first line.
func (k Kind) spansPayload() bool {
	return k == KindPartsCountChanged || k == KindTextSelectionContent
}

// Message is a decoded message from the service.
type Message struct {
	Kind Kind
	// Keyword is the text before the first colon, such as "status"; it is empty if the
	// message does not start with a keyword.
	Keyword string
	// Body is the text after "<keyword>:" with one leading space removed.
	Body string
	// Fields contains the key=value tokens of the body, for kinds that use them.
	Fields map[string]string
	Raw    []byte
}

// Prefix returns the prefix that identifies messages of this keyword, such as "status:".
func (m Message) Prefix() string {
	if m.Keyword == "" {
		return ""
	}
	return m.Keyword + ":"
}

// Decode parses a payload once into its kind, body, and fields. It never fails; a payload
// that does not start with a keyword is KindUnknown with an empty Keyword.
func Decode(payload []byte) Message {
	m := Message{Raw: payload}
	line := FirstLine(payload)
	colon := strings.IndexByte(line, ':')
	if colon <= 0 || strings.ContainsAny(line[:colon], " =") {
		return m
	}
	m.Keyword = line[:colon]
	m.Kind = kindOf(m.Keyword)
	if m.Kind.spansPayload() {
		m.Body = strings.TrimPrefix(string(payload[colon+1:]), " ")
	} else {
		m.Body = strings.TrimPrefix(line[colon+1:], " ")
	}
	if m.Kind.hasFields() {
		m.Fields = parseFields(m.Body)
	}
	return m
}

func kindOf(keyword string) Kind {
	if k, ok := kindsByKeyword[keyword]; ok {
		return k
	}
	if strings.HasPrefix(keyword, "invalidate") {
		return KindInvalidate
	}
	return KindUnknown
}

func parseFields(body string) map[string]string {
	fields := make(map[string]string)
	for _, token := range strings.Fields(body) {
		if eq := strings.IndexByte(token, '='); eq > 0 {
			fields[token[:eq]] = token[eq+1:]
		}
	}
	return fields
}

// TokenValue returns the value of a "name=value" token, if the token has that name.
func TokenValue(token, name string) (string, bool) {
	if !strings.HasPrefix(token, name+"=") {
		return "", false
	}
	return token[len(name)+1:], true
}
