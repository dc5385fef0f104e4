package lool

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var statusTokenNames = []string{"type", "parts", "current", "width", "height"}

// StatusInfo is the decoded body of a status response, for instance
// "type=text parts=2 current=0 width=12808 height=1142".
type StatusInfo struct {
	Type    string
	Parts   int
	Current int
	Width   int
	Height  int
}

// ErrorInfo is the decoded body of an error response such as
// "cmd=load kind=wrongpassword".
type ErrorInfo struct {
	Cmd  string
	Kind string
}

// PartsCountChanged is the decoded JSON body of a partscountchanged response.
type PartsCountChanged struct {
	Action string
	Body   ldvalue.Value
}

// ParseStatus decodes the body of a status response. The body must consist of exactly the
// tokens type, parts, current, width, and height, in that order, with non-negative integer
// values for all but type.
func ParseStatus(body string) (StatusInfo, error) {
	tokens := strings.Fields(body)
	if len(tokens) != len(statusTokenNames) {
		return StatusInfo{}, fmt.Errorf("%w: status has %d tokens, expected %d: %q",
			ErrMalformedResponse, len(tokens), len(statusTokenNames), body)
	}
	values := make([]string, len(tokens))
	for i, name := range statusTokenNames {
		value, ok := TokenValue(tokens[i], name)
		if !ok {
			return StatusInfo{}, fmt.Errorf("%w: expected %s= as status token %d, got %q",
				ErrMalformedResponse, name, i+1, tokens[i])
		}
		values[i] = value
	}
	numbers := make([]int, len(values))
	for i := 1; i < len(values); i++ {
		n, err := strconv.Atoi(values[i])
		if err != nil || n < 0 {
			return StatusInfo{}, fmt.Errorf("%w: status %s is not a non-negative integer: %q",
				ErrMalformedResponse, statusTokenNames[i], values[i])
		}
		numbers[i] = n
	}
	return StatusInfo{
		Type:    values[0],
		Parts:   numbers[1],
		Current: numbers[2],
		Width:   numbers[3],
		Height:  numbers[4],
	}, nil
}

// ParseError decodes the body of an error response, which must have exactly a cmd token
// followed by a kind token.
func ParseError(body string) (ErrorInfo, error) {
	tokens := strings.Fields(body)
	if len(tokens) != 2 {
		return ErrorInfo{}, fmt.Errorf("%w: error has %d tokens, expected 2: %q",
			ErrMalformedResponse, len(tokens), body)
	}
	cmd, ok := TokenValue(tokens[0], "cmd")
	if !ok {
		return ErrorInfo{}, fmt.Errorf("%w: expected cmd= token, got %q", ErrMalformedResponse, tokens[0])
	}
	kind, ok := TokenValue(tokens[1], "kind")
	if !ok {
		return ErrorInfo{}, fmt.Errorf("%w: expected kind= token, got %q", ErrMalformedResponse, tokens[1])
	}
	return ErrorInfo{Cmd: cmd, Kind: kind}, nil
}

// ParsePartsCountChanged decodes the JSON object following "partscountchanged:", which must
// have a string "action" property.
func ParsePartsCountChanged(body string) (PartsCountChanged, error) {
	value := ldvalue.Parse([]byte(body))
	if value.Type() != ldvalue.ObjectType {
		return PartsCountChanged{}, fmt.Errorf("%w: partscountchanged body is not a JSON object: %q",
			ErrMalformedResponse, body)
	}
	action := value.GetByKey("action")
	if action.Type() != ldvalue.StringType {
		return PartsCountChanged{}, fmt.Errorf("%w: partscountchanged body has no action: %q",
			ErrMalformedResponse, body)
	}
	return PartsCountChanged{Action: action.StringValue(), Body: value}, nil
}

// AsStatus decodes the message as a status response.
func (m Message) AsStatus() (StatusInfo, error) {
	if m.Kind != KindStatus {
		return StatusInfo{}, fmt.Errorf("%w: expected status, got %q", ErrMalformedResponse, Abbreviate(m.Raw))
	}
	return ParseStatus(m.Body)
}

// AsError decodes the message as an error response.
func (m Message) AsError() (ErrorInfo, error) {
	if m.Kind != KindError {
		return ErrorInfo{}, fmt.Errorf("%w: expected error, got %q", ErrMalformedResponse, Abbreviate(m.Raw))
	}
	return ParseError(m.Body)
}

// AsPartsCountChanged decodes the message as a partscountchanged notification.
func (m Message) AsPartsCountChanged() (PartsCountChanged, error) {
	if m.Kind != KindPartsCountChanged {
		return PartsCountChanged{}, fmt.Errorf("%w: expected partscountchanged, got %q",
			ErrMalformedResponse, Abbreviate(m.Raw))
	}
	return ParsePartsCountChanged(m.Body)
}
