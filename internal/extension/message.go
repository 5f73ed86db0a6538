// Package extension implements the browser extension's message protocol: tagged-union decoding of
// runtime and external messages, the per-tab visibility registry, and the native-messaging host.
package extension

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownMessage is returned for any message whose tag is missing or not recognised.
var ErrUnknownMessage = errors.New("unknown extension message")

var validate = validator.New()

// Action tags runtime messages sent between the popup, content scripts and the background worker.
type Action string

const (
	ActionStartFontInspection Action = "startFontInspection"
	ActionToggleColorPicker   Action = "toggleColorPicker"
	ActionToggleScraping      Action = "toggleScraping"
	ActionShowExtension       Action = "showExtension"
	ActionExtensionUIClosed   Action = "extensionUIClosed"
	ActionExtensionUIShown    Action = "extensionUIShown"
	ActionOpenInEditor        Action = "openInEditor"
	ActionSaveCode            Action = "saveCode"
	// ActionTabClosed is raised by the background worker from the browser's tab-removed event.
	ActionTabClosed Action = "tabClosed"
)

// MessageType tags external messages sent to the extension by the web app.
type MessageType string

const (
	TypeAuthToken MessageType = "AUTH_TOKEN"
	TypePing      MessageType = "PING"
	TypePong      MessageType = "PONG"
)

// RuntimeMessage is one of the Action-tagged message structs below.
type RuntimeMessage interface {
	Action() Action
	Tab() int
}

type envelope struct {
	Action Action      `json:"action"`
	Type   MessageType `json:"type"`
	TabID  int         `json:"tabId"`
}

type tabbed struct {
	TabID int `json:"tabId"`
}

func (t tabbed) Tab() int { return t.TabID }

type StartFontInspection struct{ tabbed }
type ToggleColorPicker struct{ tabbed }
type ToggleScraping struct{ tabbed }
type ShowExtension struct{ tabbed }
type ExtensionUIClosed struct{ tabbed }
type ExtensionUIShown struct{ tabbed }
type TabClosed struct{ tabbed }

// OpenInEditor asks the web app to open scraped code in the editor.
type OpenInEditor struct {
	tabbed
	Code  string `json:"code" validate:"required"`
	Title string `json:"title,omitempty"`
}

// SaveCode asks the background worker to persist scraped code.
type SaveCode struct {
	tabbed
	Code     string `json:"code" validate:"required"`
	FileName string `json:"fileName,omitempty"`
	URL      string `json:"url,omitempty"`
}

func (StartFontInspection) Action() Action { return ActionStartFontInspection }
func (ToggleColorPicker) Action() Action   { return ActionToggleColorPicker }
func (ToggleScraping) Action() Action      { return ActionToggleScraping }
func (ShowExtension) Action() Action       { return ActionShowExtension }
func (ExtensionUIClosed) Action() Action   { return ActionExtensionUIClosed }
func (ExtensionUIShown) Action() Action    { return ActionExtensionUIShown }
func (OpenInEditor) Action() Action        { return ActionOpenInEditor }
func (SaveCode) Action() Action            { return ActionSaveCode }
func (TabClosed) Action() Action           { return ActionTabClosed }

// DecodeRuntimeMessage decodes an Action-tagged message. Unrecognised actions are rejected with
// ErrUnknownMessage; recognised actions with invalid payloads are rejected with a validation error.
func DecodeRuntimeMessage(raw []byte) (RuntimeMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode runtime message: %w", err)
	}
	var msg RuntimeMessage
	switch env.Action {
	case ActionStartFontInspection:
		msg = &StartFontInspection{}
	case ActionToggleColorPicker:
		msg = &ToggleColorPicker{}
	case ActionToggleScraping:
		msg = &ToggleScraping{}
	case ActionShowExtension:
		msg = &ShowExtension{}
	case ActionExtensionUIClosed:
		msg = &ExtensionUIClosed{}
	case ActionExtensionUIShown:
		msg = &ExtensionUIShown{}
	case ActionOpenInEditor:
		msg = &OpenInEditor{}
	case ActionSaveCode:
		msg = &SaveCode{}
	case ActionTabClosed:
		msg = &TabClosed{}
	default:
		return nil, fmt.Errorf("%w: action %q", ErrUnknownMessage, env.Action)
	}
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Action, err)
	}
	if err := validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", env.Action, err)
	}
	return msg, nil
}

// ExternalMessage is AuthToken or Ping.
type ExternalMessage interface {
	Type() MessageType
}

// AuthToken relays an extension token minted by the web app.
type AuthToken struct {
	Token string `json:"token" validate:"required"`
}

// Ping is the web app's liveness check.
type Ping struct{}

func (AuthToken) Type() MessageType { return TypeAuthToken }
func (Ping) Type() MessageType      { return TypePing }

// DecodeExternalMessage decodes a Type-tagged message from the web app.
func DecodeExternalMessage(raw []byte) (ExternalMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode external message: %w", err)
	}
	switch env.Type {
	case TypePing:
		return Ping{}, nil
	case TypeAuthToken:
		var m AuthToken
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", env.Type, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownMessage, env.Type)
	}
}
