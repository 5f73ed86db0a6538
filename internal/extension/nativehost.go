package extension

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/uiscraper/backend/internal/application/ports"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// MaxFrameSize is the largest inbound native-messaging frame the host accepts.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned when a frame header announces more than MaxFrameSize bytes.
var ErrFrameTooLarge = errors.New("native message frame too large")

// ReadFrame reads one native-messaging frame: a 4-byte little-endian length followed by that many
// bytes of JSON. io.EOF is returned unwrapped when the stream ends between frames.
func ReadFrame(r io.Reader) ([]byte, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return buf, nil
}

// WriteFrame JSON-encodes v and writes it as one frame.
func WriteFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(body))); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// Reply is what the host writes back for each inbound frame.
type Reply struct {
	Type    string          `json:"type"`
	Action  Action          `json:"action,omitempty"`
	Visible *bool           `json:"visible,omitempty"`
	Success *bool           `json:"success,omitempty"`
	User    *ReplyUser      `json:"user,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ReplyUser is the profile returned after a successful AUTH_TOKEN.
type ReplyUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

// RuntimeHandler receives runtime messages after the tab registry is updated. A non-nil result
// is attached to the ACK as data.
type RuntimeHandler func(ctx context.Context, msg RuntimeMessage) (any, error)

// Host serves the native-messaging protocol over a stream pair (normally stdin/stdout).
type Host struct {
	tokens  ports.ExtensionTokenCodec
	tabs    *TabRegistry
	handler RuntimeHandler
	now     func() time.Time
	log     zerolog.Logger
}

// NewHost builds a host. handler may be nil.
func NewHost(tokens ports.ExtensionTokenCodec, tabs *TabRegistry, handler RuntimeHandler, log zerolog.Logger) *Host {
	if tabs == nil {
		tabs = NewTabRegistry()
	}
	return &Host{tokens: tokens, tabs: tabs, handler: handler, now: time.Now, log: log}
}

// Serve processes frames until r is exhausted or ctx is cancelled. Per-message failures are reported
// to the peer as ERROR replies; only stream failures end the loop with an error.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := ReadFrame(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := WriteFrame(w, h.Handle(ctx, frame)); err != nil {
			return fmt.Errorf("write reply: %w", err)
		}
	}
}

// Handle decodes one frame and produces its reply.
func (h *Host) Handle(ctx context.Context, frame []byte) Reply {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return errorReply(err)
	}
	if env.Type != "" {
		msg, err := DecodeExternalMessage(frame)
		if err != nil {
			return errorReply(err)
		}
		return h.handleExternal(msg)
	}
	msg, err := DecodeRuntimeMessage(frame)
	if err != nil {
		return errorReply(err)
	}
	return h.handleRuntime(ctx, msg)
}

func (h *Host) handleExternal(msg ExternalMessage) Reply {
	switch m := msg.(type) {
	case Ping:
		return Reply{Type: string(TypePong)}
	case AuthToken:
		identity, err := h.tokens.Verify(m.Token, h.now())
		if err != nil {
			h.log.Info().Err(err).Msg("extension auth token rejected")
			reason := "Invalid token"
			if errors.Is(err, domerrors.ErrTokenExpired) {
				reason = "Token expired"
			}
			return Reply{Type: "AUTH_RESULT", Success: boolPtr(false), Error: reason}
		}
		return Reply{
			Type:    "AUTH_RESULT",
			Success: boolPtr(true),
			User: &ReplyUser{
				ID:           identity.UserID,
				Email:        identity.Email,
				Name:         identity.Name,
				ProfileImage: identity.ProfileImage,
			},
		}
	default:
		return errorReply(ErrUnknownMessage)
	}
}

func (h *Host) handleRuntime(ctx context.Context, msg RuntimeMessage) Reply {
	visible := h.tabs.Apply(msg)
	reply := Reply{Type: "ACK", Action: msg.Action(), Visible: &visible}
	if h.handler == nil {
		return reply
	}
	data, err := h.handler(ctx, msg)
	if err != nil {
		h.log.Warn().Err(err).Str("action", string(msg.Action())).Msg("runtime message handler failed")
		return errorReply(err)
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return errorReply(err)
		}
		reply.Data = raw
	}
	return reply
}

func errorReply(err error) Reply {
	return Reply{Type: "ERROR", Error: err.Error()}
}

func boolPtr(b bool) *bool { return &b }
