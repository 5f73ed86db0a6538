package extension

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiscraper/backend/internal/domain"
	"github.com/uiscraper/backend/internal/infrastructure/auth"
)

func frames(t *testing.T, msgs ...string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(m))))
		buf.WriteString(m)
	}
	return &buf
}

func readReplies(t *testing.T, r io.Reader) []Reply {
	t.Helper()
	var out []Reply
	for {
		frame, err := ReadFrame(r)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		var rep Reply
		require.NoError(t, json.Unmarshal(frame, &rep))
		out = append(out, rep)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, map[string]string{"type": "PONG"}))
	assert.Equal(t, uint32(15), binary.LittleEndian.Uint32(buf.Bytes()[:4]))

	frame, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"PONG"}`, string(frame))

	_, err = ReadFrame(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrame_Limits(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(MaxFrameSize+1)))
	_, err := ReadFrame(&buf)
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	truncated := frames(t, `{"type":"PING"}`)
	truncated.Truncate(truncated.Len() - 2)
	_, err = ReadFrame(truncated)
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestHost_Serve(t *testing.T) {
	codec := auth.NewExtensionTokens(auth.ExtensionTokenTTL)
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	fresh, err := codec.Mint(domain.Identity{UserID: "u1", Email: "u1@example.com", Name: "Ada"}, now.Add(-time.Hour))
	require.NoError(t, err)
	stale, err := codec.Mint(domain.Identity{UserID: "u1", Email: "u1@example.com"}, now.Add(-25*time.Hour))
	require.NoError(t, err)

	var handled []Action
	handler := func(ctx context.Context, msg RuntimeMessage) (any, error) {
		handled = append(handled, msg.Action())
		if _, ok := msg.(*SaveCode); ok {
			return map[string]string{"saved": "Hero.tsx"}, nil
		}
		return nil, nil
	}
	tabs := NewTabRegistry()
	host := NewHost(codec, tabs, handler, zerolog.Nop())
	host.now = func() time.Time { return now }

	in := frames(t,
		`{"type":"PING"}`,
		`{"type":"AUTH_TOKEN","token":"`+fresh+`"}`,
		`{"type":"AUTH_TOKEN","token":"`+stale+`"}`,
		`{"action":"showExtension","tabId":4}`,
		`{"action":"saveCode","code":"<div/>","fileName":"Hero.tsx"}`,
		`{"action":"nope"}`,
	)
	var out bytes.Buffer
	require.NoError(t, host.Serve(context.Background(), in, &out))

	replies := readReplies(t, &out)
	require.Len(t, replies, 6)
	assert.Equal(t, "PONG", replies[0].Type)

	assert.Equal(t, "AUTH_RESULT", replies[1].Type)
	require.NotNil(t, replies[1].Success)
	assert.True(t, *replies[1].Success)
	assert.Equal(t, "u1", replies[1].User.ID)
	assert.Equal(t, "Ada", replies[1].User.Name)

	assert.False(t, *replies[2].Success)
	assert.Equal(t, "Token expired", replies[2].Error)

	assert.Equal(t, "ACK", replies[3].Type)
	assert.True(t, *replies[3].Visible)
	assert.True(t, tabs.Visible(4))

	assert.JSONEq(t, `{"saved":"Hero.tsx"}`, string(replies[4].Data))
	assert.Equal(t, "ERROR", replies[5].Type)
	assert.Equal(t, []Action{ActionShowExtension, ActionSaveCode}, handled)
}

func TestHost_ServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	host := NewHost(auth.NewExtensionTokens(0), nil, nil, zerolog.Nop())
	err := host.Serve(ctx, frames(t, `{"type":"PING"}`), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
