package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRuntimeMessage(t *testing.T) {
	tests := []struct {
		raw    string
		action Action
	}{
		{`{"action":"startFontInspection"}`, ActionStartFontInspection},
		{`{"action":"toggleColorPicker","tabId":3}`, ActionToggleColorPicker},
		{`{"action":"toggleScraping"}`, ActionToggleScraping},
		{`{"action":"showExtension","tabId":7}`, ActionShowExtension},
		{`{"action":"extensionUIClosed","tabId":7}`, ActionExtensionUIClosed},
		{`{"action":"extensionUIShown","tabId":7}`, ActionExtensionUIShown},
		{`{"action":"openInEditor","code":"<div/>"}`, ActionOpenInEditor},
		{`{"action":"saveCode","code":"<div/>","fileName":"Hero.tsx"}`, ActionSaveCode},
		{`{"action":"tabClosed","tabId":7}`, ActionTabClosed},
	}
	for _, tt := range tests {
		msg, err := DecodeRuntimeMessage([]byte(tt.raw))
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.action, msg.Action())
	}

	msg, err := DecodeRuntimeMessage([]byte(`{"action":"saveCode","code":"x","fileName":"A.tsx","tabId":9}`))
	require.NoError(t, err)
	save, ok := msg.(*SaveCode)
	require.True(t, ok)
	assert.Equal(t, "A.tsx", save.FileName)
	assert.Equal(t, 9, save.Tab())
}

func TestDecodeRuntimeMessage_Rejects(t *testing.T) {
	_, err := DecodeRuntimeMessage([]byte(`{"action":"formatDisk"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = DecodeRuntimeMessage([]byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = DecodeRuntimeMessage([]byte(`{"action":"saveCode"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownMessage)

	_, err = DecodeRuntimeMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeExternalMessage(t *testing.T) {
	msg, err := DecodeExternalMessage([]byte(`{"type":"PING"}`))
	require.NoError(t, err)
	assert.Equal(t, TypePing, msg.Type())

	msg, err = DecodeExternalMessage([]byte(`{"type":"AUTH_TOKEN","token":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, AuthToken{Token: "abc"}, msg)

	_, err = DecodeExternalMessage([]byte(`{"type":"AUTH_TOKEN"}`))
	assert.Error(t, err)

	_, err = DecodeExternalMessage([]byte(`{"type":"LOGOUT"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}
