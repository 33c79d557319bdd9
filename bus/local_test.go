package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SendWithNoListeners(t *testing.T) {
	ch := NewLocal()

	resp, err := ch.Send(context.Background(), Message{Type: TypeStatusChanged})
	require.NoError(t, err, "broadcast with no listeners must be silent")
	assert.Nil(t, resp)
}

func TestLocal_RequestResponse(t *testing.T) {
	ch := NewLocal()

	unsubscribe := ch.Subscribe(func(_ context.Context, msg Message) (*Message, error) {
		if msg.Type != TypeGetConfig {
			return nil, nil
		}
		resp, err := NewMessage(TypeGetConfig, StatusPayload{IsEnabled: true})
		return &resp, err
	})
	defer unsubscribe()

	resp, err := ch.Send(context.Background(), Message{Type: TypeGetConfig})
	require.NoError(t, err)
	require.NotNil(t, resp)

	var status StatusPayload
	require.NoError(t, resp.Decode(&status))
	assert.True(t, status.IsEnabled)
}

func TestLocal_FirstResponseWins(t *testing.T) {
	ch := NewLocal()

	first, err := NewMessage(TypeGetConfig, StatusPayload{IsEnabled: true})
	require.NoError(t, err)
	second, err := NewMessage(TypeGetConfig, StatusPayload{IsEnabled: false})
	require.NoError(t, err)

	ch.Subscribe(func(context.Context, Message) (*Message, error) { return &first, nil })
	ch.Subscribe(func(context.Context, Message) (*Message, error) { return &second, nil })

	resp, err := ch.Send(context.Background(), Message{Type: TypeGetConfig})
	require.NoError(t, err)
	require.NotNil(t, resp)

	var status StatusPayload
	require.NoError(t, resp.Decode(&status))
	assert.True(t, status.IsEnabled)
}

func TestLocal_HandlerErrorIsSwallowed(t *testing.T) {
	ch := NewLocal()

	delivered := 0
	ch.Subscribe(func(context.Context, Message) (*Message, error) {
		return nil, errors.New("broken listener")
	})
	ch.Subscribe(func(context.Context, Message) (*Message, error) {
		delivered++
		return nil, nil
	})

	_, err := ch.Send(context.Background(), Message{Type: TypePromptLogClear})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered, "later listeners still receive the message")
}

func TestLocal_Unsubscribe(t *testing.T) {
	ch := NewLocal()

	delivered := 0
	unsubscribe := ch.Subscribe(func(context.Context, Message) (*Message, error) {
		delivered++
		return nil, nil
	})

	_, err := ch.Send(context.Background(), Message{Type: TypePromptLog})
	require.NoError(t, err)

	unsubscribe()
	unsubscribe() // safe to call twice

	_, err = ch.Send(context.Background(), Message{Type: TypePromptLog})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestMessage_RoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeScanFile, ScanFilePayload{FileName: "a.env", FileData: []byte("SECRET=1")})
	require.NoError(t, err)

	var payload ScanFilePayload
	require.NoError(t, msg.Decode(&payload))
	assert.Equal(t, "a.env", payload.FileName)
	assert.Equal(t, []byte("SECRET=1"), payload.FileData)
}

func TestMessage_DecodeEmptyPayload(t *testing.T) {
	var payload StatusPayload
	err := Message{Type: TypeStatusChanged}.Decode(&payload)
	require.NoError(t, err)
	assert.False(t, payload.IsEnabled)
}
