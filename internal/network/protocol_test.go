package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("match-found", struct {
		RoomID string `json:"roomId"`
	}{RoomID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "match-found", msg.Type)
	assert.JSONEq(t, `{"roomId":"r1"}`, string(msg.Payload))

	msg, err = NewMessage("opponent-left", nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Payload)

	_, err = NewMessage("broken", func() {})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var v struct {
		RoomID string `json:"roomId"`
	}

	require.NoError(t, Message{Type: "leave-room", Payload: []byte(`{"roomId":"r1"}`)}.Decode(&v))
	assert.Equal(t, "r1", v.RoomID)

	require.NoError(t, Message{Type: "cancel-match"}.Decode(&v))

	err := Message{Type: "leave-room", Payload: []byte(`{"roomId":3}`)}.Decode(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode leave-room payload")
}
