package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens map[string]uuid.UUID

func (f fakeTokens) ValidateAccessToken(token string) (jwt.Claims, error) {
	id, ok := f[token]
	if !ok {
		return jwt.Claims{}, errors.New("bad token")
	}
	return jwt.Claims{UserID: id}, nil
}

func startServer(t *testing.T, tokens fakeTokens) (*Hub, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(NewServeMux(NewHandler(hub, tokens, nil)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	_, url := startServer(t, fakeTokens{})

	for _, u := range []string{url, url + "?token=nope"} {
		_, resp, err := websocket.DefaultDialer.Dial(u, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestHub_DeliversExchangeEventsToBothPartiesOnly(t *testing.T) {
	teacher, student, stranger := uuid.New(), uuid.New(), uuid.New()
	hub, url := startServer(t, fakeTokens{"t": teacher, "s": student, "x": stranger})

	tConn := dial(t, url+"?token=t")
	sConn := dial(t, url+"?token=s")
	xConn := dial(t, url+"?token=x")

	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	ex := exchange.Exchange{
		ID:           uuid.New(),
		TeacherID:    teacher,
		StudentID:    student,
		Skill:        "Go",
		Duration:     2,
		Credits:      2,
		Status:       exchange.StatusScheduled,
		ScheduledFor: &at,
	}
	hub.PublishExchangeEvent(usecase.ExchangeEvent{Type: usecase.EventExchangeUpdated, ActorID: student, Exchange: ex, At: at})

	for _, conn := range []*websocket.Conn{tConn, sConn} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, b, err := conn.ReadMessage()
		require.NoError(t, err)

		var got ExchangeUpdatedEvent
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, "exchange_updated", got.Type)
		assert.Equal(t, ex.ID, got.ExchangeID)
		assert.Equal(t, "scheduled", got.Status)
		assert.Equal(t, student, got.ActorID)
	}

	require.NoError(t, xConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := xConn.ReadMessage()
	require.Error(t, err, "a user who is not a party must not receive the event")
}

func TestHub_UnregistersClosedConnections(t *testing.T) {
	id := uuid.New()
	hub, url := startServer(t, fakeTokens{"a": id})

	conn := dial(t, url+"?token=a")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.SendTo([]uuid.UUID{uuid.New()}, []byte("x"))
	h.PublishExchangeEvent(usecase.ExchangeEvent{})
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_DoesNotBlockAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Unregister(NewClient(hub, nil, uuid.New()))
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}

	late := NewClient(hub, nil, uuid.New())
	hub.Register(late)
	_, open := <-late.send
	assert.False(t, open, "a client registered after shutdown gets a closed send queue")
	assert.Equal(t, 0, hub.ClientCount())
}
