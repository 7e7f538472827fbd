package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netspeed-monitor/internal/domain"
	"netspeed-monitor/internal/logger"
)

type frame struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T, secret string) (*Hub, *httptest.Server) {
	t.Helper()

	snapshot := func(channel string) (any, bool) {
		if channel == domain.WsChannelInfo {
			return domain.InitialNetworkInfo(), true
		}
		return nil, false
	}

	hub := NewHub(context.Background(), logger.Nop(), snapshot)
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, logger.Nop(), secret, []string{"http://allowed.test"}).Serve))
	t.Cleanup(srv.Close)

	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestSubscribeReceivesSnapshotThenUpdates(t *testing.T) {
	hub, srv := startHub(t, "")
	conn := dial(t, srv, nil)

	require.NoError(t, conn.WriteJSON(domain.WsClientMessage{Type: domain.WsSubscribe, Channel: domain.WsChannelInfo}))

	f := readFrame(t, conn)
	assert.Equal(t, domain.WsChannelInfo, f.Channel)
	assert.Equal(t, domain.WsEventInfoUpdated, f.Event)

	info := domain.InitialNetworkInfo()
	info.PublicIP = "203.0.113.1"
	hub.OnInfoUpdate(info)

	f = readFrame(t, conn)
	var got domain.NetworkInfoSnapshot
	require.NoError(t, json.Unmarshal(f.Payload, &got))
	assert.Equal(t, "203.0.113.1", got.PublicIP)
}

func TestOnlySubscribedChannelsAreDelivered(t *testing.T) {
	hub, srv := startHub(t, "")
	conn := dial(t, srv, nil)

	require.NoError(t, conn.WriteJSON(domain.WsClientMessage{Type: domain.WsSubscribe, Channel: domain.WsChannelSpeed}))
	// a round trip through the info snapshot proves both subscriptions landed
	require.NoError(t, conn.WriteJSON(domain.WsClientMessage{Type: domain.WsSubscribe, Channel: domain.WsChannelInfo}))
	readFrame(t, conn)

	hub.OnProcessReport(domain.ProcessReport{Source: domain.ProcessSourceTraffic})
	hub.OnSpeedUpdate(domain.SpeedSnapshot{DownloadBytesPerSec: 42})

	f := readFrame(t, conn)
	assert.Equal(t, domain.WsChannelSpeed, f.Channel)
	assert.Equal(t, domain.WsEventSpeedUpdated, f.Event)

	var got domain.SpeedSnapshot
	require.NoError(t, json.Unmarshal(f.Payload, &got))
	assert.Equal(t, uint64(42), got.DownloadBytesPerSec)
}

func TestUnknownChannelIgnored(t *testing.T) {
	hub, srv := startHub(t, "")
	conn := dial(t, srv, nil)

	require.NoError(t, conn.WriteJSON(domain.WsClientMessage{Type: domain.WsSubscribe, Channel: "servers"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(domain.WsClientMessage{Type: domain.WsSubscribe, Channel: domain.WsChannelInfo}))

	f := readFrame(t, conn)
	assert.Equal(t, domain.WsChannelInfo, f.Channel)

	hub.OnProcessUpdate([]domain.ProcessTraffic{{ProcessName: "Safari"}})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no frame for an unsubscribed channel")
}

func TestOriginCheck(t *testing.T) {
	_, srv := startHub(t, "")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.test"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://allowed.test"}})
	require.NoError(t, err)
	conn.Close()
}

func TestTokenRequiredWhenSecretSet(t *testing.T) {
	_, srv := startHub(t, "s3cret")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "menubar",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	require.NoError(t, err)
	conn.Close()

	conn, _, err = websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	conn.Close()
}

func TestClientLeavingBeforeRegisterIsClosed(t *testing.T) {
	hub := NewHub(context.Background(), logger.Nop(), nil)
	go hub.Run()
	defer hub.Stop()

	c := NewClient(hub, nil, logger.Nop())
	hub.unregister <- c
	hub.register <- c
	hub.subscribe <- &Subscription{client: c, channel: domain.WsChannelSpeed}

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.send:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond, "send must be closed so writePump exits")

	// A repeated unregister must not close send twice.
	hub.unregister <- c
	hub.OnSpeedUpdate(domain.SpeedSnapshot{})
}
