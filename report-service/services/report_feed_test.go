package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motri-backend/shared/config"
	utils "motri-backend/shared/utils/auth"
)

func newFeedServer(t *testing.T) (*ReportFeed, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	feed := NewReportFeed(config.GetConfig())
	router := gin.New()
	router.GET("/ws", feed.HandleConnection)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return feed, server
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestFeedRejectsMissingToken(t *testing.T) {
	_, server := newFeedServer(t)

	resp, err := http.Get(server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeedRejectsBadToken(t *testing.T) {
	_, server := newFeedServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeedDeliversBroadcastEvents(t *testing.T) {
	feed, server := newFeedServer(t)

	token, err := utils.GenerateJWT(uuid.New(), "director@example.com")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	sent := &FeedEvent{Type: FeedEventReportDeleted, ReportID: uuid.New().String(), Timestamp: time.Now()}
	feed.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received FeedEvent
	require.NoError(t, conn.ReadJSON(&received))
	assert.Equal(t, FeedEventReportDeleted, received.Type)
	assert.Equal(t, sent.ReportID, received.ReportID)
}

func TestFeedNewConnectionReplacesOld(t *testing.T) {
	feed, server := newFeedServer(t)

	directorID := uuid.New()
	token, err := utils.GenerateJWT(directorID, "director@example.com")
	require.NoError(t, err)

	first, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer first.Close()

	require.Eventually(t, func() bool {
		return feed.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	second, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer second.Close()

	// same director: the map never grows past one entry
	assert.Never(t, func() bool {
		return feed.ClientCount() > 1
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestFeedBroadcastNeverBlocks(t *testing.T) {
	feed := NewReportFeed(config.GetConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			feed.Broadcast(&FeedEvent{Type: FeedEventReportCreated, Timestamp: time.Now()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with no connected clients")
	}
}
