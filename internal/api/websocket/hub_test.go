package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"
)

// dialTestConn establishes a real upgraded connection so client.conn has a
// working RemoteAddr. The server side drains until the client hangs up.
func dialTestConn(t *testing.T) *gorillaws.Conn {
	t.Helper()

	up := gorillaws.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastEvictsSlowClientSafely(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t), nil)
	go hub.Run()

	client := &Client{
		hub:  hub,
		conn: dialTestConn(t),
		// Unbuffered and never drained, so every broadcast finds it slow.
		send:   make(chan []byte),
		logger: hub.logger,
	}
	hub.register <- client

	deadline := time.After(2 * time.Second)
	for hub.GetClientCount() != 1 {
		select {
		case <-deadline:
			t.Fatal("client never registered")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Hammer the read path while the broadcast loop evicts the client.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.GetClientCount()
			}
		}
	}()

	hub.Broadcast(NewSystemStatusMessage("running", 1, 1))

	for hub.GetClientCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("slow client was not evicted")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel left open after eviction")
	}
}
