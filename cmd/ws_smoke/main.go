package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"uno_server/internal/logger"

	"github.com/gorilla/websocket"
)

// Plays the opening of a two-player game against a running server:
// create, join, admit, start, one draw.

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type peer struct {
	name string
	conn *websocket.Conn
	id   string
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	flag.Parse()
	logger.Init("info", false)

	host := dial(*addr, "Alice")
	defer host.conn.Close()
	guest := dial(*addr, "Bob")
	defer guest.conn.Close()

	host.send("createRoom", map[string]any{"playerName": host.name})
	var created struct {
		RoomCode string `json:"roomCode"`
	}
	host.expect("roomCreated", &created)
	logger.Info("room created", "room", created.RoomCode)

	guest.send("joinRoom", map[string]any{"roomCode": created.RoomCode, "playerName": guest.name})
	guest.expect("waitingForApproval", nil)

	var req struct {
		ID string `json:"id"`
	}
	host.expect("newJoinRequest", &req)
	host.send("respondToJoinRequest", map[string]any{"roomCode": created.RoomCode, "playerId": req.ID, "accept": true})
	guest.expect("roomJoined", nil)

	host.send("startGame", map[string]any{"roomCode": created.RoomCode})
	var view struct {
		CurrentPlayerIndex int `json:"currentPlayerIndex"`
		Hand               []struct {
			Color string `json:"color"`
			Value string `json:"value"`
		} `json:"hand"`
		Players []struct {
			ID string `json:"id"`
		} `json:"players"`
		DeckCount int `json:"deckCount"`
	}
	host.expect("gameUpdate", &view)
	guest.expect("gameUpdate", nil)
	logger.Info("game started", "hand", len(view.Hand), "deck", view.DeckCount)

	current := host
	if view.Players[view.CurrentPlayerIndex].ID == guest.id {
		current = guest
	}
	current.send("drawCard", map[string]any{"roomCode": created.RoomCode})
	host.expect("gameUpdate", &view)
	guest.expect("gameUpdate", nil)
	logger.Info("draw ok", "player", current.name, "deck", view.DeckCount)

	fmt.Println("smoke OK")
}

func dial(addr, name string) *peer {
	q := url.Values{}
	if ticket := fetchTicket(addr); ticket != "" {
		q.Set("ticket", ticket)
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws", RawQuery: q.Encode()}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatal("dial failed", "player", name, "error", err)
	}
	p := &peer{name: name, conn: conn}

	var hello struct {
		ConnectionID string `json:"connectionId"`
	}
	p.expect("connected", &hello)
	p.id = hello.ConnectionID
	return p
}

// fetchTicket returns "" when the server runs without tickets.
func fetchTicket(addr string) string {
	res, err := http.Get("http://" + addr + "/api/v1/ticket")
	if err != nil {
		logger.Fatal("ticket request failed", "error", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return ""
	}
	var body struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		logger.Fatal("decode ticket", "error", err)
	}
	return body.Ticket
}

func (p *peer) send(typ string, payload any) {
	if err := p.conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		logger.Fatal("write failed", "player", p.name, "error", err)
	}
}

// expect skips frames until one of type typ arrives and decodes its payload.
func (p *peer) expect(typ string, into any) {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = p.conn.SetReadDeadline(deadline)
		var f frame
		if err := p.conn.ReadJSON(&f); err != nil {
			logger.Fatal("read failed", "player", p.name, "waiting_for", typ, "error", err)
		}
		if f.Type == "error" || f.Type == "sessionError" {
			logger.Fatal("server error", "player", p.name, "payload", string(f.Payload))
		}
		if f.Type != typ {
			continue
		}
		if into != nil {
			if err := json.Unmarshal(f.Payload, into); err != nil {
				logger.Fatal("decode failed", "type", typ, "error", err)
			}
		}
		return
	}
	logger.Fatal("timed out", "player", p.name, "waiting_for", typ)
}
