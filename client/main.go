// Command client is a terminal probe for the room server: it creates or
// joins a room, enters as a named player, and drives the button game
// from stdin.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	server = flag.String("server", "localhost:8080", "server host:port")
	roomID = flag.String("room", "", "room id to join (created when empty)")
	name   = flag.String("name", "player", "player name")
)

func createRoom(host string) (string, error) {
	resp, err := http.Post(fmt.Sprintf("http://%s/api/rooms", host), "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.RoomID, nil
}

func send(c *websocket.Conn, message map[string]any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

func main() {
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	room := *roomID
	if room == "" {
		var err error
		room, err = createRoom(*server)
		if err != nil {
			log.Fatalf("Create room failed: %v", err)
		}
		log.Printf("Created room %s", room)
	}

	playerID := uuid.New().String()
	u := url.URL{
		Scheme:   "ws",
		Host:     *server,
		Path:     "/api/rooms/" + room,
		RawQuery: "playerId=" + url.QueryEscape(playerID),
	}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	// Heartbeat loop keeps idle connections warm.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				send(c, map[string]any{"type": "HEARTBEAT"})
			}
		}
	}()

	if err := send(c, map[string]any{
		"type":   "ADD_PLAYER",
		"player": map[string]any{"name": *name},
	}); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	log.Println("Commands: new | push | leave | quit")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			switch strings.TrimSpace(text) {
			case "new":
				send(c, map[string]any{"type": "NEW_GAME", "game": "button"})
			case "push":
				send(c, map[string]any{"type": "PUSH_BUTTON"})
			case "leave":
				send(c, map[string]any{"type": "REMOVE_PLAYER"})
			case "quit":
				return
			}
		}
	}
}
