package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"kerek/domain"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
)

// Minimal terminal client: stdin lines are posted to the room, incoming
// messages are printed as they arrive.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Client terminated with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if !config.Colours {
		color.Disable()
	}

	endpoint := fmt.Sprintf("%s/rooms/%s?token=%s",
		strings.TrimRight(config.RelayURL, "/"),
		url.PathEscape(config.RoomID),
		url.QueryEscape(config.Token))
	conn, resp, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("handshake refused with %s: %w", resp.Status, err)
		}
		return err
	}
	defer conn.Close()
	color.Green.Printf("Connected to room %s\n", config.RoomID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readDone := make(chan error, 1)
	go func() { readDone <- printMessages(conn) }()

	lines := make(chan string)
	go scanLines(lines)

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(time.Second))
			return nil
		case err := <-readDone:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				color.Yellow.Println("Connection closed by relay")
				return nil
			}
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			frame, err := json.Marshal(domain.IncomingFrame{Content: line, RoomID: domain.RoomID(config.RoomID)})
			if err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return err
			}
		}
	}
}

func printMessages(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var message domain.Message
		if err := json.Unmarshal(data, &message); err != nil {
			color.Red.Printf("Unreadable frame: %s\n", data)
			continue
		}
		at := time.Unix(message.CreatedAt, 0).Format("15:04:05")
		fmt.Printf("%s %s %s\n",
			color.Gray.Render(at),
			color.Cyan.Render(string(message.SenderID)),
			message.Content)
	}
}

func scanLines(lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}
