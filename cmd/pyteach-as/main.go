// A minimal AS client: register with the relay, send one task to the
// host pages, and wait for the one-shot reply addressed back to this
// client's room.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Linnore/PyTeach/internal/config"
	"github.com/Linnore/PyTeach/internal/relay"
	"github.com/Linnore/PyTeach/pkg/protocol"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv load skipped: %v", err)
	}
	cfg := config.LoadFromEnv()

	var (
		sourceID = flag.String("id", "1", "AS source id (determines the reply room)")
		task     = flag.String("task", protocol.TaskGetActiveCellContent, "task to send")
		content  = flag.String("content", "", "newContent for writeContentToCell")
		timeout  = flag.Duration("timeout", 30*time.Second, "how long to wait for the reply")
		relayURL = flag.String("relay", cfg.Clients.RelayURL, "relay websocket URL")
	)
	flag.Parse()

	if !protocol.KnownTask(*task) {
		return fmt.Errorf("unknown task %q", *task)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := relay.Dial(ctx, *relayURL)
	if err != nil {
		return fmt.Errorf("relay dial failed: %w", err)
	}
	defer client.Close()

	replyCh := make(chan protocol.Envelope, 1)
	client.On(protocol.EventFromSocketToAS, func(data json.RawMessage) {
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("malformed reply dropped: %v", err)
			return
		}
		select {
		case replyCh <- env:
		default:
		}
	})
	client.On(protocol.EventReplyError, func(data json.RawMessage) {
		log.Printf("relay error: %s", data)
	})

	if err := client.Register(protocol.SourceTypeAS, *sourceID); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}

	cmd := protocol.Envelope{
		Type:       protocol.TypeASToSocket,
		Task:       *task,
		SourceType: protocol.SourceTypeAS,
		SourceID:   *sourceID,
	}
	if *content != "" {
		cmd.Set("newContent", *content)
	}
	if err := client.Emit(protocol.EventFromASToSocket, cmd); err != nil {
		return fmt.Errorf("emit failed: %w", err)
	}
	log.Printf("sent %s as AS%s, waiting for reply", *task, *sourceID)

	select {
	case reply := <-replyCh:
		out, err := json.MarshalIndent(reply, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	case <-client.Done():
		return fmt.Errorf("relay connection closed before a reply arrived")
	case <-ctx.Done():
		return fmt.Errorf("no reply within %v", *timeout)
	}
}
