// Command courtside runs a console coordinator for the configured locations.
//
// It loads .env (when present), reads the config named by -config or
// COURTSIDE_CONFIG, starts the expiry scheduler of every location and then
// reads commands from stdin until EOF or "quit".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/viant/courtside"
	"github.com/viant/courtside/service/event"
	"github.com/viant/courtside/tracing"
)

func main() {
	_ = godotenv.Load()

	configURL := flag.String("config", os.Getenv("COURTSIDE_CONFIG"), "config URL (file path or any afs URL)")
	location := flag.String("location", "", "initial location, defaults to the first configured one")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := courtside.LoadConfig(ctx, *configURL)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Tracing.Enabled {
		if err := tracing.Init(cfg.Tracing.ServiceName, "", cfg.Tracing.Output); err != nil {
			log.Fatalf("tracing error: %v", err)
		}
		defer func() { _ = tracing.Shutdown(context.Background()) }()
	}

	srv, err := courtside.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("service error: %v", err)
	}
	defer srv.Close()

	if err := logEvents(srv.Events()); err != nil {
		log.Fatalf("event listener error: %v", err)
	}
	for _, name := range srv.Locations() {
		stop, err := srv.Watch(ctx, name)
		if err != nil {
			log.Fatalf("watch %s: %v", name, err)
		}
		defer stop()
	}

	current := *location
	if current == "" {
		current = srv.Locations()[0]
	}
	console := newConsole(srv, current, os.Stdout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		console.Run(ctx, os.Stdin)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
	log.Printf("[courtside] shutting down")
}

func logEvents(events *event.Service) error {
	if err := event.SetListenerOf(events, func(e *event.Event[event.Expired]) {
		if e.Data.Released {
			log.Printf("[courtside] %s court %d expired, released from %s", e.Data.Location, e.Data.Court, e.Data.Label)
			return
		}
		log.Printf("[courtside] %s court %d is in overtime (%s)", e.Data.Location, e.Data.Court, e.Data.Label)
	}); err != nil {
		return err
	}
	if err := event.SetListenerOf(events, func(e *event.Event[event.Offered]) {
		log.Printf("[courtside] %s court %d offered to %s, confirm %s", e.Data.Location, e.Data.Court, e.Data.Label, e.Data.OfferID)
	}); err != nil {
		return err
	}
	return event.SetListenerOf(events, func(e *event.Event[event.Changed]) {
		if line := describeChange(e.Data); line != "" {
			log.Printf("[courtside] %s", line)
		}
	})
}

// describeChange renders the changes an operator may miss at the console:
// offers that lapsed or were given up.
func describeChange(change event.Changed) string {
	switch change.Kind {
	case event.OfferAbandoned:
		return fmt.Sprintf("%s court %d offer to %s closed: %s", change.Location, change.Court, change.Label, change.Reason)
	case event.LocationReset:
		if change.Reason != "" {
			return fmt.Sprintf("%s reset %s, run reset again", change.Location, change.Reason)
		}
		return fmt.Sprintf("%s reset", change.Location)
	}
	return ""
}
