package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/viant/courtside"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/allocator"
	"github.com/viant/courtside/service/evaluator"
)

const usage = `commands:
  status                         courts, offers and queue
  request <singles|doubles> <label>
  start <court> <singles|doubles> [minutes] <label>
  claim <entry> <court>          start the eligible head on a court
  edit <court> [singles|doubles] [minutes]
  end <court>
  join <singles|doubles> <label>
  leave <entry>
  confirm <offer>
  abandon <offer>
  reset
  use <location>
  quit`

type console struct {
	srv      *courtside.Service
	location string
	out      io.Writer
}

func newConsole(srv *courtside.Service, location string, out io.Writer) *console {
	return &console{srv: srv, location: location, out: out}
}

// Run executes one command per line until EOF, "quit" or ctx is done.
func (c *console) Run(ctx context.Context, in io.Reader) {
	fmt.Fprintln(c.out, usage)
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if err := c.Exec(ctx, line); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (c *console) Exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	if args[0] == "use" {
		if len(args) != 2 {
			return fmt.Errorf("usage: use <location>")
		}
		if _, err := c.srv.Location(ctx, args[1]); err != nil {
			return err
		}
		c.location = args[1]
		fmt.Fprintf(c.out, "using %s\n", c.location)
		return nil
	}
	location, err := c.srv.Location(ctx, c.location)
	if err != nil {
		return err
	}
	switch args[0] {
	case "status":
		return c.status(ctx, location)
	case "request":
		occupants, label, err := occupantsAndLabel(args[1:])
		if err != nil {
			return err
		}
		result, err := location.Request(ctx, occupants, label)
		if err != nil {
			return err
		}
		if result.Session != nil {
			fmt.Fprintf(c.out, "court %d: %s until %s\n", result.Session.Court, result.Session.Label, result.Session.EndsAt().Format("15:04"))
			return nil
		}
		fmt.Fprintf(c.out, "queued %s as %s\n", result.Entry.Label, result.Entry.ID)
		return nil
	case "start":
		if len(args) < 4 {
			return fmt.Errorf("usage: start <court> <singles|doubles> [minutes] <label>")
		}
		courtNo, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid court %q", args[1])
		}
		occupants, err := parseOccupants(args[2])
		if err != nil {
			return err
		}
		request := allocator.StartRequest{Court: courtNo, Occupants: occupants}
		rest := args[3:]
		if minutes, err := strconv.Atoi(rest[0]); err == nil && len(rest) > 1 {
			d := time.Duration(minutes) * time.Minute
			request.Duration = &d
			rest = rest[1:]
		}
		request.Label = strings.Join(rest, " ")
		session, err := location.StartSession(ctx, request)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "court %d: %s until %s\n", session.Court, session.Label, session.EndsAt().Format("15:04"))
		return nil
	case "claim":
		if len(args) != 3 {
			return fmt.Errorf("usage: claim <entry> <court>")
		}
		courtNo, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid court %q", args[2])
		}
		session, err := location.StartSession(ctx, allocator.StartRequest{Court: courtNo, EntryID: args[1]})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "court %d: %s until %s\n", session.Court, session.Label, session.EndsAt().Format("15:04"))
		return nil
	case "edit":
		return c.edit(ctx, location, args[1:])
	case "end":
		if len(args) != 2 {
			return fmt.Errorf("usage: end <court>")
		}
		courtNo, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid court %q", args[1])
		}
		session, err := location.EndSession(ctx, courtNo)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "court %d released by %s\n", session.Court, session.Label)
		return nil
	case "join":
		occupants, label, err := occupantsAndLabel(args[1:])
		if err != nil {
			return err
		}
		entry, err := location.JoinQueue(ctx, occupants, label)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "queued %s as %s\n", entry.Label, entry.ID)
		return nil
	case "leave":
		if len(args) != 2 {
			return fmt.Errorf("usage: leave <entry>")
		}
		entry, err := location.WithdrawFromQueue(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s left the queue\n", entry.Label)
		return nil
	case "confirm":
		if len(args) != 2 {
			return fmt.Errorf("usage: confirm <offer>")
		}
		session, err := location.Confirm(ctx, args[1], allocator.ConfirmRequest{})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "court %d: %s until %s\n", session.Court, session.Label, session.EndsAt().Format("15:04"))
		return nil
	case "abandon":
		if len(args) != 2 {
			return fmt.Errorf("usage: abandon <offer>")
		}
		offer, err := location.Abandon(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "offer of court %d to %s abandoned\n", offer.Court, offer.Entry.Label)
		return nil
	case "reset":
		if err := location.ResetAll(ctx); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s reset\n", c.location)
		return nil
	case "help":
		fmt.Fprintln(c.out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q, try help", args[0])
}

func (c *console) edit(ctx context.Context, location *allocator.Service, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <court> [singles|doubles] [minutes]")
	}
	courtNo, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid court %q", args[0])
	}
	var edit court.SessionEdit
	for _, arg := range args[1:] {
		if minutes, err := strconv.Atoi(arg); err == nil {
			d := time.Duration(minutes) * time.Minute
			edit.Duration = &d
			continue
		}
		occupants, err := parseOccupants(arg)
		if err != nil {
			return err
		}
		edit.Occupants = &occupants
	}
	session, err := location.EditSession(ctx, courtNo, edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "court %d: %s %s until %s\n", session.Court, session.Label, session.Occupants, session.EndsAt().Format("15:04"))
	return nil
}

func (c *console) status(ctx context.Context, location *allocator.Service) error {
	snapshot, err := location.Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s at %s, %d free\n", snapshot.Location, snapshot.At.Format("15:04:05"), snapshot.Free)
	for _, state := range snapshot.Courts {
		switch {
		case state.Session != nil:
			remaining := evaluator.FormatTime(evaluator.Seconds(state.Status.Remaining), snapshot.Model)
			fmt.Fprintf(c.out, "  court %d  %-9s %-24s %s\n", state.Number, state.Status.Tier, state.Session.Label, remaining)
		case state.Reserved:
			fmt.Fprintf(c.out, "  court %d  reserved\n", state.Number)
		default:
			fmt.Fprintf(c.out, "  court %d  available\n", state.Number)
		}
	}
	for _, offer := range snapshot.Offers {
		fmt.Fprintf(c.out, "  offer %s: court %d to %s\n", offer.ID, offer.Court, offer.Entry.Label)
	}
	for i, entry := range snapshot.Queue {
		line := fmt.Sprintf("  %d. %s (%s) %s", i+1, entry.Label, entry.Occupants, entry.ID)
		if entry.IsNext {
			line += " next"
		}
		if entry.ExpectedStart != nil {
			line += fmt.Sprintf(" ~%s on court %d", entry.ExpectedStart.Format("15:04"), entry.ExpectedCourt)
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

func occupantsAndLabel(args []string) (court.Occupants, string, error) {
	if len(args) < 2 {
		return 0, "", fmt.Errorf("expected <singles|doubles> <label>")
	}
	occupants, err := parseOccupants(args[0])
	if err != nil {
		return 0, "", err
	}
	return occupants, strings.Join(args[1:], " "), nil
}

func parseOccupants(value string) (court.Occupants, error) {
	switch strings.ToLower(value) {
	case "singles", "s", "2":
		return court.Singles, nil
	case "doubles", "d", "4":
		return court.Doubles, nil
	}
	return 0, fmt.Errorf("invalid occupants %q, expected singles or doubles", value)
}
