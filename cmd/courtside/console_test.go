package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/courtside"
	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/event"
)

func TestConsole_Run(t *testing.T) {
	srv, err := courtside.New(courtside.WithClock(clock.NewManual(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))))
	require.NoError(t, err)
	defer srv.Close()

	out := &bytes.Buffer{}
	c := newConsole(srv, "default", out)
	script := strings.Join([]string{
		"request doubles Alice & Bob",
		"start 2 singles 30 Carol",
		"join singles Dan",
		"edit 2 45",
		"status",
		"end 1",
		"bogus",
		"quit",
		"status",
	}, "\n")
	c.Run(context.Background(), strings.NewReader(script))

	text := out.String()
	assert.Contains(t, text, "court 1: Alice & Bob until 20:00")
	assert.Contains(t, text, "court 2: Carol until 18:30")
	assert.Contains(t, text, "queued Dan as ")
	assert.Contains(t, text, "court 2: Carol singles until 18:45")
	assert.Contains(t, text, "court 1  normal")
	assert.Contains(t, text, "1. Dan (singles)")
	assert.Contains(t, text, "court 1 released by Alice & Bob")
	assert.Contains(t, text, `error: unknown command "bogus"`)
	assert.Equal(t, 1, strings.Count(text, "default at 18:00:00"))
}

func TestParseOccupants(t *testing.T) {
	testCases := []struct {
		input  string
		expect court.Occupants
		err    bool
	}{
		{input: "singles", expect: court.Singles},
		{input: "D", expect: court.Doubles},
		{input: "4", expect: court.Doubles},
		{input: "triples", err: true},
	}
	for _, testCase := range testCases {
		actual, err := parseOccupants(testCase.input)
		if testCase.err {
			assert.Error(t, err, testCase.input)
			continue
		}
		assert.Equal(t, testCase.expect, actual, testCase.input)
	}
}

func TestDescribeChange(t *testing.T) {
	testCases := []struct {
		description string
		change      event.Changed
		expect      string
	}{
		{
			description: "expired offer",
			change:      event.Changed{Location: "park", Kind: event.OfferAbandoned, Court: 2, Label: "Dan", Reason: "offer expired"},
			expect:      "park court 2 offer to Dan closed: offer expired",
		},
		{description: "reset", change: event.Changed{Location: "park", Kind: event.LocationReset}, expect: "park reset"},
		{description: "partial reset", change: event.Changed{Location: "park", Kind: event.LocationReset, Reason: "incomplete"}, expect: "park reset incomplete, run reset again"},
		{description: "routine change", change: event.Changed{Location: "park", Kind: event.SessionStarted, Court: 1}},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, describeChange(testCase.change), testCase.description)
	}
}
