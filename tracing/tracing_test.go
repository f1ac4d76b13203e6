package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "spans.txt")
	if !assert.NoError(t, Init("courtside", "0.0.1", fname)) {
		return
	}

	ctx, span := StartSpan(context.Background(), "allocator.EndSession", KindInternal)
	span.WithAttributes(map[string]string{"location": "park"}).WithInt("court", 2)
	_, child := StartSpan(ctx, "lifecycle.End", KindInternal)
	EndSpan(child, errors.New("session not found"))
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	assert.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, "allocator.EndSession"))
	assert.True(t, strings.Contains(content, "session not found"))
	assert.NoError(t, Shutdown(context.Background()))
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.Nil(t, span.WithAttributes(map[string]string{"k": "v"}))
	span.SetStatus(nil)
	EndSpan(nil, nil)
}
