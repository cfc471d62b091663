package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderKeepsOrder(t *testing.T) {
	var rec Recorder
	Logf(&rec, Info, "reading %s", "guide.pdf")
	Logf(&rec, Match, "PO-%d", 1)
	Logf(&rec, Missing, "PO-%d", 2)

	entries := rec.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Category: Info, Message: "reading guide.pdf"}, entries[0])
	assert.Equal(t, Match, entries[1].Category)
	assert.Equal(t, "missing: PO-2", entries[2].String())

	assert.Equal(t, 1, rec.Count(Missing))
	assert.Empty(t, rec.Filter(Fatal))
}

func TestRecorderConcurrentEmit(t *testing.T) {
	var rec Recorder
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Logf(&rec, Info, "line %d", j)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, rec.Entries(), 400)
}

func TestSinkFuncAndMulti(t *testing.T) {
	var got []string
	fn := SinkFunc(func(e Entry) { got = append(got, e.Message) })
	var rec Recorder

	sink := Multi(fn, nil, &rec, Discard)
	Logf(sink, Extra, "PO-9")
	Logf(nil, Extra, "ignored")

	assert.Equal(t, []string{"PO-9"}, got)
	assert.Equal(t, 1, rec.Count(Extra))
}

func TestConsolePlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Emit(Entry{Category: Warning, Message: "page 3: label detected but identifier unreadable"})
	c.Emit(Entry{Category: Match, Message: "PO-1"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[WARNING] page 3: label detected but identifier unreadable", lines[0])
	assert.Equal(t, "[MATCH  ] PO-1", lines[1])
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sink := Slog(logger)
	sink.Emit(Entry{Category: Missing, Message: "PO-2"})
	sink.Emit(Entry{Category: Fatal, Message: "boom"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "category=missing")
	assert.Contains(t, out, "level=ERROR")

	assert.Equal(t, Discard, Slog(nil))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Level(Match))
	assert.Equal(t, slog.LevelInfo, Level(Extra))
	assert.Equal(t, slog.LevelWarn, Level(Warning))
	assert.Equal(t, slog.LevelError, Level(Fatal))
}
