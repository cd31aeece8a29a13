package gormlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

// capture points the global logger at a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	return &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}

	return out
}

func statement() (string, int64) {
	return "SELECT * FROM users", 1
}

func TestTrace(t *testing.T) {
	testCases := []struct {
		name          string
		sqlLevel      string
		begin         time.Time
		err           error
		expectedLevel string
	}{
		{name: "silenced sql", sqlLevel: "", begin: time.Now()},
		{name: "sql at debug", sqlLevel: "debug", begin: time.Now(), expectedLevel: "debug"},
		{name: "record not found is not an error", sqlLevel: "", begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "error", sqlLevel: "", begin: time.Now(), err: errors.New("constraint failed"), expectedLevel: "error"}, //nolint:goerr113
		{name: "slow", sqlLevel: "", begin: time.Now().Add(-time.Second), expectedLevel: "warn"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t)

			New(tc.sqlLevel).Trace(context.Background(), tc.begin, statement, tc.err)

			got := entries(t, buf)
			if tc.expectedLevel == "" {
				assert.Empty(t, got)
				return
			}

			require.Len(t, got, 1)
			assert.Equal(t, tc.expectedLevel, got[0]["level"])
			assert.Equal(t, "SELECT * FROM users", got[0]["sql"])
			assert.Equal(t, "gorm", got[0]["component"])
		})
	}
}

func TestLogMode(t *testing.T) {
	buf := capture(t)

	l := New("debug")
	silent := l.LogMode(gormlogger.Silent)

	silent.Trace(context.Background(), time.Now(), statement, errors.New("ignored")) //nolint:goerr113
	silent.Error(context.Background(), "ignored %d", 1)
	assert.Empty(t, entries(t, buf))

	l.Warn(context.Background(), "deprecated %s", "thing")
	l.Info(context.Background(), "hello %s", "gorm")

	got := entries(t, buf)
	require.Len(t, got, 2)
	assert.Equal(t, "deprecated thing", got[0]["message"])
	assert.Equal(t, "hello gorm", got[1]["message"])
}
