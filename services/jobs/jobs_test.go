package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type markerMock struct {
	calls []time.Time
	n     int
	err   error
}

func (m *markerMock) MarkOverdue(_ context.Context, now time.Time) (int, error) {
	m.calls = append(m.calls, now)
	return m.n, m.err
}

type loggerMock struct {
	infos, errs []string
}

func (l *loggerMock) Debug(string, ...interface{})       {}
func (l *loggerMock) Info(msg string, _ ...interface{})  { l.infos = append(l.infos, msg) }
func (l *loggerMock) Warn(string, ...interface{})        {}
func (l *loggerMock) Error(msg string, _ ...interface{}) { l.errs = append(l.errs, msg) }
func (l *loggerMock) Fatal(string, ...interface{})       {}

func TestSweepOverdue(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	tests := []struct {
		name      string
		marker    *markerMock
		wantInfos int
		wantErrs  int
	}{
		{name: "nothing overdue", marker: &markerMock{}},
		{name: "some overdue", marker: &markerMock{n: 2}, wantInfos: 1},
		{name: "store failure", marker: &markerMock{err: errors.New("boom")}, wantErrs: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(loggerMock)
			SweepOverdue(context.Background(), tt.marker, logger)

			require.Len(t, tt.marker.calls, 1)
			assert.Equal(t, now, tt.marker.calls[0])
			assert.Len(t, logger.infos, tt.wantInfos)
			assert.Len(t, logger.errs, tt.wantErrs)
		})
	}
}

func TestStartOverdueSweeper(t *testing.T) {
	t.Run("empty schedule", func(t *testing.T) {
		c, err := StartOverdueSweeper("", new(markerMock), new(loggerMock))
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		c, err := StartOverdueSweeper("every tuesday", new(markerMock), new(loggerMock))
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("valid schedule", func(t *testing.T) {
		c, err := StartOverdueSweeper("0 6 * * *", new(markerMock), new(loggerMock))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Len(t, c.Entries(), 1)
		c.Stop()
	})
}
