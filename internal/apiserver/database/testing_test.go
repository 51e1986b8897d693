package database

import (
	"sync"
	"testing"
	"time"

	"github.com/amoylab/tenantly/internal/common/config"
	"github.com/stretchr/testify/require"
)

// stepClock returns strictly increasing timestamps
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
