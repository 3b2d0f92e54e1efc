package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/task_manager/internal/config"
	"github.com/Skotchmaster/task_manager/internal/db"
	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBroker = errors.New("broker down")

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	return &repo.GormRepo{DB: gdb}
}

func testJWT() config.JWT {
	return config.JWT{
		Secret:     []byte("test-secret"),
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *repo.GormRepo, *recordingPublisher) {
	t.Helper()
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	cfg := testJWT()
	return NewAuthService(r, tokens.NewCodec(cfg.Secret), cfg, pub), r, pub
}
