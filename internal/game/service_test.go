package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memPersist struct {
	mu sync.Mutex
	m  map[string]RoomSnapshot
}

func (p *memPersist) Save(ctx context.Context, code string, snap RoomSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]RoomSnapshot)
	}
	p.m[code] = snap
	return nil
}

func (p *memPersist) Load(ctx context.Context, code string) (RoomSnapshot, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.m[code]
	return snap, ok, nil
}

// waitPersisted blocks until the store holds a snapshot at least as new
// as the room's current version. Saves run on a background worker, so
// restart-style tests have to sync on the store before reloading.
func waitPersisted(t *testing.T, p RoomPersistence, r *Room) {
	t.Helper()
	r.mu.Lock()
	want := r.version
	r.mu.Unlock()
	code := r.Code()
	require.Eventually(t, func() bool {
		snap, ok, err := p.Load(context.Background(), code)
		return err == nil && ok && snap.Version >= want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestService_CreateAssignsCodeAndPersists(t *testing.T) {
	persist := &memPersist{}
	svc := NewRoomService(DefaultConfig(), persist, nil)

	r, err := svc.Create(context.Background(), GameCipher)
	require.NoError(t, err)

	code := r.Code()
	if len(code) != 4 {
		t.Fatalf("code=%q want 4 letters", code)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			t.Fatalf("code=%q contains non A-Z rune", code)
		}
	}
	if _, ok, _ := persist.Load(context.Background(), code); !ok {
		t.Fatalf("initial snapshot not persisted")
	}
}

func TestService_GetOrLoadReturnsLiveInstance(t *testing.T) {
	persist := &memPersist{}
	svc := NewRoomService(DefaultConfig(), persist, nil)

	r, err := svc.Create(context.Background(), GameCipher)
	require.NoError(t, err)

	got, err := svc.GetOrLoad(context.Background(), r.Code())
	require.NoError(t, err)
	if got != r {
		t.Fatalf("expected the same in-memory room instance")
	}

	_, err = svc.GetOrLoad(context.Background(), "ZZZZ")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestService_RestoreFromSnapshotAfterRestart(t *testing.T) {
	ctx := context.Background()
	persist := &memPersist{}

	svc1 := NewRoomService(DefaultConfig(), persist, nil)
	r, err := svc1.Create(ctx, GameCipher)
	require.NoError(t, err)
	code := r.Code()

	joinTeams(r, "p1", "p2", "p3", "p4")
	require.NoError(t, r.StartGame("p1"))
	waitPersisted(t, persist, r)

	// a second service over the same persistence simulates a restart
	svc2 := NewRoomService(DefaultConfig(), persist, nil)
	restored, err := svc2.GetOrLoad(ctx, code)
	require.NoError(t, err)
	if restored == r {
		t.Fatalf("expected a restored instance, not the old pointer")
	}

	restored.mu.Lock()
	defer restored.mu.Unlock()
	if restored.status != StatusPlaying {
		t.Fatalf("status=%s want playing", restored.status)
	}
	if len(restored.players) != 4 {
		t.Fatalf("players=%d want 4", len(restored.players))
	}
	if restored.turnDescriber == "" || len(restored.currentWords) == 0 {
		t.Fatalf("turn state lost in restore")
	}
}

func TestService_RestoreRearmsSurvivingDeadline(t *testing.T) {
	ctx := context.Background()
	persist := &memPersist{}

	svc1 := NewRoomService(DefaultConfig(), persist, nil)
	r, err := svc1.Create(ctx, GameWavelength)
	require.NoError(t, err)
	code := r.Code()

	joinTeams(r, "p1", "p2", "p3", "p4")
	require.NoError(t, r.StartGame("p1")) // arms the round deadline
	waitPersisted(t, persist, r)

	svc2 := NewRoomService(DefaultConfig(), persist, nil)
	restored, err := svc2.GetOrLoad(ctx, code)
	require.NoError(t, err)

	restored.mu.Lock()
	defer restored.mu.Unlock()
	if restored.turnEndTime.IsZero() {
		t.Fatalf("deadline lost in restore")
	}
	if restored.phaseTimer == nil {
		t.Fatalf("timer not re-armed for the surviving deadline")
	}
}

func TestService_ConcurrentLoadSharesOneInstance(t *testing.T) {
	ctx := context.Background()
	persist := &memPersist{}

	svc1 := NewRoomService(DefaultConfig(), persist, nil)
	r, err := svc1.Create(ctx, GameWavelength)
	require.NoError(t, err)
	code := r.Code()

	joinTeams(r, "p1", "p2", "p3", "p4")
	require.NoError(t, r.StartGame("p1"))
	waitPersisted(t, persist, r)

	// age the deadline past expiry so the reload fires it immediately
	snap, ok, err := persist.Load(ctx, code)
	require.NoError(t, err)
	require.True(t, ok)
	snap.TurnEndMs = time.Now().Add(-time.Second).UnixMilli()
	require.NoError(t, persist.Save(ctx, code, snap))

	svc2 := NewRoomService(DefaultConfig(), persist, nil)

	start := make(chan struct{})
	loaded := make([]*Room, 2)
	var wg sync.WaitGroup
	for i := range loaded {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			got, err := svc2.GetOrLoad(ctx, code)
			if err != nil {
				t.Errorf("load %d: %v", i, err)
				return
			}
			loaded[i] = got
		}(i)
	}
	close(start)
	wg.Wait()

	require.Same(t, loaded[0], loaded[1], "racing loads must converge on one arbiter")
	svc2.mu.Lock()
	require.Len(t, svc2.in, 1)
	svc2.mu.Unlock()

	// only the registered instance owns a timer, so the expired
	// deadline reveals the round exactly once
	require.Eventually(t, func() bool {
		loaded[0].mu.Lock()
		defer loaded[0].mu.Unlock()
		return loaded[0].wavelength != nil && loaded[0].wavelength.Revealed
	}, 2*time.Second, 5*time.Millisecond)
}

// gatedPersist lets the first save through (room creation) and parks
// every later one until released.
type gatedPersist struct {
	memPersist
	gateMu  sync.Mutex
	saves   int
	release chan struct{}
}

func (p *gatedPersist) Save(ctx context.Context, code string, snap RoomSnapshot) error {
	p.gateMu.Lock()
	p.saves++
	n := p.saves
	p.gateMu.Unlock()
	if n > 1 {
		<-p.release
	}
	return p.memPersist.Save(ctx, code, snap)
}

func TestService_SlowSnapshotStoreDoesNotStallRoom(t *testing.T) {
	persist := &gatedPersist{release: make(chan struct{})}
	defer close(persist.release)

	svc := NewRoomService(DefaultConfig(), persist, nil)
	r, err := svc.Create(context.Background(), GameCipher)
	require.NoError(t, err)

	r.Join("p1", "Alice") // its save parks on the gate

	done := make(chan error, 1)
	go func() { done <- r.JoinTeam("p1", TeamNeon) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("transition blocked behind a stalled snapshot save")
	}
}

func TestService_HooksFireOnRestoredRooms(t *testing.T) {
	ctx := context.Background()
	persist := &memPersist{}

	svc1 := NewRoomService(DefaultConfig(), persist, nil)
	r, err := svc1.Create(ctx, GameCipher)
	require.NoError(t, err)
	r.Join("p1", "Alice")
	waitPersisted(t, persist, r)

	svc2 := NewRoomService(DefaultConfig(), persist, nil)
	var mu sync.Mutex
	var gotMsgs []MessageRecord
	svc2.SetMessageHook(func(m MessageRecord) {
		mu.Lock()
		gotMsgs = append(gotMsgs, m)
		mu.Unlock()
	})

	restored, err := svc2.GetOrLoad(ctx, r.Code())
	require.NoError(t, err)

	require.NoError(t, restored.SendChat("p1", "hello"))
	mu.Lock()
	defer mu.Unlock()
	if len(gotMsgs) == 0 {
		t.Fatalf("message hook not wired on the restored room")
	}
	if gotMsgs[len(gotMsgs)-1].RoomCode != r.Code() {
		t.Fatalf("hook saw room %q want %q", gotMsgs[len(gotMsgs)-1].RoomCode, r.Code())
	}
}
