package gameroom

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type emitted struct {
	Target  string
	Group   bool
	Event   string
	Payload any
}

// fakeBroadcaster grava tudo o que a sala emite.
type fakeBroadcaster struct {
	mu      sync.Mutex
	events  []emitted
	groups  map[string][]string
	dropped []string
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{groups: make(map[string][]string)}
}

func (f *fakeBroadcaster) Emit(connID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{Target: connID, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) EmitGroup(group, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{Target: group, Group: true, Event: event, Payload: payload})
}

func (f *fakeBroadcaster) JoinGroup(group string, connIDs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[group] = append(f.groups[group], connIDs...)
}

func (f *fakeBroadcaster) DropGroup(group string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.groups, group)
	f.dropped = append(f.dropped, group)
}

func (f *fakeBroadcaster) find(target, event string) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emitted
	for _, e := range f.events {
		if e.Target == target && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeBroadcaster) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (f *fakeBroadcaster) members(group string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.groups[group]...)
}

func (f *fakeBroadcaster) wasDropped(group string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.dropped {
		if g == group {
			return true
		}
	}
	return false
}

// Intervalos longos por padrão, para que nenhum timer dispare sem o teste pedir.
func testSettings() Settings {
	return Settings{QuestionCount: 10, SyncInterval: time.Hour, GraceDelay: time.Hour}
}

func newTestManager(t *testing.T, settings Settings, opts ...Option) (*RoomManager, *fakeBroadcaster) {
	t.Helper()
	out := newFakeBroadcaster()
	rm := NewRoomManager(settings, out, zaptest.NewLogger(t).Sugar(), opts...)
	t.Cleanup(rm.Close)
	return rm, out
}

var (
	alice = Player{ConnID: "conn-a", UserID: "alice"}
	bob   = Player{ConnID: "conn-b", UserID: "bob"}
)
