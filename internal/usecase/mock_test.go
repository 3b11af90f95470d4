//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/infra/sched"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// -----------------------------
// Repositories
// -----------------------------

// memGroupRepo is a small in-memory GroupRepository used by unit tests.
type memGroupRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.Group
	saveErr error // simulate store write failures
	findErr error // simulate store read failures

	saveCalls int
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{store: make(map[int64]*model.Group)}
}

func (m *memGroupRepo) Save(ctx context.Context, g *model.Group) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	cp := *g
	m.store[g.ChatID] = &cp
	return nil
}

func (m *memGroupRepo) FindByChatID(ctx context.Context, chatID int64) (*model.Group, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.store[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGroupRepo) Destination(ctx context.Context) (int64, error) {
	if m.findErr != nil {
		return 0, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var (
		dest  int64
		found bool
		best  time.Time
	)
	for id, g := range m.store {
		if !found || g.RegisteredAt.After(best) {
			dest, best, found = id, g.RegisteredAt, true
		}
	}
	if !found {
		return 0, domain.ErrNoGroupRegistered
	}
	return dest, nil
}

func (m *memGroupRepo) ListActivatedIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int64
	for id, g := range m.store {
		if g.Activated {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// memUserRepo is the UserRepository counterpart.
type memUserRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.PrivateUser
	saveErr error
	findErr error

	saveCalls int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.PrivateUser)}
}

func (m *memUserRepo) Save(ctx context.Context, u *model.PrivateUser) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	cp := *u
	m.store[u.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.PrivateUser, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int64
	for id := range m.store {
		ids = append(ids, id)
	}
	return ids, nil
}

// -----------------------------
// Platform adapter
// -----------------------------

type sentMessage struct {
	Kind    string // text|photo|video
	ChatID  int64
	Text    string // text or caption
	FileID  string
	MsgID   int
	Deleted bool
}

type deletedMessage struct {
	ChatID int64
	MsgID  int
}

// MockBot records outbound traffic and hands out increasing message
// ids. Behavior is overridable per method.
type MockBot struct {
	mu      sync.Mutex
	Sent    []sentMessage
	Removed []deletedMessage
	Roles   map[int64]string // userID -> role, default "member"

	nextMsgID int

	SendTextFunc       func(ctx context.Context, chatID int64, text string) (int, error)
	DeleteMessageFunc  func(ctx context.Context, chatID int64, messageID int) error
	ChatMemberRoleFunc func(ctx context.Context, chatID, userID int64) (string, error)
}

var _ adapter.TelegramBotAdapter = (*MockBot)(nil)

func newMockBot() *MockBot {
	return &MockBot{Roles: make(map[int64]string)}
}

func (m *MockBot) record(kind string, chatID int64, text, fileID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextMsgID++
	m.Sent = append(m.Sent, sentMessage{Kind: kind, ChatID: chatID, Text: text, FileID: fileID, MsgID: m.nextMsgID})
	return m.nextMsgID
}

func (m *MockBot) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, chatID, text)
	}
	return m.record("text", chatID, text, ""), nil
}

func (m *MockBot) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	return m.record("photo", chatID, caption, fileID), nil
}

func (m *MockBot) SendVideo(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	return m.record("video", chatID, caption, fileID), nil
}

func (m *MockBot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, chatID, messageID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, deletedMessage{ChatID: chatID, MsgID: messageID})
	return nil
}

func (m *MockBot) ChatMemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	if m.ChatMemberRoleFunc != nil {
		return m.ChatMemberRoleFunc(ctx, chatID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if role, ok := m.Roles[userID]; ok {
		return role, nil
	}
	return "member", nil
}

func (m *MockBot) sentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// -----------------------------
// Scheduler
// -----------------------------

type fakeHandle struct {
	mu      sync.Mutex
	stopped bool
}

func (h *fakeHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
}

func (h *fakeHandle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

type fakeTask struct {
	interval time.Duration
	fn       func(ctx context.Context)
	handle   *fakeHandle
}

// fakeRunner records scheduled tasks; tests fire ticks and deferred
// tasks by hand.
type fakeRunner struct {
	mu       sync.Mutex
	every    []*fakeTask
	deferred []*fakeTask
}

var _ sched.Runner = (*fakeRunner)(nil)

func newFakeRunner() *fakeRunner { return &fakeRunner{} }

func (r *fakeRunner) Every(interval time.Duration, fn func(ctx context.Context)) sched.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTask{interval: interval, fn: fn, handle: &fakeHandle{}}
	r.every = append(r.every, t)
	return t.handle
}

func (r *fakeRunner) After(delay time.Duration, fn func(ctx context.Context)) sched.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &fakeTask{interval: delay, fn: fn, handle: &fakeHandle{}}
	r.deferred = append(r.deferred, t)
	return t.handle
}

// fire runs every live recurring task once, like one tick elapsing.
func (r *fakeRunner) fire(ctx context.Context) {
	r.mu.Lock()
	tasks := append([]*fakeTask(nil), r.every...)
	r.mu.Unlock()
	for _, t := range tasks {
		if !t.handle.isStopped() {
			t.fn(ctx)
		}
	}
}

// fireDeferred runs all armed deferred tasks, like their delay elapsing.
func (r *fakeRunner) fireDeferred(ctx context.Context) {
	r.mu.Lock()
	tasks := append([]*fakeTask(nil), r.deferred...)
	r.deferred = nil
	r.mu.Unlock()
	for _, t := range tasks {
		if !t.handle.isStopped() {
			t.fn(ctx)
		}
	}
}
