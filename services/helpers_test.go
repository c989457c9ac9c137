package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sammyAPI/internal/chat"
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/notification"
	"sammyAPI/internal/store"
	"sammyAPI/internal/user"
)

const testUser = "user_test"

type fixture struct {
	store      *store.MemoryStore
	users      *UserService
	logs       *LogService
	stats      *StatsService
	milestones *MilestoneService
	chat       *ChatService
	completer  *fakeCompleter
	notifier   *fakeNotifier
}

// newFixture wires every service over an in-memory store with the clock
// frozen at noon UTC on today.
func newFixture(t *testing.T, today string) *fixture {
	t.Helper()

	now, err := time.Parse("2006-01-02", today)
	require.NoError(t, err)
	now = now.Add(12 * time.Hour)
	clock := func() time.Time { return now }

	st := store.NewMemoryStore()
	completer := &fakeCompleter{reply: "Nice work."}
	notifier := &fakeNotifier{sent: make(chan notification.Message, 10)}

	users := NewUserService(st)
	users.now = clock
	logs := NewLogService(st, users)
	logs.now = clock
	statsService := NewStatsService(st, users, completer)
	statsService.now = clock
	milestones := NewMilestoneService(users, statsService, notifier)
	milestones.now = clock
	chatService := NewChatService(st, users, statsService, completer, 3)
	chatService.now = clock

	return &fixture{
		store:      st,
		users:      users,
		logs:       logs,
		stats:      statsService,
		milestones: milestones,
		chat:       chatService,
		completer:  completer,
		notifier:   notifier,
	}
}

// seedProfile stores a profile registered on the given date.
func (f *fixture) seedProfile(t *testing.T, registered string, edit func(p *user.Profile)) {
	t.Helper()
	_, err := f.store.UpdateProfile(context.Background(), testUser, func(p *user.Profile, exists bool) error {
		p.RegisteredDate = registered
		if edit != nil {
			edit(p)
		}
		return nil
	})
	require.NoError(t, err)
}

// seedLog writes a log with a count and goal directly to the store.
func (f *fixture) seedLog(t *testing.T, date string, count, goal int) {
	t.Helper()
	_, err := f.store.UpdateLog(context.Background(), testUser, date, func(l *dailylog.DailyLog, exists bool) error {
		l.Count = dailylog.IntPtr(count)
		l.Goal = dailylog.IntPtr(goal)
		return nil
	})
	require.NoError(t, err)
}

type fakeCompleter struct {
	mu     sync.Mutex
	reply  string
	err    error
	system string
	calls  int
}

func (c *fakeCompleter) Complete(ctx context.Context, system string, messages []chat.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.system = system
	return c.reply, c.err
}

type fakeNotifier struct {
	sent chan notification.Message
}

func (n *fakeNotifier) Send(ctx context.Context, tokens []string, msg notification.Message) error {
	n.sent <- msg
	return nil
}
