package service

import (
	"context"
	"sync"
	"time"

	"calreminder/internal/domain/entity"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type nopLogger struct{}

func (nopLogger) Error(string, error) {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Info(string)         {}
func (nopLogger) Debug(string)        {}

// fakeProvider is an in-memory CalendarProvider. ListEvents optionally blocks
// on block until it is closed, for exercising concurrent fills.
type fakeProvider struct {
	mu          sync.Mutex
	events      []entity.CalendarEvent
	listErr     error
	listCalls   int
	listRanges  [][2]time.Time
	block       chan struct{}
	createCalls int
	rejectTitle map[string]error
}

func (p *fakeProvider) ListEvents(ctx context.Context, start, end time.Time) ([]entity.CalendarEvent, error) {
	p.mu.Lock()
	p.listCalls++
	p.listRanges = append(p.listRanges, [2]time.Time{start, end})
	block := p.block
	err := p.listErr
	events := make([]entity.CalendarEvent, len(p.events))
	copy(events, p.events)
	p.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (p *fakeProvider) CreateEvent(ctx context.Context, draft entity.EventDraft) (*entity.CalendarEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	if err, ok := p.rejectTitle[draft.Title]; ok {
		return nil, err
	}
	start, _ := time.Parse(time.RFC3339, draft.Start)
	end, _ := time.Parse(time.RFC3339, draft.End)
	return &entity.CalendarEvent{
		ID:      "created-" + draft.Title,
		Summary: draft.Title,
		Start:   entity.EventTime{DateTime: &start},
		End:     entity.EventTime{DateTime: &end},
	}, nil
}

func (p *fakeProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listCalls
}

type fakeExtractor struct {
	drafts []entity.EventDraft
	err    error
}

func (e *fakeExtractor) Extract(ctx context.Context, text, apiKey string) ([]entity.EventDraft, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.drafts, nil
}

type fakeTokens struct {
	valid       bool
	validErr    error
	exchangeErr error
	clearErr    error
	clearCalls  int
}

func (t *fakeTokens) AuthURL(state string) string { return "https://example.com/auth?state=" + state }

func (t *fakeTokens) Exchange(ctx context.Context, code string) error {
	if t.exchangeErr != nil {
		return t.exchangeErr
	}
	t.valid = true
	return nil
}

func (t *fakeTokens) Valid(ctx context.Context) (bool, error) {
	if t.validErr != nil {
		return false, t.validErr
	}
	return t.valid, nil
}

func (t *fakeTokens) Clear() error {
	t.clearCalls++
	if t.clearErr != nil {
		return t.clearErr
	}
	t.valid = false
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]*entity.ReminderSchedule
	findErr   error
	saveErr   error
	saveCalls int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*entity.ReminderSchedule)}
}

func (r *fakeScheduleRepo) FindByUserID(ctx context.Context, userID string) (*entity.ReminderSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	schedule, ok := r.schedules[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (r *fakeScheduleRepo) FindEnabled(ctx context.Context) ([]*entity.ReminderSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*entity.ReminderSchedule
	for _, schedule := range r.schedules {
		if schedule.Enabled {
			copied := *schedule
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) Save(ctx context.Context, schedule *entity.ReminderSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *schedule
	r.schedules[schedule.UserID] = &copied
	return nil
}

// fakeCron captures armed job funcs so tests can fire them directly.
// Entry always returns a zero snapshot, forcing the wall-clock fallback.
type fakeCron struct {
	mu      sync.Mutex
	nextID  cron.EntryID
	jobs    map[cron.EntryID]func()
	specs   map[cron.EntryID]string
	removed []cron.EntryID
	addErr  error
	stopped bool
}

func newFakeCron() *fakeCron {
	return &fakeCron{
		jobs:  make(map[cron.EntryID]func()),
		specs: make(map[cron.EntryID]string),
	}
}

func (c *fakeCron) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.addErr != nil {
		return 0, c.addErr
	}
	c.nextID++
	c.jobs[c.nextID] = cmd
	c.specs[c.nextID] = spec
	return c.nextID, nil
}

func (c *fakeCron) RemoveJob(id cron.EntryID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.jobs, id)
	c.removed = append(c.removed, id)
}

func (c *fakeCron) Entry(id cron.EntryID) cron.Entry {
	return cron.Entry{}
}

func (c *fakeCron) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

func (c *fakeCron) job(id cron.EntryID) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobs[id]
}

func (c *fakeCron) armedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.jobs)
}

func (c *fakeCron) wasRemoved(id cron.EntryID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, removed := range c.removed {
		if removed == id {
			return true
		}
	}
	return false
}

type sentMessage struct {
	botToken string
	chatID   string
	text     string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (d *fakeDispatcher) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMessage{botToken: botToken, chatID: chatID, text: text})
	return d.err
}

func (d *fakeDispatcher) sentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func (d *fakeDispatcher) lastSent() sentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return sentMessage{}
	}
	return d.sent[len(d.sent)-1]
}

type fakeDaySource struct {
	events []entity.CalendarEvent
	err    error
}

func (s *fakeDaySource) EventsForDate(ctx context.Context, date time.Time) ([]entity.CalendarEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

type fakeArmer struct {
	rearmCalls   int
	rearmErr     error
	nextRun      time.Time
	lastSchedule *entity.ReminderSchedule
	cancelCalls  int
	cancelResult bool
}

func (a *fakeArmer) Rearm(ctx context.Context, schedule *entity.ReminderSchedule) (time.Time, error) {
	a.rearmCalls++
	a.lastSchedule = schedule
	if a.rearmErr != nil {
		return time.Time{}, a.rearmErr
	}
	return a.nextRun, nil
}

func (a *fakeArmer) Cancel(ctx context.Context, userID string) bool {
	a.cancelCalls++
	return a.cancelResult
}
