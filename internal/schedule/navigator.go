package schedule

import (
	"context"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayResolver is what the navigator needs from ActiveProgramResolver.
type DayResolver interface {
	ActiveProgram(ctx context.Context, userID primitive.ObjectID) (domain.Program, error)
	ResolveForDate(ctx context.Context, userID primitive.ObjectID, target time.Time) (*domain.ResolvedDay, error)
}

// State is a snapshot of the navigator.
type State struct {
	Program         domain.Program // nil when the user has no active program
	SelectedDate    time.Time
	CurrentIndex    int                // -1 when the selected date has no index entry
	Entry           *domain.ProgramDay // nil when CurrentIndex is -1
	IndexLength     int
	CanGoToPrevious bool
	CanGoToNext     bool
	// Loading is set while the resolution for SelectedDate is in flight.
	Loading bool
	// Day is the last applied resolution. While Loading, or after a failed
	// resolution, it may still belong to a previously selected date.
	Day *domain.ResolvedDay
	Err error
}

type NavigatorOption func(*Navigator)

func WithNotifier(notifier Notifier) NavigatorOption {
	return func(n *Navigator) { n.notifier = notifier }
}

func WithMetrics(m *metrics.Manager) NavigatorOption {
	return func(n *Navigator) { n.metrics = m }
}

// WithOnChange registers a callback invoked after every applied resolution
// and every program reload. It runs outside the navigator lock.
func WithOnChange(fn func(State)) NavigatorOption {
	return func(n *Navigator) { n.onChange = fn }
}

// Navigator is a cursor over the navigation index of one user's active
// program. Moving the cursor updates the selected date immediately and
// resolves the new day in the background. Each resolution is tagged with a
// generation; a result whose generation is no longer current is dropped, so a
// slow response for an earlier date never overwrites a newer one.
type Navigator struct {
	userID   primitive.ObjectID
	resolver DayResolver
	calendar Calendar
	notifier Notifier
	metrics  *metrics.Manager
	onChange func(State)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	program    domain.Program
	index      []domain.ProgramDay
	indexDay   time.Time // the "today" the index flags were computed for
	selected   time.Time
	generation uint64
	loading    bool
	day        *domain.ResolvedDay
	lastErr    error
}

func NewNavigator(userID primitive.ObjectID, resolver DayResolver, calendar Calendar, opts ...NavigatorOption) *Navigator {
	ctx, cancel := context.WithCancel(context.Background())
	n := &Navigator{
		userID:   userID,
		resolver: resolver,
		calendar: calendar,
		notifier: LogNotifier{},
		ctx:      ctx,
		cancel:   cancel,
		selected: calendar.Today(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load fetches the active program, rebuilds the index and selects today.
func (n *Navigator) Load(ctx context.Context) error {
	return n.load(ctx, true)
}

// Refresh re-fetches the active program after an external change and
// re-resolves the selected date. The index is rebuilt only when the program
// identity changed.
func (n *Navigator) Refresh(ctx context.Context) error {
	return n.load(ctx, false)
}

func (n *Navigator) load(ctx context.Context, selectToday bool) error {
	program, err := n.resolver.ActiveProgram(ctx, n.userID)

	n.mu.Lock()
	if err != nil {
		n.lastErr = err
		state := n.stateLocked()
		n.mu.Unlock()
		n.notify("Could not load your program. Pull to retry.", err)
		n.emit(state)
		return err
	}
	n.setProgramLocked(program)
	target := n.selected
	if selectToday {
		target = n.calendar.Today()
	}
	n.selectLocked(target)
	state := n.stateLocked()
	n.mu.Unlock()

	n.emit(state)
	return nil
}

// GoToPrevious selects the previous index entry. It is a no-op at the first
// entry and when the selected date has no index entry.
func (n *Navigator) GoToPrevious() State {
	return n.move(func() (time.Time, bool) { return n.previousTargetLocked() })
}

// GoToNext selects the next index entry, or the first entry when the selected
// date has none. At the last entry it is a no-op.
func (n *Navigator) GoToNext() State {
	return n.move(func() (time.Time, bool) { return n.nextTargetLocked() })
}

// GoToDay selects index entry i (0-based). Out-of-range positions are a no-op.
func (n *Navigator) GoToDay(i int) State {
	return n.move(func() (time.Time, bool) {
		if i < 0 || i >= len(n.index) {
			return time.Time{}, false
		}
		return n.index[i].Date, true
	})
}

// GoToToday selects today's index entry. When the program range does not
// contain today, the real calendar day is selected anyway and the state
// reports CurrentIndex -1.
func (n *Navigator) GoToToday() State {
	return n.move(func() (time.Time, bool) {
		for _, d := range n.index {
			if d.IsToday {
				return d.Date, true
			}
		}
		return n.calendar.Today(), true
	})
}

// Retry re-resolves the selected date, typically after a failed resolution.
func (n *Navigator) Retry() State {
	return n.move(func() (time.Time, bool) { return n.selected, true })
}

// State returns the current snapshot.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rollIndexLocked()
	return n.stateLocked()
}

// Index returns a copy of the navigation index.
func (n *Navigator) Index() []domain.ProgramDay {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rollIndexLocked()
	index := make([]domain.ProgramDay, len(n.index))
	copy(index, n.index)
	return index
}

// Close cancels in-flight resolutions and waits for them to return.
func (n *Navigator) Close() {
	n.cancel()
	n.wg.Wait()
}

func (n *Navigator) move(target func() (time.Time, bool)) State {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rollIndexLocked()
	if date, ok := target(); ok {
		n.selectLocked(date)
	}
	return n.stateLocked()
}

func (n *Navigator) currentIndexLocked() int {
	return IndexOf(n.index, n.selected)
}

// previousTargetLocked steps back one entry. It is a no-op at the first entry
// and whenever the selection has no index entry.
func (n *Navigator) previousTargetLocked() (time.Time, bool) {
	i := n.currentIndexLocked()
	if len(n.index) == 0 || i <= 0 {
		return time.Time{}, false
	}
	return n.index[i-1].Date, true
}

// nextTargetLocked steps forward one entry. A selection with no index entry
// moves onto the first entry.
func (n *Navigator) nextTargetLocked() (time.Time, bool) {
	i := n.currentIndexLocked()
	if len(n.index) == 0 || i >= len(n.index)-1 {
		return time.Time{}, false
	}
	return n.index[i+1].Date, true
}

func (n *Navigator) selectLocked(date time.Time) {
	n.selected = n.calendar.Day(date)
	n.generation++
	if n.ctx.Err() != nil {
		return
	}
	n.loading = true
	n.wg.Add(1)
	go n.resolve(n.generation, n.selected)
}

func (n *Navigator) resolve(generation uint64, date time.Time) {
	defer n.wg.Done()

	day, err := n.resolver.ResolveForDate(n.ctx, n.userID, date)
	if n.ctx.Err() != nil {
		// Closed; the navigator is discarded, so loading is left set.
		return
	}

	n.mu.Lock()
	if generation != n.generation {
		n.mu.Unlock()
		n.metrics.StaleDiscarded()
		log.Debugf("discarded stale resolution for %s", domain.FormatDate(date))
		return
	}
	n.loading = false
	if err != nil {
		// Keep the previous day on screen
		n.lastErr = err
		state := n.stateLocked()
		n.mu.Unlock()
		n.notify("Could not load this day. Tap to retry.", err)
		n.emit(state)
		return
	}
	n.lastErr = nil
	n.day = day
	if day == nil {
		n.setProgramLocked(nil)
	} else {
		n.setProgramLocked(day.Program)
	}
	state := n.stateLocked()
	n.mu.Unlock()

	n.emit(state)
}

// setProgramLocked stores the descriptor and rebuilds the index when the
// program identity changed.
func (n *Navigator) setProgramLocked(program domain.Program) {
	changed := programKey(program) != programKey(n.program)
	n.program = program
	if changed || n.indexDay.IsZero() {
		n.rebuildIndexLocked()
	}
}

// rollIndexLocked recomputes the index flags once the calendar day has moved on.
func (n *Navigator) rollIndexLocked() {
	if !n.indexDay.IsZero() && !domain.SameDay(n.indexDay, n.calendar.Today()) {
		n.rebuildIndexLocked()
	}
}

func (n *Navigator) rebuildIndexLocked() {
	today := n.calendar.Today()
	n.indexDay = today
	if n.program == nil {
		n.index = nil
		return
	}
	index, err := BuildIndex(n.program, today)
	if err != nil {
		log.WithError(err).Errorf("failed to build navigation index for user %s", n.userID.Hex())
		n.index = nil
		return
	}
	n.index = index
}

func (n *Navigator) stateLocked() State {
	i := n.currentIndexLocked()
	state := State{
		Program:      n.program,
		SelectedDate: n.selected,
		CurrentIndex: i,
		IndexLength:  len(n.index),
		Loading:      n.loading,
		Day:          n.day,
		Err:          n.lastErr,
	}
	if i >= 0 {
		entry := n.index[i]
		state.Entry = &entry
	}
	_, state.CanGoToPrevious = n.previousTargetLocked()
	_, state.CanGoToNext = n.nextTargetLocked()
	return state
}

func (n *Navigator) notify(message string, err error) {
	if n.notifier == nil {
		return
	}
	n.notifier.Notify(n.ctx, Notice{UserID: n.userID, Message: message, Err: err})
}

func (n *Navigator) emit(state State) {
	if n.onChange != nil {
		n.onChange(state)
	}
}

func programKey(p domain.Program) domain.ProgramKey {
	if p == nil {
		return domain.ProgramKey{}
	}
	return p.Key()
}
