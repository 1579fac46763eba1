package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/schedule"
	"alcyxob/fitness-tracker/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

var ErrUnknownMove = errors.New("unknown navigator move")

const defaultNavigatorIdleTTL = 30 * time.Minute

// NavigatorMove names a cursor operation on a user's navigator.
type NavigatorMove string

const (
	MovePrevious NavigatorMove = "previous"
	MoveNext     NavigatorMove = "next"
	MoveToday    NavigatorMove = "today"
	MoveDay      NavigatorMove = "day"
	MoveRetry    NavigatorMove = "retry"
	MoveRefresh  NavigatorMove = "refresh"
)

// DayResolver is the part of schedule.ActiveProgramResolver the service uses.
type DayResolver interface {
	schedule.DayResolver
	Calendar() schedule.Calendar
}

// DayView is a resolved day plus presigned thumbnail links keyed by routine ID.
// Day is nil when the user has no active program.
type DayView struct {
	Date          time.Time
	Day           *domain.ResolvedDay
	ThumbnailURLs map[primitive.ObjectID]string
}

// NavigatorView is a navigator snapshot prepared for a client.
type NavigatorView struct {
	State         schedule.State
	Notices       []schedule.Notice
	ThumbnailURLs map[primitive.ObjectID]string
}

type ProgramDayService interface {
	// ResolveDay resolves one date synchronously. A zero date means today.
	ResolveDay(ctx context.Context, userID primitive.ObjectID, date time.Time) (*DayView, error)
	// GetIndex returns the navigation index of the active program, empty when there is none.
	GetIndex(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgramDay, error)
	NavigatorState(ctx context.Context, userID primitive.ObjectID) (*NavigatorView, error)
	Navigate(ctx context.Context, userID primitive.ObjectID, move NavigatorMove, day int) (*NavigatorView, error)
	// RefreshUser re-resolves the user's navigator after an external write.
	RefreshUser(ctx context.Context, userID primitive.ObjectID)
	Close()
}

type navigatorSession struct {
	nav      *schedule.Navigator
	notices  *schedule.RecordingNotifier
	lastUsed time.Time
}

// programDayService implements ProgramDayService. It keeps one navigator per
// user, created on first use and closed after idleTTL without requests.
type programDayService struct {
	resolver      DayResolver
	media         storage.MediaStorage
	presignExpiry time.Duration
	metrics       *metrics.Manager
	idleTTL       time.Duration
	now           func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	sessions map[primitive.ObjectID]*navigatorSession
	closed   bool

	stop chan struct{}
	done chan struct{}
}

// NewProgramDayService starts the session janitor; call Close to stop it.
// media may be nil when no bucket is configured.
func NewProgramDayService(resolver DayResolver, media storage.MediaStorage, presignExpiry, idleTTL time.Duration, metricsManager *metrics.Manager) ProgramDayService {
	if idleTTL <= 0 {
		idleTTL = defaultNavigatorIdleTTL
	}
	s := &programDayService{
		resolver:      resolver,
		media:         media,
		presignExpiry: presignExpiry,
		metrics:       metricsManager,
		idleTTL:       idleTTL,
		now:           time.Now,
		sessions:      make(map[primitive.ObjectID]*navigatorSession),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *programDayService) ResolveDay(ctx context.Context, userID primitive.ObjectID, date time.Time) (*DayView, error) {
	calendar := s.resolver.Calendar()
	if date.IsZero() {
		date = calendar.Today()
	} else {
		date = calendar.Day(date)
	}

	// Identical concurrent requests share one resolution. The shared call is
	// detached from the first caller so its cancellation cannot fail the others.
	key := fmt.Sprintf("%s:%s", userID.Hex(), domain.FormatDate(date))
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.resolver.ResolveForDate(shared, userID, date)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	day, _ := res.Val.(*domain.ResolvedDay)
	return &DayView{Date: date, Day: day, ThumbnailURLs: s.thumbnailURLs(ctx, day)}, nil
}

func (s *programDayService) GetIndex(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgramDay, error) {
	program, err := s.resolver.ActiveProgram(ctx, userID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return []domain.ProgramDay{}, nil
	}
	return schedule.BuildIndex(program, s.resolver.Calendar().Today())
}

func (s *programDayService) NavigatorState(ctx context.Context, userID primitive.ObjectID) (*NavigatorView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, session, session.nav.State()), nil
}

func (s *programDayService) Navigate(ctx context.Context, userID primitive.ObjectID, move NavigatorMove, day int) (*NavigatorView, error) {
	session, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}

	var state schedule.State
	switch move {
	case MovePrevious:
		state = session.nav.GoToPrevious()
	case MoveNext:
		state = session.nav.GoToNext()
	case MoveToday:
		state = session.nav.GoToToday()
	case MoveDay:
		state = session.nav.GoToDay(day)
	case MoveRetry:
		state = session.nav.Retry()
	case MoveRefresh:
		// A failed refresh is reported through the notices and state
		_ = session.nav.Refresh(ctx)
		state = session.nav.State()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMove, move)
	}
	return s.view(ctx, session, state), nil
}

func (s *programDayService) RefreshUser(ctx context.Context, userID primitive.ObjectID) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := session.nav.Refresh(ctx); err != nil {
		log.WithError(err).Warnf("failed to refresh navigator for user %s", userID.Hex())
	}
}

// Close stops the janitor and closes every navigator.
func (s *programDayService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[primitive.ObjectID]*navigatorSession)
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	for _, session := range sessions {
		session.nav.Close()
	}
	s.metrics.NavigatorSessions(0)
}

// session returns the user's navigator, creating and loading it on first use.
func (s *programDayService) session(ctx context.Context, userID primitive.ObjectID) (*navigatorSession, error) {
	s.mu.Lock()
	if session, ok := s.sessions[userID]; ok {
		session.lastUsed = s.now()
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	notices := &schedule.RecordingNotifier{}
	nav := schedule.NewNavigator(userID, s.resolver, s.resolver.Calendar(),
		schedule.WithNotifier(schedule.MultiNotifier{schedule.LogNotifier{}, notices}),
		schedule.WithMetrics(s.metrics),
	)
	if err := nav.Load(ctx); err != nil {
		nav.Close()
		return nil, err
	}
	// The failed-load notice went out with the error itself
	notices.Drain()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		nav.Close()
		return nil, errors.New("program day service is closed")
	}
	if existing, ok := s.sessions[userID]; ok {
		// Lost a race with a concurrent first request
		nav.Close()
		existing.lastUsed = s.now()
		return existing, nil
	}
	session := &navigatorSession{nav: nav, notices: notices, lastUsed: s.now()}
	s.sessions[userID] = session
	s.metrics.NavigatorSessions(len(s.sessions))
	log.Debugf("navigator session created for user %s", userID.Hex())
	return session, nil
}

func (s *programDayService) view(ctx context.Context, session *navigatorSession, state schedule.State) *NavigatorView {
	return &NavigatorView{
		State:         state,
		Notices:       session.notices.Drain(),
		ThumbnailURLs: s.thumbnailURLs(ctx, state.Day),
	}
}

// evictIdle closes sessions unused for longer than idleTTL and returns how many it closed.
func (s *programDayService) evictIdle() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var idle []*navigatorSession
	for userID, session := range s.sessions {
		if session.lastUsed.Before(cutoff) {
			idle = append(idle, session)
			delete(s.sessions, userID)
		}
	}
	s.metrics.NavigatorSessions(len(s.sessions))
	s.mu.Unlock()

	for _, session := range idle {
		session.nav.Close()
	}
	if len(idle) > 0 {
		log.Debugf("evicted %d idle navigator sessions", len(idle))
	}
	return len(idle)
}

func (s *programDayService) janitor() {
	defer close(s.done)

	interval := s.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stop:
			return
		}
	}
}

func (s *programDayService) thumbnailURLs(ctx context.Context, day *domain.ResolvedDay) map[primitive.ObjectID]string {
	urls := map[primitive.ObjectID]string{}
	if s.media == nil || day == nil {
		return urls
	}
	for _, r := range day.Routines {
		if r.Detail == nil || r.Detail.ThumbnailKey == "" {
			continue
		}
		if _, ok := urls[r.Detail.ID]; ok {
			continue
		}
		url, err := s.media.GeneratePresignedDownloadURL(ctx, r.Detail.ThumbnailKey, s.presignExpiry)
		if err != nil {
			log.WithError(err).Warnf("no thumbnail link for routine %s", r.Detail.ID.Hex())
			continue
		}
		urls[r.Detail.ID] = url
	}
	return urls
}
