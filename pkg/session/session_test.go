package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/session"
	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore(session.WithIDGenerator(sequence("s")))

	sess := store.Create()
	if sess.ID() != "s-1" {
		t.Fatalf("unexpected id %q", sess.ID())
	}
	if sess.State() != session.StateActive || !sess.Active() {
		t.Fatalf("new session should be active, got %s", sess.State())
	}

	got, err := store.Get("s-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sess {
		t.Fatalf("expected the same session back")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", store.Len())
	}

	if _, err := store.Get("nope"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSession_ApplyReturnsSnapshot(t *testing.T) {
	sess := session.NewStore().Create()

	out, snap, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 3})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.Committed {
		t.Fatalf("expected committed outcome: %+v", out)
	}
	if !snap.Selected(intake.FieldRooms, 3) {
		t.Fatalf("snapshot should reflect the toggle")
	}

	_, snap, err = sess.Apply(intake.Event{Field: intake.FieldLocation, Value: "abc1"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	msg, _ := snap.Errors.Get(intake.FieldLocation)
	if msg != validation.MessageLettersOnly {
		t.Fatalf("expected letters-only message, got %q", msg)
	}

	if _, _, err := sess.Apply(intake.Event{Field: "budgetMin", Value: 1}); !errors.Is(err, intake.ErrUnsupportedField) {
		t.Fatalf("expected ErrUnsupportedField, got %v", err)
	}
}

func TestSession_RefusesOutOfOrderEvents(t *testing.T) {
	sess := session.NewStore().Create()

	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 2, Seq: 2}); err != nil {
		t.Fatalf("apply seq 2: %v", err)
	}
	out, snap, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 5, Seq: 1})
	if !errors.Is(err, session.ErrStaleEvent) {
		t.Fatalf("expected ErrStaleEvent, got %v", err)
	}
	if out.Committed || !snap.Selected(intake.FieldRooms, 2) {
		t.Fatalf("stale event must not change the record: %+v", snap.Values)
	}
	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 5, Seq: 2}); !errors.Is(err, session.ErrStaleEvent) {
		t.Fatalf("repeated seq should be stale, got %v", err)
	}

	// Unsequenced events are applied as they come.
	_, snap, err = sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 4})
	if err != nil {
		t.Fatalf("apply unsequenced: %v", err)
	}
	if !snap.Selected(intake.FieldRooms, 4) {
		t.Fatalf("expected rooms 4, got %+v", snap.Values)
	}
	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 3, Seq: 3}); err != nil {
		t.Fatalf("apply seq 3: %v", err)
	}
}

func TestSession_SubmitDeliversAndCloses(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()
	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldEmail, Value: "notanemail"}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	var deliveredID string
	var delivered intake.Submission
	sub, err := sess.Submit(context.Background(), func(_ context.Context, id string, s intake.Submission) error {
		deliveredID = id
		delivered = s
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if deliveredID != sess.ID() {
		t.Fatalf("delivered id mismatch: %q", deliveredID)
	}
	if diff := cmp.Diff(sub, delivered, cmp.AllowUnexported(intake.Choice{})); diff != "" {
		t.Fatalf("delivered submission mismatch (-want +got):\n%s", diff)
	}
	if sub.Values.Email != "notanemail" || len(sub.Issues) != 1 {
		t.Fatalf("submission should carry the record as is: %+v", sub)
	}
	if sess.State() != session.StateSubmitted {
		t.Fatalf("expected submitted, got %s", sess.State())
	}
	if sess.ClosedAt().IsZero() {
		t.Fatalf("expected closed timestamp")
	}

	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 2}); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on apply, got %v", err)
	}
	if _, err := sess.Snapshot(); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on snapshot, got %v", err)
	}
	if _, err := sess.Submit(context.Background(), nil); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on second submit, got %v", err)
	}
	if err := sess.Abandon(context.Background()); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed on abandon, got %v", err)
	}
}

func TestSession_DeliveryFailureKeepsSessionActive(t *testing.T) {
	sess := session.NewStore().Create()
	boom := errors.New("crm down")

	_, err := sess.Submit(context.Background(), func(context.Context, string, intake.Submission) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if !sess.Active() {
		t.Fatalf("session should stay active after a failed delivery")
	}
	if _, err := sess.Submit(context.Background(), nil); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
}

func TestStore_DiscardAbandonsActiveSessions(t *testing.T) {
	var evicted []string
	store := session.NewStore(
		session.WithIDGenerator(sequence("d")),
		session.WithEvictHook(func(s *session.Session) { evicted = append(evicted, s.ID()) }),
	)

	open := store.Create()
	submitted := store.Create()
	if _, err := submitted.Submit(context.Background(), nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	store.Discard(open.ID())
	store.Discard(submitted.ID())

	if open.State() != session.StateAbandoned {
		t.Fatalf("discarded active session should be abandoned, got %s", open.State())
	}
	if submitted.State() != session.StateSubmitted {
		t.Fatalf("submitted session should keep its state, got %s", submitted.State())
	}
	if diff := cmp.Diff([]string{"d-1"}, evicted); diff != "" {
		t.Fatalf("evict hook mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStore_SizeCapEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	store := session.NewStore(
		session.WithMaxSessions(2),
		session.WithIDGenerator(sequence("c")),
		session.WithEvictHook(func(s *session.Session) { evicted = append(evicted, s.ID()) }),
	)

	first := engage(t, store.Create())
	engage(t, store.Create())
	if _, err := store.Get(first.ID()); err != nil {
		t.Fatalf("touch first: %v", err)
	}
	engage(t, store.Create())

	if diff := cmp.Diff([]string{"c-2"}, evicted); diff != "" {
		t.Fatalf("evicted mismatch (-want +got):\n%s", diff)
	}
	if !first.Active() {
		t.Fatalf("recently used session should survive")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", store.Len())
	}
}

func TestStore_UntouchedSessionsCannotEvictEngagedOnes(t *testing.T) {
	var evicted []string
	store := session.NewStore(
		session.WithMaxSessions(1),
		session.WithMaxPending(2),
		session.WithIDGenerator(sequence("p")),
		session.WithEvictHook(func(s *session.Session) { evicted = append(evicted, s.ID()) }),
	)

	visitor := engage(t, store.Create())
	if !visitor.Engaged() {
		t.Fatalf("session should be engaged after its first event")
	}
	for i := 0; i < 5; i++ {
		store.Create()
	}

	if !visitor.Active() {
		t.Fatalf("engaged session was evicted by page loads")
	}
	if _, err := store.Get(visitor.ID()); err != nil {
		t.Fatalf("get visitor: %v", err)
	}
	if diff := cmp.Diff([]string{"p-2", "p-3", "p-4"}, evicted); diff != "" {
		t.Fatalf("evicted mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 1 engaged + 2 pending sessions, got %d", store.Len())
	}
}

func TestStore_RejectedFirstEventKeepsSessionPending(t *testing.T) {
	store := session.NewStore(session.WithMaxPending(1))
	sess := store.Create()

	if _, _, err := sess.Apply(intake.Event{Field: "fax", Value: "1"}); !errors.Is(err, intake.ErrUnsupportedField) {
		t.Fatalf("expected ErrUnsupportedField, got %v", err)
	}
	if sess.Engaged() {
		t.Fatalf("a refused event should not engage the session")
	}
	store.Create()
	if sess.Active() {
		t.Fatalf("pending session should be evicted by the pending cap")
	}
}

func TestStore_DiscardedSessionIsNotPromoted(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()
	store.Discard(sess.ID())

	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 1}); !errors.Is(err, session.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStore_IdleSessionsExpire(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	store := session.NewStore(
		session.WithTTL(20*time.Millisecond),
		session.WithEvictHook(func(s *session.Session) {
			mu.Lock()
			evicted = append(evicted, s.ID())
			mu.Unlock()
		}),
	)
	sess := store.Create()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(evicted)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if sess.State() != session.StateAbandoned {
		t.Fatalf("expired session should be abandoned, got %s", sess.State())
	}
	if _, err := store.Get(sess.ID()); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after expiry, got %v", err)
	}
}

func TestStore_CloseAbandonsEverything(t *testing.T) {
	store := session.NewStore()
	a, b := store.Create(), store.Create()

	store.Close()

	for _, s := range []*session.Session{a, b} {
		if s.State() != session.StateAbandoned {
			t.Fatalf("expected abandoned after close, got %s", s.State())
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestStore_EngineOptions(t *testing.T) {
	lenient := intake.Rule{Validate: func(string) validation.Result { return validation.Pass() }}
	store := session.NewStore(session.WithEngineOptions(intake.WithRule(intake.FieldLocation, lenient)))

	_, snap, err := store.Create().Apply(intake.Event{Field: intake.FieldLocation, Value: "Unit 12"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if snap.Values.Location != "Unit 12" || snap.Errors.Has(intake.FieldLocation) {
		t.Fatalf("custom rule not applied: %+v", snap)
	}
}

func TestSession_ConcurrentEventsSerialise(t *testing.T) {
	sess := session.NewStore().Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value := fmt.Sprintf("user%c", 'a'+rune(i%26))
			if _, _, err := sess.Apply(intake.Event{Field: intake.FieldPreferences, Value: value}); err != nil {
				t.Errorf("apply: %v", err)
			}
		}(i)
	}
	wg.Wait()

	snap, err := sess.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Values.Preferences == "" {
		t.Fatalf("expected a committed value")
	}
	if snap.Errors.Has(intake.FieldPreferences) {
		t.Fatalf("letters-only values should not error")
	}
}

func engage(t *testing.T, sess *session.Session) *session.Session {
	t.Helper()
	if _, _, err := sess.Apply(intake.Event{Field: intake.FieldRooms, Value: 1}); err != nil {
		t.Fatalf("engage %s: %v", sess.ID(), err)
	}
	return sess
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
