package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/chalwk/versus/internal/errors"
	"github.com/chalwk/versus/internal/services/arena/domain"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func newTestRegistry(clock *testClock) *Registry {
	return NewRegistry(
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithCoin(func() bool { return true }),
	)
}

func TestInvitePlayer(t *testing.T) {
	r := newTestRegistry(newTestClock())

	invite, err := r.InvitePlayer("alice", "bob", "chan-1")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if invite.Inviter != "alice" || invite.Invitee != "bob" {
		t.Fatalf("invite = %+v, want alice->bob", invite)
	}

	if _, ok := r.PendingInviteFor("bob"); !ok {
		t.Fatal("expected pending invite for bob")
	}
}

func TestInvitePlayerSelfInvite(t *testing.T) {
	r := newTestRegistry(newTestClock())

	_, err := r.InvitePlayer("alice", "alice", "chan-1")
	if !errors.Is(err, domain.ErrSelfInvite) {
		t.Fatalf("err = %v, want ErrSelfInvite", err)
	}
}

func TestInvitePlayerSelfInviteWinsOverPendingInvite(t *testing.T) {
	r := newTestRegistry(newTestClock())

	// alice already holds a pending invite as invitee; her self-invite
	// must still be reported as a self-invite, not a duplicate.
	if _, err := r.InvitePlayer("carol", "alice", "chan-1"); err != nil {
		t.Fatalf("setup invite: %v", err)
	}
	_, err := r.InvitePlayer("alice", "alice", "chan-1")
	if !errors.Is(err, domain.ErrSelfInvite) {
		t.Fatalf("err = %v, want ErrSelfInvite", err)
	}
	if _, ok := r.PendingInviteFor("alice"); !ok {
		t.Fatal("carol's invite should survive the rejected self-invite")
	}
}

func TestInvitePlayerDuplicate(t *testing.T) {
	r := newTestRegistry(newTestClock())

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	_, err := r.InvitePlayer("alice", "bob", "chan-1")
	if !errors.Is(err, ErrDuplicateInvite) {
		t.Fatalf("repeat err = %v, want ErrDuplicateInvite", err)
	}
	// A different inviter targeting the same invitee is also a duplicate.
	_, err = r.InvitePlayer("carol", "bob", "chan-1")
	if !errors.Is(err, ErrDuplicateInvite) {
		t.Fatalf("third-party err = %v, want ErrDuplicateInvite", err)
	}
}

func TestInviterMayHaveMultipleOutstandingInvites(t *testing.T) {
	r := newTestRegistry(newTestClock())

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite bob: %v", err)
	}
	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); err != nil {
		t.Fatalf("invite carol: %v", err)
	}
}

func TestAcceptInviteCreatesSession(t *testing.T) {
	r := newTestRegistry(newTestClock())

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	session, err := r.AcceptInvite("bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if !r.IsActive("alice") || !r.IsActive("bob") {
		t.Fatal("both players should be active after accept")
	}
	if got, ok := r.SessionOf("alice"); !ok || got != session {
		t.Fatal("SessionOf(alice) should return the created session")
	}
	turn := session.CurrentTurn()
	if turn != "alice" && turn != "bob" {
		t.Fatalf("turn = %q, want one of the participants", turn)
	}
	if _, ok := r.PendingInviteFor("bob"); ok {
		t.Fatal("invite should be consumed on accept")
	}
	if r.ActiveSessions() != 1 {
		t.Fatalf("active sessions = %d, want 1", r.ActiveSessions())
	}
}

func TestAcceptInviteNoPending(t *testing.T) {
	r := newTestRegistry(newTestClock())

	_, err := r.AcceptInvite("bob")
	if !errors.Is(err, ErrNoPendingInvite) {
		t.Fatalf("err = %v, want ErrNoPendingInvite", err)
	}
}

func TestAcceptInviteInviterNowBusy(t *testing.T) {
	r := newTestRegistry(newTestClock())

	// alice invites bob, then alice ends up in a session with carol.
	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite bob: %v", err)
	}
	if _, err := r.InvitePlayer("carol", "alice", "chan-1"); err != nil {
		t.Fatalf("invite alice: %v", err)
	}
	if _, err := r.AcceptInvite("alice"); err != nil {
		t.Fatalf("alice accepts carol: %v", err)
	}

	// The inviter is re-validated at accept time, not just invite time.
	_, err := r.AcceptInvite("bob")
	if !errors.Is(err, ErrInviterNowBusy) {
		t.Fatalf("err = %v, want ErrInviterNowBusy", err)
	}

	// The failed accept consumed the invite.
	if _, err := r.AcceptInvite("bob"); !errors.Is(err, ErrNoPendingInvite) {
		t.Fatalf("second accept err = %v, want ErrNoPendingInvite", err)
	}
}

func TestAcceptConsumesInviteTargetingNewParticipant(t *testing.T) {
	r := newTestRegistry(newTestClock())

	// alice holds an invite from carol, but alice's own invite to bob is
	// accepted first; the carol->alice invite can never be accepted and
	// is dropped when the alice/bob session forms.
	if _, err := r.InvitePlayer("carol", "alice", "chan-1"); err != nil {
		t.Fatalf("carol invites alice: %v", err)
	}
	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("alice invites bob: %v", err)
	}
	if _, err := r.AcceptInvite("bob"); err != nil {
		t.Fatalf("bob accepts alice: %v", err)
	}
	if _, ok := r.PendingInviteFor("alice"); ok {
		t.Fatal("carol's invite to alice should be gone")
	}
}

func TestDeclineInvite(t *testing.T) {
	r := newTestRegistry(newTestClock())

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	invite, err := r.DeclineInvite("bob")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if invite.Inviter != "alice" {
		t.Fatalf("declined inviter = %q, want alice", invite.Inviter)
	}
	if _, err := r.DeclineInvite("bob"); !errors.Is(err, ErrNoPendingInvite) {
		t.Fatalf("second decline err = %v, want ErrNoPendingInvite", err)
	}
}

func TestConcurrentAcceptDecline(t *testing.T) {
	for i := 0; i < 50; i++ {
		r := newTestRegistry(newTestClock())
		if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
			t.Fatalf("invite: %v", err)
		}

		var wg sync.WaitGroup
		var acceptErr, declineErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, acceptErr = r.AcceptInvite("bob")
		}()
		go func() {
			defer wg.Done()
			_, declineErr = r.DeclineInvite("bob")
		}()
		wg.Wait()

		succeeded := 0
		for _, err := range []error{acceptErr, declineErr} {
			if err == nil {
				succeeded++
				continue
			}
			if !errors.Is(err, ErrNoPendingInvite) {
				t.Fatalf("loser err = %v, want ErrNoPendingInvite", err)
			}
		}
		if succeeded != 1 {
			t.Fatalf("round %d: %d winners, want exactly 1", i, succeeded)
		}
	}
}

func TestCancelInvite(t *testing.T) {
	clock := newTestClock()
	r := newTestRegistry(clock)

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite bob: %v", err)
	}
	clock.Advance(time.Second)
	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); err != nil {
		t.Fatalf("invite carol: %v", err)
	}

	invite, ok := r.CancelInvite("alice")
	if !ok {
		t.Fatal("expected a cancellable invite")
	}
	if invite.Invitee != "carol" {
		t.Fatalf("canceled invitee = %q, want carol (most recent)", invite.Invitee)
	}

	if _, ok := r.CancelInvite("dave"); ok {
		t.Fatal("expected no invite for a non-inviter")
	}
}

func TestEndSessionFreesPlayers(t *testing.T) {
	r := newTestRegistry(newTestClock())

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	session, err := r.AcceptInvite("bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	// A busy player cannot start a second invite.
	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); !errors.Is(err, ErrAlreadyInSession) {
		t.Fatalf("busy invite err = %v, want ErrAlreadyInSession", err)
	}

	if !r.EndSession(session, domain.EndReasonManual) {
		t.Fatal("first EndSession should win")
	}
	if r.EndSession(session, domain.EndReasonManual) {
		t.Fatal("second EndSession should observe a no-op")
	}
	if r.IsActive("alice") || r.IsActive("bob") {
		t.Fatal("players should be free immediately after end")
	}

	// Freed players can start over.
	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); err != nil {
		t.Fatalf("post-end invite: %v", err)
	}
}

func TestExpireDue(t *testing.T) {
	clock := newTestClock()
	r := newTestRegistry(clock)

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	session, err := r.AcceptInvite("bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if ended := r.ExpireDue(clock.Now()); len(ended) != 0 {
		t.Fatalf("fresh session expired: %v", ended)
	}

	clock.Advance(domain.DefaultTimeLimit - time.Second)
	if ended := r.ExpireDue(clock.Now()); len(ended) != 0 {
		t.Fatal("session expired before its deadline")
	}

	clock.Advance(time.Second)
	ended := r.ExpireDue(clock.Now())
	if len(ended) != 1 || ended[0] != session {
		t.Fatalf("ended = %v, want exactly the one session", ended)
	}
	if session.EndReasonValue() != domain.EndReasonTimeout {
		t.Fatalf("end reason = %v, want timeout", session.EndReasonValue())
	}
	if r.IsActive("alice") || r.IsActive("bob") {
		t.Fatal("expired session players should be deregistered")
	}

	// A second sweep reports nothing.
	if again := r.ExpireDue(clock.Now()); len(again) != 0 {
		t.Fatalf("second sweep ended %d sessions, want 0", len(again))
	}
}

func TestExpireDueLosesRaceToManualEnd(t *testing.T) {
	clock := newTestClock()
	r := newTestRegistry(clock)

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	session, err := r.AcceptInvite("bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	clock.Advance(domain.DefaultTimeLimit + time.Second)

	var wg sync.WaitGroup
	var manualWon bool
	var sweepEnded []*domain.Session
	wg.Add(2)
	go func() {
		defer wg.Done()
		manualWon = r.EndSession(session, domain.EndReasonManual)
	}()
	go func() {
		defer wg.Done()
		sweepEnded = r.ExpireDue(clock.Now())
	}()
	wg.Wait()

	sweepWon := len(sweepEnded) == 1
	if manualWon == sweepWon {
		t.Fatalf("manualWon=%v sweepWon=%v, want exactly one winner", manualWon, sweepWon)
	}
	if r.IsActive("alice") || r.IsActive("bob") {
		t.Fatal("players should be deregistered whichever path won")
	}
}

func TestFullLifecycleScenario(t *testing.T) {
	clock := newTestClock()
	r := newTestRegistry(clock)

	if _, err := r.InvitePlayer("alice", "bob", "chan-1"); err != nil {
		t.Fatalf("invite: %v", err)
	}
	session, err := r.AcceptInvite("bob")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if !r.IsActive("alice") || !r.IsActive("bob") {
		t.Fatal("both players should be active")
	}
	holders := map[domain.UserID]bool{session.CurrentTurn(): true}
	if len(holders) != 1 {
		t.Fatal("exactly one player holds the turn")
	}

	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); !errors.Is(err, ErrAlreadyInSession) {
		t.Fatalf("active player invite err = %v, want ErrAlreadyInSession", err)
	} else if code := apperrors.GetCode(err); code != apperrors.CodeAlreadyInSession {
		t.Fatalf("error code = %q, want ALREADY_IN_SESSION", code)
	}

	if !r.EndSession(session, domain.EndReasonManual) {
		t.Fatal("manual end should win")
	}
	if r.IsActive("alice") || r.IsActive("bob") {
		t.Fatal("players should be free after manual end")
	}
	if _, err := r.InvitePlayer("alice", "carol", "chan-1"); err != nil {
		t.Fatalf("invite after end: %v", err)
	}
}
