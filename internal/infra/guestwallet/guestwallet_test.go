package guestwallet

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eventor-ai/balloond/internal/domain"
)

const testToken = "3f8a2c1e-guest-token"

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, 300), dir
}

func readWalletFile(t *testing.T, dir, token string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, token+".json"))
	if err != nil {
		t.Fatalf("read wallet file: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("parse wallet file: %v", err)
	}
	return m
}

// ─── Welcome Grant ──────────────────────────────────────────────────────────

func TestBalance_FirstAccessGrantsWelcome(t *testing.T) {
	s, _ := newTestStore(t)

	balance, err := s.Balance(context.Background(), testToken)
	if err != nil {
		t.Fatalf("Balance() error: %v", err)
	}
	if balance != 300 {
		t.Errorf("balance = %d, want 300", balance)
	}
}

func TestBalance_GrantNeverRepeats(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.Balance(ctx, testToken)
	s.Spend(ctx, testToken, 300, "drain")

	// Repeated initializer calls must not re-grant.
	for i := 0; i < 3; i++ {
		balance, err := s.Balance(ctx, testToken)
		if err != nil {
			t.Fatal(err)
		}
		if balance != 0 {
			t.Fatalf("balance = %d after drain, want 0 (no re-grant)", balance)
		}
	}
}

func TestBalance_ClearedBalanceKeyDoesNotRegrant(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()
	s.Balance(ctx, testToken)

	// Clear the balance entry but keep the welcome flag, as the original
	// product could after localStorage.removeItem on the balance key alone.
	path := filepath.Join(dir, testToken+".json")
	if err := os.WriteFile(path, []byte(`{"received_welcome_balloons":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	balance, err := s.Balance(ctx, testToken)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0: the flag alone must block a re-grant", balance)
	}
}

func TestBalance_MissingFlagGrantsOnce(t *testing.T) {
	s, dir := newTestStore(t)

	balance, _ := s.Balance(context.Background(), testToken)
	if balance != 300 {
		t.Fatalf("balance = %d, want 300", balance)
	}

	m := readWalletFile(t, dir, testToken)
	if m["received_welcome_balloons"] != true {
		t.Error("welcome flag should be persisted alongside the grant")
	}
}

// ─── Spend / Earn ───────────────────────────────────────────────────────────

func TestSpend_Guest(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	balance, err := s.Spend(ctx, testToken, 20, "AI Image Generation")
	if err != nil {
		t.Fatalf("Spend() error: %v", err)
	}
	if balance != 280 {
		t.Errorf("balance = %d, want 280", balance)
	}

	m := readWalletFile(t, dir, testToken)
	if got := m["balloons"]; got != float64(280) {
		t.Errorf("persisted balloons = %v, want 280", got)
	}
}

func TestSpend_GuestRefusedWhenShort(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Balance(ctx, testToken)
	s.Spend(ctx, testToken, 290, "drain to 10")

	_, err := s.Spend(ctx, testToken, 25, "Budget Generation")
	var short *domain.InsufficientBalloonsError
	if !errors.As(err, &short) {
		t.Fatalf("Spend() error = %v, want InsufficientBalloonsError", err)
	}
	if short.Balance != 10 || short.Required != 25 {
		t.Errorf("short = %+v, want balance 10 / required 25", short)
	}

	balance, _ := s.Balance(ctx, testToken)
	if balance != 10 {
		t.Errorf("balance = %d, want 10 (unchanged)", balance)
	}
}

func TestEarn_GuestUnconditional(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	balance, err := s.Earn(ctx, testToken, 40, "minigame reward")
	if err != nil {
		t.Fatalf("Earn() error: %v", err)
	}
	if balance != 340 {
		t.Errorf("balance = %d, want 340 (300 welcome + 40)", balance)
	}
}

func TestMutations_RejectNonPositiveAmounts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Spend(ctx, testToken, 0, "x"); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Spend(0) error = %v, want ErrInvalidAmount", err)
	}
	if _, err := s.Earn(ctx, testToken, -5, "x"); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Earn(-5) error = %v, want ErrInvalidAmount", err)
	}
}

// ─── Persistence ────────────────────────────────────────────────────────────

func TestBalance_RoundTripsAcrossStoreInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1 := New(dir, 300)
	s1.Spend(ctx, testToken, 20, "AI Image Generation")

	// A fresh store over the same directory models a page reload.
	s2 := New(dir, 300)
	balance, err := s2.Balance(ctx, testToken)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 280 {
		t.Errorf("balance after reload = %d, want 280", balance)
	}
}

func TestWalletPath_RejectsTraversal(t *testing.T) {
	s, _ := newTestStore(t)

	for _, token := range []string{"", "../escape", "a/b", `a\b`} {
		if _, err := s.Balance(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Balance(%q) error = %v, want ErrUnauthorized", token, err)
		}
	}
}
