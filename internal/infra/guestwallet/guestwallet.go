// Package guestwallet stores guest balances in per-token wallet files.
//
// Guests are anonymous: their wallet is local to this daemon's home
// directory, holds exactly the two entries the product tracks (the balloon
// count and the one-time "received welcome balloons" flag) and keeps no
// transaction history. The welcome grant is applied lazily on first access
// and never repeated, even if the balance entry is later cleared while the
// flag survives.
package guestwallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eventor-ai/balloond/internal/domain"
)

// Store manages guest wallet files under dir.
type Store struct {
	dir   string
	grant int64

	mu sync.Mutex // serializes all wallet reads/writes
}

// walletFile mirrors the two original local-storage entries. Balloons is a
// pointer so a cleared balance entry is distinguishable from zero.
type walletFile struct {
	Balloons        *int64 `json:"balloons,omitempty"`
	ReceivedWelcome bool   `json:"received_welcome_balloons,omitempty"`
}

// New creates a guest wallet store rooted at dir, granting grant balloons
// the first time a wallet is touched.
func New(dir string, grant int64) *Store {
	return &Store{dir: dir, grant: grant}
}

// Balance returns the guest's balance, applying the one-time welcome grant
// when the wallet has never been initialized.
func (s *Store) Balance(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(token)
	if err != nil {
		return 0, err
	}
	return *w.Balloons, nil
}

// Spend debits amount if the balance covers it.
func (s *Store) Spend(ctx context.Context, token string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(token)
	if err != nil {
		return 0, err
	}
	if *w.Balloons < amount {
		return *w.Balloons, &domain.InsufficientBalloonsError{Balance: *w.Balloons, Required: amount}
	}
	*w.Balloons -= amount
	if err := s.save(token, w); err != nil {
		return 0, err
	}
	return *w.Balloons, nil
}

// Earn credits amount unconditionally.
func (s *Store) Earn(ctx context.Context, token string, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(token)
	if err != nil {
		return 0, err
	}
	*w.Balloons += amount
	if err := s.save(token, w); err != nil {
		return 0, err
	}
	return *w.Balloons, nil
}

// ─── File Handling ──────────────────────────────────────────────────────────

// load reads the wallet, initializing missing entries. Callers hold s.mu.
// After load, w.Balloons is always non-nil.
func (s *Store) load(token string) (*walletFile, error) {
	path, err := s.walletPath(token)
	if err != nil {
		return nil, err
	}

	var w walletFile
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fresh wallet
	case err != nil:
		return nil, fmt.Errorf("read guest wallet: %w", err)
	default:
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("parse guest wallet: %w", err)
		}
	}

	if w.Balloons == nil {
		var start int64
		if !w.ReceivedWelcome {
			// One-time welcome grant. The flag, not the balance entry, is
			// what prevents a repeat grant.
			start = s.grant
			w.ReceivedWelcome = true
		}
		w.Balloons = &start
		if err := s.save(token, &w); err != nil {
			return nil, err
		}
	}
	return &w, nil
}

// save writes the wallet with an atomic replace so a crash mid-write never
// leaves a torn file.
func (s *Store) save(token string, w *walletFile) error {
	path, err := s.walletPath(token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(w)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// walletPath maps a guest token to its wallet file, refusing tokens that
// could escape the wallet directory.
func (s *Store) walletPath(token string) (string, error) {
	if token == "" || strings.ContainsAny(token, `/\`) || strings.Contains(token, "..") {
		return "", domain.ErrUnauthorized
	}
	return filepath.Join(s.dir, token+".json"), nil
}
