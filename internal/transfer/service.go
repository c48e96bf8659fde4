// Package transfer implements the connect → enforce-chain → fetch-balances →
// submit control flow against an injected wallet provider.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/provider"
	"github.com/mohammade909/bsend/internal/token"
)

// User-facing messages. One generic message per failure class; transfer
// failures surface the underlying error verbatim instead.
const (
	MsgSwitchFailed = "failed to switch network"
	MsgAddFailed    = "failed to add network"
	MsgFetchFailed  = "failed to fetch balances"
	MsgValidation   = "recipient and amount are required"
)

// Errors.
var (
	ErrNotConnected      = errors.New("wallet not connected")
	ErrValidation        = errors.New("validation failed")
	ErrSubmitInFlight    = errors.New("a transfer is already in flight")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// BalanceSnapshot holds both display balances. It is replaced wholesale on
// every successful fetch and left untouched on failure.
type BalanceSnapshot struct {
	Native string
	Token  string
}

// Form holds the user-entered transfer fields.
type Form struct {
	Recipient string
	Amount    string
}

// Service drives the wallet transfer flow. All chain interaction goes
// through the injected provider; the service itself is UI state: a state
// enum, a balance snapshot, the form and a single overwritten error slot.
type Service struct {
	provider    provider.Provider
	token       *token.Binding
	targetChain *chain.Descriptor

	mu       sync.Mutex
	state    State
	balances BalanceSnapshot
	form     Form
	errMsg   string
	lastTx   string

	inFlight atomic.Bool
}

// NewService creates a transfer service targeting the given chain.
func NewService(p provider.Provider, tok *token.Binding, target *chain.Descriptor) *Service {
	return &Service{
		provider:    p,
		token:       tok,
		targetChain: target,
		state:       Disconnected,
	}
}

// --- observers ---

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Balances returns the last successful balance snapshot.
func (s *Service) Balances() BalanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances
}

// Form returns the current form fields.
func (s *Service) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Err returns the current error message, or "" when none.
func (s *Service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// LastTxHash returns the hash of the most recently broadcast transfer.
func (s *Service) LastTxHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTx
}

// Account returns the connected account, or "" when disconnected.
func (s *Service) Account() string {
	return s.provider.State().Account
}

// SetRecipient mutates the form's recipient field.
func (s *Service) SetRecipient(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Recipient = v
}

// SetAmount mutates the form's amount field.
func (s *Service) SetAmount(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Amount = v
}

// --- operations ---

// Connect establishes the wallet session, enforces the target chain and
// loads the first balance snapshot. On connection failure the state stays
// disconnected; on chain or balance failure the session stays connected
// with the error slot set.
func (s *Service) Connect(ctx context.Context) error {
	s.clearErr()
	if err := s.transition(Connecting); err != nil {
		return err
	}

	if err := s.provider.Connect(ctx); err != nil {
		s.forceState(Disconnected)
		s.setErr(err.Error())
		return err
	}
	if err := s.transition(Connected); err != nil {
		return err
	}

	if err := s.EnsureChain(ctx); err != nil {
		return err
	}
	return s.FetchBalances(ctx)
}

// Disconnect tears down the session from any state.
func (s *Service) Disconnect() error {
	err := s.provider.Disconnect()
	s.forceState(Disconnected)
	s.mu.Lock()
	s.balances = BalanceSnapshot{}
	s.mu.Unlock()
	return err
}

// EnsureChain requests a switch to the target chain. When the wallet reports
// the chain as unregistered it issues exactly one registration request with
// the fixed descriptor; registration implies the switch. Failures are
// terminal for the attempt, there is no retry loop.
func (s *Service) EnsureChain(ctx context.Context) error {
	s.clearErr()
	if !s.provider.State().Connected {
		s.setErr(MsgSwitchFailed)
		return ErrNotConnected
	}

	_, err := s.provider.Request(ctx, "wallet_switchEthereumChain",
		provider.SwitchChainParams{ChainID: s.targetChain.ChainIDHex()})
	if err == nil {
		return nil
	}

	if provider.IsUnsupportedChain(err) {
		_, addErr := s.provider.Request(ctx, "wallet_addEthereumChain",
			s.targetChain.AddChainParams())
		if addErr != nil {
			s.setErr(MsgAddFailed)
			return fmt.Errorf("%s: %w", MsgAddFailed, addErr)
		}
		return nil
	}

	s.setErr(MsgSwitchFailed)
	return fmt.Errorf("%s: %w", MsgSwitchFailed, err)
}

// FetchBalances recomputes the balance snapshot wholesale. It is a no-op
// when no session or account is present. On any failure the previous
// snapshot is kept whole — no partial update.
func (s *Service) FetchBalances(ctx context.Context) error {
	st := s.provider.State()
	if !st.Connected || st.Account == "" {
		return nil
	}
	s.clearErr()

	native, err := s.provider.NativeBalance(ctx, st.Account)
	if err != nil {
		s.setErr(MsgFetchFailed)
		return fmt.Errorf("%s: %w", MsgFetchFailed, err)
	}

	decimals, err := s.token.Decimals(ctx)
	if err != nil {
		s.setErr(MsgFetchFailed)
		return fmt.Errorf("%s: %w", MsgFetchFailed, err)
	}

	raw, err := s.token.BalanceOf(ctx, st.Account)
	if err != nil {
		s.setErr(MsgFetchFailed)
		return fmt.Errorf("%s: %w", MsgFetchFailed, err)
	}

	s.mu.Lock()
	s.balances = BalanceSnapshot{
		Native: chain.FormatNative(native),
		Token:  chain.FormatToken(raw, decimals),
	}
	s.mu.Unlock()
	return nil
}

// SubmitTransfer validates the form, converts the amount to base units and
// submits the token transfer, waiting for one confirmation. On success the
// form is cleared and balances are refreshed once; on failure the form is
// left as entered and the underlying error message is surfaced verbatim.
// An in-flight submission rejects further attempts without queuing.
func (s *Service) SubmitTransfer(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	s.clearErr()
	form := s.Form()

	if form.Recipient == "" || form.Amount == "" || !s.provider.State().Connected {
		s.setErr(MsgValidation)
		return ErrValidation
	}

	if err := s.transition(Submitting); err != nil {
		return err
	}
	defer s.forceState(Connected)

	decimals, err := s.token.Decimals(ctx)
	if err != nil {
		s.setErr(err.Error())
		return err
	}

	units, err := chain.ToBaseUnits(form.Amount, decimals)
	if err != nil {
		s.setErr(err.Error())
		return err
	}

	hash, err := s.token.Transfer(ctx, form.Recipient, units)
	if err != nil {
		s.setErr(err.Error())
		return err
	}
	s.mu.Lock()
	s.lastTx = hash
	s.mu.Unlock()

	if err := s.provider.WaitMined(ctx, hash); err != nil {
		s.setErr(err.Error())
		return err
	}

	s.mu.Lock()
	s.form = Form{}
	s.mu.Unlock()

	return s.FetchBalances(ctx)
}

// --- state plumbing ---

// transition moves to next, rejecting illegal moves.
func (s *Service) transition(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CanTransition(next) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, s.state, next)
	}
	s.state = next
	return nil
}

// forceState sets the state unconditionally. Used for the recovery edges
// (back to Disconnected / Connected) which are always legal.
func (s *Service) forceState(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Service) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Service) clearErr() { s.setErr("") }
