package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohammade909/bsend/internal/transfer"
)

// Focusable controls of the transfer form, in tab order.
type formFocus int

const (
	focusRecipient formFocus = iota
	focusAmount
	focusSubmit
)

// Async operation results delivered back into the model.
type (
	connectDoneMsg struct{ err error }
	submitDoneMsg  struct{ err error }
	refreshDoneMsg struct{ err error }
	tickMsg        time.Time
)

// TransferModel is the single-page transfer form: account header, two
// balance cards, recipient/amount inputs, a submit control and an inline
// error banner. All chain work happens in the transfer service; the model
// only reflects its state.
type TransferModel struct {
	svc *transfer.Service

	focus   formFocus
	busy    bool // a connect/submit/refresh command is outstanding
	frame   int
	symbol  string // native currency symbol, e.g. "BNB"
	token   string // token label, e.g. "USDT"
	flash   string // transient success note
	quitMsg string
}

// NewTransferModel creates the form bound to a transfer service.
func NewTransferModel(svc *transfer.Service, nativeSymbol, tokenLabel string) TransferModel {
	return TransferModel{
		svc:    svc,
		symbol: nativeSymbol,
		token:  tokenLabel,
		busy:   true, // Init immediately kicks off the connect
	}
}

func (m TransferModel) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m TransferModel) connectCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return connectDoneMsg{err: svc.Connect(ctx)}
	}
}

func (m TransferModel) submitCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		return submitDoneMsg{err: svc.SubmitTransfer(ctx)}
	}
}

func (m TransferModel) refreshCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return refreshDoneMsg{err: svc.FetchBalances(ctx)}
	}
}

func (m TransferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.frame++
		return m, tick()

	case connectDoneMsg:
		m.busy = false
		return m, nil

	case submitDoneMsg:
		m.busy = false
		if msg.err == nil {
			m.flash = "transfer confirmed"
		}
		return m, nil

	case refreshDoneMsg:
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TransferModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "down":
		m.focus = (m.focus + 1) % 3
		return m, nil

	case "shift+tab", "up":
		m.focus = (m.focus + 2) % 3
		return m, nil

	case "ctrl+r":
		if !m.busy {
			m.busy = true
			m.flash = ""
			return m, m.refreshCmd()
		}
		return m, nil

	case "enter":
		if m.focus != focusSubmit {
			m.focus++
			return m, nil
		}
		// The busy flag is the UI-level guard; the service holds the
		// authoritative in-flight check.
		if m.busy || m.svc.State() != transfer.Connected {
			return m, nil
		}
		m.busy = true
		m.flash = ""
		return m, m.submitCmd()

	case "backspace":
		m.editFocused(func(s string) string {
			if len(s) == 0 {
				return s
			}
			return s[:len(s)-1]
		})
		return m, nil

	default:
		if len(msg.Runes) > 0 {
			text := string(msg.Runes)
			m.editFocused(func(s string) string { return s + text })
		}
		return m, nil
	}
}

func (m *TransferModel) editFocused(edit func(string) string) {
	form := m.svc.Form()
	switch m.focus {
	case focusRecipient:
		m.svc.SetRecipient(edit(form.Recipient))
	case focusAmount:
		m.svc.SetAmount(edit(form.Amount))
	}
}

func (m TransferModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("bsend — "+m.token+" transfer") + "\n")
	b.WriteString(m.headerView() + "\n\n")
	b.WriteString(m.balancesView() + "\n\n")
	b.WriteString(m.formView() + "\n")

	if errMsg := m.svc.Err(); errMsg != "" {
		b.WriteString("\n" + StyleErrBanner.Render(errMsg) + "\n")
	} else if m.flash != "" {
		b.WriteString("\n" + Success(m.flash) + "\n")
	}

	b.WriteString("\n" + StyleMeta.Render("tab/↑↓ move · enter submit · ctrl+r refresh · esc quit"))
	return b.String() + "\n"
}

func (m TransferModel) headerView() string {
	state := m.svc.State()
	switch state {
	case transfer.Connecting:
		return m.spinnerFrame() + " " + Meta("connecting wallet…")
	case transfer.Submitting:
		return m.spinnerFrame() + " " + Meta("submitting transfer…")
	case transfer.Connected:
		return Success("connected") + "  " + Addr(TruncateAddr(m.svc.Account()))
	default:
		return Err("disconnected")
	}
}

func (m TransferModel) spinnerFrame() string {
	return StyleAccent.Render(spinnerFrames[m.frame%len(spinnerFrames)])
}

func (m TransferModel) balancesView() string {
	bal := m.svc.Balances()
	native := bal.Native
	tok := bal.Token
	if native == "" {
		native = "—"
	}
	if tok == "" {
		tok = "—"
	}

	nativeCard := StyleCard.Render(Meta(m.symbol) + "\n" + Val(native))
	tokenCard := StyleCard.Render(Meta(m.token) + "\n" + Val(tok))
	return lipgloss.JoinHorizontal(lipgloss.Top, nativeCard, " ", tokenCard)
}

func (m TransferModel) formView() string {
	form := m.svc.Form()

	recipient := m.inputView("Recipient", form.Recipient, m.focus == focusRecipient)
	amount := m.inputView("Amount", form.Amount, m.focus == focusAmount)

	submitLabel := "[ Send ]"
	if m.busy {
		submitLabel = "[ " + m.spinnerFrame() + " sending… ]"
	}
	submit := StyleMeta.Render(submitLabel)
	if m.focus == focusSubmit && !m.busy {
		submit = StyleSuccess.Render(submitLabel)
	}

	return recipient + "\n" + amount + "\n\n" + submit
}

func (m TransferModel) inputView(label, value string, focused bool) string {
	cursor := ""
	style := StyleBorder
	if focused {
		cursor = "█"
		style = StyleFocused
	}
	field := fmt.Sprintf("%-9s %s%s", label+":", StyleAddress.Render(value), cursor)
	return style.Render(field)
}

// RunTransferView launches the interactive transfer form.
func RunTransferView(svc *transfer.Service, nativeSymbol, tokenLabel string) error {
	p := tea.NewProgram(NewTransferModel(svc, nativeSymbol, tokenLabel))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("transfer view: %w", err)
	}
	return nil
}
