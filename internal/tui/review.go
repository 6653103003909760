package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// Verdict is the reviewer's call on a report.
type Verdict string

const (
	VerdictNone     Verdict = ""
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
)

// Decision is the outcome of a review session.
type Decision struct {
	ResultID   string    `json:"result_id"`
	Verdict    Verdict   `json:"verdict"`
	Note       string    `json:"note,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type reviewMode int

const (
	modeBrowse reviewMode = iota
	modeNote
)

// headerLines is the space kept for the title and status lines.
const headerLines = 5

// ReviewModel is the bubbletea model for reviewing one QC result.
type ReviewModel struct {
	result   *models.QCResult
	viewport viewport.Model
	note     textinput.Model
	mode     reviewMode
	decision Decision
	width    int
	height   int
	now      func() time.Time
}

// NewReviewModel creates a review screen for r.
func NewReviewModel(r *models.QCResult) *ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "Why is this report rejected?"
	ti.CharLimit = 500
	ti.Width = 60

	m := &ReviewModel{
		result:   r,
		viewport: viewport.New(80, 20),
		note:     ti,
		width:    80,
		height:   20 + headerLines,
		now:      time.Now,
		decision: Decision{ResultID: r.ID},
	}
	m.viewport.SetContent(renderFindings(r))
	return m
}

// Init implements tea.Model.
func (m *ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerLines, 3)
		m.note.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeNote {
			return m.updateNote(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "a", "A":
			m.decide(VerdictApproved, "")
			return m, tea.Quit
		case "r", "R":
			m.mode = modeNote
			return m, m.note.Focus()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ReviewModel) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.decide(VerdictRejected, strings.TrimSpace(m.note.Value()))
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.note.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

func (m *ReviewModel) decide(v Verdict, note string) {
	m.decision.Verdict = v
	m.decision.Note = note
	m.decision.ReviewedAt = m.now()
}

// Decision returns the reviewer's decision. Verdict is empty if the
// reviewer quit without deciding.
func (m *ReviewModel) Decision() Decision {
	return m.decision
}

// View implements tea.Model.
func (m *ReviewModel) View() string {
	var sb strings.Builder
	title := fmt.Sprintf(" Manual review: %s ", m.result.FirmName)
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s after round %d  %d critical, %d important, %d warning",
		m.result.Status, m.result.Iteration,
		m.result.Counts.Critical, m.result.Counts.Important, m.result.Counts.Warning)))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.mode == modeNote {
		sb.WriteString(promptStyle.Render("Reject: "))
		sb.WriteString(m.note.View())
	} else {
		sb.WriteString(promptStyle.Render("[a]pprove  [r]eject  [q]uit"))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %3.f%%", m.viewport.ScrollPercent()*100)))
	}
	return sb.String()
}

// renderFindings lays out findings by category in display order.
func renderFindings(r *models.QCResult) string {
	if len(r.Findings) == 0 {
		return dimStyle.Render("No findings.")
	}

	var sb strings.Builder
	groups := models.GroupByCategory(r.Findings)
	for _, cat := range models.AllCategories {
		group := groups[cat]
		if len(group) == 0 {
			continue
		}
		sb.WriteString(categoryStyle.Render(fmt.Sprintf("%s (%d)", cat, len(group))))
		sb.WriteString("\n")
		for _, f := range group {
			sb.WriteString("  ")
			sb.WriteString(severityTag(f.Severity))
			sb.WriteString(" ")
			sb.WriteString(f.Message)
			if f.Phase == models.PhaseAI {
				sb.WriteString(dimStyle.Render(" (ai)"))
			}
			sb.WriteString("\n")
			if f.Evidence != "" {
				sb.WriteString(dimStyle.Render("      evidence: " + f.Evidence))
				sb.WriteString("\n")
			}
			if f.Fix != "" {
				sb.WriteString(dimStyle.Render("      fix: " + f.Fix))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	if r.AI != nil && r.AI.BiggestIssue != "" {
		sb.WriteString(categoryStyle.Render("Biggest issue"))
		sb.WriteString("\n  " + r.AI.BiggestIssue + "\n")
	}
	return sb.String()
}

func severityTag(s models.Severity) string {
	tag := "[" + string(s) + "]"
	switch s {
	case models.SeverityCritical:
		return criticalStyle.Render(tag)
	case models.SeverityImportant:
		return importantStyle.Render(tag)
	default:
		return warningStyle.Render(tag)
	}
}

// RunReview shows the review screen and blocks until the reviewer is done.
func RunReview(r *models.QCResult, opts ...tea.ProgramOption) (Decision, error) {
	m := NewReviewModel(r)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return Decision{}, fmt.Errorf("run review: %w", err)
	}
	return m.Decision(), nil
}
