package moderation

import "context"

// Verdict - итог проверки текста
type Verdict string

const (
	VerdictClean      Verdict = "clean"
	VerdictFlag       Verdict = "flag"
	VerdictReject     Verdict = "reject"
	VerdictUnverified Verdict = "unverified"
)

// Label - человекочитаемая метка вердикта
func (v Verdict) Label() string {
	switch v {
	case VerdictClean:
		return "safe"
	case VerdictFlag:
		return "needs review"
	case VerdictReject:
		return "severe"
	default:
		return "unverified"
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight - вклад одного нарушения в итоговый балл
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 50
	case SeverityMedium:
		return 25
	default:
		return 10
	}
}

const (
	// Пороги вердиктов по баллу 0-100
	CleanThreshold       = 30
	StrictCleanThreshold = 15
	FlagThreshold        = 70
	MaxScore             = 100
)

type Options struct {
	Strict      bool `json:"strict"`
	Mask        bool `json:"mask"`
	ReturnStats bool `json:"returnStats"`
}

type Violation struct {
	Word     string   `json:"word"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
}

type Stats struct {
	Words      int            `json:"words"`
	Violations int            `json:"violations"`
	ByCategory map[string]int `json:"byCategory"`
	BySeverity map[string]int `json:"bySeverity"`
}

type Result struct {
	IsClean       bool        `json:"isClean"`
	Score         int         `json:"score"`
	Verdict       Verdict     `json:"verdict"`
	Label         string      `json:"label"`
	Categories    []string    `json:"categories"`
	Violations    []Violation `json:"violations"`
	SanitizedText *string     `json:"sanitizedText,omitempty"`
	Stats         *Stats      `json:"stats,omitempty"`
	Backend       string      `json:"backend"`
}

// Moderator - бэкенд проверки текста (локальный движок, удаленный сервис, кэш)
type Moderator interface {
	Moderate(ctx context.Context, text string, opts Options) (*Result, error)
}

// VerdictFor вычисляет вердикт по баллу с учетом строгого режима
func VerdictFor(score int, strict bool) Verdict {
	clean := CleanThreshold
	if strict {
		clean = StrictCleanThreshold
	}
	switch {
	case score <= clean:
		return VerdictClean
	case score <= FlagThreshold:
		return VerdictFlag
	default:
		return VerdictReject
	}
}

// Unverified - результат для недоступного бэкенда; не считается чистым
func Unverified(text string, opts Options) *Result {
	res := &Result{
		IsClean:    false,
		Score:      0,
		Verdict:    VerdictUnverified,
		Label:      VerdictUnverified.Label(),
		Categories: []string{},
		Violations: []Violation{},
		Backend:    "none",
	}
	if opts.Mask {
		res.SanitizedText = &text
	}
	return res
}
