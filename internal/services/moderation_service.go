package services

import (
	"context"
	"errors"
	"time"

	"freelance_backend/internal/logger"
	"freelance_backend/internal/metrics"
	"freelance_backend/internal/models"
	"freelance_backend/internal/moderation"
	"freelance_backend/pkg/apperrors"
)

// ProjectText - поля проекта, подлежащие модерации
type ProjectText struct {
	Title               string
	Description         string
	DetailedDescription string
}

// Assessment - сводный вердикт по нескольким полям
type Assessment struct {
	Status     models.ModerationStatus
	Verdict    moderation.Verdict
	Score      int
	Categories []string
	Violations map[string][]moderation.Violation
}

// Approved - можно публиковать без ручной проверки
func (a *Assessment) Approved() bool {
	return a.Status == models.ModerationApproved
}

type ModerationService interface {
	// Check никогда не возвращает ошибку: недоступный бэкенд дает вердикт unverified
	Check(ctx context.Context, text string, opts moderation.Options) *moderation.Result
	AssessProject(ctx context.Context, text ProjectText) (*Assessment, error)
	// CheckText - проверка одного поля; reject превращается в ValidationError
	CheckText(ctx context.Context, field, text string, strict bool) (*moderation.Result, error)
}

type moderationService struct {
	backend moderation.Moderator
}

func NewModerationService(backend moderation.Moderator) ModerationService {
	if backend == nil {
		backend = moderation.NewEngine()
	}
	return &moderationService{backend: backend}
}

func (s *moderationService) Check(ctx context.Context, text string, opts moderation.Options) *moderation.Result {
	start := time.Now()

	res, err := s.backend.Moderate(ctx, text, opts)
	if err != nil {
		if !errors.Is(err, moderation.ErrBackendUnavailable) {
			logger.CtxWithError(ctx, "Moderation backend error", err)
		} else {
			logger.CtxWarn(ctx, "Moderation backend unavailable", "error", err.Error())
		}
		res = moderation.Unverified(text, opts)
	}

	metrics.RecordModeration(res.Backend, string(res.Verdict), time.Since(start))
	return res
}

// verdictRank - чем больше, тем хуже
func verdictRank(v moderation.Verdict) int {
	switch v {
	case moderation.VerdictReject:
		return 3
	case moderation.VerdictUnverified:
		return 2
	case moderation.VerdictFlag:
		return 1
	default:
		return 0
	}
}

func statusForVerdict(v moderation.Verdict) models.ModerationStatus {
	switch v {
	case moderation.VerdictClean:
		return models.ModerationApproved
	case moderation.VerdictFlag:
		return models.ModerationPendingReview
	case moderation.VerdictReject:
		return models.ModerationRejected
	default:
		return models.ModerationUnverified
	}
}

func (s *moderationService) AssessProject(ctx context.Context, text ProjectText) (*Assessment, error) {
	fields := []struct {
		name   string
		value  string
		strict bool
	}{
		{"title", text.Title, false},
		{"description", text.Description, true},
		{"detailedDescription", text.DetailedDescription, true},
	}

	a := &Assessment{
		Verdict:    moderation.VerdictClean,
		Categories: []string{},
		Violations: map[string][]moderation.Violation{},
	}
	seen := map[string]bool{}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		res := s.Check(ctx, f.value, moderation.Options{Strict: f.strict})
		if verdictRank(res.Verdict) > verdictRank(a.Verdict) {
			a.Verdict = res.Verdict
		}
		if res.Score > a.Score {
			a.Score = res.Score
		}
		if len(res.Violations) > 0 {
			a.Violations[f.name] = res.Violations
		}
		for _, c := range res.Categories {
			if !seen[c] {
				seen[c] = true
				a.Categories = append(a.Categories, c)
			}
		}
	}

	a.Status = statusForVerdict(a.Verdict)
	if a.Verdict == moderation.VerdictReject {
		return a, rejectedError(a.Violations)
	}
	return a, nil
}

func (s *moderationService) CheckText(ctx context.Context, field, text string, strict bool) (*moderation.Result, error) {
	res := s.Check(ctx, text, moderation.Options{Strict: strict})
	if res.Verdict == moderation.VerdictReject {
		return res, rejectedError(map[string][]moderation.Violation{field: res.Violations})
	}
	return res, nil
}

func rejectedError(violations map[string][]moderation.Violation) error {
	details := make(map[string]string, len(violations))
	for field := range violations {
		details[field] = apperrors.ErrContentRejected.Message
	}
	return apperrors.ErrContentRejected.WithDetails(map[string]any{
		"fields":     details,
		"violations": violations,
	})
}
