package validator

import (
	"log"
	"strings"
	"unicode/utf8"

	"freelance_backend/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Приложение не должно запускаться с неполным набором правил
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Статусы и перечисления из statuses.go
	mustRegister("is-project-status", validateProjectStatus)
	mustRegister("is-bid-status", validateBidStatus)
	mustRegister("is-budget-type", validateBudgetType)
	mustRegister("is-message-type", validateMessageType)

	// 'is-currency': ISO-4217 код (KZT, USD, ...)
	mustRegister("is-currency", validateCurrency)

	// 'notblank': строка не состоит из одних пробелов
	mustRegister("notblank", validateNotBlank)

	// 'emoji': короткая непустая строка без пробелов
	mustRegister("emoji", validateEmoji)
}

// --- Функции валидации ---

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	// deleted и in_progress выставляются только сервером
	switch models.ProjectStatus(value) {
	case models.ProjectStatusDraft, models.ProjectStatusPublished, models.ProjectStatusPending,
		models.ProjectStatusCompleted, models.ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

func validateBidStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BidStatus(value) {
	case models.BidStatusPending, models.BidStatusAccepted, models.BidStatusRejected, models.BidStatusWithdrawn:
		return true
	default:
		return false
	}
}

func validateBudgetType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BudgetType(value) {
	case models.BudgetTypeFixed, models.BudgetTypeHourly, models.BudgetTypePriceRequest:
		return true
	default:
		return false
	}
}

func validateMessageType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MessageType(value) {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeFile, models.MessageTypeVoice:
		return true
	default:
		return false
	}
}

func validateCurrency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if len(value) != 3 || strings.ToUpper(value) != value {
		return false
	}
	_, err := currency.ParseISO(value)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateEmoji(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	n := utf8.RuneCountInString(value)
	return n > 0 && n <= 8 && !strings.ContainsAny(value, " \t\n")
}
