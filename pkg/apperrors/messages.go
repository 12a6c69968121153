package apperrors

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Поддерживаемые языки ответа, первый - язык по умолчанию
var supportedLanguages = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(supportedLanguages)

// Переводы сообщений об ошибках. Ключ - английский текст из AppError.Message
var ruMessages = map[string]string{
	"Internal server error":                                  "Внутренняя ошибка сервера",
	"Validation failed":                                      "Ошибка валидации",
	"Backend service is unavailable":                         "Сервис временно недоступен",
	"Backend call timed out, please retry":                   "Превышено время ожидания, повторите запрос",
	"User not authenticated":                                 "Пользователь не авторизован",
	"Invalid or expired token":                               "Недействительный или просроченный токен",
	"Insufficient permissions":                               "Недостаточно прав",
	"Project not found":                                      "Проект не найден",
	"Only the project owner can perform this action":         "Это действие доступно только владельцу проекта",
	"Project is not open for bids":                           "Проект не принимает отклики",
	"Project can no longer be modified":                      "Проект больше нельзя изменить",
	"Status transition is not allowed":                       "Недопустимая смена статуса",
	"Project content must pass moderation before publishing": "Перед публикацией проект должен пройти модерацию",
	"Content violates platform rules":                        "Содержимое нарушает правила платформы",
	"Bid not found":                                          "Отклик не найден",
	"You already have an active bid on this project":         "У вас уже есть активный отклик на этот проект",
	"Bid is no longer pending":                               "Отклик уже обработан",
	"Bids can only be accepted through the accept endpoint":  "Принять отклик можно только через отдельный метод",
	"You cannot bid on your own project":                     "Нельзя откликаться на собственный проект",
	"Project was modified concurrently, please retry":        "Проект был изменен параллельно, повторите попытку",
	"Review not found":                                       "Отзыв не найден",
	"Review already has a reply":                             "На отзыв уже есть ответ",
	"You cannot review yourself":                             "Нельзя оставить отзыв самому себе",
	"Message not found":                                      "Сообщение не найдено",
	"You are not a participant of this room":                 "Вы не участник этого чата",
	"Invalid room id":                                        "Некорректный идентификатор чата",
	"File is too large":                                      "Файл слишком большой",
	"File type is not allowed":                               "Недопустимый тип файла",
	"Resource not found":                                     "Ресурс не найден",
}

func init() {
	for key, msg := range ruMessages {
		_ = message.SetString(language.Russian, key, msg)
	}
}

// MatchLanguage выбирает язык ответа по заголовку Accept-Language
func MatchLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0]
	}
	_, idx, _ := matcher.Match(tags...)
	return supportedLanguages[idx]
}

// Localize переводит сообщение, неизвестные ключи возвращаются как есть
func Localize(tag language.Tag, msg string) string {
	return message.NewPrinter(tag).Sprintf(msg)
}
