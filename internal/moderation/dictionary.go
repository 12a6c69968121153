package moderation

import "regexp"

// Term - запись словаря. Слова хранятся в нормализованном виде (см. normalize)
type Term struct {
	Word     string
	Category string
	Severity Severity
}

const (
	CategoryProfanity = "profanity"
	CategoryInsult    = "insult"
	CategorySpam      = "spam"
	CategoryScam      = "scam"
	CategoryContact   = "contact"
	CategoryDrugs     = "drugs"
)

// DefaultTerms - базовый словарь. Латиница и кириллица, формы через префиксы
var DefaultTerms = []Term{
	// profanity
	{Word: "fuck", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "shit", Category: CategoryProfanity, Severity: SeverityMedium},
	{Word: "bitch", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "bastard", Category: CategoryProfanity, Severity: SeverityMedium},
	{Word: "damn", Category: CategoryProfanity, Severity: SeverityLow},
	{Word: "crap", Category: CategoryProfanity, Severity: SeverityLow},
	{Word: "хуй", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "пизд", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "ебат", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "бляд", Category: CategoryProfanity, Severity: SeverityHigh},
	{Word: "говно", Category: CategoryProfanity, Severity: SeverityMedium},

	// insult
	{Word: "idiot", Category: CategoryInsult, Severity: SeverityMedium},
	{Word: "moron", Category: CategoryInsult, Severity: SeverityMedium},
	{Word: "stupid", Category: CategoryInsult, Severity: SeverityLow},
	{Word: "идиот", Category: CategoryInsult, Severity: SeverityMedium},
	{Word: "дебил", Category: CategoryInsult, Severity: SeverityMedium},
	{Word: "тупой", Category: CategoryInsult, Severity: SeverityLow},

	// spam
	{Word: "casino", Category: CategorySpam, Severity: SeverityMedium},
	{Word: "viagra", Category: CategorySpam, Severity: SeverityMedium},
	{Word: "казино", Category: CategorySpam, Severity: SeverityMedium},
	{Word: "ставки", Category: CategorySpam, Severity: SeverityLow},

	// scam: просьбы платить мимо площадки
	{Word: "prepayment", Category: CategoryScam, Severity: SeverityMedium},
	{Word: "предоплата", Category: CategoryScam, Severity: SeverityMedium},

	// drugs
	{Word: "cocaine", Category: CategoryDrugs, Severity: SeverityHigh},
	{Word: "кокаин", Category: CategoryDrugs, Severity: SeverityHigh},
}

// Pattern - детектор контактов для ухода с площадки
type Pattern struct {
	Name     string
	Re       *regexp.Regexp
	Category string
	Severity Severity
}

var DefaultPatterns = []Pattern{
	{
		Name:     "email",
		Re:       regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		Category: CategoryContact,
		Severity: SeverityMedium,
	},
	// +7 (701) 123-45-67, 8 701 123 45 67, 87011234567; одиночные разделители между группами
	{
		Name:     "phone",
		Re:       regexp.MustCompile(`(?:\+\d{1,3}[ \-]?|\b8[ \-]?)\(?\d{3}\)?[ \-]?\d{3}(?:[ \-]?\d{2}){2}\b`),
		Category: CategoryContact,
		Severity: SeverityMedium,
	},
	{
		Name:     "messenger",
		Re:       regexp.MustCompile(`(?i)(?:t\.me/\S+|wa\.me/\S+|telegram|whatsapp|viber|skype|discord\.gg/\S+|телеграм\S*|ватсап\S*|вотсап\S*|вайбер\S*)`),
		Category: CategoryContact,
		Severity: SeverityLow,
	},
}
