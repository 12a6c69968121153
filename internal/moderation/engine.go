package moderation

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Engine - локальный словарный модератор
type Engine struct {
	terms    []Term
	patterns []Pattern
}

func NewEngine() *Engine {
	return NewEngineWith(DefaultTerms, DefaultPatterns)
}

// NewEngineWith создает движок с произвольным словарем; слова нормализуются здесь
func NewEngineWith(terms []Term, patterns []Pattern) *Engine {
	normalized := make([]Term, 0, len(terms))
	for _, t := range terms {
		w := normalize(t.Word)
		if w == "" {
			continue
		}
		t.Word = w
		normalized = append(normalized, t)
	}
	// Длинные слова раньше, чтобы совпадение было максимально точным
	sort.SliceStable(normalized, func(i, j int) bool {
		return len(normalized[i].Word) > len(normalized[j].Word)
	})
	return &Engine{terms: normalized, patterns: patterns}
}

func (e *Engine) Moderate(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Check(text, opts), nil
}

type span struct {
	start, end int
}

// Check проверяет текст синхронно. Исходная строка не изменяется
func (e *Engine) Check(text string, opts Options) *Result {
	res := &Result{
		Categories: []string{},
		Violations: []Violation{},
		Backend:    "local",
	}

	var masked []span
	byCategory := map[string]int{}
	bySeverity := map[string]int{}
	score := 0

	add := func(word, category string, severity Severity, sp span) {
		res.Violations = append(res.Violations, Violation{Word: word, Category: category, Severity: severity})
		byCategory[category]++
		bySeverity[string(severity)]++
		score += severity.Weight()
		masked = append(masked, sp)
	}

	tokens := tokenize(text)
	for _, tok := range tokens {
		word := text[tok.start:tok.end]
		if term, ok := e.match(normalize(word)); ok {
			add(word, term.Category, term.Severity, tok)
		}
	}

	for _, p := range e.patterns {
		for _, loc := range p.Re.FindAllStringIndex(text, -1) {
			add(text[loc[0]:loc[1]], p.Category, p.Severity, span{loc[0], loc[1]})
		}
	}

	if score > MaxScore {
		score = MaxScore
	}
	res.Score = score
	res.Verdict = VerdictFor(score, opts.Strict)
	res.Label = res.Verdict.Label()
	res.IsClean = res.Verdict == VerdictClean

	for category := range byCategory {
		res.Categories = append(res.Categories, category)
	}
	sort.Strings(res.Categories)

	if opts.Mask {
		sanitized := text
		if len(masked) > 0 {
			sanitized = maskSpans(text, masked)
		}
		res.SanitizedText = &sanitized
	}

	if opts.ReturnStats {
		res.Stats = &Stats{
			Words:      len(tokens),
			Violations: len(res.Violations),
			ByCategory: byCategory,
			BySeverity: bySeverity,
		}
	}

	return res
}

func (e *Engine) match(token string) (Term, bool) {
	if token == "" {
		return Term{}, false
	}
	for _, t := range e.terms {
		if strings.HasPrefix(token, t.Word) {
			return t, true
		}
	}
	return Term{}, false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '@' || r == '$'
}

// tokenize возвращает байтовые границы слов исходного текста
func tokenize(text string) []span {
	var out []span
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(text)})
	}
	return out
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var leet = map[rune]rune{
	'0': 'o', '1': 'i', '3': 'e', '4': 'a', '5': 's', '7': 't', '@': 'a', '$': 's',
}

// Латинские двойники кириллических букв
var latinToCyrillic = map[rune]rune{
	'a': 'а', 'c': 'с', 'e': 'е', 'o': 'о', 'p': 'р', 'x': 'х', 'y': 'у',
	'k': 'к', 'm': 'м', 't': 'т', 'h': 'н', 'b': 'в',
}

// normalize приводит слово к виду словаря: нижний регистр, без диакритики,
// leetspeak заменен буквами, смешанная запись приведена к кириллице
func normalize(word string) string {
	s, _, err := transform.String(stripMarks, strings.ToLower(word))
	if err != nil {
		s = strings.ToLower(word)
	}

	hasCyrillic := false
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			hasCyrillic = true
			break
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := leet[r]; ok {
			r = mapped
		}
		if hasCyrillic {
			if mapped, ok := latinToCyrillic[r]; ok {
				r = mapped
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maskSpans заменяет каждый символ в указанных участках на '*'
func maskSpans(text string, spans []span) string {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := spans[:0:0]
	for _, sp := range spans {
		if n := len(merged); n > 0 && sp.start <= merged[n-1].end {
			if sp.end > merged[n-1].end {
				merged[n-1].end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, sp := range merged {
		b.WriteString(text[prev:sp.start])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[sp.start:sp.end])))
		prev = sp.end
	}
	b.WriteString(text[prev:])
	return b.String()
}
