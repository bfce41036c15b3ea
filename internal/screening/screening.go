// Package screening flags posts that look like spam so moderators can look at
// them first. It never blocks a submission.
package screening

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	ReasonBannedWords     = "banned words"
	ReasonSuspiciousLinks = "suspicious links"
)

var bannedWords = []string{
	// ru
	"спам", "реклама", "казино", "букмекер", "наркотики", "проститутки",
	"заработок", "деньги", "дешево", "бесплатно", "выигрыш", "лотерея",
	"инвестиции", "криптовалюта", "биткоин", "кредит", "ссуда", "раскрутка",
	"прайс", "цена", "скидка", "акция", "распродажа", "оптовая продажа",
	"мат", "хуй", "блять", "ебать", "сука", "пидор", "гондон", "шлюха",
	// en
	"spam", "casino", "bookmaker", "betting", "narcotics", "escort",
	"lottery", "jackpot", "bitcoin", "crypto", "payday loan", "wholesale",
}

var linkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@\w+`),
	regexp.MustCompile(`t\.me/\w+`),
	regexp.MustCompile(`telegram\.me/\w+`),
	regexp.MustCompile(`wa\.me/\d+`),
	regexp.MustCompile(`whatsapp`),
	regexp.MustCompile(`viber`),
	regexp.MustCompile(`vk\.com`),
	regexp.MustCompile(`vkontakte`),
}

// Verdict is the advisory result attached to a moderation request.
type Verdict struct {
	Suspicious bool
	Reasons    []string
}

// Summary joins the reasons for display.
func (v Verdict) Summary() string {
	return strings.Join(v.Reasons, ", ")
}

// Check screens title, content and url as one lower-cased text.
func Check(title, content, url string) Verdict {
	text := strings.ToLower(strings.Join([]string{title, content, url}, " "))

	var reasons []string
	if containsBannedWord(text) {
		reasons = append(reasons, ReasonBannedWords)
	}
	if containsSpamLink(text) {
		reasons = append(reasons, ReasonSuspiciousLinks)
	}
	if len(reasons) == 0 {
		return Verdict{}
	}

	return Verdict{
		Suspicious: len(reasons) > 0,
		Reasons:    lo.Uniq(reasons),
	}
}

func containsBannedWord(text string) bool {
	return lo.SomeBy(bannedWords, func(w string) bool {
		return strings.Contains(text, w)
	})
}

func containsSpamLink(text string) bool {
	return lo.SomeBy(linkPatterns, func(re *regexp.Regexp) bool {
		return re.MatchString(text)
	})
}
