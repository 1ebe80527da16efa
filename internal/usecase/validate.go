package usecase

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"restorag/internal/domain"
)

// LocalityLookup resolves a city name to a canonical answer text built from
// corpus data, used when a generated answer must be replaced outright.
type LocalityLookup func(city string) (string, bool)

// Markers injected into the retrieval context when a restaurant record was
// retrieved for the queried locality.
var foundMarkers = []string{"[RESTAURANT TROUVÉ]", "[FOUND]"}

// Phrases a model uses to deny that a restaurant exists.
var negationPhrases = []string{
	"n'avons pas de restaurant",
	"n'avons pas d'établissement",
	"pas de restaurant dans",
	"pas de restaurant à",
	"aucun restaurant dans",
	"aucun restaurant à",
	"malheureusement pas",
	"we have no restaurant",
	"we have no location",
	"no restaurant in",
	"unfortunately not",
}

var (
	timeRangeRe = regexp.MustCompile(`\b(\d{1,2})[:h](\d{2})\s*-\s*(\d{1,2})[:h](\d{2})\b`)
	priceRe     = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*€`)
	multiSpace  = regexp.MustCompile(`[ \t]{2,}`)
)

const priceDisclaimer = "Les prix ne sont pas disponibles en ligne. Ils sont affichés sur la carte, en restaurant."

// Validator cross-checks a generated answer against the retrieval context it
// was produced from, correcting the four classes of drift a language model
// commits in this domain. Rules run in a fixed order and the first hit wins;
// validation never fails, at worst it returns the answer unchanged.
type Validator struct {
	lookup LocalityLookup
	logger *slog.Logger
}

// NewValidator creates a validator. lookup may be nil, in which case
// replacement answers fall back to echoing the retrieval context.
func NewValidator(lookup LocalityLookup, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{lookup: lookup, logger: logger}
}

type rule func(answer, context, query string) (domain.Finding, bool)

// Check returns the possibly corrected answer and whether the original
// passed every rule unchanged.
func (v *Validator) Check(answer, context, query string) (string, bool) {
	rules := []rule{
		v.checkExistence,
		v.checkSchedule,
		v.checkDepartment,
		v.checkPrices,
	}

	for _, r := range rules {
		if finding, fired := r(answer, context, query); fired {
			v.logger.Warn("answer corrected",
				"category", string(finding.Category),
				"evidence", finding.Evidence)
			return finding.Corrected, false
		}
	}
	return answer, true
}

// checkExistence fires when the context proves a restaurant was found but
// the answer denies its existence.
func (v *Validator) checkExistence(answer, context, query string) (domain.Finding, bool) {
	if !containsAnyOf(context, foundMarkers) {
		return domain.Finding{}, false
	}
	phrase := firstNegation(answer)
	if phrase == "" {
		return domain.Finding{}, false
	}

	return domain.Finding{
		Category:  domain.FindingExistence,
		Evidence:  phrase,
		Corrected: v.localityAnswer(query, context),
	}, true
}

// checkSchedule fires when the answer cites opening hours and none of them
// appears in the context. "11:30-14:30" and "11h30-14h30" are the same range.
func (v *Validator) checkSchedule(answer, context, _ string) (domain.Finding, bool) {
	ansRanges := timeRangeRe.FindAllString(answer, -1)
	ctxRanges := timeRangeRe.FindAllString(context, -1)
	if len(ansRanges) == 0 || len(ctxRanges) == 0 {
		return domain.Finding{}, false
	}

	ctxSet := make(map[string]bool, len(ctxRanges))
	for _, r := range ctxRanges {
		ctxSet[normalizeRange(r)] = true
	}
	for _, r := range ansRanges {
		if ctxSet[normalizeRange(r)] {
			return domain.Finding{}, false
		}
	}

	corrected := answer
	for i, r := range ansRanges {
		repl := ctxRanges[len(ctxRanges)-1]
		if i < len(ctxRanges) {
			repl = ctxRanges[i]
		}
		corrected = strings.Replace(corrected, r, repl, 1)
	}

	return domain.Finding{
		Category:  domain.FindingSchedule,
		Evidence:  strings.Join(ansRanges, ", "),
		Corrected: corrected,
	}, true
}

// checkDepartment fires when the query names a covered department, the
// context mentions that department's city, yet the answer still denies
// having a restaurant there. Catches denials the existence rule misses when
// no marker made it into the context.
func (v *Validator) checkDepartment(answer, context, query string) (domain.Finding, bool) {
	loc, ok := domain.LocalityForQuery(query)
	if !ok {
		return domain.Finding{}, false
	}
	if !strings.Contains(strings.ToLower(context), loc.Fragment) {
		return domain.Finding{}, false
	}
	phrase := firstNegation(answer)
	if phrase == "" {
		return domain.Finding{}, false
	}

	return domain.Finding{
		Category:  domain.FindingDepartment,
		Evidence:  phrase,
		Corrected: v.localityAnswer(query, context),
	}, true
}

// checkPrices fires in two cases: the answer quotes prices while the
// context has none (fabrication), or the answer's highest price exceeds
// twice the highest context price (aberration).
func (v *Validator) checkPrices(answer, context, _ string) (domain.Finding, bool) {
	ansPrices := priceRe.FindAllStringSubmatch(answer, -1)
	if len(ansPrices) == 0 {
		return domain.Finding{}, false
	}
	ctxPrices := priceRe.FindAllStringSubmatch(context, -1)

	if len(ctxPrices) == 0 {
		corrected := priceRe.ReplaceAllString(answer, "")
		corrected = multiSpace.ReplaceAllString(corrected, " ")
		corrected = strings.TrimSpace(corrected) + "\n\n" + priceDisclaimer

		return domain.Finding{
			Category:  domain.FindingPrice,
			Evidence:  ansPrices[0][0],
			Corrected: corrected,
		}, true
	}

	maxAns := maxPrice(ansPrices)
	maxCtx := maxPrice(ctxPrices)
	if maxCtx <= 0 || maxAns <= 2*maxCtx {
		return domain.Finding{}, false
	}

	corrected := answer
	for i, m := range ansPrices {
		repl := ctxPrices[len(ctxPrices)-1][0]
		if i < len(ctxPrices) {
			repl = ctxPrices[i][0]
		}
		corrected = strings.Replace(corrected, m[0], repl, 1)
	}

	return domain.Finding{
		Category:  domain.FindingPrice,
		Evidence:  ansPrices[0][0],
		Corrected: corrected,
	}, true
}

// localityAnswer builds the replacement for a wrongly denied restaurant:
// the canonical corpus record when available, otherwise the raw context.
func (v *Validator) localityAnswer(query, context string) string {
	if loc, ok := domain.LocalityForQuery(query); ok && v.lookup != nil {
		if text, found := v.lookup(loc.City); found {
			return text
		}
	}
	return "Voici les informations trouvées :\n\n" + context
}

func firstNegation(answer string) string {
	lower := strings.ToLower(answer)
	for _, phrase := range negationPhrases {
		if strings.Contains(lower, phrase) {
			return phrase
		}
	}
	return ""
}

func containsAnyOf(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func normalizeRange(r string) string {
	r = strings.ReplaceAll(r, ":", "")
	r = strings.ReplaceAll(r, "h", "")
	return strings.ReplaceAll(r, " ", "")
}

func maxPrice(matches [][]string) float64 {
	max := 0.0
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", ".")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if val > max {
			max = val
		}
	}
	return max
}
