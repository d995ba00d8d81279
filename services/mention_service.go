// services/mention_service.go
package services

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

// MentionExtractor scans free-text AI responses for brand mentions. All
// methods are pure functions of their input and safe to call concurrently.
type MentionExtractor struct {
	stopList map[string]struct{}

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewMentionExtractor creates an extractor with the default capitalized-word
// stop list. Extra stop words (lowercased) may be appended.
func NewMentionExtractor(extraStopWords ...string) *MentionExtractor {
	stop := make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &MentionExtractor{
		stopList: stop,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// defaultStopWords are common capitalized words that are never brands.
var defaultStopWords = []string{
	"i", "a", "an", "the", "this", "that", "these", "those",
	"it", "its", "he", "she", "they", "we", "you", "if", "in", "on",
	"and", "but", "or", "for", "so", "also", "here", "there", "what",
	"when", "where", "which", "while", "why", "how", "yes", "no", "not",
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"ai", "faq", "usa", "us", "uk", "eu", "tv", "diy", "ok",
	"overall", "however", "additionally", "finally", "first", "second", "third",
	"pros", "cons", "note", "summary", "conclusion", "key", "top", "best",
}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+\s+`)
	// A run of capitalized tokens, e.g. "New Balance" or "Hoka".
	capTokenRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&'-]*(?:[ ][A-Z][A-Za-z0-9&'-]*)*`)
)

// brandPattern returns a case-insensitive, word-boundary-aware pattern for
// one brand that also tolerates simple plural and possessive suffixes
// ("Nikes", "Nike's") without matching embedded occurrences ("Nikeesque").
func (e *MentionExtractor) brandPattern(brand string) *regexp.Regexp {
	key := strings.ToLower(brand)

	e.mu.Lock()
	defer e.mu.Unlock()
	if re, ok := e.patterns[key]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(brand) + `(?:'s|s|es)?\b`)
	e.patterns[key] = re
	return re
}

// Extract produces one MentionFact per candidate brand for a single
// platform response. Mentioned brands come first, ordered by position rank
// (first-occurrence character offset, ties broken by stable left-to-right
// candidate order); absent brands follow alphabetically. Empty or malformed
// response text yields all-absent facts rather than an error.
func (e *MentionExtractor) Extract(responseText string, brandCandidates []string) []models.MentionFact {
	candidates := dedupeCaseInsensitive(brandCandidates)
	sort.Slice(candidates, func(i, j int) bool {
		return strings.ToLower(candidates[i]) < strings.ToLower(candidates[j])
	})

	text := strings.TrimSpace(responseText)
	if text == "" {
		facts := make([]models.MentionFact, 0, len(candidates))
		for _, brand := range candidates {
			facts = append(facts, models.MentionFact{Brand: brand})
		}
		return facts
	}

	sentences := sentenceSplitRe.Split(text, -1)

	type hit struct {
		brand  string
		offset int
	}
	var hits []hit
	var absent []models.MentionFact

	for _, brand := range candidates {
		loc := e.brandPattern(brand).FindStringIndex(text)
		if loc == nil {
			absent = append(absent, models.MentionFact{Brand: brand})
			continue
		}
		hits = append(hits, hit{brand: brand, offset: loc[0]})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	facts := make([]models.MentionFact, 0, len(candidates))
	for rank, h := range hits {
		facts = append(facts, models.MentionFact{
			Brand:          h.brand,
			Mentioned:      true,
			PositionRank:   rank + 1,
			DetailScore:    e.detailScore(sentences, h.brand),
			ContextSnippet: snippetAround(text, h.offset, 100),
		})
	}
	return append(facts, absent...)
}

// detailScore is proportional to the fraction of sentences mentioning the
// brand, scaled to [0,10] with a floor of 1.0 so a bare mention never
// scores zero.
func (e *MentionExtractor) detailScore(sentences []string, brand string) float64 {
	if len(sentences) == 0 {
		return 1.0
	}
	re := e.brandPattern(brand)
	count := 0
	for _, s := range sentences {
		if re.MatchString(s) {
			count++
		}
	}
	score := float64(count) / float64(len(sentences)) * 10.0
	if score < 1.0 {
		score = 1.0
	}
	if score > 10.0 {
		score = 10.0
	}
	return score
}

// DiscoverBrandTokens scans the response corpus for brand-like capitalized
// token sequences: not at sentence start, not stop-listed, and appearing at
// least models.MinTokenOccurrences times across the whole corpus. The
// returned canonical forms are sorted alphabetically.
func (e *MentionExtractor) DiscoverBrandTokens(corpus []string) []string {
	counts := make(map[string]int)
	canonical := make(map[string]string)

	for _, text := range corpus {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, loc := range capTokenRe.FindAllStringIndex(text, -1) {
			if atSentenceStart(text, loc[0]) {
				continue
			}
			token := normalizeToken(text[loc[0]:loc[1]])
			if token == "" || e.isStopListed(token) {
				continue
			}
			key := strings.ToLower(token)
			counts[key]++
			if _, ok := canonical[key]; !ok {
				canonical[key] = token
			}
		}
	}

	var tokens []string
	for key, n := range counts {
		if n >= models.MinTokenOccurrences {
			tokens = append(tokens, canonical[key])
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return strings.ToLower(tokens[i]) < strings.ToLower(tokens[j])
	})
	return tokens
}

// isStopListed reports whether the token is a stop-listed capitalized word.
// Multi-word phrases are only dropped when the full phrase is stop-listed,
// so "The Ordinary" survives even though "the" alone would not.
func (e *MentionExtractor) isStopListed(token string) bool {
	_, ok := e.stopList[strings.ToLower(token)]
	return ok
}

// atSentenceStart reports whether offset is the first token of the text or
// directly follows sentence-ending punctuation.
func atSentenceStart(text string, offset int) bool {
	i := offset - 1
	for i >= 0 && (text[i] == ' ' || text[i] == '\t') {
		i--
	}
	if i < 0 {
		return true
	}
	switch text[i] {
	case '.', '!', '?', '\n', ':', '-', '*', '#':
		// Newlines, list markers and headings count as sentence starts too.
		return true
	}
	return false
}

// normalizeToken strips trailing possessives and stray punctuation from a
// raw capitalized token run.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimSuffix(token, "'s")
	token = strings.TrimRight(token, "'&-")
	return strings.TrimSpace(token)
}

// snippetAround returns up to contextChars characters either side of the
// match offset, with ellipses when truncated.
func snippetAround(text string, offset, contextChars int) string {
	start := offset - contextChars
	if start < 0 {
		start = 0
	}
	end := offset + contextChars
	if end > len(text) {
		end = len(text)
	}
	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}

// dedupeCaseInsensitive removes duplicate brand names, keeping the first
// spelling seen, and drops blanks.
func dedupeCaseInsensitive(brands []string) []string {
	seen := make(map[string]struct{}, len(brands))
	out := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		key := strings.ToLower(b)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}
