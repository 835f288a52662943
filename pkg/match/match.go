// Package match resolves free text against a lesson's places, its question
// bank and its concept cards. All functions are pure, never fail, and
// signal "no match" with a nil/empty result so callers can fall through to
// the next strategy.
package match

import (
	"strings"

	"atlasgo/pkg/arabic"
	"atlasgo/pkg/model"
)

const (
	placeTokenMin    = 3
	placeTokenMax    = 6
	placeScoreMin    = 2
	questionTokenMax = 8
	questionScoreMin = 2
	conceptTokenMax  = 6
	conceptScoreMin  = 2
)

// ResolvePlace finds the best-matching place for the query, or nil.
//
// A normalized title or alias contained in the normalized query wins
// immediately, in lesson order. Otherwise places are scored by how many
// query tokens (>=3 runes, first 6) appear in the title+alias haystack;
// the first place with the maximum score wins if it reaches 2.
func ResolvePlace(lesson *model.Lesson, query string) *model.Place {
	nq := arabic.Normalize(query)
	if nq == "" {
		return nil
	}

	for i := range lesson.Places {
		p := &lesson.Places[i]
		if name := arabic.Normalize(p.Title); name != "" && strings.Contains(nq, name) {
			return p
		}
		for _, a := range p.Aliases {
			if na := arabic.Normalize(a); na != "" && strings.Contains(nq, na) {
				return p
			}
		}
	}

	tokens := arabic.Tokens(query, placeTokenMin, placeTokenMax)
	if len(tokens) == 0 {
		return nil
	}

	var best *model.Place
	bestScore := 0
	for i := range lesson.Places {
		p := &lesson.Places[i]
		hay := arabic.Normalize(p.Title + " " + strings.Join(p.Aliases, " "))
		score := 0
		for _, tok := range tokens {
			if strings.Contains(hay, tok) {
				score++
			}
		}
		if score >= placeScoreMin && score > bestScore {
			best = p
			bestScore = score
		}
	}
	return best
}

// PickBestQuestion selects the best-matching question from the bank, or
// nil. The bank must already be filtered to the active lesson.
//
// An exact normalized prompt match returns immediately. Otherwise: +6 for
// substring containment in either direction, +3 per expected keyword found
// in the query, +1 per query token (>=3 runes, first 8) found in the
// prompt. Highest score wins if it reaches 2; ties keep the first question.
func PickBestQuestion(bank []model.QuizQuestion, query string) *model.QuizQuestion {
	nq := arabic.Normalize(query)
	if nq == "" {
		return nil
	}

	for i := range bank {
		if arabic.Normalize(bank[i].Prompt) == nq {
			return &bank[i]
		}
	}

	tokens := arabic.FirstTokens(query, questionTokenMax)

	var best *model.QuizQuestion
	bestScore := 0
	for i := range bank {
		q := &bank[i]
		prompt := arabic.Normalize(q.Prompt)

		score := 0
		if strings.Contains(prompt, nq) || strings.Contains(nq, prompt) {
			score += 6
		}
		for _, kw := range q.ExpectedKeywords {
			if nk := arabic.Normalize(kw); nk != "" && strings.Contains(nq, nk) {
				score += 3
			}
		}
		for _, tok := range tokens {
			if arabic.RuneLen(tok) >= placeTokenMin && strings.Contains(prompt, tok) {
				score++
			}
		}

		if best == nil || score > bestScore {
			best = q
			bestScore = score
		}
	}

	if bestScore < questionScoreMin {
		return nil
	}
	return best
}

// ConceptHits surfaces concept-card bullet fragments that overlap the
// query by at least two tokens (>=3 runes, scanning the first 6 query
// tokens). Fragments are returned verbatim, capped at limit, in card order.
func ConceptHits(lesson *model.Lesson, query string, limit int) []string {
	tokens := arabic.FirstTokens(query, conceptTokenMax)
	if len(tokens) == 0 {
		return nil
	}

	var hits []string
	for _, card := range lesson.ConceptCards {
		for _, bullet := range card.Bullets {
			nb := arabic.Normalize(bullet)
			score := 0
			for _, tok := range tokens {
				if arabic.RuneLen(tok) >= placeTokenMin && strings.Contains(nb, tok) {
					score++
				}
			}
			if score >= conceptScoreMin {
				hits = append(hits, bullet)
				if limit > 0 && len(hits) == limit {
					return hits
				}
			}
		}
	}
	return hits
}
