package evaluation

import (
	"math"
	"regexp"
	"strings"

	"interview-backend/internal/llm/parse"
)

// Communication heuristic constants. Changing any of them changes user-visible scores.
const (
	communicationBase = 70.0

	shortAnswerWords   = 20
	briefAnswerWords   = 50
	verboseAnswerWords = 300
	shortAnswerPenalty = 20.0
	briefAnswerPenalty = 10.0
	verbosePenalty     = 10.0

	fillerRatioAllowance  = 0.05
	fillerPenaltyPerRatio = 200.0
	fillerPenaltyCap      = 20.0

	structureBonusEach = 3.0
	structureBonusCap  = 15.0

	multiSentenceBonus = 10.0

	heuristicBlendWeight = 0.7
	grammarBlendWeight   = 0.3
)

// Confidence heuristic constants.
const (
	confidenceBase = 75.0

	uncertaintyAllowance = 2
	uncertaintyPenalty   = 8.0
	uncertaintyCap       = 30.0

	assertiveBonusEach = 5.0
	assertiveBonusCap  = 10.0

	hedgingAllowance = 3
	hedgingPenalty   = 5.0
	hedgingCap       = 15.0

	detailedAnswerWords = 80
	moderateAnswerWords = 50
	terseAnswerWords    = 30
	detailedAnswerBonus = 15.0
	moderateAnswerBonus = 10.0
	terseAnswerPenalty  = 15.0
	specificityBonus    = 10.0
)

var (
	fillerWords      = []string{"um", "uh", "like", "you know", "basically", "actually", "literally"}
	structureWords   = []string{"first", "second", "third", "finally", "however", "therefore", "because", "then", "next"}
	uncertaintyWords = []string{"maybe", "perhaps", "i think", "i guess", "not sure", "probably", "might"}
	assertiveWords   = []string{"definitely", "certainly", "clearly", "obviously", "indeed"}
	hedgingPhrases   = []string{"kind of", "sort of", "i believe", "in my opinion"}
	specificPhrases  = []string{"for example", "specifically", "in my experience", "i worked on", "i implemented", "the result was"}

	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

// CommunicationHeuristic scores structure and delivery of an answer before the
// grammar blend. The result is not clamped.
func CommunicationHeuristic(answer string) float64 {
	lower := strings.ToLower(answer)
	words := wordCount(answer)
	score := communicationBase

	switch {
	case words < shortAnswerWords:
		score -= shortAnswerPenalty
	case words < briefAnswerWords:
		score -= briefAnswerPenalty
	case words > verboseAnswerWords:
		score -= verbosePenalty
	}

	ratio := float64(countPhrases(lower, fillerWords)) / float64(max(words, 1))
	if ratio > fillerRatioAllowance {
		score -= math.Min((ratio-fillerRatioAllowance)*fillerPenaltyPerRatio, fillerPenaltyCap)
	}

	if n := countPhrases(lower, structureWords); n > 0 {
		score += math.Min(float64(n)*structureBonusEach, structureBonusCap)
	}

	if sentenceCount(answer) >= 2 {
		score += multiSentenceBonus
	}
	return score
}

// ScoreCommunication blends the heuristic with an oracle grammar/clarity score and clamps to [0,100].
func ScoreCommunication(answer string, grammarScore float64) float64 {
	return BlendCommunication(CommunicationHeuristic(answer), grammarScore)
}

// BlendCommunication combines heuristic and grammar scores 70/30.
func BlendCommunication(heuristic, grammarScore float64) float64 {
	return parse.ClampScore(heuristic*heuristicBlendWeight + parse.ClampScore(grammarScore)*grammarBlendWeight)
}

// ScoreConfidence scores commitment and completeness of an answer, clamped to [0,100].
func ScoreConfidence(answer string) float64 {
	lower := strings.ToLower(answer)
	score := confidenceBase

	if n := countPhrases(lower, uncertaintyWords); n > uncertaintyAllowance {
		score -= math.Min(float64(n-uncertaintyAllowance)*uncertaintyPenalty, uncertaintyCap)
	}

	score += math.Min(float64(countPhrases(lower, assertiveWords))*assertiveBonusEach, assertiveBonusCap)

	if n := countPhrases(lower, hedgingPhrases); n > hedgingAllowance {
		score -= math.Min(float64(n-hedgingAllowance)*hedgingPenalty, hedgingCap)
	}

	switch words := wordCount(answer); {
	case words > detailedAnswerWords:
		score += detailedAnswerBonus
	case words >= moderateAnswerWords:
		score += moderateAnswerBonus
	case words < terseAnswerWords:
		score -= terseAnswerPenalty
	}

	for _, phrase := range specificPhrases {
		if strings.Contains(lower, phrase) {
			score += specificityBonus
			break
		}
	}
	return parse.ClampScore(score)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// countPhrases counts substring occurrences of each phrase, so "like" also counts inside "likely".
func countPhrases(lower string, phrases []string) int {
	total := 0
	for _, p := range phrases {
		total += strings.Count(lower, p)
	}
	return total
}

func sentenceCount(s string) int {
	n := 0
	for _, part := range sentenceSplit.Split(s, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}
