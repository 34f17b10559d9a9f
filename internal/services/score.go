package services

import "math"

// Score computes the percentage of answer records whose "correct" flag is
// true, rounded to two decimal places. An empty answer set scores 0. The
// correctness flags are client-graded; the evaluator does not hold an answer
// key.
func Score(answers map[string]AnswerRecord) float64 {
	if len(answers) == 0 {
		return 0
	}
	correct := 0
	for _, rec := range answers {
		if v, ok := rec["correct"].(bool); ok && v {
			correct++
		}
	}
	pct := float64(correct) / float64(len(answers)) * 100
	return math.Round(pct*100) / 100
}
