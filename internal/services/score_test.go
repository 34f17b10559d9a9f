package services

import "testing"

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		answers map[string]AnswerRecord
		want    float64
	}{
		{"empty", map[string]AnswerRecord{}, 0},
		{"nil", nil, 0},
		{"all correct", map[string]AnswerRecord{
			"step1": {"correct": true},
			"step2": {"correct": true},
		}, 100},
		{"half", map[string]AnswerRecord{
			"a": {"correct": true},
			"b": {"correct": false},
		}, 50},
		{"one third rounded", map[string]AnswerRecord{
			"a": {"correct": true},
			"b": {"correct": false},
			"c": {"correct": false},
		}, 33.33},
		{"missing flag counts as wrong", map[string]AnswerRecord{
			"a": {"correct": true},
			"b": {"value": "H2O"},
		}, 50},
	}
	for _, c := range cases {
		if got := Score(c.answers); got != c.want {
			t.Fatalf("%s: Score=%v, want %v", c.name, got, c.want)
		}
	}
}

func TestScoreRange(t *testing.T) {
	answers := map[string]AnswerRecord{}
	for i := 0; i < 7; i++ {
		answers[string(rune('a'+i))] = AnswerRecord{"correct": i%2 == 0}
	}
	got := Score(answers)
	if got < 0 || got > 100 {
		t.Fatalf("Score=%v outside [0,100]", got)
	}
}
