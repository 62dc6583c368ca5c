package wheelword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
)

const (
	C = game.FeedbackCorrect
	P = game.FeedbackPresent
	A = game.FeedbackAbsent
)

func row(fb ...game.Feedback) []game.Feedback { return fb }

func TestShareText_Win(t *testing.T) {
	text, err := ShareText(ShareInput{
		GameNumber: 12,
		Attempts:   []string{"CARRO", "ROTOM", "MOTOR"},
		Feedbacks:  [][]game.Feedback{row(A, A, P, A, P), row(P, C, C, C, P), row(C, C, C, C, C)},
		Won:        true,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Wheelword #12 3/6\n\n⬛⬛🟨⬛🟨\n🟨🟩🟩🟩🟨\n🟩🟩🟩🟩🟩", text)
}

func TestShareText_Loss(t *testing.T) {
	in := ShareInput{GameNumber: 4, Won: false}
	for i := 0; i < game.MaxAttempts; i++ {
		in.Attempts = append(in.Attempts, "PISTA")
		in.Feedbacks = append(in.Feedbacks, row(A, A, A, C, A))
	}
	text, err := ShareText(in, "https://wheelshouse.app/wheelword")
	require.NoError(t, err)
	assert.Contains(t, text, "Wheelword #4 X/6\n\n")
	assert.Contains(t, text, "\n\nhttps://wheelshouse.app/wheelword")
}

func TestShareText_Rejects(t *testing.T) {
	won := row(C, C, C, C, C)
	miss := row(A, A, A, A, A)
	cases := map[string]ShareInput{
		"no attempts":        {GameNumber: 1, Won: true},
		"zero game":          {GameNumber: 0, Attempts: []string{"MOTOR"}, Feedbacks: [][]game.Feedback{won}, Won: true},
		"row count mismatch": {GameNumber: 1, Attempts: []string{"A", "MOTOR"}, Feedbacks: [][]game.Feedback{won}, Won: true},
		"uneven rows":        {GameNumber: 1, Attempts: []string{"A", "B"}, Feedbacks: [][]game.Feedback{row(A, A), won}, Won: true},
		"unknown feedback":   {GameNumber: 1, Attempts: []string{"MOTOR"}, Feedbacks: [][]game.Feedback{row("GREEN")}, Won: true},
		"short loss":         {GameNumber: 1, Attempts: []string{"PISTA"}, Feedbacks: [][]game.Feedback{miss}, Won: false},
		"won flag lies":      {GameNumber: 1, Attempts: []string{"PISTA"}, Feedbacks: [][]game.Feedback{miss}, Won: true},
		"too many attempts":  {GameNumber: 1, Attempts: make([]string, 7), Feedbacks: [][]game.Feedback{miss, miss, miss, miss, miss, miss, won}, Won: true},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ShareText(in, "")
			assert.ErrorIs(t, err, ErrInvalidShare)
		})
	}
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("u1|1")
	assert.Equal(t, 1, k.size())
	unlock()
	assert.Equal(t, 0, k.size())
}
