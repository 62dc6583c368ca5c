package wheelword

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
)

var ErrInvalidShare = errors.New("invalid share request")

// ShareInput is a finished game as the client remembers it.
type ShareInput struct {
	GameNumber int               `json:"gameNumber" validate:"required,min=1"`
	Attempts   []string          `json:"attempts" validate:"required,min=1,max=6"`
	Feedbacks  [][]game.Feedback `json:"feedbacks" validate:"required,min=1,max=6"`
	Won        bool              `json:"won"`
}

var squares = map[game.Feedback]string{
	game.FeedbackCorrect: "🟩",
	game.FeedbackPresent: "🟨",
	game.FeedbackAbsent:  "⬛",
}

// ShareText renders a finished game as
//
//	Wheelword #12 3/6
//
//	⬛🟨⬛⬛⬛
//	🟩🟩⬛🟨🟩
//	🟩🟩🟩🟩🟩
//
// followed by url on its own line when url is set. Lost games show X/6.
func ShareText(in ShareInput, url string) (string, error) {
	if err := validateShare(in); err != nil {
		return "", err
	}
	score := "X"
	if in.Won {
		score = fmt.Sprint(len(in.Attempts))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Wheelword #%d %s/%d\n\n", in.GameNumber, score, game.MaxAttempts)
	for i, row := range in.Feedbacks {
		for _, fb := range row {
			b.WriteString(squares[fb])
		}
		if i < len(in.Feedbacks)-1 {
			b.WriteByte('\n')
		}
	}
	if url != "" {
		b.WriteString("\n\n")
		b.WriteString(url)
	}
	return b.String(), nil
}

// validateShare accepts only shapes a finished game can have: a win ends on
// an all-CORRECT row, a loss uses every attempt.
func validateShare(in ShareInput) error {
	n := len(in.Attempts)
	switch {
	case in.GameNumber < 1:
		return fmt.Errorf("%w: game number must be positive", ErrInvalidShare)
	case n < 1 || n > game.MaxAttempts:
		return fmt.Errorf("%w: expected 1-%d attempts, got %d", ErrInvalidShare, game.MaxAttempts, n)
	case len(in.Feedbacks) != n:
		return fmt.Errorf("%w: %d attempts but %d feedback rows", ErrInvalidShare, n, len(in.Feedbacks))
	case !in.Won && n != game.MaxAttempts:
		return fmt.Errorf("%w: a lost game has %d attempts", ErrInvalidShare, game.MaxAttempts)
	}
	width := len(in.Feedbacks[0])
	for i, row := range in.Feedbacks {
		if len(row) == 0 || len(row) != width {
			return fmt.Errorf("%w: feedback row %d has length %d", ErrInvalidShare, i+1, len(row))
		}
		for _, fb := range row {
			if _, ok := squares[fb]; !ok {
				return fmt.Errorf("%w: unknown feedback %q", ErrInvalidShare, fb)
			}
		}
	}
	last := in.Feedbacks[n-1]
	solved := true
	for _, fb := range last {
		solved = solved && fb == game.FeedbackCorrect
	}
	if solved != in.Won {
		return fmt.Errorf("%w: won=%t does not match the last row", ErrInvalidShare, in.Won)
	}
	return nil
}
