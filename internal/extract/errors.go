package extract

import (
	"errors"
	"fmt"
)

// ErrBotBlocked marks a fetched page that is a robot challenge instead of
// the product.
var ErrBotBlocked = errors.New("bot challenge page")

type BotBlockError struct {
	URL    string
	Phrase string
}

func (e *BotBlockError) Error() string {
	return fmt.Sprintf("bot block detected on %s: %q", e.URL, e.Phrase)
}

func (e *BotBlockError) Unwrap() error { return ErrBotBlocked }
