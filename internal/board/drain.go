package board

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Drain runs cmd and every command the engine produces in response, feeding
// each message back through e.Update, until nothing is left. It is the
// synchronous event loop for callers without a bubbletea program (the
// search command, tests). Commands run one at a time in FIFO order.
func Drain(ctx context.Context, e *Engine, cmd tea.Cmd) error {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, e.Update(msg))
		}
	}
	return nil
}
