// internal/app/router.go
package app

import (
	"context"
	"fmt"
	"strings"

	"clinic-billing/internal/middleware"
	"clinic-billing/internal/pkg/prompt"
	"clinic-billing/internal/pkg/response"

	"go.uber.org/zap"
)

// Command is one numbered menu entry. An entry without Run ends the session.
type Command struct {
	Choice string
	Label  string
	Run    func(context.Context, *prompt.Prompter) error
}

type Menu struct {
	Title    string
	Commands []Command
	logger   *zap.Logger
}

func NewMenu(title string, logger *zap.Logger, commands ...Command) *Menu {
	return &Menu{Title: title, Commands: commands, logger: logger}
}

func (m *Menu) lookup(choice string) (Command, bool) {
	for _, c := range m.Commands {
		if c.Choice == choice {
			return c, true
		}
	}
	return Command{}, false
}

func (m *Menu) print(p *prompt.Prompter) {
	w := p.Out()
	fmt.Fprintf(w, "\n=== %s ===\n", m.Title)
	for _, c := range m.Commands {
		fmt.Fprintf(w, "%s. %s\n", c.Choice, c.Label)
	}
}

// Serve runs the read-dispatch loop until the exit entry is chosen, input ends or ctx is done.
// Failures inside a command are reported and the loop continues.
func (m *Menu) Serve(ctx context.Context, p *prompt.Prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.print(p)
		choice, err := p.Line("Choice: ")
		if err != nil {
			if prompt.IsEOF(err) {
				m.logger.Debug("input closed, leaving menu", zap.String("menu", m.Title))
				return nil
			}
			return fmt.Errorf("failed to read choice: %w", err)
		}

		cmd, ok := m.lookup(strings.TrimSpace(choice))
		if !ok {
			response.Error(p.Out(), "Invalid choice", nil)
			continue
		}
		if cmd.Run == nil {
			fmt.Fprintln(p.Out(), "Goodbye.")
			return nil
		}

		m.logger.Debug("running command", zap.String("menu", m.Title), zap.String("command", cmd.Label))
		var runErr error
		middleware.Recover(m.logger, p.Out(), cmd.Label, func() {
			runErr = cmd.Run(ctx, p)
		})
		if runErr != nil {
			if prompt.IsEOF(runErr) {
				return nil
			}
			return fmt.Errorf("%s: %w", cmd.Label, runErr)
		}
	}
}
