// Adapter implementations bridging the UI surface to the flow-layer
// collaborator interfaces.
package app

import (
	"fmt"

	"github.com/dshills/compscope/internal/orchestrate"
	"github.com/dshills/compscope/internal/ui"
)

// Compile-time interface checks.
var (
	_ orchestrate.Prompter  = (*uiPrompter)(nil)
	_ orchestrate.Notifier  = (*statusNotifier)(nil)
	_ orchestrate.Workspace = (*ui.UI)(nil)
)

// uiPrompter adapts the UI's modal prompts to orchestrate.Prompter.
type uiPrompter struct {
	ui *ui.UI
}

func (p *uiPrompter) Choice(title string, items []orchestrate.ChoiceItem, complete func(index int, ok bool)) {
	converted := make([]ui.Item, len(items))
	for i, item := range items {
		converted[i] = ui.Item{ID: item.ID, Label: item.Label}
	}
	p.ui.Choice(title, converted, complete)
}

func (p *uiPrompter) Text(title, initial string, complete func(value string, ok bool)) {
	p.ui.Text(title, initial, complete)
}

// statusNotifier surfaces flow messages on the status line and mirrors
// them to the log.
type statusNotifier struct {
	ui     *ui.UI
	logger *Logger
}

func (n *statusNotifier) Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.logger.Info("%s", msg)
	n.ui.SetStatus(msg, false)
}

func (n *statusNotifier) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.logger.Error("%s", msg)
	n.ui.SetStatus(msg, true)
}
