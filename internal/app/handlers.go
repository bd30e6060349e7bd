package app

import (
	"github.com/dshills/compscope/internal/orchestrate"
	"github.com/dshills/compscope/internal/ui"
)

// bindHandlers wires the key actions to the flows.
func (app *Application) bindHandlers() {
	app.ui.SetHandlers(ui.Handlers{
		Compile: app.compileBuffer,
		Format:  app.formatBuffer,
		Quit:    app.quit,
	})
}

// compileBuffer submits the source buffer, or the active selection, as
// one compile flow. Selection compiles skip live correlation: the
// selection's line numbers do not align with the service's positions.
func (app *Application) compileBuffer() {
	source := app.ui.SourcePane()
	input := orchestrate.Input{
		Lines:      source.Lines(),
		Extension:  app.doc.Extension,
		FullBuffer: true,
	}
	if selected := source.SelectedLines(); selected != nil {
		input.Lines = selected
		input.FullBuffer = false
	}
	app.logger.Debug("compile requested (%d lines, full=%v)", len(input.Lines), input.FullBuffer)
	app.orch.Compile(input)
}

// formatBuffer submits the whole source buffer as one format flow.
func (app *Application) formatBuffer() {
	app.logger.Debug("format requested")
	app.orch.Format(orchestrate.Input{
		Lines:      app.ui.SourcePane().Lines(),
		Extension:  app.doc.Extension,
		FullBuffer: true,
	})
}

// quit stops the run loop.
func (app *Application) quit() {
	app.logger.Info("quit requested")
	if app.cancel != nil {
		app.cancel()
	}
}
