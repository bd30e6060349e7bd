package orchestrate

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dshills/compscope/internal/correlate"
	"github.com/dshills/compscope/internal/godbolt"
	"github.com/dshills/compscope/internal/task"
	"github.com/dshills/compscope/internal/view"
)

// ChoiceItem is one entry offered at a selection prompt.
type ChoiceItem struct {
	// ID is the value the flow uses when the item is picked.
	ID string

	// Label is the text shown to the user.
	Label string
}

// Prompter asks the user for input. Implementations complete the
// callback exactly once, from any goroutine, with ok=false when the
// prompt is dismissed.
type Prompter interface {
	// Choice offers a list and completes with the picked index.
	Choice(title string, items []ChoiceItem, complete func(index int, ok bool))

	// Text asks for a free-text value with an editable initial value.
	Text(title, initial string, complete func(value string, ok bool))
}

// Service is the remote compile/format collaborator.
type Service interface {
	Languages(ctx context.Context) ([]godbolt.Language, error)
	Compilers(ctx context.Context, languageID string) ([]godbolt.Compiler, error)
	Formats(ctx context.Context) ([]godbolt.Formatter, error)
	Compile(ctx context.Context, req godbolt.CompileRequest) (*godbolt.CompileResult, error)
	Format(ctx context.Context, req godbolt.FormatRequest) (*godbolt.FormatResult, error)
}

// Workspace provides the views a flow renders into.
type Workspace interface {
	// Source returns the view holding the text being compiled.
	Source() view.View

	// EnsureGenerated returns the output view, creating it on first use.
	EnsureGenerated() view.View
}

// Notifier surfaces user-visible messages. Remote failures and
// unsupported input end up here; they are never fatal to anything but
// the one task that hit them.
type Notifier interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// Options tunes flow behavior; values come from the configuration.
type Options struct {
	// LiveCorrelation wires a highlight session after full-buffer
	// compiles.
	LiveCorrelation bool

	// UserArguments is the initial value of the compiler-options prompt.
	UserArguments string

	// IntelSyntax requests Intel assembly syntax.
	IntelSyntax bool

	// RequestTimeout bounds each remote round trip.
	RequestTimeout time.Duration
}

// Input is one submission: the text and where it came from.
type Input struct {
	// Lines is the text to submit.
	Lines []string

	// Extension is the source file extension (".cpp"), used to narrow
	// the language catalog. Empty offers every language.
	Extension string

	// FullBuffer marks a whole-buffer submission. Selection compiles
	// skip live correlation: the selection's line numbers do not align
	// with the service's reported positions.
	FullBuffer bool
}

// Orchestrator spawns compile and format flows.
type Orchestrator struct {
	sched      *task.Scheduler
	svc        Service
	prompt     Prompter
	workspace  Workspace
	controller *correlate.Controller
	notify     Notifier
	opts       Options
}

// New creates an orchestrator.
func New(sched *task.Scheduler, svc Service, prompt Prompter, ws Workspace, ctl *correlate.Controller, notify Notifier, opts Options) *Orchestrator {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = godbolt.DefaultTimeout
	}
	return &Orchestrator{
		sched:      sched,
		svc:        svc,
		prompt:     prompt,
		workspace:  ws,
		controller: ctl,
		notify:     notify,
		opts:       opts,
	}
}

// Compile starts one compile flow as a detached task.
func (o *Orchestrator) Compile(input Input) *task.Handle {
	return o.sched.Spawn(func(t *task.Task) {
		o.runCompile(t, input)
	})
}

// Format starts one format flow as a detached task.
func (o *Orchestrator) Format(input Input) *task.Handle {
	return o.sched.Spawn(func(t *task.Task) {
		o.runFormat(t, input)
	})
}

// runCompile is the compile flow body. Every return before the render
// step leaves all views untouched.
func (o *Orchestrator) runCompile(t *task.Task, input Input) {
	source := strings.Join(input.Lines, "\n")
	if strings.TrimSpace(source) == "" {
		o.notify.Errorf("nothing to compile")
		return
	}

	lang, ok := o.pickLanguage(t, input.Extension)
	if !ok {
		return
	}
	compiler, ok := o.pickCompiler(t, lang)
	if !ok {
		return
	}
	args, ok := o.promptText(t, "Compiler options", o.opts.UserArguments)
	if !ok {
		return
	}

	result, err := awaitCall(t, o.opts.RequestTimeout, func(ctx context.Context) (*godbolt.CompileResult, error) {
		return o.svc.Compile(ctx, godbolt.CompileRequest{
			CompilerID:    compiler,
			Source:        source,
			UserArguments: args,
			Intel:         o.opts.IntelSyntax,
		})
	})
	if err != nil {
		o.notify.Errorf("compile failed: %v", err)
		return
	}
	if result.Code != 0 {
		msg := "compiler exited with code %d"
		if len(result.Stderr) > 0 {
			o.notify.Errorf(msg+": %s", result.Code, result.Stderr[0])
		} else {
			o.notify.Errorf(msg, result.Code)
		}
	}

	generated := o.workspace.EnsureGenerated()
	generated.ReplaceContents(result.Texts())
	// Let effects posted by the content swap flush before highlights
	// wire up.
	t.Yield()

	if input.FullBuffer && o.opts.LiveCorrelation {
		ix := correlate.BuildIndex(result.Lines)
		if _, err := o.controller.Start(ix, o.workspace.Source(), generated); err != nil {
			o.notify.Errorf("correlation unavailable: %v", err)
			return
		}
	}
	if result.Code == 0 {
		o.notify.Infof("compiled: %d lines", len(result.Lines))
	}
}

// runFormat is the format flow body. On success the source view's
// contents are replaced with the formatted text.
func (o *Orchestrator) runFormat(t *task.Task, input Input) {
	source := strings.Join(input.Lines, "\n")
	if strings.TrimSpace(source) == "" {
		o.notify.Errorf("nothing to format")
		return
	}

	formats, err := awaitCall(t, o.opts.RequestTimeout, o.svc.Formats)
	if err != nil {
		o.notify.Errorf("formatter catalog unavailable: %v", err)
		return
	}
	if len(formats) == 0 {
		o.notify.Errorf("service offers no formatters")
		return
	}

	items := make([]ChoiceItem, len(formats))
	for i, f := range formats {
		items[i] = ChoiceItem{ID: f.Type, Label: f.Name}
	}
	idx, ok := o.promptChoice(t, "Formatter", items)
	if !ok {
		return
	}
	picked := formats[idx]

	style := ""
	if len(picked.Styles) > 0 {
		styleItems := make([]ChoiceItem, len(picked.Styles))
		for i, s := range picked.Styles {
			styleItems[i] = ChoiceItem{ID: s, Label: s}
		}
		si, ok := o.promptChoice(t, "Style", styleItems)
		if !ok {
			return
		}
		style = picked.Styles[si]
	}

	result, err := awaitCall(t, o.opts.RequestTimeout, func(ctx context.Context) (*godbolt.FormatResult, error) {
		return o.svc.Format(ctx, godbolt.FormatRequest{
			FormatterType: picked.Type,
			Style:         style,
			Source:        source,
		})
	})
	if err != nil {
		o.notify.Errorf("format failed: %v", err)
		return
	}
	if result.Exit != 0 {
		o.notify.Errorf("formatter exited with code %d", result.Exit)
		return
	}

	o.workspace.Source().ReplaceContents(strings.Split(result.Text, "\n"))
	o.notify.Infof("formatted with %s", picked.Name)
}

// pickLanguage narrows the language catalog by extension and prompts
// when more than one candidate remains.
func (o *Orchestrator) pickLanguage(t *task.Task, extension string) (string, bool) {
	langs, err := awaitCall(t, o.opts.RequestTimeout, o.svc.Languages)
	if err != nil {
		o.notify.Errorf("language catalog unavailable: %v", err)
		return "", false
	}

	var candidates []godbolt.Language
	for _, l := range langs {
		if extension == "" || slices.Contains(l.Extensions, extension) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		o.notify.Errorf("no language matches %s", extension)
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0].ID, true
	}

	items := make([]ChoiceItem, len(candidates))
	for i, l := range candidates {
		items[i] = ChoiceItem{ID: l.ID, Label: l.Name}
	}
	idx, ok := o.promptChoice(t, "Language", items)
	if !ok {
		return "", false
	}
	return candidates[idx].ID, true
}

// pickCompiler lists the compilers for a language and prompts for one.
func (o *Orchestrator) pickCompiler(t *task.Task, languageID string) (string, bool) {
	compilers, err := awaitCall(t, o.opts.RequestTimeout, func(ctx context.Context) ([]godbolt.Compiler, error) {
		return o.svc.Compilers(ctx, languageID)
	})
	if err != nil {
		o.notify.Errorf("compiler catalog unavailable: %v", err)
		return "", false
	}
	if len(compilers) == 0 {
		o.notify.Errorf("no compilers available for %s", languageID)
		return "", false
	}

	items := make([]ChoiceItem, len(compilers))
	for i, c := range compilers {
		items[i] = ChoiceItem{ID: c.ID, Label: c.Name}
	}
	idx, ok := o.promptChoice(t, "Compiler", items)
	if !ok {
		return "", false
	}
	return compilers[idx].ID, true
}

// promptChoice suspends the task at a selection prompt.
func (o *Orchestrator) promptChoice(t *task.Task, title string, items []ChoiceItem) (int, bool) {
	return task.Await(t, func(resolve func(int, bool)) {
		o.prompt.Choice(title, items, resolve)
	})
}

// promptText suspends the task at a free-text prompt.
func (o *Orchestrator) promptText(t *task.Task, title, initial string) (string, bool) {
	return task.Await(t, func(resolve func(string, bool)) {
		o.prompt.Text(title, initial, resolve)
	})
}

// awaitCall suspends the task for one remote round trip, run on its own
// goroutine so the loop stays responsive while the call is in flight.
func awaitCall[T any](t *task.Task, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	out, ok := task.Await(t, func(resolve func(outcome, bool)) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		go func() {
			defer cancel()
			v, err := fn(ctx)
			resolve(outcome{value: v, err: err}, true)
		}()
	})
	if !ok {
		// Scheduler shut down while the call was in flight.
		var zero T
		return zero, context.Canceled
	}
	return out.value, out.err
}
