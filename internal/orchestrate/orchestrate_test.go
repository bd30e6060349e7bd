package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dshills/compscope/internal/correlate"
	"github.com/dshills/compscope/internal/event"
	"github.com/dshills/compscope/internal/godbolt"
	"github.com/dshills/compscope/internal/task"
	"github.com/dshills/compscope/internal/view"
)

// --- Fakes ---

type fakeService struct {
	languages []godbolt.Language
	compilers []godbolt.Compiler
	formats   []godbolt.Formatter

	compileResult *godbolt.CompileResult
	compileErr    error
	formatResult  *godbolt.FormatResult
	formatErr     error

	compileCalls []godbolt.CompileRequest
	formatCalls  []godbolt.FormatRequest
}

func (f *fakeService) Languages(context.Context) ([]godbolt.Language, error) {
	return f.languages, nil
}

func (f *fakeService) Compilers(_ context.Context, lang string) ([]godbolt.Compiler, error) {
	var out []godbolt.Compiler
	for _, c := range f.compilers {
		if c.Lang == lang {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeService) Formats(context.Context) ([]godbolt.Formatter, error) {
	return f.formats, nil
}

func (f *fakeService) Compile(_ context.Context, req godbolt.CompileRequest) (*godbolt.CompileResult, error) {
	f.compileCalls = append(f.compileCalls, req)
	return f.compileResult, f.compileErr
}

func (f *fakeService) Format(_ context.Context, req godbolt.FormatRequest) (*godbolt.FormatResult, error) {
	f.formatCalls = append(f.formatCalls, req)
	return f.formatResult, f.formatErr
}

// scriptedPrompter answers prompts from a queue. A negative choice or
// the cancelText marker dismisses the prompt.
type scriptedPrompter struct {
	choices []int
	texts   []string
	asked   []string
}

const cancelText = "\x00cancel"

func (p *scriptedPrompter) Choice(title string, items []ChoiceItem, complete func(int, bool)) {
	p.asked = append(p.asked, title)
	if len(p.choices) == 0 {
		complete(0, false)
		return
	}
	next := p.choices[0]
	p.choices = p.choices[1:]
	if next < 0 {
		complete(0, false)
		return
	}
	complete(next, true)
}

func (p *scriptedPrompter) Text(title, initial string, complete func(string, bool)) {
	p.asked = append(p.asked, title)
	if len(p.texts) == 0 {
		complete(initial, true)
		return
	}
	next := p.texts[0]
	p.texts = p.texts[1:]
	if next == cancelText {
		complete("", false)
		return
	}
	complete(next, true)
}

type fakeWorkspace struct {
	source    *view.Memory
	generated *view.Memory
	ensured   int
}

func (w *fakeWorkspace) Source() view.View { return w.source }

func (w *fakeWorkspace) EnsureGenerated() view.View {
	w.ensured++
	if w.generated == nil {
		w.generated = view.NewMemory("generated")
	}
	return w.generated
}

type recordingNotifier struct {
	infos  []string
	errors []string
}

func (n *recordingNotifier) Infof(format string, args ...any) {
	n.infos = append(n.infos, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) Errorf(format string, args ...any) {
	n.errors = append(n.errors, fmt.Sprintf(format, args...))
}

// --- Harness ---

type harness struct {
	sched  *task.Scheduler
	bus    *event.Bus
	svc    *fakeService
	prompt *scriptedPrompter
	ws     *fakeWorkspace
	notify *recordingNotifier
	ctl    *correlate.Controller
	orch   *Orchestrator
}

func newHarness(t *testing.T, svc *fakeService, prompt *scriptedPrompter, opts Options) *harness {
	t.Helper()
	h := &harness{
		sched:  task.NewScheduler(),
		bus:    event.NewBus(),
		svc:    svc,
		prompt: prompt,
		ws:     &fakeWorkspace{source: view.NewMemory("source")},
		notify: &recordingNotifier{},
	}
	h.ctl = correlate.NewController(h.bus)
	h.orch = New(h.sched, svc, prompt, h.ws, h.ctl, h.notify, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.sched.Run(ctx) //nolint:errcheck // always context.Canceled
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func (h *harness) wait(t *testing.T, handle *task.Handle) {
	t.Helper()
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("flow did not finish")
	}
}

func (h *harness) moveCursor(t *testing.T, id view.ID, line int) {
	t.Helper()
	env := event.NewEnvelope(event.NewEvent(view.TopicCursorMoved, view.CursorMoved{View: id, Line: line}, "test"))
	if err := h.bus.Publish(env); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func testCatalog() *fakeService {
	return &fakeService{
		languages: []godbolt.Language{
			{ID: "c++", Name: "C++", Extensions: []string{".cpp", ".cc"}},
			{ID: "rust", Name: "Rust", Extensions: []string{".rs"}},
		},
		compilers: []godbolt.Compiler{
			{ID: "g132", Name: "gcc 13.2", Lang: "c++"},
			{ID: "clang17", Name: "clang 17", Lang: "c++"},
		},
	}
}

func sourceLines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i+1)
	}
	return out
}

// --- Compile flow ---

func TestCompileEndToEnd(t *testing.T) {
	svc := testCatalog()
	// 8 output lines: 3-4 map to source 6, 7 maps to source 9.
	lines := make([]correlate.AnnotatedLine, 8)
	for i := range lines {
		lines[i] = correlate.AnnotatedLine{Index: i + 1, Text: fmt.Sprintf("asm %d", i+1)}
	}
	lines[2].Source = 6
	lines[3].Source = 6
	lines[6].Source = 9
	svc.compileResult = &godbolt.CompileResult{Lines: lines}

	prompt := &scriptedPrompter{choices: []int{0}, texts: []string{"-O2"}}
	h := newHarness(t, svc, prompt, Options{LiveCorrelation: true, IntelSyntax: true})
	h.ws.source.ReplaceContents(sourceLines(10))

	h.wait(t, h.orch.Compile(Input{
		Lines:      h.ws.source.Lines(),
		Extension:  ".cpp",
		FullBuffer: true,
	}))

	// One compile round trip with the prompted values.
	if len(svc.compileCalls) != 1 {
		t.Fatalf("compile calls = %d, want 1", len(svc.compileCalls))
	}
	req := svc.compileCalls[0]
	if req.CompilerID != "g132" {
		t.Errorf("CompilerID = %q, want g132", req.CompilerID)
	}
	if req.UserArguments != "-O2" {
		t.Errorf("UserArguments = %q, want -O2", req.UserArguments)
	}
	if !req.Intel {
		t.Error("Intel syntax not requested")
	}
	if !strings.HasPrefix(req.Source, "line 1\n") {
		t.Errorf("Source = %q", req.Source)
	}

	// Extension narrowed the catalog to one language, so the only
	// choice prompt was the compiler.
	if want := []string{"Compiler", "Compiler options"}; !reflect.DeepEqual(prompt.asked, want) {
		t.Errorf("prompts = %v, want %v", prompt.asked, want)
	}

	// Output rendered.
	if h.ws.generated == nil {
		t.Fatal("generated view not created")
	}
	if got := h.ws.generated.Line(1); got != "asm 1" {
		t.Errorf("generated line 1 = %q", got)
	}
	if want := []string{"compiled: 8 lines"}; !reflect.DeepEqual(h.notify.infos, want) {
		t.Errorf("infos = %v, want %v", h.notify.infos, want)
	}

	// Live correlation wired: source line 6 lights generated 3 and 4.
	s := h.ctl.Session("source", "generated")
	if s == nil {
		t.Fatal("no session started")
	}
	h.moveCursor(t, "source", 6)
	if got := h.ws.generated.Highlights(s.Namespace()); !reflect.DeepEqual(got, []int{3, 4}) {
		t.Errorf("highlights = %v, want [3 4]", got)
	}
	h.moveCursor(t, "source", 1)
	if got := h.ws.generated.Highlights(s.Namespace()); got != nil {
		t.Errorf("highlights = %v, want none after uncorrelated move", got)
	}
}

func TestCompilePromptsLanguageWhenAmbiguous(t *testing.T) {
	svc := testCatalog()
	svc.compileResult = &godbolt.CompileResult{}
	prompt := &scriptedPrompter{choices: []int{0, 1}}
	h := newHarness(t, svc, prompt, Options{})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}}))

	if len(prompt.asked) == 0 || prompt.asked[0] != "Language" {
		t.Errorf("prompts = %v, want Language first", prompt.asked)
	}
	if len(svc.compileCalls) != 1 || svc.compileCalls[0].CompilerID != "clang17" {
		t.Errorf("compile calls = %+v", svc.compileCalls)
	}
}

func TestCompileCancellationAtCompilerPrompt(t *testing.T) {
	svc := testCatalog()
	prompt := &scriptedPrompter{choices: []int{-1}}
	h := newHarness(t, svc, prompt, Options{LiveCorrelation: true})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}, Extension: ".cpp", FullBuffer: true}))

	if len(svc.compileCalls) != 0 {
		t.Error("no remote call may follow a dismissed prompt")
	}
	if h.ws.ensured != 0 {
		t.Error("no view may be created after a dismissed prompt")
	}
	if len(h.notify.errors) != 0 {
		t.Errorf("cancellation is silent, got %v", h.notify.errors)
	}

	// A subsequent compile still starts cleanly.
	svc.compileResult = &godbolt.CompileResult{}
	prompt.choices = []int{0}
	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}, Extension: ".cpp"}))
	if len(svc.compileCalls) != 1 {
		t.Errorf("follow-up compile calls = %d, want 1", len(svc.compileCalls))
	}
}

func TestCompileRemoteFailureKeepsStaleOutput(t *testing.T) {
	svc := testCatalog()
	svc.compileErr = errors.New("service melted")
	prompt := &scriptedPrompter{choices: []int{0}}
	h := newHarness(t, svc, prompt, Options{})

	// A previous result is on screen.
	h.ws.generated = view.NewMemory("generated")
	h.ws.generated.ReplaceContents([]string{"old asm"})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}, Extension: ".cpp"}))

	if len(h.notify.errors) != 1 || !strings.Contains(h.notify.errors[0], "service melted") {
		t.Errorf("errors = %v, want the service message surfaced", h.notify.errors)
	}
	if got := h.ws.generated.Line(1); got != "old asm" {
		t.Errorf("stale output clobbered: %q", got)
	}
}

func TestCompileNoLanguageMatch(t *testing.T) {
	svc := testCatalog()
	prompt := &scriptedPrompter{}
	h := newHarness(t, svc, prompt, Options{})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}, Extension: ".zig"}))

	if len(svc.compileCalls) != 0 {
		t.Error("unsupported input must not reach the service")
	}
	if len(h.notify.errors) != 1 || !strings.Contains(h.notify.errors[0], ".zig") {
		t.Errorf("errors = %v", h.notify.errors)
	}
	if len(prompt.asked) != 0 {
		t.Errorf("no prompt expected, got %v", prompt.asked)
	}
}

func TestCompileEmptyInput(t *testing.T) {
	svc := testCatalog()
	h := newHarness(t, svc, &scriptedPrompter{}, Options{})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"", "  "}}))
	if len(h.notify.errors) != 1 {
		t.Errorf("errors = %v", h.notify.errors)
	}
}

func TestSelectionCompileSkipsCorrelation(t *testing.T) {
	svc := testCatalog()
	svc.compileResult = &godbolt.CompileResult{Lines: []correlate.AnnotatedLine{
		{Index: 1, Text: "mov", Source: 1},
	}}
	prompt := &scriptedPrompter{choices: []int{0}}
	h := newHarness(t, svc, prompt, Options{LiveCorrelation: true})
	h.ws.source.ReplaceContents(sourceLines(5))

	h.wait(t, h.orch.Compile(Input{
		Lines:      []string{"line 2", "line 3"},
		Extension:  ".cpp",
		FullBuffer: false,
	}))

	if h.ws.generated == nil || h.ws.generated.Line(1) != "mov" {
		t.Fatal("selection compile should still render output")
	}
	if h.ctl.Session("source", "generated") != nil {
		t.Error("selection compile must not start a correlation session")
	}
}

func TestCompileNonZeroExitStillRenders(t *testing.T) {
	svc := testCatalog()
	svc.compileResult = &godbolt.CompileResult{
		Code:   1,
		Stderr: []string{"error: expected ';'"},
		Lines:  []correlate.AnnotatedLine{{Index: 1, Text: "<compilation failed>"}},
	}
	prompt := &scriptedPrompter{choices: []int{0}}
	h := newHarness(t, svc, prompt, Options{})

	h.wait(t, h.orch.Compile(Input{Lines: []string{"x"}, Extension: ".cpp"}))

	if len(h.notify.errors) != 1 || !strings.Contains(h.notify.errors[0], "expected ';'") {
		t.Errorf("errors = %v", h.notify.errors)
	}
	if h.ws.generated == nil || h.ws.generated.Line(1) != "<compilation failed>" {
		t.Error("diagnostic output should still render")
	}
}

// --- Format flow ---

func TestFormatEndToEnd(t *testing.T) {
	svc := testCatalog()
	svc.formats = []godbolt.Formatter{
		{Type: "clangformat", Name: "clang-format", Styles: []string{"Google", "LLVM"}},
	}
	svc.formatResult = &godbolt.FormatResult{Text: "int main() {}\n"}
	prompt := &scriptedPrompter{choices: []int{0, 1}}
	h := newHarness(t, svc, prompt, Options{})
	h.ws.source.ReplaceContents([]string{"int main(){}"})

	h.wait(t, h.orch.Format(Input{Lines: h.ws.source.Lines()}))

	if len(svc.formatCalls) != 1 {
		t.Fatalf("format calls = %d, want 1", len(svc.formatCalls))
	}
	req := svc.formatCalls[0]
	if req.FormatterType != "clangformat" || req.Style != "LLVM" {
		t.Errorf("format request = %+v", req)
	}
	if got := h.ws.source.Lines(); !reflect.DeepEqual(got, []string{"int main() {}", ""}) {
		t.Errorf("source after format = %v", got)
	}
	if len(h.notify.infos) != 1 {
		t.Errorf("infos = %v", h.notify.infos)
	}
}

func TestFormatCancellation(t *testing.T) {
	svc := testCatalog()
	svc.formats = []godbolt.Formatter{{Type: "clangformat", Name: "clang-format"}}
	prompt := &scriptedPrompter{choices: []int{-1}}
	h := newHarness(t, svc, prompt, Options{})
	h.ws.source.ReplaceContents([]string{"int main(){}"})

	h.wait(t, h.orch.Format(Input{Lines: h.ws.source.Lines()}))

	if len(svc.formatCalls) != 0 {
		t.Error("no remote call after dismissed prompt")
	}
	if got := h.ws.source.Line(1); got != "int main(){}" {
		t.Errorf("source mutated after cancellation: %q", got)
	}
}

func TestFormatFailedExitKeepsSource(t *testing.T) {
	svc := testCatalog()
	svc.formats = []godbolt.Formatter{{Type: "clangformat", Name: "clang-format"}}
	svc.formatResult = &godbolt.FormatResult{Exit: 1, Text: "garbage"}
	prompt := &scriptedPrompter{choices: []int{0}}
	h := newHarness(t, svc, prompt, Options{})
	h.ws.source.ReplaceContents([]string{"int main(){}"})

	h.wait(t, h.orch.Format(Input{Lines: h.ws.source.Lines()}))

	if got := h.ws.source.Line(1); got != "int main(){}" {
		t.Errorf("source mutated after failed format: %q", got)
	}
	if len(h.notify.errors) != 1 {
		t.Errorf("errors = %v", h.notify.errors)
	}
}
