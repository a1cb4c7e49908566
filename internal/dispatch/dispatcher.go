// Package dispatch is the command orchestrator: it serializes every command
// from the text box, the voice transcript stream, and the loop scheduler
// through one mutex, resolves the command to a new screen, and asks the
// narration service for something to say about it. The dispatcher owns the
// navigation history and the single active walkthrough.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"voxfolio/internal/compiler"
	"voxfolio/internal/content"
	"voxfolio/internal/intent"
	"voxfolio/internal/logging"
	"voxfolio/internal/loop"
	"voxfolio/internal/metrics"
	"voxfolio/internal/narration"
	"voxfolio/internal/screen"
	"voxfolio/internal/session"
)

// stopPhrases interrupt everything: the walkthrough, in-flight assistant
// speech, and the command pipeline itself. They are matched as whole
// utterances, so "stop filtering by go" is a normal command.
var stopPhrases = []string{
	"stop", "cancel", "halt", "be quiet", "shut up", "silence",
	"stopp", "sei leise", "ruhe",
}

// CommandCompiler turns free text into screen mutations. *compiler.Client
// implements it; tests substitute fakes.
type CommandCompiler interface {
	Compile(ctx context.Context, req compiler.Request) (compiler.Result, error)
}

// Narrator produces the spoken/written response for a resolved command.
// *narration.Client implements it.
type Narrator interface {
	Narrate(ctx context.Context, req narration.Request) (narration.Result, error)
}

// VoiceCanceller cancels in-flight assistant audio. *voice.Manager implements
// it; it is nil in text-only deployments.
type VoiceCanceller interface {
	CancelResponse()
}

// Result is what one command resolves to. Narration fields are empty when the
// narration service failed or is not configured; Message carries the
// dispatcher's own canned text for stops, clarifications, and language
// switches.
type Result struct {
	Screen      screen.Screen
	Narration   string
	Tone        narration.Tone
	FocusTarget string
	Message     string
	Stopped     bool
}

// Dispatcher resolves commands. All entry points (Submit, HandleTranscript,
// loop step delivery) serialize on mu.
type Dispatcher struct {
	mu        sync.Mutex
	registry  *content.Registry
	sessions  *session.Manager
	scheduler *loop.Scheduler
	history   *History

	compiler CommandCompiler
	narrator Narrator
	voice    VoiceCanceller

	// seq increments on every command. Async loop narrations capture the seq
	// current when their walkthrough started and are dropped on delivery if a
	// newer command has run since; a cancelled walkthrough must never speak.
	seq uint64

	// onUpdate receives results that have no synchronous caller: loop ticks
	// and voice transcripts.
	onUpdate func(Result)
}

// New creates a dispatcher with history seeded from the registry's home
// screen.
func New(registry *content.Registry, sessions *session.Manager, scheduler *loop.Scheduler) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		sessions:  sessions,
		scheduler: scheduler,
		history:   NewHistory(registry.Home()),
	}
}

// SetCompiler wires the remote command compiler. Without one, unknown input
// goes straight to the local refinement patterns.
func (d *Dispatcher) SetCompiler(c CommandCompiler) { d.compiler = c }

// SetNarrator wires the narration service.
func (d *Dispatcher) SetNarrator(n Narrator) { d.narrator = n }

// SetVoice wires the voice manager for barge-in cancellation.
func (d *Dispatcher) SetVoice(v VoiceCanceller) { d.voice = v }

// SetUpdateHandler registers the sink for asynchronous results.
func (d *Dispatcher) SetUpdateHandler(fn func(Result)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onUpdate = fn
}

// Current returns the current screen.
func (d *Dispatcher) Current() screen.Screen {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.Current()
}

// Submit resolves one typed command and returns its result.
func (d *Dispatcher) Submit(ctx context.Context, text string) Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dispatchLocked(ctx, text)
}

// HandleTranscript resolves one voice transcript. New speech barges in: any
// in-flight assistant output is cancelled before the command runs. The result
// goes to the update handler.
func (d *Dispatcher) HandleTranscript(text string) {
	if d.voice != nil {
		d.voice.CancelResponse()
	}
	d.mu.Lock()
	res := d.dispatchLocked(context.Background(), text)
	fn := d.onUpdate
	d.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

// dispatchLocked is the command pipeline. Callers hold d.mu.
func (d *Dispatcher) dispatchLocked(ctx context.Context, text string) Result {
	lang := d.sessions.Current().UILanguage

	// Stop phrases preempt everything, including intent classification. No
	// compiler or narration call happens on this path.
	if isStopPhrase(text) {
		d.seq++
		d.scheduler.Stop()
		if d.voice != nil {
			d.voice.CancelResponse()
		}
		logging.Dispatch("stop phrase: %q", text)
		return Result{
			Screen:  d.history.Current(),
			Message: message(lang, msgStopped),
			Stopped: true,
		}
	}

	// Any new command invalidates the running walkthrough and its pending
	// narrations.
	d.seq++
	d.scheduler.Stop()

	it := intent.Parse(text)
	metrics.CommandsTotal.WithLabelValues(string(it.Kind)).Inc()
	logging.Intent("%q -> %s", text, it.Kind)

	switch it.Kind {
	case intent.KindGoBack:
		s := d.history.Pop()
		d.sessions.MarkScreen(s.ID)
		return d.narrateLocked(ctx, text, Result{Screen: s})

	case intent.KindShowCV:
		return d.showLocked(ctx, text, content.CVID, "")

	case intent.KindShowProjects:
		return d.showLocked(ctx, text, content.ProjectsID, it.Tech)

	case intent.KindShowAnyProjects:
		next, ok := d.registry.NextAny(d.history.Current().ID)
		if !ok {
			return Result{Screen: d.history.Current(), Message: message(lang, msgClarify)}
		}
		d.history.Push(next)
		d.sessions.MarkScreen(next.ID)
		return d.narrateLocked(ctx, text, Result{Screen: next})

	case intent.KindLoopTimeline:
		return d.startLoopLocked(lang)

	case intent.KindShowLanguageSelection:
		// Language intents mutate the session only. The picker is rendered
		// from session state, never pushed, so it cannot leak into go-back
		// or the screensViewed counters.
		d.sessions.ShowLanguageSelection()
		return Result{Screen: d.history.Current(), Message: message(lang, msgPickLanguage)}

	case intent.KindSetLanguageEN:
		d.sessions.SetUILanguage(session.LanguageEN)
		return Result{Screen: d.history.Current(), Message: messagesEN[msgLanguageEN]}

	case intent.KindSetLanguageDE:
		d.sessions.SetUILanguage(session.LanguageDE)
		return Result{Screen: d.history.Current(), Message: messagesDE[msgLanguageDE]}

	default:
		return d.compileLocked(ctx, text, lang)
	}
}

// showLocked pushes a registry screen, optionally filtered by technology.
func (d *Dispatcher) showLocked(ctx context.Context, text, screenID, tech string) Result {
	lang := d.sessions.Current().UILanguage
	s, ok := d.registry.Screen(screenID)
	if !ok {
		return Result{Screen: d.history.Current(), Message: message(lang, msgClarify)}
	}
	if tech != "" {
		s = screen.Apply(s, screen.FilterProjects{Tech: tech})
		d.sessions.SetPersonaPreference("tech:" + tech)
	}
	d.history.Push(s)
	d.sessions.MarkScreen(s.ID)
	return d.narrateLocked(ctx, text, Result{Screen: s})
}

// compileLocked handles input the local rules could not classify: remote
// compiler first, refinement patterns as fallback, clarification last. A
// compiler failure is recovered transparently; the user never sees it.
func (d *Dispatcher) compileLocked(ctx context.Context, text string, lang session.Language) Result {
	current := d.history.Current()

	if d.compiler != nil {
		res, err := d.compiler.Compile(ctx, compiler.Request{
			Text:          text,
			CurrentScreen: current,
			History:       d.history.Screens(),
		})
		if err == nil {
			if len(res.Mutations) == 0 {
				return d.narrateLocked(ctx, text, Result{Screen: current})
			}
			return d.applyLocked(ctx, text, res.Mutations)
		}
		metrics.CompilerFallbacks.Inc()
		logging.DispatchWarn("compiler failed, falling back to local rules: %v", err)
	}

	if m, ok := intent.Refine(text); ok {
		return d.applyLocked(ctx, text, []screen.Mutation{m})
	}

	logging.Dispatch("no rule for %q, asking for clarification", text)
	return Result{Screen: current, Message: message(lang, msgClarify)}
}

// applyLocked applies mutations to the current screen and pushes the result,
// so go-back undoes the mutation.
func (d *Dispatcher) applyLocked(ctx context.Context, text string, muts []screen.Mutation) Result {
	next := screen.ApplyAll(d.history.Current(), muts)
	d.history.Push(next)
	d.sessions.MarkScreen(next.ID)
	return d.narrateLocked(ctx, text, Result{Screen: next})
}

// narrateLocked asks the narration service for a response to the resolved
// command. Failure means no narration, never a failed command. A focus target
// that names nothing on the screen is discarded.
func (d *Dispatcher) narrateLocked(ctx context.Context, text string, res Result) Result {
	if d.narrator == nil {
		return res
	}
	nr, err := d.narrator.Narrate(ctx, narration.Request{
		Text:          text,
		CurrentScreen: res.Screen,
		History:       d.history.Screens(),
		Session:       d.sessions.Current(),
	})
	if err != nil {
		metrics.NarrationFailures.Inc()
		logging.NarrationWarn("narration failed, omitting: %v", err)
		return res
	}
	res.Narration = nr.Narration
	res.Tone = nr.Tone
	if nr.FocusTarget != "" && res.Screen.HasTarget(nr.FocusTarget) {
		res.FocusTarget = nr.FocusTarget
	}
	return res
}

// startLoopLocked begins a walkthrough over the current screen's timeline.
func (d *Dispatcher) startLoopLocked(lang session.Language) Result {
	current := d.history.Current()
	tl, ok := current.Timeline()
	if !ok || len(tl.Entries) == 0 {
		return Result{Screen: current, Message: message(lang, msgNoTimeline)}
	}

	ids := make([]string, len(tl.Entries))
	byID := make(map[string]screen.TimelineEntry, len(tl.Entries))
	for i, e := range tl.Entries {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	gen := d.seq
	d.scheduler.Start(ids, func(id string, index, total int) {
		metrics.LoopTicks.Inc()
		entry := byID[id]
		// Narration runs off the scheduler goroutine; the first step fires
		// synchronously under d.mu and must not block on the network.
		go d.narrateLoopStep(gen, current, entry, index, total)
	})

	return Result{Screen: current, FocusTarget: ids[0]}
}

// narrateLoopStep produces the narration for one walkthrough step and
// delivers it, unless a newer command has run since the walkthrough started.
func (d *Dispatcher) narrateLoopStep(gen uint64, s screen.Screen, entry screen.TimelineEntry, index, total int) {
	res := Result{Screen: s, FocusTarget: entry.ID}

	if d.narrator != nil {
		facts := fmt.Sprintf("Timeline step %d of %d: %s", index+1, total, entry.Title)
		if entry.Period != "" {
			facts += " (" + entry.Period + ")"
		}
		if entry.Description != "" {
			facts += ": " + entry.Description
		}
		nr, err := d.narrator.Narrate(context.Background(), narration.Request{
			Text:          "walkthrough step",
			CurrentScreen: s,
			Session:       d.sessions.Current(),
			FactsPack:     facts,
		})
		if err != nil {
			metrics.NarrationFailures.Inc()
			logging.NarrationWarn("loop narration failed, omitting: %v", err)
		} else {
			res.Narration = nr.Narration
			res.Tone = nr.Tone
		}
	}

	d.mu.Lock()
	stale := d.seq != gen
	fn := d.onUpdate
	d.mu.Unlock()
	if stale {
		logging.DispatchDebug("dropping stale walkthrough narration for %s", entry.ID)
		return
	}
	if fn != nil {
		fn(res)
	}
}

// Shutdown stops the walkthrough. Call on teardown.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	d.seq++
	d.mu.Unlock()
	d.scheduler.Stop()
}

func isStopPhrase(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimRight(t, ".!?")
	t = strings.Join(strings.Fields(t), " ")
	for _, p := range stopPhrases {
		if t == p {
			return true
		}
	}
	return false
}
