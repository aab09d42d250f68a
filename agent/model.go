package agent

import (
	"fmt"

	"github.com/slindgren720/eventflow/core"
	"github.com/slindgren720/eventflow/model"
	"github.com/slindgren720/eventflow/stream"
	"github.com/slindgren720/eventflow/tool"
)

// DefaultMaxToolRounds bounds the generate/execute cycles of one turn.
const DefaultMaxToolRounds = 5

// ModelAgentOptions configures a ModelAgent.
type ModelAgentOptions struct {
	// Instructions is the system prompt sent with every request.
	Instructions string

	// Tools are executed when the model requests them; results are fed
	// back for a follow-up generation.
	Tools []tool.Tool

	// MaxToolRounds caps the number of generate/execute cycles per turn.
	// Defaults to DefaultMaxToolRounds.
	MaxToolRounds int

	// Stream requests per-chunk partial responses from the provider.
	Stream bool
}

// ModelAgent drives a language model for one conversational turn, translating
// the model's response stream into run events. When the model requests tool
// calls the agent executes them and re-prompts with the results until the
// model produces a final text response.
type ModelAgent struct {
	BaseAgent
	model    model.Model
	registry *tool.Registry
	opts     ModelAgentOptions
}

// NewModelAgent creates an agent backed by m.
func NewModelAgent(name string, m model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{MaxToolRounds: DefaultMaxToolRounds}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = DefaultMaxToolRounds
	}
	return &ModelAgent{
		BaseAgent: NewBaseAgent(name),
		model:     m,
		registry:  tool.NewRegistry(opts.Tools...),
		opts:      opts,
	}
}

// Type identifies the agent kind in run contexts.
func (a *ModelAgent) Type() string { return "model" }

// Run implements core.Agent.
func (a *ModelAgent) Run(rc *core.RunContext) error {
	contents := []core.Content{rc.Input}

	for round := 0; ; round++ {
		req := model.Request{
			Instructions: a.opts.Instructions,
			Contents:     contents,
			Tools:        a.registry.Definitions(),
			Stream:       a.opts.Stream,
		}

		final, err := a.relay(rc, a.model.Generate(rc.Context, req))
		if err != nil {
			return err
		}

		calls := final.Content.ToolCalls()
		if len(calls) == 0 || a.registry.Len() == 0 {
			return nil
		}
		if round+1 >= a.opts.MaxToolRounds {
			return fmt.Errorf("tool call limit reached after %d rounds", a.opts.MaxToolRounds)
		}

		contents = append(contents, final.Content)
		resultParts := make([]core.Part, 0, len(calls))
		for _, call := range calls {
			result := a.registry.Execute(rc.Context, call)
			if err := rc.Emit(core.NewToolResultEvent(rc.RunID, a.Name(), result)); err != nil {
				return err
			}
			resultParts = append(resultParts, core.ToolResultPart{Result: result})
		}
		contents = append(contents, core.Content{Role: "tool", Parts: resultParts})
	}
}

// relay forwards one generation's chunks as events and returns the final
// response.
func (a *ModelAgent) relay(rc *core.RunContext, p *stream.Pipeline[model.Response]) (model.Response, error) {
	defer p.Stop()

	var final model.Response
	sawFinal := false
	for p.Next(rc.Context) {
		resp := p.Current()
		if resp.Partial {
			if err := a.emitPartial(rc, resp); err != nil {
				return model.Response{}, err
			}
			continue
		}
		final = resp
		sawFinal = true
	}
	if err := p.Err(); err != nil {
		return model.Response{}, err
	}
	if !sawFinal {
		return model.Response{}, fmt.Errorf("model %q produced no final response", a.model.Info().Name)
	}

	return final, a.emitFinal(rc, final)
}

func (a *ModelAgent) emitPartial(rc *core.RunContext, resp model.Response) error {
	ev := core.NewEvent(rc.RunID, a.Name(), core.EventMessage)
	c := resp.Content
	ev.Content = &c
	ev.Partial = true
	return rc.Emit(ev)
}

// emitFinal converts the final response into events: one tool call event per
// requested call, plus a message event for any text.
func (a *ModelAgent) emitFinal(rc *core.RunContext, resp model.Response) error {
	calls := resp.Content.ToolCalls()
	for _, call := range calls {
		if err := rc.Emit(core.NewToolCallEvent(rc.RunID, a.Name(), call)); err != nil {
			return err
		}
	}
	if text := resp.Content.Text(); text != "" || len(calls) == 0 {
		if err := rc.Emit(core.NewMessageEvent(rc.RunID, a.Name(), text, false)); err != nil {
			return err
		}
	}
	return nil
}
