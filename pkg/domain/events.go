package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart   EventType = "run_start"
	EventRunFinish  EventType = "run_finish"
	EventStepStart  EventType = "step_start"
	EventStepFinish EventType = "step_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Selector  string    `json:"selector"`
}

// RunEvent marks the beginning or end of a run.
type RunEvent struct {
	EventBase
	Status   RunStatus     `json:"status,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// StepEvent marks the beginning or end of a step.
type StepEvent struct {
	EventBase
	Index  int         `json:"index"`
	Step   Step        `json:"step"`
	Result *StepResult `json:"result,omitempty"`
}

// LifecycleHooks defines callbacks for executor observability.
type LifecycleHooks struct {
	OnRunStart   func(context.Context, *RunEvent)
	OnRunFinish  func(context.Context, *RunEvent)
	OnStepStart  func(context.Context, *StepEvent)
	OnStepFinish func(context.Context, *StepEvent)
}

// ComposeHooks fans every callback out to each of the given hooks, in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, e)
				}
			}
		},
		OnStepStart: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepStart != nil {
					h.OnStepStart(ctx, e)
				}
			}
		},
		OnStepFinish: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStepFinish != nil {
					h.OnStepFinish(ctx, e)
				}
			}
		},
	}
}
