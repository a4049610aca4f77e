package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Scenario adds the scenario name.
func Scenario(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("scenario", name)
	}
}

// Step adds the index and kind of a scenario step.
func Step(index int, kind string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("step", index).Str("kind", kind)
	}
}

// Formula adds a formula in its printed form.
func Formula(f string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("formula", f)
	}
}

// Worlds adds a world count.
func Worlds(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("worlds", n)
	}
}

// Pairs adds a relation pair count.
func Pairs(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("pairs", n)
	}
}

// Candidates adds the number of subsets a solve tried.
func Candidates(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("candidates", n)
	}
}

// Holds adds the outcome of a check.
func Holds(ok bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("holds", ok)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
