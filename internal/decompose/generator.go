package decompose

import "context"

// Generator produces subtask descriptions for a task. It is the boundary
// to the text-generation service; implementations may call a remote
// model or nothing at all.
type Generator interface {
	// Subtasks returns short actionable steps for the given task text.
	// Every service failure (network, credentials, malformed output,
	// timeout) surfaces as an error.
	Subtasks(ctx context.Context, text string) ([]string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, text string) ([]string, error)

// Subtasks calls f.
func (f GeneratorFunc) Subtasks(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// Unavailable returns a Generator whose every request fails with err. The
// CLI uses it when no API credentials are configured: a breakdown request
// still settles as an ordinary failure instead of crashing the app.
func Unavailable(err error) Generator {
	return GeneratorFunc(func(context.Context, string) ([]string, error) {
		return nil, err
	})
}
