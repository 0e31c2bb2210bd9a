package agent

type options struct {
	tools    Tools
	system   string
	maxSteps int
}

type OptionFunc func(o *options)

// WithTools binds tool providers to the agent.
func WithTools(tools ...ToolProvider) OptionFunc {
	return func(o *options) {
		o.tools = tools
	}
}

// WithSystemPrompt sets the instruction prepended to every conversation.
func WithSystemPrompt(prompt string) OptionFunc {
	return func(o *options) {
		o.system = prompt
	}
}

// WithMaxSteps bounds the model/tool round-trips of a single completion.
func WithMaxSteps(n int) OptionFunc {
	return func(o *options) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}
