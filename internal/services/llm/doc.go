// Package llm wraps an OpenAI-compatible chat completion endpoint behind
// the narrow Completer contract the pipeline stages use.
//
// Model output is treated as untrusted free text: helpers extract fenced
// code blocks and decode JSON payloads defensively, and transient call
// failures are retried a bounded number of times with exponential backoff.
package llm
