package server

import (
	"net/http"
	"time"
)

// PostHook runs after a handler is done, right before the response headers are written.
// It receives the status code of the response.
type PostHook func(header http.Header, status int)

// After returns middleware that runs the hooks for every response of the wrapped handler.
func After(hooks ...PostHook) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writer := &hookWriter{ResponseWriter: w, hooks: hooks}
			next.ServeHTTP(writer, r)
			// Handlers that never write still get an implicit 200
			if !writer.done {
				writer.WriteHeader(http.StatusOK)
			}
		})
	}
}

// ResponseHeader sets a fixed header on every response.
func ResponseHeader(key string, value string) PostHook {
	return func(header http.Header, _ int) {
		header.Set(key, value)
	}
}

// LastModified sets the Last-Modified header of successful responses to the current time.
func LastModified(now func() time.Time) PostHook {
	return func(header http.Header, status int) {
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		header.Set("Last-Modified", now().UTC().Format(http.TimeFormat))
	}
}

type hookWriter struct {
	http.ResponseWriter
	hooks []PostHook
	done  bool
}

func (w *hookWriter) run(status int) {
	if w.done {
		return
	}
	w.done = true
	for _, hook := range w.hooks {
		hook(w.Header(), status)
	}
}

func (w *hookWriter) WriteHeader(status int) {
	w.run(status)
	w.ResponseWriter.WriteHeader(status)
}

func (w *hookWriter) Write(data []byte) (int, error) {
	w.run(http.StatusOK)
	return w.ResponseWriter.Write(data)
}

func (w *hookWriter) Flush() {
	w.run(http.StatusOK)
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap is used by http.ResponseController.
func (w *hookWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
