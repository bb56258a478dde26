// Package apiutil writes the JSON response envelope shared by every API
// endpoint: {success, message?, data?, error?}. Handlers never touch the
// encoder directly, so the envelope stays uniform across features.
package apiutil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// Count and Source appear on list responses.
	Count  *int   `json:"count,omitempty"`
	Source string `json:"source,omitempty"`
}

// WriteJSON writes an arbitrary envelope with the given status code.
func WriteJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope with a message and optional data.
func OK(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// List writes a 200 success envelope with count and source fields.
func List(w http.ResponseWriter, data any, count int, source string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Source: source})
}

// Fail writes a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// Error writes a failure envelope carrying an error detail alongside the
// message. Detail should already be safe for clients; internal errors go
// through InternalError instead.
func Error(w http.ResponseWriter, status int, message, detail string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message, Error: detail})
}

// InternalError writes a uniform 500 envelope. The underlying error is for
// logs only and never reaches the client.
func InternalError(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: message, Error: "Internal server error"})
}

// NotFoundHandler serves the uniform envelope for unknown routes.
func NotFoundHandler(w http.ResponseWriter, _ *http.Request) {
	Fail(w, http.StatusNotFound, "Route not found")
}
