// Package ws streams diagnostic events over WebSocket. Every spider crawl
// and browser session transition is broadcast to connected clients as a
// typed JSON event.
package ws
