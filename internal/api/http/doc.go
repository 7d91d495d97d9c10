// Package http contains the Gin HTTP handlers for the playground: the
// spider crawl endpoint and the browser control panel endpoints.
package http
