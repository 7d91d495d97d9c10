// Package server wires the playground together: config, logging,
// metrics, the outbound fetch client, the spider and browser services,
// and the Gin router with all routes and middleware.
package server
