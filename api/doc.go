// Package api defines the request and response types of the GraphFlow HTTP API.
//
// # API Overview
//
// GraphFlow provides a RESTful API for:
//   - Creating workflow graph definitions
//   - Running graphs against an initial state
//   - Querying run state and step logs
//   - Health monitoring and metrics
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
//
// # Endpoints
//
//	POST /api/v1/graphs        create a graph definition
//	POST /api/v1/graphs/run    run a graph to completion
//	GET  /api/v1/runs/{id}     query a run's state and log
//	GET  /api/v1/graphs/sample get the bootstrap sample graph id
package api
