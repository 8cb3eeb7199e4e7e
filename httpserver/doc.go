/*
Package httpserver serves a custody deployment over HTTP.

The Handler translates requests into api.BridgeProvider calls and answers
with the JSON types from package api. Reverted calls are answered with an
api.ErrorResponse carrying the revert reason and its kind. The status code
follows the kind: validation errors are 400, authorization 403, replay 409,
state 412 and failures of a called contract 502. Unknown contracts are 404.

The Server adds health endpoints (/livez, /readyz), drain control
(/drain, /undrain), optional pprof under /debug, and a Prometheus metrics
server. The metrics server is also a chain.Observer:

	srv, err := httpserver.New(cfg, httpserver.NewHandler(net, log))
	net.Env().SetObserver(srv.Metrics())
	srv.RunInBackground()
*/
package httpserver
