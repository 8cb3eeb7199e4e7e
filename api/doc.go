/*
Package api defines the wire types and configuration of the devnet HTTP
service, together with the BridgeProvider interface implemented both by the
in-process devnet and by the HTTP client in api/clients.

# Endpoints

	GET  /api/deployment                      contract addresses and block time
	POST /api/call                            execute a call (CallRequest)
	GET  /api/events?from=N                   event log from index N
	GET  /api/timelock/{address}/tx/{hash}    timelock transaction state
	GET  /api/nonce/{address}/{nonce}         nonce consumption on a contract
	GET  /api/signer/{address}/{signer}       signer registration on a contract

Failed calls are answered with an ErrorResponse. The HTTP status reflects the
error kind:

	validation     400
	authorization  403
	replay         409
	state          412
	external       502

The client rebuilds an *interfaces.Error from the response, so errors.Is
against the contract sentinels works on both sides of the wire.
*/
package api
