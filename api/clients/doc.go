/*
Package clients provides the HTTP client for the devnet API.

BridgeClient implements api.BridgeProvider against a running bridged
instance, so code written against the interface works the same in-process
and over the network:

	client := clients.NewBridgeClient("http://127.0.0.1:8080")
	input, _ := chain.EncodeCall("pause()")
	_, err := client.Call(ctx, &api.CallRequest{From: controller, To: bridge, Input: input})
	if errors.Is(err, roles.ErrNotController) {
		...
	}

MockBridgeProvider is a testify mock of the same interface.
*/
package clients
