/*
Package clients provides a Go client for the review gateway API.

GatewayClient covers the item name registration workflow: a domain asks for
its local item name to be registered, and an authorized editor lists the
pending queue, assigns a canonical item name or rejects the request.

	client := clients.NewGatewayClient("http://localhost:8080")

	// As a website
	shop := client.WithOrigin("https://shop.example.com")
	err := shop.RegisterItem(ctx, "Widget")

	// As an editor
	queue, err := client.Queue(ctx, editorAddress)
	err = client.Assign(ctx, editorAddress, "Widget", "shop.example.com", "Widget")

Non-successful responses are returned as *APIError carrying the status code
and the gateway's message.
*/
package clients
