// Package contract provides a client for the on-chain review registry.
//
// The client implements interfaces.ReviewContract on top of any Backend that
// can run eth_call and eth_estimateGas, which in production is an
// *ethclient.Client dialed from WEB3_ENDPOINT.
//
// Key features include:
//
//   - Read access to items, domains, reviews and authorized editors
//   - Unsigned transaction building for every state-changing method
//   - ABI loading from the embedded default, an inline JSON document, or a file
//
// # Transactions
//
// The gateway never signs. State-changing methods return an
// interfaces.UnsignedTransaction carrying the sender, the contract address,
// the ABI-encoded call data and a gas limit equal to the node's estimate plus
// 20%, rounded up:
//
//	tx, err := client.AddReviewTx(ctx, user, "shop.example", "Widget", "solid", 5)
//	// {"from": "0x...", "to": "0x...", "gas": "25200", "data": "0x..."}
//
// # ABI compatibility
//
// Deployed contracts differ in integer widths (uint8 ratings vs uint256) and
// in tuple component names. Integer arguments are converted to whatever the
// loaded ABI declares, and tuple results are decoded by position, so a
// compatible ABI only has to keep method names and field order.
//
// # Testing
//
// MockReviewContract is a testify mock of the full interface for handler
// tests.
package contract
