// Command httpserver runs the review gateway.
//
// The gateway reads from and prepares transactions for the review contract
// at --contract-address over --web3-endpoint, keeps item info documents in
// --content-store, and keeps item name registrations in
// --registration-store. Settings can also come from the environment or a
// .env file in the working directory.
//
// Example:
//
//	WEB3_ENDPOINT=ws://localhost:8546 CONTRACT_ADDRESS=0x5FbDB2315678afecb367f032d93F642f64180aa3 \
//	    httpserver --listen-addr=0.0.0.0:8080 \
//	    --registration-store=file:///var/lib/review-gateway \
//	    --content-store='ipfs://127.0.0.1:5001/?cache=true'
package main
