/*
Package httpserver serves the review gateway API.

Every API response uses the envelope

	{"success": true, "message": ...}

where message holds the result or, on failure, an error string. Failures map
to status codes as follows: invalid or missing input 400, initiator not an
authorized editor 403, unknown item or content 404, registration already
present 409, registration storage unavailable 503, contract or content store
failure 502.

Item-scoped routes resolve {itemName} through the approved registrations of
the requesting domain before calling the contract or the content store. The
requesting domain is the Origin header without its scheme, else the request
host, else "Unknown".

Unsigned transactions are returned for the caller's wallet to sign; the
gateway never holds keys.

# Endpoints

Contract reads and transactions:

  - GET /ping
  - GET /editors, GET /editors/{address}
  - POST /editors?initiator=&address=, DELETE /editors/{address}?initiator=
  - GET /items, /items/{itemName}, /items/id/{itemID}, /items/{itemName}/id, /items/{itemName}/domains
  - POST /items?initiator=&itemName=
  - GET /items/{itemName}/reviews, /items/id/{itemID}/reviews
  - POST /items/{itemName}/reviews?initiator= with body {"comment", "rating"}
  - GET /items/{itemName}/ipfs, POST /items/{itemName}/ipfs?initiator=&ipfsHash=
  - GET /items/{itemName}/info, PUT /items/{itemName}/info?initiator= with body {"alternateName", "description", "images"}
  - GET /domains[?domainID=], /domains/{domainName}, /domains/{domainName}/id
  - GET /domains/{domainName}/reviews, /domains/id/{domainID}/reviews
  - GET /domains/{domainName}/items/{itemName}/reviews and the id variants
  - GET /reviews[?domainID=], /reviews/{reviewID}, /users/{address}/reviews

Item name registration:

  - POST /items/register?itemName=
  - GET /items/{itemName}/registration
  - POST /registration/assign?initiator=&proposedItemName=&domain=&itemName=
  - DELETE /registration/queue?initiator=&proposedItemName=&domain=
  - GET /registration/queue?initiator=, GET /registration/mapping?initiator=

Health:

  - GET /livez, /readyz, /drain, /undrain
*/
package httpserver
