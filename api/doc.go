// Package api exposes toxin.Engine over HTTP using gorilla/mux.
//
// Every JSON response uses the envelope
//
//	{"request_id": "...", "code": "SUCCEEDED", "data": {...}}
//
// where code is one of the stable Code* constants and data is null on
// failure. Errors are mapped to a status and code in one place,
// [StatusFor]; internal error text is never echoed to clients.
//
// # Routes
//
//	GET    /                       public  welcome text
//	GET    /ping                   public  liveness
//	POST   /api/v1/sign-in         public  issue a session token
//	POST   /api/v1/sign-out        gated   delete the caller's session
//	GET    /api/v1/me              gated   caller identity
//	GET    /api/v1/accounts        gated   list accounts
//	POST   /api/v1/accounts        gated   create account
//	GET    /api/v1/accounts/{id}   gated   read account
//	PUT    /api/v1/accounts/{id}   gated   replace account
//	DELETE /api/v1/accounts/{id}   gated   delete account
//
// # What this package must NOT do
//
//   - Return stored passwords or password hashes.
//   - Decide authentication outcomes; the gate and engine do that.
package api
