// Package errors defines the closed error taxonomy returned by apiclient.
//
// Every failure that leaves the client is a *ClientError of exactly one
// Kind: Aborted, Server, Network or Setup. Callers branch on the kind with
// the Is* helpers or read the status and server payload directly:
//
//	if ce, ok := errors.As(err); ok && ce.Kind == errors.KindServer {
//	    log.Printf("server said %d: %s", ce.HTTPStatus, ce.Message)
//	}
package errors
