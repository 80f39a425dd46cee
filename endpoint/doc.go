// Package endpoint turns declarative request descriptors into transport
// requests.
//
// A Descriptor names one API operation:
//
//	var GetUser = endpoint.Descriptor{
//	    Name:         "user",
//	    Endpoint:     "/users/:id",
//	    Method:       http.MethodGet,
//	    RequiresAuth: true,
//	}
//
// Build fills the :id placeholder from Params.Path, encodes Params.Query
// with bracket notation for lists and drops nil values.
package endpoint
