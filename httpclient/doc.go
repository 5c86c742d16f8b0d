// Package httpclient is a thin layer over net/http that builds requests the
// same way for every call shape and reports failures in a fixed set of
// shapes.
//
// Every call assembles its headers through BuildHeaders, appends query
// parameters with the search package and classifies the outcome:
//
//   - a transport failure is returned exactly as net/http reported it;
//   - a status outside [200,299] is a *RequestError;
//   - a response without a status code is ErrNoStatusCode.
//
// # Whole-body requests
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//
//	resp, err := client.Get(ctx, "/users",
//	    httpclient.WithToken(token),
//	    httpclient.WithSearch(search.NewMap().Set("page", 2)),
//	)
//
// # Streams
//
// GetStream returns as soon as headers arrive; PostStream and PutStream
// pump a reader into the request body with backpressure:
//
//	stream, err := client.GetStream(ctx, "/export")
//	defer stream.Close()
//
// The rest subpackage adds typed JSON calls with optional schema validation.
package httpclient
