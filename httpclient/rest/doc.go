// Package rest provides typed JSON calls on top of httpclient.
//
// Requests use the JSON header profile: Accept is always application/json,
// and Content-Type is application/json when the body is serialized. A
// response whose Content-Type starts with application/json is decoded as
// JSON; anything else is returned as text.
//
//	user, err := rest.Get[User](ctx, client, "/users/123", httpclient.WithToken(tok))
//
//	created, err := rest.Post[User](ctx, client, "/users", NewUser{Name: "Alice"})
//
// The Validated variants pass the decoded payload through a schema.Schema
// and return its transformed value. A payload that fails the schema is
// reported as *schema.ValidationError:
//
//	user, err := rest.GetValidated(ctx, client, "/users/123", schema.Struct[User]())
package rest
