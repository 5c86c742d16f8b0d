// Package schema defines the validation contract applied to decoded response
// payloads.
//
// A Schema validates an input and either returns a (possibly transformed)
// value or a list of issues. Validation may be synchronous (Func) or deliver
// its result later (Async); Apply awaits both the same way.
//
//	type User struct {
//	    ID    int    `json:"id" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	user, err := schema.Apply(ctx, schema.Struct[User](), decoded)
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    for _, issue := range verr.Issues { ... }
//	}
package schema
