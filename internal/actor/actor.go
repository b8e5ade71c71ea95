// internal/actor/actor.go
//
// Actor-identity helper.  Authentication itself is an external
// collaborator; by the time a request reaches the core, the API layer has
// already verified who is calling and stamps the actor's email into the
// request context with this package.  Every mutation and audit record
// reads it back from here.
//
// Usage
// -----
//	ctx = actor.WithEmail(ctx, "ops@example.com")
//	email, ok := actor.Email(ctx)
//
// Notes
// -----
// • Stores the email string directly in context; swap for a richer struct
//   if the auth layer ever supplies more than an identity.
// • Oxford commas, two spaces after periods.

package actor

import "context"

// emailKey is unexported to avoid context-key collisions.
type emailKey struct{}

// WithEmail returns a new context carrying the actor's email.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// Email extracts the actor email from ctx.  It returns ("", false) if no
// actor is set or the stored value is not a string.
func Email(ctx context.Context) (string, bool) {
	v := ctx.Value(emailKey{})
	email, ok := v.(string)
	if email == "" {
		return "", false
	}
	return email, ok
}
