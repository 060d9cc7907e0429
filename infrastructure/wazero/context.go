package wazero

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

type contextKey struct {
	name string
}

var guestNameKey = &contextKey{name: "guest_name"}

// WithGuestName tags ctx with the name of the guest program making calls.
func WithGuestName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, guestNameKey, name)
}

// GuestNameFromContext retrieves the guest name from the context.
func GuestNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(guestNameKey).(string)
	return name, ok && name != ""
}

// GuestName extracts the guest name from ctx, falling back to the module name.
func GuestName(ctx context.Context, mod api.Module) string {
	if name, ok := GuestNameFromContext(ctx); ok {
		return name
	}
	if mod != nil {
		return mod.Name()
	}
	return ""
}
