package identity

import "context"

// Provider hides the identity provider's protocol details behind the two
// primitives the login flow needs.
type Provider interface {
	// AuthURL builds the authorization redirect for state, targeting conn.
	AuthURL(state string, conn Connection) (string, error)

	// ResolveSnapshot exchanges an authorization code and returns the
	// authenticated snapshot. Exchange failures return ErrInvalidCode.
	ResolveSnapshot(ctx context.Context, code string) (*Snapshot, error)
}
