package judge

import (
	"encoding/json"
	"fmt"
)

// AuthCookie is the site-scoped session cookie carried by a credential
// bundle.
type AuthCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CachedAuth is a serializable credential bundle: one session cookie plus
// the associated username. It is valid only while the originating cookie
// has not expired server-side; restoring it performs no verification.
type CachedAuth struct {
	Cookie   AuthCookie `json:"cookie"`
	Username string     `json:"username"`
}

// authVersion is bumped whenever the serialized shape changes. Old blobs
// are rejected as malformed rather than guessed at.
const authVersion = 1

type authEnvelope struct {
	Version int        `json:"version"`
	Auth    CachedAuth `json:"auth"`
}

// SerializeAuth encodes a credential bundle into an opaque versioned text
// blob for the external credential store. DeserializeAuth inverts it
// exactly.
func SerializeAuth(auth CachedAuth) (string, error) {
	data, err := json.Marshal(authEnvelope{Version: authVersion, Auth: auth})
	if err != nil {
		return "", fmt.Errorf("marshal auth: %w", err)
	}
	return string(data), nil
}

// DeserializeAuth decodes a blob produced by SerializeAuth. Syntactically
// broken input and unknown versions yield an error wrapping
// ErrMalformedAuth.
func DeserializeAuth(data string) (CachedAuth, error) {
	var env authEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return CachedAuth{}, fmt.Errorf("%w: %v", ErrMalformedAuth, err)
	}
	if env.Version != authVersion {
		return CachedAuth{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedAuth, env.Version)
	}
	if env.Auth.Cookie.Name == "" {
		return CachedAuth{}, fmt.Errorf("%w: missing cookie", ErrMalformedAuth)
	}
	return env.Auth, nil
}
