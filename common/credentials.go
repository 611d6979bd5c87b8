package common

// Credentials are read-only after construction. The secret is encoded to
// bytes once and never mutated.
type Credentials struct {
	publicKey string
	secret    []byte
}

func NewCredentials(publicKey, secretKey string) Credentials {
	return Credentials{
		publicKey: publicKey,
		secret:    []byte(secretKey),
	}
}

func (c Credentials) PublicKey() string {
	return c.publicKey
}

func (c Credentials) Secret() []byte {
	return c.secret
}

func (c Credentials) Empty() bool {
	return c.publicKey == "" || len(c.secret) == 0
}

// String keeps credentials out of logs and error messages.
func (c Credentials) String() string {
	if c.Empty() {
		return "Credentials(empty)"
	}
	return "Credentials(redacted)"
}
