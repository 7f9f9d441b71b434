package library

// Gate is the shared-secret check applied before every mutating
// operation, independently of and prior to field validation.
//
// The secret is a deterrent, not a security boundary: the comparison is a
// plain string match with no hashing, lockout, or timing protection. That
// is a documented limitation of the application, not an oversight.
type Gate struct {
	secret string
}

// NewGate returns a Gate for the configured admin password.
func NewGate(secret string) Gate {
	return Gate{secret: secret}
}

// Check reports whether the supplied value matches the admin password.
func (g Gate) Check(supplied string) bool {
	return supplied == g.secret
}
