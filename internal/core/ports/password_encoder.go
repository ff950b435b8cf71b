package ports

// PasswordEncoder is the credential-hashing collaborator. The store keeps
// whatever Encode produced and never inspects it.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(encoded, raw string) bool
}
