package domain

// DeriveConversationID returns the partition key addressing the message set
// shared by exactly two participants. It is commutative and collision-free
// over distinct identifier pairs: the greater identifier (lexicographically)
// always comes first, joined with "_". A user cannot converse with themself.
func DeriveConversationID(a, b string) (string, error) {
	if a == "" || b == "" {
		return "", ErrInvalidInput
	}
	if a == b {
		return "", ErrSelfChat
	}
	if a > b {
		return a + "_" + b, nil
	}
	return b + "_" + a, nil
}
