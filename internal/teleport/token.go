package teleport

// Token is the shared suspend flag. Every per-frame component holds the same
// Token through its IsSuspended capability and stands down while it is set.
type Token struct {
	suspended bool
}

func NewToken() *Token {
	return &Token{}
}

func (t *Token) Begin() {
	if t != nil {
		t.suspended = true
	}
}

func (t *Token) End() {
	if t != nil {
		t.suspended = false
	}
}

func (t *Token) IsSuspended() bool {
	return t != nil && t.suspended
}
