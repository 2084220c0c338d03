package enums

// CheckoutState tracks a checkout attempt through its linear lifecycle.
type CheckoutState string

const (
	CheckoutStateIdle              CheckoutState = "idle"
	CheckoutStateValidating        CheckoutState = "validating"
	CheckoutStateResolvingVariants CheckoutState = "resolving_variants"
	CheckoutStateSubmitting        CheckoutState = "submitting"
	CheckoutStateBlocked           CheckoutState = "blocked"
	CheckoutStateSucceeded         CheckoutState = "succeeded"
	CheckoutStateFailed            CheckoutState = "failed"
)

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// Terminal reports whether the state ends a checkout attempt.
func (s CheckoutState) Terminal() bool {
	switch s {
	case CheckoutStateBlocked, CheckoutStateSucceeded, CheckoutStateFailed:
		return true
	}
	return false
}
