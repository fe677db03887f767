package driven

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	// Confirm returns nil when the user approves, domain.ErrAborted when they
	// decline and domain.ErrConfirmationRequired when nobody can be asked.
	Confirm(prompt string) error
}
