package repository

import "context"

// PatientDirectory resolves identities issued by the auth service.
// It is only consulted for legacy tokens whose subject is an e-mail.
type PatientDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (int64, bool, error)
}
