package domain

import "fmt"

// Owner identifies whose cart an operation touches: an authenticated user,
// or an anonymous session scope before sign-in.
type Owner struct {
	UserID    string
	SessionID string
}

func UserOwner(userID string) Owner {
	return Owner{UserID: userID}
}

func AnonymousOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

func (o Owner) IsAnonymous() bool {
	return o.UserID == ""
}

// Key is the identifier the owner's lines are stored under.
func (o Owner) Key() string {
	if o.IsAnonymous() {
		return o.SessionID
	}
	return o.UserID
}

func (o Owner) Validate() error {
	if o.UserID == "" && o.SessionID == "" {
		return fmt.Errorf("%w: owner is empty", ErrValidation)
	}
	return nil
}
