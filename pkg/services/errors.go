package services

// Rejection is a failure whose text is fit to show the user as-is.
type Rejection string

func (r Rejection) Error() string { return string(r) }

const (
	ErrAccountNotFound Rejection = "Account not found!"
	ErrInvalidPassword Rejection = "Invalid password!"
	ErrUsernameTaken   Rejection = "Username already in use!"
	ErrSignUpFailed    Rejection = "Something went wrong!"
	ErrNotLoggedIn     Rejection = "Please log in first!"
)
