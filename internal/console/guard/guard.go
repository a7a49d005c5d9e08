// Package guard decides whether a screen is navigable from the current
// login state. The decision is pure: the caller supplies the screen's
// declared requirement and the session predicate's value.
package guard

// RequiredState declares which login state a screen is meant for.
type RequiredState int

const (
	// LoggedOut marks screens for anonymous visitors (login, register).
	LoggedOut RequiredState = iota
	// LoggedIn marks screens that need an established session.
	LoggedIn
)

// Decision is the outcome of a navigation attempt.
type Decision int

const (
	Allow Decision = iota
	// RedirectToNotFound sends the visitor to the generic not-found page.
	// Unauthorized access attempts are deliberately indistinguishable
	// from nonexistent pages. There is no redirect to a login screen.
	RedirectToNotFound
)

// Decide gates navigation: a logged-out screen redirects authenticated
// visitors away, a logged-in screen redirects anonymous visitors away.
// Role checks happen at the level of individual actions, never here.
func Decide(required RequiredState, loggedIn bool) Decision {
	switch required {
	case LoggedOut:
		if loggedIn {
			return RedirectToNotFound
		}
	case LoggedIn:
		if !loggedIn {
			return RedirectToNotFound
		}
	}
	return Allow
}
