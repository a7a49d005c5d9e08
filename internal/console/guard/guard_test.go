package guard

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		required RequiredState
		loggedIn bool
		want     Decision
	}{
		{"logged-out screen, anonymous visitor", LoggedOut, false, Allow},
		{"logged-out screen, authenticated visitor", LoggedOut, true, RedirectToNotFound},
		{"logged-in screen, anonymous visitor", LoggedIn, false, RedirectToNotFound},
		{"logged-in screen, authenticated visitor", LoggedIn, true, Allow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.required, tc.loggedIn); got != tc.want {
				t.Fatalf("Decide(%v, %v) = %v, want %v", tc.required, tc.loggedIn, got, tc.want)
			}
		})
	}
}
