package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stansns/crud/internal/console"
	"github.com/stansns/crud/internal/console/directory"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new account.

All fields are validated locally before anything is sent. A taken email is
reported with the server's own message.

Examples:
  crud register --first-name Jane --last-name Doe --email jane@example.com \
      --phone "+359888123456" --birth-date 1990-04-21 --password secret`,
	PreRunE: requireLoggedOut,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := console.Registration{
			FirstName:   mustFlag(cmd, "first-name"),
			LastName:    mustFlag(cmd, "last-name"),
			Email:       mustFlag(cmd, "email"),
			PhoneNumber: mustFlag(cmd, "phone"),
			DateOfBirth: mustFlag(cmd, "birth-date"),
			Password:    mustFlag(cmd, "password"),
		}

		if err := app.Register(cmd.Context(), form); err != nil {
			var conflict *directory.ConflictError
			if errors.As(err, &conflict) {
				return errors.New(conflict.Message)
			}
			return err
		}

		fmt.Println("Registration successful. You can now log in.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in with email and password.

On success the session is written to the state file and reused by every
later command until logout.

Examples:
  crud login --email jane@example.com --password secret`,
	PreRunE: requireLoggedOut,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := mustFlag(cmd, "email")
		password := mustFlag(cmd, "password")

		if err := app.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Log out and clear the stored session",
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The local session is cleared even when the server ack fails.
		err := app.Logout(cmd.Context())
		fmt.Println("Logged out.")
		return err
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the identity of the stored session",
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := app.Session.Email()
		firstName, _ := app.Session.FirstName()
		roles, _ := app.Session.Roles()

		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, r.Name)
		}

		fmt.Printf("%s <%s>\n", firstName, email)
		fmt.Printf("roles: %s\n", strings.Join(names, ", "))
		return nil
	},
}

// mustFlag reads a string flag; required-ness is enforced by cobra.
func mustFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("birth-date", "", "date of birth (YYYY-MM-DD)")
	registerCmd.Flags().String("password", "", "password")
	_ = registerCmd.MarkFlagRequired("first-name")
	_ = registerCmd.MarkFlagRequired("last-name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("phone")
	_ = registerCmd.MarkFlagRequired("birth-date")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password", "", "password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
