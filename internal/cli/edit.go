package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stansns/crud/internal/console/directory"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your own profile",
	Long: `Edit your own profile. Only the flags you pass are changed.

When the email, password or first name changes, the stored session is
refreshed from the server's response, so later commands keep working.

Examples:
  crud edit --phone "+359888000111"
  crud edit --email new@example.com --password newsecret`,
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := sessionEmail()
		if err != nil {
			return err
		}

		req := directory.EditProfileRequest{
			FirstName:   mustFlag(cmd, "first-name"),
			LastName:    mustFlag(cmd, "last-name"),
			Email:       mustFlag(cmd, "email"),
			PhoneNumber: mustFlag(cmd, "phone"),
			Password:    mustFlag(cmd, "password"),
		}

		if err := app.EditProfile(cmd.Context(), email, req); err != nil {
			return err
		}

		fmt.Println("Profile updated.")
		return nil
	},
}

var editPhoneCmd = &cobra.Command{
	Use:   "edit-phone <email> <phone>",
	Short: "Change a user's phone number",
	Long: `Change one user's phone number.

Administrators can change anyone's number; everyone else only their own.

Examples:
  crud edit-phone jane@example.com "+359888000111"`,
	Args:    cobra.ExactArgs(2),
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.EditPhoneNumber(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Phone number updated.")
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <email>",
	Short: "Delete a user (administrators only)",
	Long: `Delete a user account. The requester must be an administrator and
the target must not be one.

Examples:
  crud delete jane@example.com`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.Session.IsAdministrator() {
			return errNotFound
		}
		if err := app.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func sessionEmail() (string, error) {
	email, ok := app.Session.Email()
	if !ok {
		return "", errNotFound
	}
	return email, nil
}

func init() {
	editCmd.Flags().String("first-name", "", "new first name")
	editCmd.Flags().String("last-name", "", "new last name")
	editCmd.Flags().String("email", "", "new email address")
	editCmd.Flags().String("phone", "", "new phone number")
	editCmd.Flags().String("password", "", "new password")

	rootCmd.AddCommand(editCmd, editPhoneCmd, deleteCmd)
}
