package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stansns/crud/internal/console/directory"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long: `List the user directory, one page at a time.

The default order is registration order. With --sorted the listing is
ordered by last name and date of birth.

Examples:
  crud list
  crud list --sorted --page 2 --size 10`,
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		sorted, _ := cmd.Flags().GetBool("sorted")

		app.SetPage(page)
		app.SetPageSize(size)

		var err error
		if sorted {
			err = app.SortByName(cmd.Context())
		} else {
			err = app.Refresh(cmd.Context())
		}
		if err != nil {
			return err
		}

		printListing()
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search users by a single field",
	Long: `Search the directory for users whose chosen field exactly matches
the term.

The field is one of: firstName, lastName, phoneNumber, email.

Examples:
  crud search Jane --field firstName
  crud search jane@example.com --field email`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, _ := cmd.Flags().GetString("field")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		app.SetPage(page)
		app.SetPageSize(size)

		if err := app.Search(cmd.Context(), args[0], directory.SearchField(field)); err != nil {
			return err
		}

		printListing()
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:     "get <email>",
	Short:   "Show one user in full",
	Args:    cobra.ExactArgs(1),
	PreRunE: requireLoggedIn,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := app.SelectUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		names := make([]string, 0, len(user.Roles))
		for _, r := range user.Roles {
			names = append(names, r.Name)
		}

		fmt.Printf("Name:        %s %s\n", user.FirstName, user.LastName)
		fmt.Printf("Email:       %s\n", user.Email)
		fmt.Printf("Phone:       %s\n", user.PhoneNumber)
		fmt.Printf("Born:        %s\n", user.DateOfBirth)
		fmt.Printf("Registered:  %s\n", user.RegisterDate)
		if user.Country != "" {
			fmt.Printf("Location:    %s, %s (%s)\n", user.City, user.Country, user.Currency)
		}
		fmt.Printf("Roles:       %s\n", strings.Join(names, ", "))
		return nil
	},
}

func printListing() {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIRST NAME\tLAST NAME\tEMAIL\tPHONE\tBORN")
	for _, u := range app.Listing() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.DateOfBirth)
	}
	_ = w.Flush()

	fmt.Printf("page %d of %d (%d users)\n",
		app.Page()+1, app.TotalPages(), app.TotalElements())
}

func init() {
	listCmd.Flags().Int("page", 0, "zero-based page number")
	listCmd.Flags().Int("size", 5, "page size")
	listCmd.Flags().Bool("sorted", false, "order by last name and date of birth")

	searchCmd.Flags().String("field", "firstName", "field to match: firstName, lastName, phoneNumber, email")
	searchCmd.Flags().Int("page", 0, "zero-based page number")
	searchCmd.Flags().Int("size", 5, "page size")

	rootCmd.AddCommand(listCmd, searchCmd, getCmd)
}
