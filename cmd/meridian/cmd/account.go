package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show or update the signed-in account",
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		cust, err := a.client.CurrentAccount(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Username: %s\n", cust.Username)
		fmt.Printf("Email:    %s\n", cust.Email)
		if cust.FirstName != "" || cust.LastName != "" {
			fmt.Printf("Name:     %s %s\n", cust.FirstName, cust.LastName)
		}
		if cust.Phone != "" {
			fmt.Printf("Phone:    %s\n", cust.Phone)
		}
		if addr := cust.Address; addr != nil {
			fmt.Printf("Address:  %s, %s %s, %s\n", addr.AddressLine1, addr.City, addr.ZipCode, addr.Country)
		}
		return nil
	},
}

var accountUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		fields := map[string]any{}
		for flag, key := range map[string]string{
			"first-name": "first_name",
			"last-name":  "last_name",
			"email":      "email",
			"phone":      "phone",
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				fields[key] = v
			}
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		cust, err := a.client.UpdateAccount(cmd.Context(), fields)
		if err != nil {
			return err
		}
		fmt.Printf("Updated account %s\n", cust.Username)
		return nil
	},
}

var accountPasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		oldPw, err := promptLine("Current password: ")
		if err != nil {
			return err
		}
		newPw, err := promptLine("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptLine("Confirm new password: ")
		if err != nil {
			return err
		}

		in := storeapi.ChangePasswordInput{
			OldPassword:     oldPw,
			NewPassword:     newPw,
			ConfirmPassword: confirm,
		}
		if err := a.client.ChangePassword(cmd.Context(), in); err != nil {
			return err
		}
		fmt.Println("Password changed")
		return nil
	},
}

var accountCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check username or email availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		if username == "" && email == "" {
			return fmt.Errorf("pass --username or --email")
		}
		if username != "" {
			fmt.Printf("username %q available: %v\n", username, a.client.CheckUsernameAvailable(cmd.Context(), username))
		}
		if email != "" {
			fmt.Printf("email %q available: %v\n", email, a.client.CheckEmailAvailable(cmd.Context(), email))
		}
		return nil
	},
}

func init() {
	accountUpdateCmd.Flags().String("first-name", "", "first name")
	accountUpdateCmd.Flags().String("last-name", "", "last name")
	accountUpdateCmd.Flags().String("email", "", "email address")
	accountUpdateCmd.Flags().String("phone", "", "phone number")

	accountCheckCmd.Flags().String("username", "", "username to check")
	accountCheckCmd.Flags().String("email", "", "email to check")

	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountUpdateCmd)
	accountCmd.AddCommand(accountPasswordCmd)
	accountCmd.AddCommand(accountCheckCmd)
	rootCmd.AddCommand(accountCmd)
}
