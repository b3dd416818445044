package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var loginUsername string
var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	Long: `Sign in with a username or email. The issued tokens are stored in the
local session file and reused by later commands until you log out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		username := loginUsername
		if username == "" {
			username, err = promptLine("Username or email: ")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		in := storeapi.LoginInput{UsernameOrEmail: username, Password: password}
		if err := a.session.Login(cmd.Context(), in); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("Signed in as %s\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		if err := a.session.Logout(); err != nil {
			return err
		}
		a.cart.Reset()
		a.wishlist.Reset()
		a.orders.Reset()
		fmt.Println("Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			if username, err = promptLine("Username: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptLine("Password: "); err != nil {
				return err
			}
		}

		in := storeapi.RegisterInput{
			Username:        username,
			Password:        password,
			ConfirmPassword: password,
			Email:           email,
		}
		customer, err := a.session.Register(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Printf("Account created: %s (id %d)\n", customer.Username, customer.ID)
		if a.session.Authenticated() {
			fmt.Println("Signed in")
		}
		return nil
	},
}

// promptLine reads one line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")

	registerCmd.Flags().String("username", "", "username")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
}
