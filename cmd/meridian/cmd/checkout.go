package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start payment for the current cart",
	Long: `Start a payment-provider checkout from the current cart contents. The
backend snapshots the cart and creates the order once payment succeeds.
A checkout URL is printed for the browser.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.cart.Refresh(cmd.Context()); err != nil {
			return err
		}
		cart := a.cart.Snapshot().Data
		if len(cart.Items) == 0 {
			return fmt.Errorf("cart is empty")
		}

		addr := storeapi.CheckoutAddressInput{
			FirstName: flagString(cmd, "first-name"),
			LastName:  flagString(cmd, "last-name"),
			Email:     flagString(cmd, "email"),
			Phone:     flagString(cmd, "phone"),
			Address:   flagString(cmd, "address"),
			City:      flagString(cmd, "city"),
			State:     flagString(cmd, "state"),
			ZipCode:   flagString(cmd, "zip"),
			Country:   flagString(cmd, "country"),
		}

		items := make([]storeapi.CheckoutItemInput, 0, len(cart.Items))
		for _, line := range cart.Items {
			items = append(items, storeapi.CheckoutItemInput{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     strconv.FormatFloat(line.Price, 'f', 2, 64),
			})
		}

		in := storeapi.CheckoutFromCartInput{
			CartItems:       items,
			ShippingAddress: addr,
			ShippingMethod:  flagString(cmd, "shipping"),
		}
		sess, err := a.client.CreateCheckoutSessionFromCart(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Open this URL to pay:\n%s\n", sess.CheckoutURL)
		fmt.Printf("session: %s\n", sess.SessionID)
		return nil
	},
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	checkoutCmd.Flags().String("first-name", "", "shipping first name")
	checkoutCmd.Flags().String("last-name", "", "shipping last name")
	checkoutCmd.Flags().String("email", "", "contact email")
	checkoutCmd.Flags().String("phone", "", "contact phone")
	checkoutCmd.Flags().String("address", "", "street address")
	checkoutCmd.Flags().String("city", "", "city")
	checkoutCmd.Flags().String("state", "", "state or region")
	checkoutCmd.Flags().String("zip", "", "postal code")
	checkoutCmd.Flags().String("country", "", "country")
	checkoutCmd.Flags().String("shipping", "standard", "shipping method (standard, express, overnight)")
	rootCmd.AddCommand(checkoutCmd)
}
