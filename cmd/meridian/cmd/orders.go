package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List, inspect, and cancel orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		if err := a.orders.Refresh(cmd.Context()); err != nil {
			return err
		}
		printOrders(a.orders.Snapshot().Data)
		return nil
	},
}

var ordersHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Page through past orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		result, err := a.orders.History(cmd.Context(), page, pageSize)
		if err != nil {
			return err
		}
		printOrders(result.Orders)
		fmt.Printf("page %d of %d orders\n", result.Page, result.Total)
		if result.HasNext {
			fmt.Println("more pages available")
		}
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		order, err := a.orders.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printOrderDetail(order)
		return nil
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel a pending or processing order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		order, err := a.orders.Cancel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", order.ID, order.Status)
		return nil
	},
}

var ordersPayCmd = &cobra.Command{
	Use:   "pay <order-id>",
	Short: "Resume payment for an unpaid order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		sess, err := a.orders.ResumePayment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Open this URL to pay:\n%s\n", sess.CheckoutURL)
		return nil
	},
}

var ordersCheckPaymentCmd = &cobra.Command{
	Use:   "check-payment <order-id>",
	Short: "Reconcile an order's payment with the provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireSession(); err != nil {
			return err
		}

		check, err := a.orders.CheckPayment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("status: %s\n", check.Status)
		if check.Expired {
			fmt.Println("payment window expired")
		}
		if check.Message != "" {
			fmt.Println(check.Message)
		}
		return nil
	},
}

func printOrders(orders []storeapi.Order) {
	if len(orders) == 0 {
		fmt.Println("No orders")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tDATE\tSTATUS\tITEMS\tTOTAL\tPAID")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%v\n",
			o.ID, o.Date, o.Status, o.ItemCount(), o.Total, o.Paid())
	}
	w.Flush()
}

func printOrderDetail(o *storeapi.Order) {
	fmt.Printf("Order:  %s\n", o.ID)
	fmt.Printf("Date:   %s\n", o.Date)
	fmt.Printf("Status: %s\n", o.Status)
	fmt.Printf("Total:  %s\n", o.Total)
	fmt.Printf("Paid:   %v\n", o.Paid())
	if o.CanCancel() {
		fmt.Println("This order can still be cancelled.")
	}
	if o.CanContinuePayment && !o.Paid() {
		fmt.Println("Payment can be resumed with 'meridian orders pay'.")
	}
	if len(o.Items) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tPRICE")
		for _, item := range o.Items {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", item.Product, item.ProductName, item.Quantity, item.Price)
		}
		w.Flush()
	}
}

func init() {
	ordersHistoryCmd.Flags().Int("page", 1, "page number")
	ordersHistoryCmd.Flags().Int("page-size", 10, "orders per page")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersHistoryCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersCancelCmd)
	ordersCmd.AddCommand(ordersPayCmd)
	ordersCmd.AddCommand(ordersCheckPaymentCmd)
	rootCmd.AddCommand(ordersCmd)
}
