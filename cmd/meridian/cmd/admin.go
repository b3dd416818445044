package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meridian-commerce/meridian/pkg/storeapi"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Back-office operations",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the back office",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		email := flagString(cmd, "email")
		password := flagString(cmd, "password")
		if email == "" {
			if email, err = promptLine("Admin email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = promptLine("Password: "); err != nil {
				return err
			}
		}

		admin, err := a.session.AdminLogin(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("admin login failed: %w", err)
		}
		fmt.Printf("Signed in as %s (%s)\n", admin.Name, admin.Role)
		return nil
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		stats, err := a.client.AdminOrderStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Orders:     %d (pending %d, processing %d, shipped %d, completed %d)\n",
			stats.TotalOrders, stats.PendingOrders, stats.ProcessingOrders,
			stats.ShippedOrders, stats.CompletedOrders)
		fmt.Printf("Revenue:    %.2f\n", stats.TotalRevenue)
		if stats.RecentOrders30d > 0 {
			fmt.Printf("Last 30d:   %d orders, %.2f revenue\n", stats.RecentOrders30d, stats.RecentRevenue30d)
		}
		if stats.AverageOrderValue > 0 {
			fmt.Printf("Avg order:  %.2f\n", stats.AverageOrderValue)
		}
		return nil
	},
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List all orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		filters := storeapi.AdminOrderFilters{
			Status:   storeapi.OrderStatus(flagString(cmd, "status")),
			Customer: flagString(cmd, "customer"),
		}
		orders, err := a.client.AdminListOrders(cmd.Context(), filters)
		if err != nil {
			return err
		}
		printOrders(orders)
		return nil
	},
}

var adminSetStatusCmd = &cobra.Command{
	Use:   "set-status <order-id> <status>",
	Short: "Change an order's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		order, err := a.client.AdminUpdateOrderStatus(cmd.Context(), args[0], storeapi.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", order.ID, order.Status)
		return nil
	},
}

var adminSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the store settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		if err := a.settings.Refresh(cmd.Context()); err != nil {
			return err
		}
		out, err := yaml.Marshal(a.settings.Snapshot().Data)
		if err != nil {
			return fmt.Errorf("encode settings: %w", err)
		}
		os.Stdout.Write(out)
		return nil
	},
}

var adminSetSettingCmd = &cobra.Command{
	Use:   "set-settings <section>",
	Short: "Update one settings section",
	Long: `Update one section (general, notifications, security) of the store
settings from flags. Fields outside the section are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		section := storeapi.SettingsSection(args[0])
		if err := a.settings.Refresh(cmd.Context()); err != nil {
			return err
		}
		in := a.settings.Snapshot().Data

		if cmd.Flags().Changed("store-name") {
			in.StoreName = flagString(cmd, "store-name")
		}
		if cmd.Flags().Changed("store-email") {
			in.StoreEmail = flagString(cmd, "store-email")
		}
		if cmd.Flags().Changed("currency") {
			in.Currency = flagString(cmd, "currency")
		}
		if cmd.Flags().Changed("maintenance") {
			in.MaintenanceMode, _ = cmd.Flags().GetBool("maintenance")
		}
		if cmd.Flags().Changed("email-notifications") {
			in.EmailNotifications, _ = cmd.Flags().GetBool("email-notifications")
		}

		if err := a.settings.UpdateSection(cmd.Context(), section, in); err != nil {
			return err
		}
		fmt.Printf("Updated %s settings\n", section)
		return nil
	},
}

var adminAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the analytics dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		if err := a.analytics.Refresh(cmd.Context()); err != nil {
			return err
		}
		dash := a.analytics.Snapshot().Data

		if len(dash.Sales) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PERIOD\tREVENUE\tORDERS\tCHANGE")
			for _, p := range dash.Sales {
				fmt.Fprintf(w, "%s\t%.2f\t%d\t%s\n", p.Period, p.Revenue, p.Orders, p.Change)
			}
			w.Flush()
		}
		if len(dash.TopProducts) > 0 {
			fmt.Println("\nTop products:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSALES\tREVENUE\tVIEWS")
			for _, p := range dash.TopProducts {
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", p.Name, p.Sales, p.Revenue, p.Views)
			}
			w.Flush()
		}
		conv := dash.Conversion
		if conv.Rate != "" {
			fmt.Printf("\nConversion: %s (%s, %s)\n", conv.Rate, conv.Change, conv.Trend)
		}
		return nil
	},
}

var adminCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customer accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		page, _ := cmd.Flags().GetInt("page")
		filters := storeapi.CustomerFilters{
			Search: flagString(cmd, "search"),
			Status: flagString(cmd, "status"),
			Page:   page,
		}
		result, err := a.client.ListCustomers(cmd.Context(), filters)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tORDERS\tSPENT\tSTATUS")
		for _, c := range result.Customers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.2f\t%s\n",
				c.ID, c.Name, c.Email, c.Orders, c.TotalSpent, c.Status)
		}
		w.Flush()
		fmt.Printf("%d customers total\n", result.Total)
		return nil
	},
}

var adminCustomerStatsCmd = &cobra.Command{
	Use:   "customer-stats",
	Short: "Show customer base aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		stats, err := a.client.CustomerStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Customers:  %d (%d active)\n", stats.TotalCustomers, stats.ActiveCustomers)
		fmt.Printf("Revenue:    %.2f\n", stats.TotalRevenue)
		fmt.Printf("Avg order:  %.2f\n", stats.AvgOrderValue)
		return nil
	},
}

var adminCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		cats, err := a.client.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG\tPRODUCTS\tACTIVE")
		for _, c := range cats {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", c.ID, c.Name, c.Slug, c.ProductCount, c.IsActive)
		}
		return w.Flush()
	},
}

var adminAddCategoryCmd = &cobra.Command{
	Use:   "add-category <name>",
	Short: "Create a catalog category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		active, _ := cmd.Flags().GetBool("active")
		sortOrder, _ := cmd.Flags().GetInt("sort-order")
		in := storeapi.CategoryInput{
			Name:        args[0],
			Slug:        flagString(cmd, "slug"),
			Description: flagString(cmd, "description"),
			IsActive:    active,
			SortOrder:   sortOrder,
		}
		if cmd.Flags().Changed("parent") {
			parent, _ := cmd.Flags().GetInt64("parent")
			in.ParentID = &parent
		}

		cat, err := a.client.CreateCategory(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Created category %d (%s)\n", cat.ID, cat.Slug)
		return nil
	},
}

var adminRemoveCategoryCmd = &cobra.Command{
	Use:   "remove-category <category-id>",
	Short: "Delete a catalog category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())
		if err := a.requireAdmin(); err != nil {
			return err
		}

		id, err := parseID(args[0], "category id")
		if err != nil {
			return err
		}
		if err := a.client.DeleteCategory(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Removed category %d\n", id)
		return nil
	},
}

func init() {
	adminLoginCmd.Flags().String("email", "", "admin email")
	adminLoginCmd.Flags().String("password", "", "password (prompted when omitted)")

	adminOrdersCmd.Flags().String("status", "", "filter by status")
	adminOrdersCmd.Flags().String("customer", "", "filter by customer")

	adminSetSettingCmd.Flags().String("store-name", "", "store name (general)")
	adminSetSettingCmd.Flags().String("store-email", "", "store email (general)")
	adminSetSettingCmd.Flags().String("currency", "", "currency code (general)")
	adminSetSettingCmd.Flags().Bool("maintenance", false, "maintenance mode (security)")
	adminSetSettingCmd.Flags().Bool("email-notifications", false, "email notifications (notifications)")

	adminCustomersCmd.Flags().String("search", "", "search by name or email")
	adminCustomersCmd.Flags().String("status", "", "filter by status (active, inactive)")
	adminCustomersCmd.Flags().Int("page", 0, "page number")

	adminAddCategoryCmd.Flags().String("slug", "", "URL slug (derived from the name when omitted)")
	adminAddCategoryCmd.Flags().String("description", "", "category description")
	adminAddCategoryCmd.Flags().Bool("active", true, "whether the category is visible")
	adminAddCategoryCmd.Flags().Int("sort-order", 0, "position within the listing")
	adminAddCategoryCmd.Flags().Int64("parent", 0, "parent category id")

	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminOrdersCmd)
	adminCmd.AddCommand(adminSetStatusCmd)
	adminCmd.AddCommand(adminSettingsCmd)
	adminCmd.AddCommand(adminSetSettingCmd)
	adminCmd.AddCommand(adminAnalyticsCmd)
	adminCmd.AddCommand(adminCustomersCmd)
	adminCmd.AddCommand(adminCustomerStatsCmd)
	adminCmd.AddCommand(adminCategoriesCmd)
	adminCmd.AddCommand(adminAddCategoryCmd)
	adminCmd.AddCommand(adminRemoveCategoryCmd)
	rootCmd.AddCommand(adminCmd)
}
