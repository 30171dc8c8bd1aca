package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vpnshop/internal/catalog"
	"vpnshop/internal/client"
	"vpnshop/internal/config"
	"vpnshop/internal/logger"
	"vpnshop/internal/repository"
	"vpnshop/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "vpnshop-admin",
		Short:        "Administrative tasks against the storefront database",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(setOrderStatusCmd())
	rootCmd.AddCommand(listOrdersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	db    *gorm.DB
	admin service.AdminService
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(config.Log{Level: "warn", Format: "console"})
	if err != nil {
		return nil, err
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		_ = client.CloseDB(db)
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	orderService := service.NewOrderService(db, repository.NewOrderRepository(db), userRepo, cat, cfg.AllowSimulatedOrders, log)
	return &app{
		db:    db,
		admin: service.NewAdminService(userRepo, orderService, log.With(zap.String("component", "admin-cli"))),
	}, nil
}

func (a *app) close() {
	_ = client.CloseDB(a.db)
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin <email>",
		Short: "Create an admin account, or promote an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.admin.EnsureAdmin(context.Background(), args[0], password, name)
			if err != nil {
				return err
			}
			fmt.Printf("Admin %s (id %d) is ready\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "Password for a new account")
	cmd.Flags().StringP("name", "n", "", "Display name for a new account")

	return cmd
}

func setOrderStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-order-status <order-id> <status>",
		Short: "Set an order to pending, completed, cancelled or simulated",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.admin.SetOrderStatus(context.Background(), uint(orderID), args[1]); err != nil {
				return err
			}
			fmt.Printf("Order %d is now %s\n", orderID, args[1])
			return nil
		},
	}
}

func listOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-orders",
		Short: "List all orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			orders, err := a.admin.ListOrders(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSER\tDATE\tSTATUS\tTOTAL\tITEMS")
			for _, o := range orders {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
					o.ID, o.UserID, o.Date.Format("2006-01-02 15:04"), o.Status, o.Total.StringFixed(2), strings.Join(o.Items, ","))
			}
			return w.Flush()
		},
	}
}
