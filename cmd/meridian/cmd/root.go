// Package cmd provides the CLI commands for Meridian.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridian-commerce/meridian/internal/config"
)

var cfgFile string
var statePath string

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Meridian - storefront terminal client",
	Long: `Meridian is a terminal client for the Meridian storefront backend.

It keeps your cart, wishlist, and orders synchronized with the server and
persists your session between runs.

Quick start:
  1. Point it at a backend: export MERIDIAN_API_BASE_URL=https://shop.example.com/api
  2. Sign in: meridian login --username you
  3. Browse: meridian cart show

Configuration:
  Config is loaded from meridian.yaml in the current directory,
  $HOME/.meridian/, or /etc/meridian/.

  Environment variables can override config values with the MERIDIAN_ prefix.
  Example: MERIDIAN_API_BASE_URL=https://shop.example.com/api

Commands:
  login       Sign in and persist the session
  logout      Drop the persisted session
  register    Create a new account
  account     Show or update the signed-in account
  cart        Inspect and edit the server cart
  wishlist    Inspect and toggle the server wishlist
  orders      List, inspect, and cancel orders
  checkout    Start payment for the current cart
  recommend   Fetch product recommendation feeds
  admin       Back-office operations
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./meridian.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to the session file (default: ~/.meridian/session.json)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
