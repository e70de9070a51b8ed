package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kgavrilov/pravobot/config"
	srv "github.com/kgavrilov/pravobot/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "pravobot"}

	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default: search standard locations)")

	root.AddCommand(serve)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
