package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/gazectl/internal/client"
	"github.com/ayusman/gazectl/internal/config"
)

var apiURL string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start tracking on a running service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), (*client.Client).Start)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop tracking on a running service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), (*client.Client).Stop)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether tracking is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		enabled, err := c.Status(cmd.Context())
		if err != nil {
			return err
		}
		if enabled {
			fmt.Println("Tracking status: ON")
		} else {
			fmt.Println("Tracking status: OFF")
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{startCmd, stopCmd, statusCmd} {
		cmd.Flags().StringVar(&apiURL, "api", "", "Control API URL (default dashboard.api_url)")
		rootCmd.AddCommand(cmd)
	}
}

func newClient() (*client.Client, error) {
	url := apiURL
	if url == "" {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		url = cfg.Dashboard.APIURL
	}
	return client.New(url, nil), nil
}

func runCommand(ctx context.Context, call func(*client.Client, context.Context) (string, bool, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	msg, ok, err := call(c, ctx)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	if !ok {
		return errors.New("request was not successful")
	}
	return nil
}
