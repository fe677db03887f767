package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change configuration",
	Long: `Read and change values in config.toml.

Keys:
  http.timeout           request timeout, e.g. 30s
  pagination.max_pages   page limit for listings (default 10)
  credentials.dir        directory holding <vendor>.env files
  tokens.dir             directory holding cached access tokens
  history.enabled        record mutating calls in the history database
  <vendor>.base_url      API root override, e.g. zoom.base_url
  <vendor>.token_url     OAuth token endpoint override (zoom, google)`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. "true" and "false" are stored as booleans and
whole numbers as integers; anything else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func configStore() (driven.ConfigStore, error) {
	if services == nil || services.Config == nil {
		return nil, errors.New("config store not configured")
	}
	return services.Config, nil
}

type configEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	entries := []configEntry{}
	for _, key := range store.Keys() {
		v, _ := store.Get(key)
		entries = append(entries, configEntry{Key: key, Value: v})
	}
	return printItems(cmd, entries, []column[configEntry]{
		{"KEY", func(e configEntry) string { return e.Key }},
		{"VALUE", func(e configEntry) string { return fmt.Sprint(e.Value) }},
	})
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	v, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("config key %q is not set", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("config key is empty")
	}
	if err := store.Set(key, parseConfigValue(args[1])); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, parseConfigValue(args[1]))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	return nil
}

// parseConfigValue keeps TOML types: booleans, integers, then strings.
func parseConfigValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
