// Command npcchat runs the persona-driven NPC conversation service.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/loreforge/npcchat/config"
	"github.com/loreforge/npcchat/persona"
	"github.com/loreforge/npcchat/vault/secretvault"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:          "npcchat",
		Short:        "Persona-driven NPC conversation service with encrypted vault persistence",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newServeCmd(), newPersonasCmd(), newSchemaCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (*persona.Catalog, error) {
	if cfg.Personas.File == "" {
		return persona.DefaultCatalog(), nil
	}
	configs, err := persona.LoadFile(cfg.Personas.File)
	if err != nil {
		return nil, err
	}
	return persona.NewCatalog(configs)
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the configured personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			for _, c := range catalog.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %-28s %s/%s\n", c.ID, c.Name, c.Provider, c.Model)
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage vault schema collections",
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Register the NPC conversation schema with the vault cluster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			client, err := vaultClient(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			id, err := client.CreateSchema(ctx, name, secretvault.ConversationSchema())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema created: %s\n", id)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "AI NPC Conversation Schema", "display name for the schema")
	cmd.AddCommand(create)
	return cmd
}

func vaultClient(cfg *config.Config) (*secretvault.Client, error) {
	if len(cfg.Vault.Nodes) == 0 {
		return nil, fmt.Errorf("no vault nodes configured")
	}
	keyPEM, err := os.ReadFile(cfg.Vault.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read vault private key: %w", err)
	}
	return secretvault.NewClient(cfg.Vault.Nodes, cfg.Vault.OrgDID, keyPEM, cfg.Vault.SchemaID, func(o *secretvault.Options) {
		if cfg.Vault.Timeout.Std() > 0 {
			o.Timeout = cfg.Vault.Timeout.Std()
		}
	})
}
