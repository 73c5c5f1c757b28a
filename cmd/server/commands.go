package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/container"
	"github.com/serroba/url-shortener/internal/migrations"
	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/spf13/cobra"
)

func exitOnError(cmd *cobra.Command, err error) {
	if err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// withInjector runs fn against a fully wired injector and shuts it down afterwards.
func withInjector(options *container.Options, fn func(*do.Injector) error) error {
	injector := do.New()
	registerPackages(injector, options)

	defer func() { _ = injector.Shutdown() }()

	return fn(injector)
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			exitOnError(cmd, withInjector(options, func(i *do.Injector) error {
				migrator, err := do.Invoke[*migrations.Migrator](i)
				if err != nil {
					return err
				}

				if err := migrator.Up(); err != nil {
					return err
				}

				version, dirty, err := migrator.Version()
				if err != nil {
					return err
				}

				cmd.Printf("schema at version %d (dirty=%t)\n", version, dirty)

				return nil
			}))
		}),
	}
}

func shortenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL against the configured store",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			exitOnError(cmd, withInjector(options, func(i *do.Injector) error {
				engine, err := do.Invoke[*shortener.Shortener](i)
				if err != nil {
					return err
				}

				mapping, created, err := engine.Shorten(context.Background(), args[0])
				if err != nil {
					return err
				}

				status := "existing"
				if created {
					status = "created"
				}

				cmd.Printf("%s/%s\t%s\t%s\n", options.PublicBaseURL(), mapping.ShortCode, mapping.LongURL, status)

				return nil
			}))
		}),
	}
}

func topCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the most clicked short URLs",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			exitOnError(cmd, withInjector(options, func(i *do.Injector) error {
				ranking, err := do.Invoke[*shortener.Ranking](i)
				if err != nil {
					return err
				}

				mappings, err := ranking.TopURLs(context.Background(), limit)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "CODE\tCLICKS\tURL")

				for _, m := range mappings {
					fmt.Fprintf(w, "%s\t%d\t%s\n", m.ShortCode, m.ClickCount, m.LongURL)
				}

				return w.Flush()
			}))
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", shortener.DefaultTopLimit, "Number of entries to list")

	return cmd
}
