package main

import (
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/dictload/dictionary"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DICTLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "dictload",
		Short: "Load and cache tokenizer dictionaries",
		Long: `dictload fetches the twelve binary shards of a tokenizer dictionary from a
local directory, an HTTP server, S3 or MinIO and keeps them in a persistent
cache.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a config file (yaml, json or toml)")
	flags.String("source", "local", "Shard source: local, http, s3 or minio")
	flags.String("root", ".", "Root directory of the local source")
	flags.String("url", "", "Base URL of the http source")
	flags.String("bucket", "", "Bucket of the s3 or minio source")
	flags.String("prefix", "", "Object key prefix of the s3 or minio source")
	flags.String("region", "", "Region of the s3 or minio source")
	flags.String("endpoint", "", "Endpoint of the minio source or a custom s3 endpoint")
	flags.String("access-key", "", "Access key of the minio source")
	flags.String("secret-key", "", "Secret key of the minio source")
	flags.Bool("secure", true, "Use TLS for the minio source")
	flags.String("base", dictionary.DefaultBasePath, "Prefix the shard files are resolved under")
	flags.String("cache", "disk", "Shard cache: none, disk or sqlite")
	flags.String("cache-dir", "", "Directory of the disk cache (default: user cache dir)")
	flags.String("cache-db", "", "Database file of the sqlite cache (default: user cache dir)")
	flags.String("compression", "none", "Cache value compression: none, lz4 or zstd")
	flags.Int64("max-reads", 0, "Maximum concurrent source reads (0 = unlimited)")
	flags.Int64("io-limit", 0, "Maximum source bytes per second (0 = unlimited)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(
		newWarmCmd(v),
		newStatusCmd(v),
		newClearCmd(v),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "dictload v%s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			},
		},
	)
	return root
}

func withSession(v *viper.Viper, cmd *cobra.Command, fn func(*session) error) (err error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	s, err := cfg.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

func newWarmCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Load every shard once so later loads are served from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(v, cmd, func(s *session) error {
				start := time.Now()
				b, err := s.loader.Load(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d shards (%d bytes) from %s in %s\n",
					len(dictionary.Descriptors()), b.Size(), s.loader.BasePath(), time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which shards are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(v, cmd, func(s *session) error {
				status, err := s.loader.Status(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SHARD\tKIND\tCACHED\tIDENTIFIER")
				cached := 0
				for _, st := range status {
					mark := "no"
					if st.Cached {
						mark = "yes"
						cached++
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.Name, st.Kind, mark, st.Identifier)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d/%d shards cached\n", cached, len(status))
				return nil
			})
		},
	}
}

func newClearCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached shard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(v, cmd, func(s *session) error {
				if err := s.loader.ClearCache(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
				return nil
			})
		},
	}
}
