package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/hupe1980/dictload"
	"github.com/hupe1980/dictload/blobstore"
	"github.com/hupe1980/dictload/blobstore/minio"
	"github.com/hupe1980/dictload/blobstore/s3"
	"github.com/hupe1980/dictload/cache"
	"github.com/hupe1980/dictload/cache/sqlite"
	dlprom "github.com/hupe1980/dictload/metrics/prometheus"
	"github.com/hupe1980/dictload/resource"
)

// config is the resolved CLI configuration.
type config struct {
	Source    string
	Root      string
	URL       string
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool

	BasePath    string
	Cache       string
	CacheDir    string
	CacheDB     string
	Compression string

	MaxReads int64
	IOLimit  int64

	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

func loadConfig(v *viper.Viper) (*config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &config{
		Source:          strings.ToLower(v.GetString("source")),
		Root:            v.GetString("root"),
		URL:             v.GetString("url"),
		Bucket:          v.GetString("bucket"),
		Prefix:          v.GetString("prefix"),
		Region:          v.GetString("region"),
		Endpoint:        v.GetString("endpoint"),
		AccessKey:       v.GetString("access-key"),
		SecretKey:       v.GetString("secret-key"),
		Secure:          v.GetBool("secure"),
		BasePath:        v.GetString("base"),
		Cache:           strings.ToLower(v.GetString("cache")),
		CacheDir:        v.GetString("cache-dir"),
		CacheDB:         v.GetString("cache-db"),
		Compression:     v.GetString("compression"),
		MaxReads:        v.GetInt64("max-reads"),
		IOLimit:         v.GetInt64("io-limit"),
		LogLevel:        v.GetString("log-level"),
		LogFormat:       v.GetString("log-format"),
		MetricsTextfile: v.GetString("metrics-textfile"),
	}
	return cfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dictload")
	}
	return filepath.Join(dir, "dictload")
}

func (c *config) logger() (*dictload.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return dictload.NewTextLogger(level), nil
	case "json":
		return dictload.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}
}

func (c *config) source(ctx context.Context) (blobstore.BlobStore, error) {
	switch c.Source {
	case "", "local":
		return blobstore.NewLocalStore(c.Root), nil
	case "http":
		if c.URL == "" {
			return nil, errors.New("--url is required for the http source")
		}
		return blobstore.NewHTTPStore(c.URL)
	case "s3":
		if c.Bucket == "" {
			return nil, errors.New("--bucket is required for the s3 source")
		}
		var optFns []func(*awsconfig.LoadOptions) error
		if c.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(c.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			if c.Endpoint != "" {
				o.BaseEndpoint = aws.String(c.Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3.NewStore(client, c.Bucket, c.Prefix), nil
	case "minio":
		if c.Bucket == "" || c.Endpoint == "" {
			return nil, errors.New("--bucket and --endpoint are required for the minio source")
		}
		client, err := miniogo.New(c.Endpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
			Secure: c.Secure,
			Region: c.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return minio.NewStore(client, c.Bucket, c.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want local, http, s3 or minio)", c.Source)
	}
}

func (c *config) opener() (cache.Opener, error) {
	compression, err := cache.ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}

	switch c.Cache {
	case "none":
		return nil, nil
	case "", "disk":
		dir := c.CacheDir
		if dir == "" {
			dir = defaultCacheDir()
		}
		return cache.NewDiskOpener(cache.DiskConfig{RootDir: dir, Compression: compression}), nil
	case "sqlite":
		db := c.CacheDB
		if db == "" {
			db = filepath.Join(defaultCacheDir(), "shards.db")
		}
		if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
			return nil, err
		}
		return sqlite.NewOpener(db, func(o *sqlite.Options) {
			o.Compression = compression
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache %q (want none, disk or sqlite)", c.Cache)
	}
}

// session is a configured loader plus the metrics registry it reports to.
type session struct {
	loader   *dictload.Loader
	registry *prometheus.Registry
	textfile string
}

func (c *config) open(ctx context.Context) (*session, error) {
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	src, err := c.source(ctx)
	if err != nil {
		return nil, err
	}
	opener, err := c.opener()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	opts := []dictload.Option{
		dictload.WithBasePath(c.BasePath),
		dictload.WithSource(src),
		dictload.WithLogger(logger),
		dictload.WithMetricsCollector(dlprom.NewCollector(dlprom.WithRegisterer(reg))),
		dictload.WithResourceController(resource.NewController(resource.Config{
			MaxConcurrentReads: c.MaxReads,
			IOLimitBytesPerSec: c.IOLimit,
		})),
	}
	if opener != nil {
		opts = append(opts, dictload.WithCache(opener))
	} else {
		opts = append(opts, dictload.WithoutCache())
	}

	l, err := dictload.New(opts...)
	if err != nil {
		return nil, err
	}
	return &session{loader: l, registry: reg, textfile: c.MetricsTextfile}, nil
}

// Close writes the metrics textfile, if configured, and closes the loader.
func (s *session) Close() error {
	var errs []error
	if s.textfile != "" {
		if err := prometheus.WriteToTextfile(s.textfile, s.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if err := s.loader.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
