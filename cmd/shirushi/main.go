// Package main is the Shirushi CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/backup"
	"github.com/hyperjump/shirushi/internal/cli"
	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/indexer"
	"github.com/hyperjump/shirushi/internal/keyword"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/search"
	"github.com/hyperjump/shirushi/internal/server"
	"github.com/hyperjump/shirushi/internal/storage"
	"github.com/hyperjump/shirushi/internal/watcher"
	"github.com/hyperjump/shirushi/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/shirushi/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence if it exists. Returns the config and the path
// that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "terms":
		runTerms()
	case "add":
		runAdd()
	case "delete":
		runDelete()
	case "import":
		runImport()
	case "reindex":
		runReindex()
	case "backup":
		runBackup()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("shirushi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (imports, watched files, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	idx := components.Indexer
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			n, err := idx.ImportFile(context.Background(), path)
			if err != nil {
				logger.Warn("watch import failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Info("export imported", zap.String("path", path), zap.Int("bookmarks", n))
		},
		watchOpts...,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watchSvc.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExisting()

	if cfg.Backup.Directory != "" {
		backup.NewScheduler(
			components.Storage,
			cfg.Backup.Directory,
			cfg.Backup.Keep,
			cfg.Backup.Interval,
			backup.WithLogger(logger),
		).Start(ctx)
	}

	srv := server.NewServer(
		components.Engine,
		idx,
		components.Storage,
		cfg,
		logger,
		watchSvc,
		resolvedConfigPath,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	watchSvc.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front so that flag.Parse sees them; the flag package stops at the first
// non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shirushi search [flags] [query]\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. An empty query lists the newest bookmarks.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Query syntax:
  word                 match word in title, url, description or tags
  field:value          restrict to a field (title, url, description/desc, tag/tags)
  field:"two words"    phrase value

Examples:
  shirushi search go concurrency
  shirushi search 'tag:go title:"pipelines and cancellation"'
  shirushi search --output json rust
`)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = open storage directly)")
	limit := fs.Int("limit", 0, "number of results (0 = configured default)")
	offset := fs.Int("offset", 0, "number of results to skip")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	colorFlag := fs.String("color", "auto", "highlight matches: auto, always, or never")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	colorMode, err := cli.ParseColorMode(*colorFlag)
	if err != nil {
		fatalf("%v", err)
	}

	query := &models.SearchQuery{
		Query:  buildSearchQuery(fs.Args()),
		Limit:  *limit,
		Offset: *offset,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		response = &models.SearchResponse{}
		if err := newAPIClient(*serverURL).do(http.MethodPost, "/api/v1/search", query, http.StatusOK, response); err != nil {
			fatalf("Search failed: %v", err)
		}
	} else {
		components, cleanup := openComponents(*configPath)
		defer cleanup()
		response, err = components.Engine.Search(context.Background(), query)
		if err != nil {
			fatalf("Search failed: %v", err)
		}
	}

	opts := cli.Options{Format: format, Color: cli.ResolveColors(colorMode)}
	if err := cli.WriteSearchResults(os.Stdout, response, opts); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runTerms() {
	fs := flag.NewFlagSet("terms", flag.ExitOnError)
	outputFormat := fs.String("output", "text", "output format: text (one term per line) or json")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fatalf("%v", err)
	}
	terms := search.ExtractTerms(buildSearchQuery(fs.Args()))
	if err := cli.WriteTerms(os.Stdout, terms, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

// parseTags splits a comma-separated tag list, dropping blanks.
func parseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runAdd() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = open storage directly)")
	title := fs.String("title", "", "bookmark title")
	description := fs.String("description", "", "bookmark description")
	tags := fs.String("tags", "", "comma-separated tags")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	if fs.NArg() != 1 {
		fatalf("Usage: shirushi add [flags] <url>")
	}
	input := &models.BookmarkInput{
		URL:         fs.Arg(0),
		Title:       *title,
		Description: *description,
		Tags:        parseTags(*tags),
	}

	var b *models.Bookmark
	if *serverURL != "" {
		b = &models.Bookmark{}
		if err := newAPIClient(*serverURL).do(http.MethodPost, "/api/v1/bookmarks", input, http.StatusCreated, b); err != nil {
			fatalf("Add failed: %v", err)
		}
	} else {
		components, cleanup := openComponents(*configPath)
		defer cleanup()
		var err error
		b, err = components.Indexer.IndexBookmark(context.Background(), input)
		if err != nil {
			fatalf("Add failed: %v", err)
		}
	}
	fmt.Printf("Bookmark saved: %s\n", b.ID)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = open storage directly)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fatalf("Usage: shirushi delete [flags] <bookmark-id>")
	}
	id := fs.Arg(0)

	if *serverURL != "" {
		if err := newAPIClient(*serverURL).do(http.MethodDelete, "/api/v1/bookmarks/"+url.PathEscape(id), nil, http.StatusOK, nil); err != nil {
			fatalf("Deletion failed: %v", err)
		}
	} else {
		components, cleanup := openComponents(*configPath)
		defer cleanup()
		if err := components.Indexer.DeleteBookmark(context.Background(), id); err != nil {
			fatalf("Deletion failed: %v", err)
		}
	}
	fmt.Printf("Bookmark deleted: %s\n", id)
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = open storage directly)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fatalf("Usage: shirushi import [flags] <export-file-or-directory>")
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fatalf("Invalid path: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		fatalf("Failed to stat path: %v", err)
	}

	var n int
	if *serverURL != "" {
		var out struct {
			Imported int `json:"imported"`
		}
		if err := newAPIClient(*serverURL).do(http.MethodPost, "/api/v1/import", map[string]string{"path": path}, http.StatusOK, &out); err != nil {
			fatalf("Import failed: %v", err)
		}
		n = out.Imported
	} else {
		components, cleanup := openComponents(*configPath)
		defer cleanup()
		ctx := context.Background()
		if info.IsDir() {
			n, err = components.Indexer.ImportDirectory(ctx, path, extract.ExportExtensions)
		} else {
			n, err = components.Indexer.ImportFile(ctx, path)
		}
		if err != nil {
			fatalf("Import failed after %d bookmark(s): %v", n, err)
		}
	}
	fmt.Printf("Imported %d bookmark(s) from %s\n", n, path)
}

func runReindex() {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = open storage directly)")
	_ = fs.Parse(os.Args[2:])

	var n int
	if *serverURL != "" {
		var out struct {
			Reindexed int `json:"reindexed"`
		}
		if err := newAPIClient(*serverURL).do(http.MethodPost, "/api/v1/reindex", nil, http.StatusOK, &out); err != nil {
			fatalf("Reindex failed: %v", err)
		}
		n = out.Reindexed
	} else {
		components, cleanup := openComponents(*configPath)
		defer cleanup()
		var err error
		n, err = components.Indexer.Reindex(context.Background())
		if err != nil {
			fatalf("Reindex failed: %v", err)
		}
	}
	fmt.Printf("Reindexed %d bookmark(s)\n", n)
}

func runBackup() {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL (empty = open storage directly)")
	dir := fs.String("dir", "", "backup directory (direct mode; default from config)")
	_ = fs.Parse(os.Args[2:])

	var path string
	if *serverURL != "" {
		var out struct {
			Path string `json:"path"`
		}
		if err := newAPIClient(*serverURL).do(http.MethodPost, "/api/v1/backup", nil, http.StatusCreated, &out); err != nil {
			fatalf("Backup failed: %v", err)
		}
		path = out.Path
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}
		backupDir := cfg.Backup.Directory
		if *dir != "" {
			backupDir = *dir
		}
		if backupDir == "" {
			fatalf("No backup directory: set backup.directory in the config or pass --dir")
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fatalf("Failed to open storage: %v", err)
		}
		defer store.Close()
		path, err = backup.Run(context.Background(), store, backupDir, cfg.Backup.Keep, time.Now())
		if err != nil {
			fatalf("Backup failed: %v", err)
		}
	}
	fmt.Printf("Backup written: %s\n", path)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DatabasePath    string  `json:"database_path,omitempty"`
	BleveIndexPath  string  `json:"bleve_index_path,omitempty"`
	DefaultLimit    int     `json:"default_limit,omitempty"`
	MaxLimit        int     `json:"max_limit,omitempty"`
	TitleBoost      float64 `json:"title_boost,omitempty"`
	BackupDirectory string  `json:"backup_directory,omitempty"`
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Bookmarks        int64                 `json:"bookmarks"`
	Indexed          uint64                `json:"indexed"`
	DiskUsageBytes   *int64                `json:"disk_usage_bytes,omitempty"`
	Backups          int                   `json:"backups,omitempty"`
	LatestBackup     string                `json:"latest_backup,omitempty"`
	WatchDirectories []string              `json:"watch_directories,omitempty"`
	Config           *statusConfigResponse `json:"config,omitempty"`
}

func localStatus(cfg *config.Config, components *Components) (*statusResponse, error) {
	count, err := components.Storage.CountBookmarks(context.Background())
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}
	status := &statusResponse{
		Bookmarks:        count,
		WatchDirectories: cfg.Watch.Directories,
		Config: &statusConfigResponse{
			DatabasePath:    cfg.Storage.DatabasePath,
			BleveIndexPath:  cfg.Storage.BleveIndexPath,
			DefaultLimit:    cfg.Search.DefaultLimit,
			MaxLimit:        cfg.Search.MaxLimit,
			TitleBoost:      cfg.Search.TitleBoost,
			BackupDirectory: cfg.Backup.Directory,
		},
	}
	if indexed, err := components.Engine.IndexSize(); err == nil {
		status.Indexed = indexed
	}
	paths := append(storage.DatabaseFiles(cfg.Storage.DatabasePath), cfg.Storage.BleveIndexPath, cfg.Backup.Directory)
	if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	if cfg.Backup.Directory != "" {
		if snapshots, err := backup.List(cfg.Backup.Directory); err == nil && len(snapshots) > 0 {
			status.Backups = len(snapshots)
			status.LatestBackup = snapshots[len(snapshots)-1]
		}
	}
	return status, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = open storage directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status *statusResponse
	if *serverURL != "" {
		status = &statusResponse{}
		if err := newAPIClient(*serverURL).do(http.MethodGet, "/api/v1/status", nil, http.StatusOK, status); err != nil {
			fatalf("Status failed: %v", err)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fatalf("Failed to load config: %v", err)
		}
		components, cleanup := mustInitialize(cfg)
		defer cleanup()
		status, err = localStatus(cfg, components)
		if err != nil {
			fatalf("Status failed: %v", err)
		}
	}

	switch *outputFormat {
	case "json":
		if err := cli.WriteJSON(os.Stdout, status); err != nil {
			fatalf("Output failed: %v", err)
		}
	case "text":
		printStatus(status)
	default:
		fatalf("Unknown output format %q; use text or json", *outputFormat)
	}
}

func printStatus(status *statusResponse) {
	fmt.Printf("bookmarks:          %d   # stored bookmarks\n", status.Bookmarks)
	fmt.Printf("indexed:            %d   # documents in keyword index\n", status.Indexed)
	if status.DiskUsageBytes != nil {
		fmt.Printf("disk_usage_bytes:   %d   # database + index + backups on disk\n", *status.DiskUsageBytes)
	}
	if status.Backups > 0 {
		fmt.Printf("backups:            %d\n", status.Backups)
		fmt.Printf("latest_backup:      %s\n", status.LatestBackup)
	}
	for _, d := range status.WatchDirectories {
		fmt.Printf("watching:           %s\n", d)
	}
	if c := status.Config; c != nil {
		fmt.Println()
		fmt.Println("# configuration")
		if c.DatabasePath != "" {
			fmt.Printf("database_path:      %s\n", c.DatabasePath)
		}
		if c.BleveIndexPath != "" {
			fmt.Printf("bleve_index_path:   %s\n", c.BleveIndexPath)
		}
		fmt.Printf("default_limit:      %d\n", c.DefaultLimit)
		fmt.Printf("max_limit:          %d\n", c.MaxLimit)
		fmt.Printf("title_boost:        %g\n", c.TitleBoost)
		if c.BackupDirectory != "" {
			fmt.Printf("backup_directory:   %s\n", c.BackupDirectory)
		}
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shirushi watch <add|remove|list> [path]")
		fmt.Println("  shirushi watch add <path>     Watch a directory for bookmark exports")
		fmt.Println("  shirushi watch remove <path>  Stop watching a directory")
		fmt.Println("  shirushi watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[3:])
	client := newAPIClient(*serverURL)

	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fatalf("Usage: shirushi watch add <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body := map[string]interface{}{"path": path, "sync": true}
		if err := client.do(http.MethodPost, "/api/v1/watch/directories", body, http.StatusCreated, nil); err != nil {
			fatalf("Add failed: %v", err)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fatalf("Usage: shirushi watch remove <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		if err := client.do(http.MethodDelete, "/api/v1/watch/directories?path="+url.QueryEscape(path), nil, http.StatusOK, nil); err != nil {
			fatalf("Remove failed: %v", err)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := client.do(http.MethodGet, "/api/v1/watch/directories", nil, http.StatusOK, &out); err != nil {
			fatalf("List failed: %v", err)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fatalf("Unknown watch subcommand: %s", sub)
	}
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	engine := search.NewEngine(store, keywordIndex, &cfg.Search)

	idxOpts := []indexer.IndexerOption{}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, keywordIndex, idxOpts...)

	return &Components{
		Storage:      store,
		KeywordIndex: keywordIndex,
		Engine:       engine,
		Indexer:      idx,
	}, nil
}

// mustInitialize opens storage and index for a one-shot command and exits on failure.
func mustInitialize(cfg *config.Config) (*Components, func()) {
	logger := utils.NewLoggerOrNop(cfg.Debug)
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fatalf("Failed to initialize: %v", err)
	}
	return components, func() {
		components.Close()
		_ = logger.Sync()
	}
}

func openComponents(configPath string) (*Components, func()) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	return mustInitialize(cfg)
}

func printUsage() {
	fmt.Println(`shirushi - Local bookmark search with highlighted matches

Usage:
  shirushi server [flags]                Start the HTTP server
  shirushi search [flags] [query]        Search bookmarks
  shirushi terms [flags] <query>         Print the terms a query highlights
  shirushi add [flags] <url>             Add or update a bookmark
  shirushi delete [flags] <id>           Delete a bookmark
  shirushi import [flags] <path>         Import a browser export file or directory
  shirushi reindex [flags]               Rebuild the keyword index from storage
  shirushi backup [flags]                Snapshot the bookmark database
  shirushi status [flags]                Show storage/index status
  shirushi watch <add|remove|list>       Manage watched export directories
  shirushi version                       Show version
  shirushi help                          Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shirushi/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to open storage directly.
  --limit int        Number of results (default from config)
  --offset int       Number of results to skip
  --output string    Output format: text, compact, or json (default: text)
  --color string     Highlight matches: auto, always, or never (default: auto)

Add Flags:
  --title string        Bookmark title
  --description string  Bookmark description
  --tags string         Comma-separated tags

add, delete, import, reindex and backup open storage directly unless --server is set.

Examples:
  shirushi server
  shirushi search go concurrency
  shirushi search 'tag:go title:"pipelines"'
  shirushi terms 'tag:"my tag" concurrency'
  shirushi add --title "Go Blog" --tags go,blog https://go.dev/blog/
  shirushi import ~/Downloads/bookmarks.html
  shirushi status --output json
  shirushi watch add ~/Downloads/bookmark-exports`)
}
