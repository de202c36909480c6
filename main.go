package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/blog-service/api"
	"github.com/rpupo63/blog-service/config"
	"github.com/rpupo63/blog-service/database"
	"github.com/rpupo63/blog-service/database/memory"
	"github.com/rpupo63/blog-service/models"
	"github.com/rpupo63/blog-service/search"
	"github.com/rpupo63/blog-service/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogger(c)

	if path := config.GetString(c, "CONFIG_SSM_PATH", ""); path != "" {
		if err := loadParameters(c, path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Error loading parameters from SSM")
		}
		setupLogger(c)
	}

	stores, closeStores, done := openStores(c)
	if done {
		return
	}
	defer closeStores()

	var index services.SearchIndex
	badgerIndex, err := search.Open(config.GetString(c, "SEARCH_INDEX_DIR", ""))
	if err != nil {
		log.Warn().Err(err).Msg("Search index unavailable, saves will not be searchable")
		index = search.Unavailable{Err: err}
	} else {
		defer badgerIndex.Close()
		index = badgerIndex
	}

	calendar, err := archiveCalendar(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid archive settings")
	}
	blogs := services.NewBlogService(stores, index, calendar)

	errChannel := make(chan error)
	defer close(errChannel)

	server := api.NewServer(c, blogs)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully()
}

// setupLogger applies LOG_LEVEL and LOG_PRETTY to the global zerolog logger
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if config.GetBool(c, "LOG_PRETTY", false) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func loadParameters(c map[string]string, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := config.NewParameterStore(ctx)
	if err != nil {
		return err
	}
	merged, err := config.MergeParameters(ctx, store, path, c)
	if err != nil {
		return err
	}
	log.Info().Int("parameters", merged).Str("path", path).Msg("Loaded configuration from SSM")
	return nil
}

// openStores connects the persistence layer chosen by DB_TYPE. done reports
// that a schema command ran and the process should exit.
func openStores(c map[string]string) (stores services.Stores, closeStores func(), done bool) {
	dbType := config.GetString(c, "DB_TYPE", "postgres")
	log.Info().Str("dbType", dbType).Msg("Opening database")

	switch dbType {
	case "memory":
		store := memory.New()
		return services.Stores{
			Tx:         store,
			Blogs:      store.Blogs(),
			Archives:   store.Archives(),
			Comments:   store.Comments(),
			Categories: store.Categories(),
			Tags:       store.Tags(),
		}, func() {}, false
	case "postgres":
	default:
		log.Fatal().Str("dbType", dbType).Msg("Unsupported DB_TYPE")
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return stores, nil, true
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return stores, nil, true
	}

	if config.GetBool(c, "DB_AUTO_MIGRATE", false) {
		if err := models.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	d := database.New(db)
	closeStores = func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return services.Stores{
		Tx:         d,
		Blogs:      d.BlogRepo(),
		Archives:   d.ArchiveRepo(),
		Comments:   d.CommentRepo(),
		Categories: d.CategoryRepo(),
		Tags:       d.TagRepo(),
	}, closeStores, false
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

func archiveCalendar(c map[string]string) (models.ArchiveCalendar, error) {
	zone := config.GetString(c, "ARCHIVE_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return models.ArchiveCalendar{}, fmt.Errorf("ARCHIVE_TIMEZONE %q: %w", zone, err)
	}
	return models.ArchiveCalendar{
		Layout:   config.GetString(c, "ARCHIVE_NAME_LAYOUT", models.DefaultArchiveLayout),
		Location: loc,
	}, nil
}
