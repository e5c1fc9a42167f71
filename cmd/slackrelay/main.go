package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alexandre-normand/slackrelay"
	"github.com/alexandre-normand/slackrelay/config"
	"github.com/alexandre-normand/slackrelay/plugins"
	"github.com/alexandre-normand/slackrelay/server"
	"github.com/alexandre-normand/slackrelay/store"
	"github.com/alexandre-normand/slackrelay/store/datastoredb"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	name = "slackrelay"

	inFlightTableName  = "inFlightEvents"
	completedTableName = "completedEvents"
	contentTableName   = "eventContent"
)

var (
	configurationPath     = kingpin.Flag("configuration", "The path to the configuration file.").Required().String()
	logfile               = kingpin.Flag("log", "The path to the log file").OpenFile(os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	gcloudCredentialsFile = kingpin.Flag("gcloud-credentials", "The path to the google cloud credentials file used by the datastore deduplication backend").String()
)

func main() {
	kingpin.Version(slackrelay.VERSION)
	kingpin.Parse()

	v := config.NewViperWithDefaults()
	v.SetConfigFile(*configurationPath)
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error loading configuration file [%s]: %v", *configurationPath, err)
	}

	v.SetEnvPrefix(name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	options := make([]slackrelay.Option, 0)
	if *logfile != nil {
		options = append(options, slackrelay.OptionLogfile(*logfile))
	}

	storerOptions, err := dedupStorageOptions(v)
	if err != nil {
		log.Fatalf("Error setting up deduplication storage: %v", err)
	}
	options = append(options, storerOptions...)

	bot, err := slackrelay.NewBot(name, v, options...).
		WithFactories(plugins.Factories()).
		Build()
	if err != nil {
		log.Fatalf("Error setting up bot: %v", err)
	}
	defer bot.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if runErr := bot.Run(ctx); runErr != nil {
			log.Printf("Error running bot: %v", runErr)
		}

		cancel()
	}()

	serverOptions := []server.Option{server.OptionPort(v.GetInt(config.HTTPPortKey)), server.OptionDebug(v.GetBool(config.DebugKey))}
	if *logfile != nil {
		serverOptions = append(serverOptions, server.OptionLog(log.New(*logfile, "", log.LstdFlags)))
	}

	srv := server.New(bot, v.GetString(config.SigningSecretKey), serverOptions...)
	if err = srv.Run(ctx); err != nil {
		log.Fatalf("Error running HTTP server: %v", err)
	}
}

// dedupStorageOptions builds the bot options overriding the deduplication storage
// according to the configured backend. The default in-memory backend requires no
// option at all. The storers are closed by the bot on shutdown
func dedupStorageOptions(v *viper.Viper) (options []slackrelay.Option, err error) {
	switch backend := v.GetString(config.DedupBackendKey); backend {
	case config.MemoryBackend:
		return nil, nil
	case config.LevelDBBackend:
		return leveldbStorageOptions(v)
	case config.DatastoreBackend:
		return datastoreStorageOptions(v)
	default:
		return nil, fmt.Errorf("invalid deduplication backend [%s]", backend)
	}
}

func leveldbStorageOptions(v *viper.Viper) (options []slackrelay.Option, err error) {
	storagePath := v.GetString(config.StoragePathKey)

	inFlight, err := store.NewLevelDB(inFlightTableName, storagePath)
	if err != nil {
		return nil, err
	}

	completed, err := store.NewLevelDB(completedTableName, storagePath)
	if err != nil {
		return nil, err
	}

	content, err := store.NewLevelDB(contentTableName, storagePath)
	if err != nil {
		return nil, err
	}

	return []slackrelay.Option{slackrelay.OptionInFlightStorer(inFlight), slackrelay.OptionCompletedStorer(completed), slackrelay.OptionContentStorer(content)}, nil
}

func datastoreStorageOptions(v *viper.Viper) (options []slackrelay.Option, err error) {
	projectID := v.GetString(config.GCloudProjectIDKey)

	clientOpts := make([]option.ClientOption, 0)
	if *gcloudCredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(*gcloudCredentialsFile))
	}

	inFlight, err := datastoredb.New(inFlightTableName, projectID, clientOpts...)
	if err != nil {
		return nil, err
	}

	completed, err := datastoredb.New(completedTableName, projectID, clientOpts...)
	if err != nil {
		return nil, err
	}

	content, err := datastoredb.New(contentTableName, projectID, clientOpts...)
	if err != nil {
		return nil, err
	}

	return []slackrelay.Option{slackrelay.OptionInFlightStorer(inFlight), slackrelay.OptionCompletedStorer(completed), slackrelay.OptionContentStorer(content)}, nil
}
