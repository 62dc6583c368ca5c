// Package di builds the server object graph. Providers adapt config values
// to each package's constructor; wire_gen.go is regenerated with `wire`.
package di

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/auth"
	"github.com/santiago-ondris/wheels-house-sub002/internal/cache"
	"github.com/santiago-ondris/wheels-house-sub002/internal/config"
	"github.com/santiago-ondris/wheels-house-sub002/internal/daily"
	"github.com/santiago-ondris/wheels-house-sub002/internal/game"
	"github.com/santiago-ondris/wheels-house-sub002/internal/httpserver"
	"github.com/santiago-ondris/wheels-house-sub002/internal/metrics"
	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
	"github.com/santiago-ondris/wheels-house-sub002/internal/wheelword"
	"github.com/santiago-ondris/wheels-house-sub002/internal/words"
)

// cacheTTLSeconds bounds a cached day's metadata; it stays valid all day.
const cacheTTLSeconds = 36 * 60 * 60

// WordLists is the loaded bank plus dictionary.
type WordLists struct {
	Bank       *words.Bank
	Dictionary *words.Dictionary
}

var ProviderSet = wire.NewSet(
	ProvideStore,
	ProvideWordLists,
	ProvideBank,
	ProvideDictionary,
	ProvideSelector,
	ProvideCache,
	ProvideMetrics,
	ProvideWheelwordOptions,
	ProvideAuthOptions,
	ProvideServerOptions,
	wheelword.NewService,
	auth.NewService,
	httpserver.New,
)

// ProvideStore opens the configured backend. The cleanup closes it.
func ProvideStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case "memory":
		st = store.NewMemoryStore()
	default:
		st, err = store.Open(ctx, store.Driver(cfg.DatabaseDriver), cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("store ready")
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}
	return st, cleanup, nil
}

func ProvideWordLists(cfg *config.Config) (*WordLists, error) {
	bank, dict, err := words.Load(cfg.BankFile, cfg.DictionaryFile)
	if err != nil {
		return nil, err
	}
	log.Info().Int("bank", bank.Len()).Int("dictionary", dict.Len()).Msg("word lists loaded")
	return &WordLists{Bank: bank, Dictionary: dict}, nil
}

func ProvideBank(wl *WordLists) *words.Bank { return wl.Bank }

func ProvideDictionary(wl *WordLists) game.Dictionary { return wl.Dictionary }

func ProvideSelector(cfg *config.Config, bank *words.Bank) (*daily.Selector, error) {
	epoch, err := cfg.EpochTime()
	if err != nil {
		return nil, err
	}
	return daily.NewSelector(bank, daily.Options{
		Epoch:    epoch,
		Strategy: daily.Strategy(cfg.Strategy),
		Salt:     cfg.Salt,
	})
}

func ProvideCache(cfg *config.Config) cache.Cache {
	return cache.New(cfg.CacheSizeMB, cacheTTLSeconds)
}

func ProvideMetrics(cfg *config.Config) metrics.Recorder {
	return metrics.New(cfg.MetricsEnabled)
}

func ProvideWheelwordOptions(cfg *config.Config) wheelword.Options {
	return wheelword.Options{ShareURL: cfg.ShareURL}
}

func ProvideAuthOptions(cfg *config.Config) auth.Options {
	return auth.Options{Secret: cfg.JWTSecret, ExpiresDays: cfg.JWTExpiresDays}
}

func ProvideServerOptions(cfg *config.Config) httpserver.Options {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return httpserver.Options{
		Addr:           cfg.Addr(),
		ClientOrigin:   cfg.ClientOrigin,
		CookieName:     cfg.CookieName,
		Production:     cfg.Production,
		RequestTimeout: timeout,
	}
}
