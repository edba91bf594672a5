package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	"github.com/coursepilot/coursepilot/advisor/dispatch"
	"github.com/coursepilot/coursepilot/advisor/resolve"
	"github.com/coursepilot/coursepilot/advisor/session"
	"github.com/coursepilot/coursepilot/advisor/tool"
	configx "github.com/coursepilot/coursepilot/pkg/config"
	_ "github.com/coursepilot/coursepilot/pkg/logger/autoload"
	"github.com/coursepilot/coursepilot/pkg/soc"
)

type AppConfig struct {
	Term        string        `envconfig:"TERM"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"15m"`
	UnitCeiling float64       `envconfig:"UNIT_CEILING" default:"18"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	term, err := catalog.ParseTerm(appCfg.Term, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid term")
	}

	socCfg := configx.MustNew[soc.Config]("SOC")
	socClient := soc.MustNew(*socCfg)

	cache, err := catalog.NewCache(socClient, term, catalog.WithTTL(appCfg.CacheTTL))
	if err != nil {
		log.Fatal().Err(err).Msg("build catalog cache")
	}

	resolver, err := resolve.New(cache)
	if err != nil {
		log.Fatal().Err(err).Msg("build resolver")
	}

	dispatcher, err := dispatch.New(cache, resolver, dispatch.Config{UnitCeiling: appCfg.UnitCeiling})
	if err != nil {
		log.Fatal().Err(err).Msg("build dispatcher")
	}

	// The embedding front end binds tool.Infos() to its chat model and
	// forwards tool calls through the executor per session.
	store := session.NewMemoryStore()
	executor := tool.NewExecutor(dispatcher)
	_, _ = store, executor

	log.Info().
		Str("term", term.String()).
		Int("operations", len(tool.Infos())).
		Msg("schedule advisor core ready")
}
