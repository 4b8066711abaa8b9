package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ticataco/cs2chroma/pkg/chroma"
	"github.com/ticataco/cs2chroma/pkg/config"
	"github.com/ticataco/cs2chroma/pkg/dispatch"
	"github.com/ticataco/cs2chroma/pkg/gsi"
	"github.com/ticataco/cs2chroma/pkg/steam"

	"github.com/rs/zerolog/log"
)

// The config file written next to the binary on first run, used when
// no config paths are given.
const defaultConfigPath = "cs2chroma.yaml"

func loadConfig(configs []string) (*config.Config, error) {
	if len(configs) > 0 {
		return config.Process(configs)
	}

	conf, created, err := config.Ensure(defaultConfigPath)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("path", defaultConfigPath).Msg("wrote default configuration")
	}
	return conf, nil
}

func serveCommand(configs []string) error {
	conf, err := loadConfig(configs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !CLI.Serve.SkipInstall {
		if _, err := steam.InstallConfig(); err != nil {
			// The user can still install the config by hand.
			log.Error().Err(err).Msg("could not install gamestate config")
		}
	}

	control := chroma.NewControl(
		conf.Chroma.RegistrationURL,
		conf.Chroma.MaxFrameRate,
	)

	manager := gsi.NewManager(conf.ShowEffectsForOthers)
	dispatcher := dispatch.NewDispatcher(conf, control.Stack)

	monitor := gsi.NewMonitor(manager, control)
	if conf.CloseAfterGameClose {
		monitor.OnGameClose = cancel
	}

	go dispatcher.Poll(ctx, manager)
	go control.PollRender(ctx)
	go monitor.Poll(ctx)

	address := fmt.Sprintf("%s:%d", conf.Listen.Host, conf.Listen.Port)
	listener := gsi.NewListener(manager, address, conf.WatchFeed)

	errors := make(chan error, 1)
	go func() {
		errors <- listener.Serve(ctx)
	}()

	if len(CLI.Serve.Launch) > 0 {
		if err := steam.Launch(CLI.Serve.Launch); err != nil {
			log.Error().Err(err).Msg("launch failed")
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case <-interrupt:
		log.Info().Msg("shutting down")
	case <-ctx.Done():
	case err := <-errors:
		if err != nil {
			return err
		}
	}

	cancel()
	control.Disconnect(context.Background())
	return nil
}
