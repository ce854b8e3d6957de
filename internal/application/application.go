package application

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/mpvtunes/internal/configuration"
	"source.hodakov.me/hdkv/mpvtunes/internal/domains"
)

type App struct {
	ctx    context.Context
	logger *logrus.Entry
	config *configuration.Config

	domains      map[string]domains.Domain
	domainsMutex sync.RWMutex
}

func (a *App) Config() *configuration.Config {
	return a.config
}

func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) Logger() *logrus.Entry {
	return a.logger
}

func New(ctx context.Context) *App {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	app := new(App)

	// Initialize standard logger with memory stats and context attached permanently.
	logger := logrus.StandardLogger()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	app.logger = logger.WithContext(ctx).WithFields(logrus.Fields{
		"memalloc": fmt.Sprintf("%dMB", m.Alloc/1024/1024),
		"memsys":   fmt.Sprintf("%dMB", m.Sys/1024/1024),
		"numgc":    fmt.Sprintf("%d", m.NumGC),
	})

	app.ctx = ctx

	app.domains = make(map[string]domains.Domain)

	return app
}

// InitConfig loads the configuration from customPath, or from the
// environment and default locations when customPath is empty.
func (a *App) InitConfig(customPath string) error {
	config, err := configuration.New(customPath)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrConfigInitializationError, err)
	}

	a.config = config

	return nil
}

// SetConfig replaces the configuration. Used by tests and by commands that
// build the configuration themselves.
func (a *App) SetConfig(config *configuration.Config) {
	a.config = config
}

func (a *App) InitLogger() {
	a.logger.Logger.SetLevel(a.config.LogLevel)

	a.logger.WithField("log level", a.config.LogLevel).Debug("Set log level")
}

func (a *App) RegisterDomain(name string, implementation domains.Domain) {
	a.domainsMutex.Lock()
	defer a.domainsMutex.Unlock()

	a.domains[name] = implementation
}

func (a *App) RetrieveDomain(name string) any {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	return a.domains[name]
}

func (a *App) ConnectDependencies() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	for _, domain := range a.domains {
		err := domain.ConnectDependencies()
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrConnectDependencies, err)
		}
	}

	return nil
}

func (a *App) StartDomains() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	for _, domain := range a.domains {
		err := domain.Start()
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrDomainInit, err)
		}
	}

	return nil
}

// StopDomains releases resources held by domains that own any (staging
// directories, player processes). All domains are stopped even if some fail;
// the first error is returned.
func (a *App) StopDomains() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	var firstErr error

	for name, domain := range a.domains {
		stoppable, ok := domain.(domains.Stoppable)
		if !ok {
			continue
		}

		err := stoppable.Stop()
		if err != nil {
			a.logger.WithError(err).WithField("domain", name).Warn("Failed to stop domain")

			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %w (%w)", ErrApplication, ErrDomainStop, err)
			}
		}
	}

	return firstErr
}
