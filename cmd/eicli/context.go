package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"eicli/internal/config"
	"eicli/internal/history"
	"eicli/internal/logging"
	"eicli/internal/services/ai"
)

// historyPathEnv overrides where invocation history is stored.
const historyPathEnv = "EICLI_HISTORY_DB"

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	serviceOnce sync.Once
	service     *ai.Service

	// newService lets tests inject a service pointed at a fake endpoint.
	newService func(*config.Config, *slog.Logger) *ai.Service
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Resolve(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		var level, format string
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		if c.logFormatFlag != nil {
			format = *c.logFormatFlag
		}
		c.logger, c.loggerErr = logging.New(logging.Options{Level: level, Format: format})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) aiService() (*ai.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	c.serviceOnce.Do(func() {
		if c.newService != nil {
			c.service = c.newService(cfg, logger)
			return
		}
		c.service = ai.FromConfig(cfg, ai.WithLogger(logger))
	})
	return c.service, nil
}

func historyPath() (string, error) {
	if path, ok := os.LookupEnv(historyPathEnv); ok && strings.TrimSpace(path) != "" {
		return config.ExpandPath(path)
	}
	return config.ExpandPath("~/.local/share/eicli/history.db")
}

func (c *commandContext) openHistory() (*history.Store, error) {
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

// recordHistory persists one invocation outcome when state saving is
// enabled. History failures are logged, never surfaced: they must not mask
// the operation's own result.
func (c *commandContext) recordHistory(operation, model, detail string, start time.Time, callErr error) {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Workflow.SaveState {
		return
	}

	store, err := c.openHistory()
	if err != nil {
		c.warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	inv := history.Invocation{
		Operation:  operation,
		Model:      model,
		Detail:     detail,
		Status:     history.StatusOK,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if callErr != nil {
		inv.Status = history.StatusError
		inv.ErrorMessage = callErr.Error()
	}
	if err := store.Record(context.Background(), &inv); err != nil {
		c.warn("history record failed", "error", err)
	}
}

func (c *commandContext) warn(msg string, args ...any) {
	logger, err := c.ensureLogger()
	if err != nil {
		return
	}
	logger.Warn(msg, args...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
