// cmd/hookforge/context.go
package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/config"
	"github.com/Corphon/HookForge/internal/di"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/utils"
)

type commandContext struct {
	dataDir string
	verbose bool

	servicesOnce sync.Once
	services     *app.Services
	servicesErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// ensureServices loads the configuration and builds the services once.
func (c *commandContext) ensureServices() (*app.Services, error) {
	c.servicesOnce.Do(func() {
		if c.services != nil {
			return
		}
		if c.verbose {
			utils.GetLogger().SetLogLevel(utils.DEBUG)
		} else {
			utils.GetLogger().Enable(false)
		}
		if err := config.InitConfig(strings.TrimSpace(c.dataDir)); err != nil {
			c.servicesErr = fmt.Errorf("load config: %w", err)
			return
		}
		svc, err := app.InitServicesWith(di.NewContainer(), config.GetCurrentConfig())
		if err != nil {
			c.servicesErr = err
			return
		}
		c.services = svc
	})
	return c.services, c.servicesErr
}

func (c *commandContext) close() {
	if c.services != nil {
		c.services.Close()
	}
}

// lastNotificationID marks where a command's own notifications begin.
func lastNotificationID(svc *app.Services) uint64 {
	var last uint64
	for _, n := range svc.Store.Notifications() {
		if n.ID > last {
			last = n.ID
		}
	}
	return last
}

// printNotifications writes the notifications queued after since.
func printNotifications(w io.Writer, svc *app.Services, since uint64) {
	for _, n := range svc.Store.Notifications() {
		if n.ID <= since {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", severityMark(n.Severity), n.Message)
	}
}

func severityMark(severity models.Severity) string {
	switch severity {
	case models.SeveritySuccess:
		return "[ok]"
	case models.SeverityWarning:
		return "[warn]"
	default:
		return "[error]"
	}
}

// withServices runs fn and reports the notifications it produced on stderr.
func (c *commandContext) withServices(stderr io.Writer, fn func(*app.Services) error) error {
	svc, err := c.ensureServices()
	if err != nil {
		return err
	}
	since := lastNotificationID(svc)
	err = fn(svc)
	printNotifications(stderr, svc, since)
	return err
}
