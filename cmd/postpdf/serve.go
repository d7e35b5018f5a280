package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fwojciec/postpdf/fs"
	postpdfgin "github.com/fwojciec/postpdf/gin"
)

// spoolMaxAge is the age after which leftover transient files are swept
// at startup.
const spoolMaxAge = time.Hour

// Run executes the serve command. It blocks until the context is done or
// the process receives SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	spool := fs.NewSpool(c.TempDir)
	if n, err := spool.Sweep(spoolMaxAge, time.Now()); err != nil {
		deps.Logger.Warn("sweeping temp dir", "dir", c.TempDir, "err", err)
	} else if n > 0 {
		deps.Logger.Info("swept temp dir", "dir", c.TempDir, "removed", n)
	}

	srv := postpdfgin.NewServer(deps.Converter, deps.Renderers, spool,
		postpdfgin.WithLogger(deps.Logger),
		postpdfgin.WithRateLimit(c.RequestRate, max(int(c.RequestRate)*2, 1)),
	)
	if deps.Sessions != nil {
		srv.OnShutdown = deps.Sessions.Close
	}

	addr := ":" + strconv.Itoa(c.Port)
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", addr)
	return srv.Run(deps.Ctx, addr)
}
