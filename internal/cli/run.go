// Package cli parses the juicy subcommands and runs one workflow per
// invocation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/QIN2DIM/juicy/app"
	"github.com/QIN2DIM/juicy/internal/common"
)

// Run parses args and executes the selected command. Returns the process
// exit code.
func Run(args []string, logger *zap.Logger) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(args) == 0 {
		printUsage()
		return 0
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	}

	cmd, err := parseCommand(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "juicy:", err)
		printUsage()
		return 2
	}

	if err := checkPlatform(); err != nil {
		logger.Error("unsupported environment", zap.Error(err))
		return 1
	}

	application := app.NewApplication(
		common.WithLogger(logger),
		common.WithCommand(cmd),
	)

	if err := application.Run(ctx); err != nil {
		// An operator interrupt exits silently instead of dumping a
		// stack trace mid-workflow.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return 0
		}
		logger.Error("command failed", zap.Error(err))
		return 1
	}
	return 0
}

// checkPlatform refuses to run outside root on Linux: every workflow writes
// unit files, certificates and system directories.
func checkPlatform() error {
	if runtime.GOOS != "linux" {
		return errors.New("this tool only runs on Linux")
	}
	if os.Geteuid() != 0 {
		return errors.New("switch to the root user before running this tool")
	}
	return nil
}

func printUsage() {
	fmt.Println(`juicy - juicity proxy scaffold

Usage:
  juicy install [-d domain] [--nekoray|--clash|--v2ray|--singbox]
  juicy remove [-d domain]
  juicy check [--nekoray|--clash|--v2ray|--singbox]
  juicy status
  juicy log
  juicy start
  juicy stop
  juicy restart`)
}
