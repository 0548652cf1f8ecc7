// main is the entry point for the scholar CLI.
package main

import (
	"github.com/huangsam/scholar/cmd"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/iocache"
	"github.com/huangsam/scholar/internal/logger"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()

	// Deferred work does not run after os.Exit, so clean up before LogFatal.
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseStores()
	logger.Sync()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
