package main

import (
	"github.com/datagems-eu/dmm/backend/internal/server"
	"github.com/datagems-eu/dmm/backend/internal/util"
	"github.com/datagems-eu/dmm/backend/pkg/logger"
	"github.com/datagems-eu/dmm/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
