package main

import (
	"plexus/internal/server"
	"plexus/internal/util"
	"plexus/pkg/logger"
	"plexus/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.New(console.Params{
		Debug:  debug,
		Prefix: "server",
	}))

	server.Init()
}
