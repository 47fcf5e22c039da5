package main

import (
	"os"

	"zone_heating/internal/cli"
)

var version = "dev"

// @title                       Zone Heating API
// @version                     1.0
// @description                 Multi-zone heating control: schedules, manual overrides and live status.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
