// Package main starts the repopac command.
package main

import (
	"fmt"

	"github.com/repopac/repopac/internal/cli"
	"github.com/repopac/repopac/internal/utils"
)

func main() {
	applicationLogger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError))
	}
	defer applicationLogger.Sync()

	if executionError := cli.Execute(); executionError != nil {
		applicationLogger.Fatal(utils.ApplicationExecutionFailedMessage + ": " + executionError.Error())
	}
}
