/*
Copyright 2025 Pulseboard Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Pulseboard represents the CLI application, encapsulating the root Cobra command.
type Pulseboard struct {
	cmd *cobra.Command
}

// pulseInstance holds the runtime instance and its configuration, passed into
// subcommands after preRun wires them up.
type pulseInstance struct {
	pulse *pulseboard.Pulseboard
	cnf   *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the Pulseboard instance
// before running any command.
func preRun(app *pulseInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newPulse, err := pulseboard.NewPulseboard()
		if err != nil {
			log.Fatal(err)
		}

		app.pulse = newPulse
		app.cnf = cnf

		return nil
	}
}

// NewCLI creates the command-line interface for Pulseboard, with the start
// and demo subcommands.
func NewCLI() *Pulseboard {
	var configFile string
	p := &pulseInstance{}

	var rootCmd = &cobra.Command{
		Use:   "pulseboard",
		Short: "Integration event and sync health monitor",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./pulseboard.json", "Configuration file for pulseboard")
	rootCmd.PersistentPreRunE = preRun(p, &configFile)

	rootCmd.AddCommand(serverCommands(p))
	rootCmd.AddCommand(demoCommands(p))

	return &Pulseboard{cmd: rootCmd}
}

func (w Pulseboard) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
