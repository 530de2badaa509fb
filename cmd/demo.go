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
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// demoCommands returns the Cobra command that seeds a demo dataset and
// prints the resulting sync system overview.
func demoCommands(p *pulseInstance) *cobra.Command {
	var clients int
	var failures bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "seed mock sync data and print the system overview",
		Run: func(cmd *cobra.Command, args []string) {
			if err := p.pulse.GenerateMockData(clients, failures); err != nil {
				log.Fatalf("failed to generate demo data: %v", err)
			}

			overview := p.pulse.GetSystemOverview()
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(overview); err != nil {
				log.Fatalf("failed to encode overview: %v", err)
			}
		},
	}

	cmd.Flags().IntVar(&clients, "clients", 5, "number of demo clients to generate")
	cmd.Flags().BoolVar(&failures, "failures", true, "introduce failing and stale instances")
	return cmd
}
