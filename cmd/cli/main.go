// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strings"

	"nucleus-gateway/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("nucleus cli 0.1.0")
	case "health":
		runHealth()
	case "config":
		runConfig(args)
	case "personas":
		runPersonas()
	case "send":
		runSend(args)
	case "metrics":
		runMetrics(args)
	case "login":
		runLogin(args)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: nucleus <command> [args]")
	fmt.Println("  version                          - print version")
	fmt.Println("  health                           - check the API service")
	fmt.Println("  config [path]                    - print config summary (default configs/api.yaml)")
	fmt.Println("  personas                         - list configured personas")
	fmt.Println("  send <platform> <conv> <text..>  - submit a test interaction")
	fmt.Println("  metrics [prefix]                 - dump metrics, optionally filtered by prefix")
	fmt.Println("  login <adapter_id> <secret>      - obtain a JWT for subsequent calls")
}

func runHealth() {
	out, err := getHealth()
	if err != nil {
		fmt.Fprintf(os.Stderr, "health: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(out))
}

func runConfig(args []string) {
	path := "configs/api.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("api.host=%s\n", cfg.API.Host)
	fmt.Printf("api.port=%d\n", cfg.API.Port)
	fmt.Printf("queue.type=%s\n", cfg.Queue.Type)
	fmt.Printf("storage.metadata.type=%s\n", cfg.Storage.Metadata.Type)
	fmt.Printf("personas=%d\n", len(cfg.Personas))
}

func runPersonas() {
	personas, err := listPersonas()
	if err != nil {
		fmt.Fprintf(os.Stderr, "personas: %v\n", err)
		os.Exit(1)
	}
	for _, p := range personas {
		fmt.Println(prettyJSON(p))
	}
}

func runSend(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: nucleus send <platform> <conversation_id> <text...>")
		os.Exit(1)
	}
	out, err := sendInteraction(args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "send: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(out))
}

func runMetrics(args []string) {
	text, err := getMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
		os.Exit(1)
	}
	if len(args) == 0 {
		fmt.Print(text)
		return
	}
	prefix := args[0]
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			fmt.Println(line)
		}
	}
}

func runLogin(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: nucleus login <adapter_id> <secret>")
		os.Exit(1)
	}
	token, err := login(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
