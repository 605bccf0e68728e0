package cli

import (
	"encoding/json"
	"fmt"
)

var version = "dev"

func PrintUsage() {
	fmt.Println("Usage: namesherpa [options] <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  firstnames [source dir]")
	fmt.Println("  surnames")
	fmt.Println("  lookup <name>")
	fmt.Println("  version")
	fmt.Println("Options:")
	fmt.Println("  -config <file>   TOML configuration file")
	fmt.Println("  -progress        show a progress bar on stderr")
	fmt.Println("  -v               verbose output")
}

func Version() {
	fmt.Printf("NameSherpa %s\n", version)
}

func printOutput(response interface{}) {
	jsonData, err := json.MarshalIndent(response, "", "    ")
	if err != nil {
		fmt.Println("Error marshalling JSON:", err)
		return
	}
	fmt.Println(string(jsonData))
}
