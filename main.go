package main

import (
	"os"

	"github.com/akarpov/weather-pipeline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
