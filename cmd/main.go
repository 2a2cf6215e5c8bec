package main

import (
	"os"

	"github.com/soundprediction/clauso/cmd/clauso"
)

func main() {
	if err := clauso.Execute(); err != nil {
		os.Exit(1)
	}
}
