package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sagescm/sage/cli"
	"github.com/sagescm/sage/ui"
)

func main() {
	// A .env in the working directory may carry SAGE_* or OPENAI_API_KEY.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		os.Exit(1)
	}
}
