// Command popdash serves the Canada quarterly population dashboard and
// provides terminal summaries, parquet export, and data checks.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
