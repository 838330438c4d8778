// Command ingestd runs the internship posting ingestion service: a
// scheduled crawl across registered job boards that classifies, stores,
// and announces internship postings.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
