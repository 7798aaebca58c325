// climate-etl fetches Wikipedia climate pages, classifies their climate
// tables and stores the monthly series.
//
// Usage:
//
//	climate-etl run [PAGES_FILE]
//	climate-etl parse [--markdown] FILE...
//	climate-etl validate RESULTS_FILE
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
