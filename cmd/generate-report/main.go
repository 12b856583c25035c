// Command generate-report builds the report for one benchmark run directory.
//
//	generate-report <run_dir> <profile_name> [selected_categories_csv]
package main

import (
	"os"

	"github.com/daryltucker/bee-pagoda/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteGenerateReport())
}
