package main

import (
	"fmt"
	"os"

	"github.com/iliyamo/rangbhumi-booking/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seatctl:", err)
		os.Exit(1)
	}
}
