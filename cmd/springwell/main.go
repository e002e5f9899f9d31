package main

import (
	"os"

	// The site timezone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	appLog "springwell/internal/log"
)

func main() {
	err := Execute()
	appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}
