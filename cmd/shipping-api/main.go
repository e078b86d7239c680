package main

import (
	"fmt"
	"os"

	"github.com/envios-ar/shipping-tracker/internal/cli"
)

// @title                       Shipment Tracking API
// @version                     1.0
// @description                 Registers parcel shipments, issues ENV tracking codes and tracks their delivery lifecycle.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
